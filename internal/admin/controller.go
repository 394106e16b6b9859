package admin

import (
	"context"
	"sync"

	"pkgadmin/internal/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Notifier shows a blocking alert.
type Notifier interface {
	Alert(ctx context.Context, message string)
}

// Controller mediates between screen actions and the packages API.
//
// Every mutation that succeeds is followed by a full reload of the list;
// local state is never patched from a response. The controller is meant to be
// driven by one goroutine. Its lock only keeps accessors consistent and is
// never held while a request is in flight.
type Controller struct {
	api     API
	confirm Confirmer
	notify  Notifier
	log     *zap.Logger

	mu     sync.Mutex
	store  *ListStore
	draft  *Draft
	saving bool
}

// NewController wires a controller. logger may be nil.
func NewController(api API, confirm Confirmer, notify Notifier, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:     api,
		confirm: confirm,
		notify:  notify,
		log:     logger,
		store:   NewListStore(),
		draft:   NewDraft(),
	}
}

// Load replaces the list with the server's. On failure the store reports a
// LoadError message and keeps the records it already had.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.store.BeginLoad()
	c.mu.Unlock()

	pkgs, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		loadErr := &LoadError{Message: loadErrorMessage(err), Err: err}
		c.store.Fail(loadErr.Message)
		c.log.Warn("loading packages failed", zap.Error(err))
		return loadErr
	}
	c.store.Replace(pkgs)
	c.log.Debug("packages loaded", zap.Int("count", len(pkgs)))
	return nil
}

func loadErrorMessage(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return MsgLoadFailed
	}
	if msg := errors.Cause(err).Error(); msg != "" {
		return msg
	}
	return MsgUnknownError
}

// OpenAdd opens an empty draft.
func (c *Controller) OpenAdd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.OpenAdd()
}

// OpenEdit opens a draft copied from r.
func (c *Controller) OpenEdit(r models.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.OpenEdit(r)
}

// Close closes the draft without saving. An in-flight submit is not aborted.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Close()
}

// Edit runs fn against the draft under the controller's lock.
func (c *Controller) Edit(fn func(d *Draft) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fn(c.draft)
}

// Submit sends the open draft: a create when no record is being edited, an
// update otherwise. On failure an alert is shown and the draft is left as
// it was. On success the draft is closed and the list reloaded; a failed
// reload only shows up in Status.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.saving {
		c.mu.Unlock()
		return ErrSubmitInProgress
	}
	if c.draft.Mode() == ModeClosed {
		c.mu.Unlock()
		return ErrDraftClosed
	}
	if err := c.draft.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	record := c.draft.Record()
	editingID := c.draft.EditingID()
	c.saving = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.saving = false
		c.mu.Unlock()
	}()

	var err error
	if editingID != nil && *editingID > 0 {
		err = c.api.Update(ctx, *editingID, record)
	} else {
		err = c.api.Create(ctx, record)
	}
	if err != nil {
		c.log.Warn("saving package failed", zap.Error(err))
		c.notify.Alert(ctx, MsgSaveFailed)
		return &SaveError{ID: editingID, Err: err}
	}

	c.mu.Lock()
	c.draft.Close()
	c.mu.Unlock()

	_ = c.Load(ctx)
	return nil
}

// Delete removes the record with the given id after the user confirms.
// A nil or non-positive id, or a declined confirmation, does nothing. A failed delete shows an
// alert and leaves the list as it is.
func (c *Controller) Delete(ctx context.Context, id *int64) error {
	if id == nil || *id <= 0 {
		return nil
	}
	ok, err := c.confirm.Confirm(ctx, MsgConfirmDelete)
	if err != nil {
		return errors.Wrap(err, "confirm delete")
	}
	if !ok {
		return nil
	}

	if err := c.api.Delete(ctx, *id); err != nil {
		c.log.Warn("deleting package failed", zap.Int64("id", *id), zap.Error(err))
		c.notify.Alert(ctx, MsgDeleteFailed)
		return &DeleteError{ID: *id, Err: err}
	}

	_ = c.Load(ctx)
	return nil
}

// Status reports the list phase.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Status()
}

// Visible returns the records matching query.
func (c *Controller) Visible(query string) []models.Package {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Visible(query)
}

// Find returns the loaded record with the given id.
func (c *Controller) Find(id int64) (models.Package, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Find(id)
}

// DraftRecord returns a snapshot of the draft's fields.
func (c *Controller) DraftRecord() models.Package {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Record()
}

// Mode reports whether the form is closed, adding or editing.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Mode()
}

// EditingID returns the id of the record being edited, if any.
func (c *Controller) EditingID() *int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.EditingID()
}

// Saving reports whether a submit is in flight.
func (c *Controller) Saving() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving
}
