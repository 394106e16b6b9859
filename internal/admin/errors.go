package admin

import (
	"fmt"

	"github.com/pkg/errors"
)

// Hard-coded user-facing texts of the packages screen.
const (
	MsgLoadFailed    = "فشل في جلب البيانات"
	MsgUnknownError  = "خطأ غير معروف"
	MsgSaveFailed    = "فشل الحفظ"
	MsgDeleteFailed  = "فشل الحذف"
	MsgConfirmDelete = "هل تريد حذف هذا السجل؟"
)

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrSubmitInProgress = errors.New("a save is already in progress")
	ErrDraftClosed      = errors.New("no draft is open")
	ErrFeatureIndex     = errors.New("feature index out of range")
	ErrFeatureKey       = errors.New("unknown feature key")
	ErrInvalidNumber    = errors.New("invalid number")
)

// StatusError reports a non-2xx answer from the packages API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// LoadError is kept in the list store after a failed reload. Message is the
// text shown in place of the table.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string { return "load packages: " + e.Message }
func (e *LoadError) Unwrap() error { return e.Err }

// SaveError is returned by Controller.Submit when the API rejected the draft.
// ID is nil for a create.
type SaveError struct {
	ID  *int64
	Err error
}

func (e *SaveError) Error() string {
	if e.ID == nil {
		return fmt.Sprintf("create package: %v", e.Err)
	}
	return fmt.Sprintf("update package %d: %v", *e.ID, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// DeleteError is returned by Controller.Delete when the API refused the delete.
type DeleteError struct {
	ID  int64
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete package %d: %v", e.ID, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
