package admin

import (
	"math"
	"strings"

	"pkgadmin/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// Mode is the state of the form.
type Mode int

const (
	ModeClosed Mode = iota
	ModeAdding
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	}
	return "unknown"
}

var validate = validator.New()

type featureRow struct {
	key   string
	value string
}

// Draft is the in-progress create/edit form. It never shares memory with the
// list store: records are copied in on OpenEdit and copied out by Record.
//
// Feature rows are addressable by index, as the form renders them, and by a
// stable key that survives removals of earlier rows.
type Draft struct {
	mode      Mode
	editingID *int64
	fields    models.Package // Features and ID are unused; see rows and editingID
	rows      []featureRow
}

// EmptyTemplate is the record a new draft starts from.
func EmptyTemplate() models.Package {
	return models.Package{
		Features: []string{},
		IsActive: true,
	}
}

// NewDraft returns a closed draft holding the empty template.
func NewDraft() *Draft {
	d := &Draft{}
	d.reset(ModeClosed)
	return d
}

func (d *Draft) reset(mode Mode) {
	d.mode = mode
	d.editingID = nil
	d.fields = EmptyTemplate()
	d.rows = nil
}

// OpenAdd discards whatever was being edited and starts a new record.
func (d *Draft) OpenAdd() {
	d.reset(ModeAdding)
}

// OpenEdit loads a copy of r. A record without a positive ID opens pre-filled
// but in adding mode, so submitting it creates a new record.
func (d *Draft) OpenEdit(r models.Package) {
	c := r.Clone()
	d.reset(ModeAdding)
	if c.ID != nil && *c.ID > 0 {
		d.mode = ModeEditing
		d.editingID = c.ID
	}
	d.fields = models.Package{
		Title:        c.Title,
		Description:  c.Description,
		Price:        c.Price,
		DeliveryTime: c.DeliveryTime,
		Category:     c.Category,
		IsActive:     c.IsActive,
		DisplayOrder: c.DisplayOrder,
	}
	for _, f := range c.Features {
		d.rows = append(d.rows, featureRow{key: uuid.NewString(), value: f})
	}
}

// Close hides the form and restores the empty template.
func (d *Draft) Close() {
	d.reset(ModeClosed)
}

func (d *Draft) Mode() Mode { return d.mode }

// EditingID returns the ID being edited, or nil when adding or closed.
func (d *Draft) EditingID() *int64 {
	if d.editingID == nil {
		return nil
	}
	id := *d.editingID
	return &id
}

func (d *Draft) SetTitle(s string)       { d.fields.Title = s }
func (d *Draft) SetDescription(s string) { d.fields.Description = s }
func (d *Draft) SetActive(active bool)   { d.fields.IsActive = active }

// SetCategory stores s, or null when s is empty.
func (d *Draft) SetCategory(s string) { d.fields.Category = nullableString(s) }

// SetDeliveryTime stores s, or null when s is empty.
func (d *Draft) SetDeliveryTime(s string) { d.fields.DeliveryTime = nullableString(s) }

// SetPrice parses a price field. Empty input stores null. On error the
// previous value is kept.
func (d *Draft) SetPrice(input string) error {
	v, err := parseNumber(input)
	if err != nil {
		return errors.Wrap(err, "price")
	}
	d.fields.Price = v
	return nil
}

// SetDisplayOrder parses the display order field. Empty input stores null;
// anything else must be a whole number. On error the previous value is kept.
func (d *Draft) SetDisplayOrder(input string) error {
	v, err := parseNumber(input)
	if err != nil {
		return errors.Wrap(err, "display order")
	}
	if v == nil {
		d.fields.DisplayOrder = nil
		return nil
	}
	if *v != math.Trunc(*v) || *v > math.MaxInt32 || *v < math.MinInt32 {
		return errors.Wrapf(ErrInvalidNumber, "display order %q is not a whole number", input)
	}
	order := int(*v)
	d.fields.DisplayOrder = &order
	return nil
}

// AddFeature appends an empty feature and returns its key.
func (d *Draft) AddFeature() string {
	key := uuid.NewString()
	d.rows = append(d.rows, featureRow{key: key})
	return key
}

// SetFeature replaces the feature at index i.
func (d *Draft) SetFeature(i int, value string) error {
	if i < 0 || i >= len(d.rows) {
		return errors.Wrapf(ErrFeatureIndex, "set feature %d of %d", i, len(d.rows))
	}
	d.rows[i].value = value
	return nil
}

// RemoveFeature deletes the feature at index i; later features shift down.
func (d *Draft) RemoveFeature(i int) error {
	if i < 0 || i >= len(d.rows) {
		return errors.Wrapf(ErrFeatureIndex, "remove feature %d of %d", i, len(d.rows))
	}
	d.rows = append(d.rows[:i:i], d.rows[i+1:]...)
	return nil
}

// FeatureKeys returns the stable keys of the feature rows in display order.
func (d *Draft) FeatureKeys() []string {
	keys := make([]string, len(d.rows))
	for i, r := range d.rows {
		keys[i] = r.key
	}
	return keys
}

func (d *Draft) SetFeatureByKey(key, value string) error {
	i := d.featureIndex(key)
	if i < 0 {
		return errors.Wrap(ErrFeatureKey, key)
	}
	return d.SetFeature(i, value)
}

func (d *Draft) RemoveFeatureByKey(key string) error {
	i := d.featureIndex(key)
	if i < 0 {
		return errors.Wrap(ErrFeatureKey, key)
	}
	return d.RemoveFeature(i)
}

func (d *Draft) featureIndex(key string) int {
	for i, r := range d.rows {
		if r.key == key {
			return i
		}
	}
	return -1
}

// Features returns the feature values in display order.
func (d *Draft) Features() []string {
	out := make([]string, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.value
	}
	return out
}

// Record returns the draft as a request body. It carries no ID; the target
// of an update is EditingID.
func (d *Draft) Record() models.Package {
	r := d.fields.Clone()
	r.ID = nil
	r.Features = d.Features()
	return r
}

// Validate applies the submit-time rules: the title must not be blank.
func (d *Draft) Validate() error {
	r := d.Record()
	r.Title = strings.TrimSpace(r.Title)
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Title" {
				return ErrTitleRequired
			}
		}
	}
	return errors.Wrap(err, "validate draft")
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseNumber(input string) (*float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidNumber, "%q", input)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.Wrapf(ErrInvalidNumber, "%q is not finite", input)
	}
	return &v, nil
}
