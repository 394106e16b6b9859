package admin

import (
	"strings"

	"pkgadmin/internal/models"
)

// Phase is the coarse state of the list.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// Status is what the screen renders above (or instead of) the table.
type Status struct {
	Phase   Phase
	Message string // set for PhaseError only
}

// ListStore caches the last successful list response.
//
// A failed reload records the error but keeps the previously loaded records,
// so Records and Visible may return stale data while Status reports an error.
// Loading takes precedence over an earlier error until the reload finishes.
type ListStore struct {
	records []models.Package
	loading bool
	errMsg  string
}

// NewListStore returns a store in the loading phase, as the screen is before
// its first response arrives.
func NewListStore() *ListStore {
	return &ListStore{records: []models.Package{}, loading: true}
}

// BeginLoad marks a reload as in flight.
func (s *ListStore) BeginLoad() {
	s.loading = true
}

// Replace swaps in a freshly loaded collection and clears any error.
// No merging takes place: the server's list wins.
func (s *ListStore) Replace(records []models.Package) {
	next := make([]models.Package, 0, len(records))
	for _, r := range records {
		next = append(next, r.Clone())
	}
	s.records = next
	s.loading = false
	s.errMsg = ""
}

// Fail ends a reload with an error message. Records are left untouched.
func (s *ListStore) Fail(message string) {
	if message == "" {
		message = MsgUnknownError
	}
	s.loading = false
	s.errMsg = message
}

// Status reports the current phase.
func (s *ListStore) Status() Status {
	switch {
	case s.loading:
		return Status{Phase: PhaseLoading}
	case s.errMsg != "":
		return Status{Phase: PhaseError, Message: s.errMsg}
	}
	return Status{Phase: PhaseReady}
}

// Records returns a copy of the whole collection in server order.
func (s *ListStore) Records() []models.Package {
	return s.Visible("")
}

// Visible returns copies of the records matching query; see Matches.
func (s *ListStore) Visible(query string) []models.Package {
	q := normalizeQuery(query)
	out := make([]models.Package, 0, len(s.records))
	for _, r := range s.records {
		if q == "" || matches(r, q) {
			out = append(out, r.Clone())
		}
	}
	return out
}

// Find returns a copy of the record with the given id.
func (s *ListStore) Find(id int64) (models.Package, bool) {
	for _, r := range s.records {
		if r.ID != nil && *r.ID == id {
			return r.Clone(), true
		}
	}
	return models.Package{}, false
}

// Matches reports whether the trimmed query is a case-insensitive substring of
// the record's title, description or category. A blank query matches all.
func Matches(p models.Package, query string) bool {
	q := normalizeQuery(query)
	return q == "" || matches(p, q)
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matches(p models.Package, q string) bool {
	category := ""
	if p.Category != nil {
		category = *p.Category
	}
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(category), q)
}
