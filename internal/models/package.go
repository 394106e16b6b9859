package models

// Package is a service package offering as exchanged with /api/packages-server.
// Nullable columns are pointers so that JSON null round-trips unchanged.
type Package struct {
	ID           *int64   `json:"id,omitempty"`
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Price        *float64 `json:"price"`
	DeliveryTime *string  `json:"delivery_time"`
	Features     []string `json:"features"`
	Category     *string  `json:"category"`
	IsActive     bool     `json:"is_active"`
	DisplayOrder *int     `json:"display_order"`
}

// Clone returns a deep copy of p. Pointer fields and the features slice are
// never shared with the original.
func (p Package) Clone() Package {
	out := p
	if p.ID != nil {
		id := *p.ID
		out.ID = &id
	}
	if p.Price != nil {
		price := *p.Price
		out.Price = &price
	}
	if p.DeliveryTime != nil {
		dt := *p.DeliveryTime
		out.DeliveryTime = &dt
	}
	if p.Category != nil {
		cat := *p.Category
		out.Category = &cat
	}
	if p.DisplayOrder != nil {
		order := *p.DisplayOrder
		out.DisplayOrder = &order
	}
	if p.Features != nil {
		out.Features = append(make([]string, 0, len(p.Features)), p.Features...)
	}
	return out
}

// PackageEvent is published to the message broker after a mutation.
type PackageEvent struct {
	Type      string   `json:"type"`
	PackageID int64    `json:"package_id"`
	Title     string   `json:"title,omitempty"`
	Package   *Package `json:"package,omitempty"`
}

const (
	EventPackageCreated = "package.created"
	EventPackageUpdated = "package.updated"
	EventPackageDeleted = "package.deleted"
)
