package admin

import (
	"io"
	"strings"

	"pkgadmin/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

// FeatureSeparator joins features into a single CSV cell.
const FeatureSeparator = " | "

type csvRow struct {
	ID           string `csv:"id"`
	Title        string `csv:"title"`
	Description  string `csv:"description"`
	Price        string `csv:"price"`
	DeliveryTime string `csv:"delivery_time"`
	Features     string `csv:"features"`
	Category     string `csv:"category"`
	IsActive     bool   `csv:"is_active"`
	DisplayOrder string `csv:"display_order"`
}

// ExportCSV writes records, with a header line, in the given order.
// Null fields become empty cells.
func ExportCSV(w io.Writer, records []models.Package) error {
	rows := make([]*csvRow, 0, len(records))
	for _, r := range records {
		row := &csvRow{
			Title:       r.Title,
			Description: r.Description,
			Features:    strings.Join(r.Features, FeatureSeparator),
			IsActive:    r.IsActive,
		}
		if r.ID != nil {
			row.ID = cast.ToString(*r.ID)
		}
		if r.Price != nil {
			row.Price = cast.ToString(*r.Price)
		}
		if r.DeliveryTime != nil {
			row.DeliveryTime = *r.DeliveryTime
		}
		if r.Category != nil {
			row.Category = *r.Category
		}
		if r.DisplayOrder != nil {
			row.DisplayOrder = cast.ToString(*r.DisplayOrder)
		}
		rows = append(rows, row)
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "export csv")
	}
	return nil
}
