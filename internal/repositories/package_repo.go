package repositories

import (
	"errors"

	"pkgadmin/internal/models"
)

// ErrPackageNotFound is returned when no package matches the requested ID.
var ErrPackageNotFound = errors.New("package not found")

// PackageRepository defines the interface for package data access.
// GetAll returns packages by display_order (nulls last), then by ID.
type PackageRepository interface {
	GetAll() ([]models.Package, error)
	GetByID(id int64) (*models.Package, error)
	Create(pkg *models.Package) error
	Update(id int64, pkg *models.Package) error
	Delete(id int64) error
}
