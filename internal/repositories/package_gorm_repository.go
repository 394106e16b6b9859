package repositories

import (
	"errors"
	"fmt"
	"time"

	"pkgadmin/internal/models"

	"gorm.io/gorm"
)

// packageRow is the storage shape of a package. Features are kept as a JSON
// array in a text column so that order and duplicates survive.
type packageRow struct {
	ID           int64    `gorm:"primaryKey;autoIncrement"`
	Title        string   `gorm:"type:varchar(255);not null"`
	Description  string   `gorm:"type:text"`
	Price        *float64 `gorm:"type:numeric(12,2)"`
	DeliveryTime *string  `gorm:"type:varchar(100)"`
	Features     []string `gorm:"type:text;serializer:json"`
	Category     *string  `gorm:"type:varchar(100);index"`
	IsActive     bool
	DisplayOrder *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (packageRow) TableName() string {
	return "packages_server"
}

func rowFromModel(pkg *models.Package) packageRow {
	c := pkg.Clone()
	row := packageRow{
		Title:        c.Title,
		Description:  c.Description,
		Price:        c.Price,
		DeliveryTime: c.DeliveryTime,
		Features:     c.Features,
		Category:     c.Category,
		IsActive:     c.IsActive,
		DisplayOrder: c.DisplayOrder,
	}
	if row.Features == nil {
		row.Features = []string{}
	}
	return row
}

func (r packageRow) toModel() models.Package {
	id := r.ID
	features := r.Features
	if features == nil {
		features = []string{}
	}
	return models.Package{
		ID:           &id,
		Title:        r.Title,
		Description:  r.Description,
		Price:        r.Price,
		DeliveryTime: r.DeliveryTime,
		Features:     features,
		Category:     r.Category,
		IsActive:     r.IsActive,
		DisplayOrder: r.DisplayOrder,
	}
}

// GORMPackageRepository is a GORM implementation of PackageRepository.
type GORMPackageRepository struct {
	db *gorm.DB
}

// NewGORMPackageRepository creates a new instance of GORMPackageRepository.
func NewGORMPackageRepository(db *gorm.DB) *GORMPackageRepository {
	return &GORMPackageRepository{
		db: db,
	}
}

// AutoMigrate creates or updates the packages_server table.
func (r *GORMPackageRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&packageRow{}); err != nil {
		return fmt.Errorf("failed to migrate packages_server: %w", err)
	}
	return nil
}

// GetAll retrieves all packages from the database.
func (r *GORMPackageRepository) GetAll() ([]models.Package, error) {
	var rows []packageRow
	err := r.db.
		Order("display_order IS NULL").
		Order("display_order").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all packages: %w", err)
	}
	pkgs := make([]models.Package, 0, len(rows))
	for _, row := range rows {
		pkgs = append(pkgs, row.toModel())
	}
	return pkgs, nil
}

// GetByID retrieves a single package by its ID from the database.
func (r *GORMPackageRepository) GetByID(id int64) (*models.Package, error) {
	var row packageRow
	if err := r.db.First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("package with ID %d: %w", id, ErrPackageNotFound)
		}
		return nil, fmt.Errorf("failed to get package by ID %d: %w", id, err)
	}
	pkg := row.toModel()
	return &pkg, nil
}

// Create inserts a new package and writes the assigned ID back into pkg.
// Any client-supplied ID is ignored.
func (r *GORMPackageRepository) Create(pkg *models.Package) error {
	row := rowFromModel(pkg)
	if err := r.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	*pkg = row.toModel()
	return nil
}

// Update overwrites every column of the package with the given ID.
func (r *GORMPackageRepository) Update(id int64, pkg *models.Package) error {
	var existing packageRow
	if err := r.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("package with ID %d not found for update: %w", id, ErrPackageNotFound)
		}
		return fmt.Errorf("failed to load package %d for update: %w", id, err)
	}

	row := rowFromModel(pkg)
	row.ID = existing.ID
	row.CreatedAt = existing.CreatedAt
	// Save writes zero values too, so clearing a nullable column works.
	if err := r.db.Save(&row).Error; err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	*pkg = row.toModel()
	return nil
}

// Delete deletes a package by its ID from the database.
func (r *GORMPackageRepository) Delete(id int64) error {
	res := r.db.Delete(&packageRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete package: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("package with ID %d not found for deletion: %w", id, ErrPackageNotFound)
	}
	return nil
}
