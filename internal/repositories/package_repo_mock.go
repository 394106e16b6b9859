package repositories

import (
	"fmt"
	"sort"
	"sync"

	"pkgadmin/internal/models"
)

// MockPackageRepository is an in-memory implementation of PackageRepository.
type MockPackageRepository struct {
	packages map[int64]models.Package
	nextID   int64
	mu       sync.RWMutex
}

// NewMockPackageRepository creates a new instance of MockPackageRepository.
func NewMockPackageRepository() *MockPackageRepository {
	return &MockPackageRepository{
		packages: make(map[int64]models.Package),
		nextID:   1,
	}
}

// GetAll returns all packages in the same order as the GORM repository.
func (r *MockPackageRepository) GetAll() ([]models.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Package, 0, len(r.packages))
	for _, p := range r.packages {
		list = append(list, p.Clone())
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.DisplayOrder == nil && b.DisplayOrder != nil:
			return false
		case a.DisplayOrder != nil && b.DisplayOrder == nil:
			return true
		case a.DisplayOrder != nil && *a.DisplayOrder != *b.DisplayOrder:
			return *a.DisplayOrder < *b.DisplayOrder
		}
		return *a.ID < *b.ID
	})
	return list, nil
}

// GetByID returns a package by its ID.
func (r *MockPackageRepository) GetByID(id int64) (*models.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pkg, ok := r.packages[id]
	if !ok {
		return nil, fmt.Errorf("package with ID %d: %w", id, ErrPackageNotFound)
	}
	out := pkg.Clone()
	return &out, nil
}

// Create adds a new package and assigns it the next ID.
func (r *MockPackageRepository) Create(pkg *models.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	stored := pkg.Clone()
	stored.ID = &id
	if stored.Features == nil {
		stored.Features = []string{}
	}
	r.packages[id] = stored
	*pkg = stored.Clone()
	return nil
}

// Update replaces an existing package.
func (r *MockPackageRepository) Update(id int64, pkg *models.Package) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.packages[id]; !ok {
		return fmt.Errorf("package with ID %d not found for update: %w", id, ErrPackageNotFound)
	}
	stored := pkg.Clone()
	stored.ID = &id
	if stored.Features == nil {
		stored.Features = []string{}
	}
	r.packages[id] = stored
	*pkg = stored.Clone()
	return nil
}

// Delete removes a package by its ID.
func (r *MockPackageRepository) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.packages[id]; !ok {
		return fmt.Errorf("package with ID %d not found for deletion: %w", id, ErrPackageNotFound)
	}
	delete(r.packages, id)
	return nil
}
