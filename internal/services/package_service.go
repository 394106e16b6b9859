package services

import (
	"pkgadmin/internal/models"
	"pkgadmin/internal/repositories"

	"go.uber.org/zap"
)

// EventPublisher publishes package mutation events. It is implemented by
// *rabbitmq.Client.
type EventPublisher interface {
	PublishPackageEvent(event models.PackageEvent) error
}

// PackageService handles business logic related to packages.
type PackageService struct {
	repo      repositories.PackageRepository
	publisher EventPublisher
}

// NewPackageService creates a new PackageService. publisher may be nil, in
// which case no events are published.
func NewPackageService(repo repositories.PackageRepository, publisher EventPublisher) *PackageService {
	return &PackageService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAllPackages retrieves all packages.
func (s *PackageService) GetAllPackages() ([]models.Package, error) {
	return s.repo.GetAll()
}

// GetPackageByID retrieves a single package by its ID.
func (s *PackageService) GetPackageByID(id int64) (*models.Package, error) {
	return s.repo.GetByID(id)
}

// CreatePackage stores a new package. The stored record, including its new
// ID, is written back into pkg.
func (s *PackageService) CreatePackage(pkg *models.Package) error {
	if err := s.repo.Create(pkg); err != nil {
		return err
	}
	s.publish(models.EventPackageCreated, pkg)
	return nil
}

// UpdatePackage replaces the package with the given ID.
func (s *PackageService) UpdatePackage(id int64, pkg *models.Package) error {
	if err := s.repo.Update(id, pkg); err != nil {
		return err
	}
	s.publish(models.EventPackageUpdated, pkg)
	return nil
}

// DeletePackage deletes a package by its ID.
func (s *PackageService) DeletePackage(id int64) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish(models.EventPackageDeleted, &models.Package{ID: &id})
	return nil
}

// publish never fails the mutation; the row is already committed.
func (s *PackageService) publish(eventType string, pkg *models.Package) {
	if s.publisher == nil {
		return
	}
	event := models.PackageEvent{Type: eventType, Title: pkg.Title}
	if pkg.ID != nil {
		event.PackageID = *pkg.ID
	}
	if eventType != models.EventPackageDeleted {
		snapshot := pkg.Clone()
		event.Package = &snapshot
	}
	if err := s.publisher.PublishPackageEvent(event); err != nil {
		zap.S().Warnf("failed to publish %s event for package %d: %v", eventType, event.PackageID, err)
	}
}
