package handlers

import (
	"errors"
	"fmt"

	"pkgadmin/internal/models"
	"pkgadmin/internal/repositories"
	"pkgadmin/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PackageHandler handles HTTP requests for /packages-server.
type PackageHandler struct {
	service *services.PackageService
}

// NewPackageHandler creates a new PackageHandler.
func NewPackageHandler(service *services.PackageService) *PackageHandler {
	return &PackageHandler{
		service: service,
	}
}

// RegisterRoutes registers the package routes on router, normally the /api group.
func (h *PackageHandler) RegisterRoutes(router fiber.Router) {
	packageRoutes := router.Group("/packages-server")
	packageRoutes.Get("/", h.HandleGetPackages)
	packageRoutes.Post("/", h.HandleCreatePackage)
	packageRoutes.Get("/:id", h.HandleGetPackageByID)
	packageRoutes.Put("/:id", h.HandleUpdatePackage)
	packageRoutes.Delete("/:id", h.HandleDeletePackage)
}

// HandleGetPackages returns every package as a JSON array.
func (h *PackageHandler) HandleGetPackages(c *fiber.Ctx) error {
	pkgs, err := h.service.GetAllPackages()
	if err != nil {
		zap.S().Errorf("Error getting all packages: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve packages",
			"error":   err.Error(),
		})
	}
	return c.JSON(pkgs)
}

// HandleGetPackageByID retrieves a single package by its ID.
func (h *PackageHandler) HandleGetPackageByID(c *fiber.Ctx) error {
	id, ok := packageID(c)
	if !ok {
		return invalidID(c)
	}
	pkg, err := h.service.GetPackageByID(id)
	if err != nil {
		return h.mutationError(c, id, "Could not retrieve package", err)
	}
	return c.JSON(pkg)
}

// HandleCreatePackage creates a new package. The body is stored as sent.
func (h *PackageHandler) HandleCreatePackage(c *fiber.Ctx) error {
	var pkg models.Package
	if err := c.BodyParser(&pkg); err != nil {
		zap.S().Warnf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.CreatePackage(&pkg); err != nil {
		zap.S().Errorf("Error creating package: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create package",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(pkg)
}

// HandleUpdatePackage replaces the package identified by :id.
func (h *PackageHandler) HandleUpdatePackage(c *fiber.Ctx) error {
	id, ok := packageID(c)
	if !ok {
		return invalidID(c)
	}

	var pkg models.Package
	if err := c.BodyParser(&pkg); err != nil {
		zap.S().Warnf("Error parsing update request body for package %d: %v", id, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdatePackage(id, &pkg); err != nil {
		return h.mutationError(c, id, "Could not update package", err)
	}
	return c.JSON(pkg)
}

// HandleDeletePackage deletes the package identified by :id.
func (h *PackageHandler) HandleDeletePackage(c *fiber.Ctx) error {
	id, ok := packageID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.service.DeletePackage(id); err != nil {
		return h.mutationError(c, id, "Could not delete package", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Package %d deleted successfully", id),
	})
}

func (h *PackageHandler) mutationError(c *fiber.Ctx, id int64, message string, err error) error {
	if errors.Is(err, repositories.ErrPackageNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Package with ID %d not found", id),
		})
	}
	zap.S().Errorf("%s %d: %v", message, id, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func packageID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": fmt.Sprintf("Invalid package ID %q", c.Params("id")),
	})
}
