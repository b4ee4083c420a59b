package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"tahfidz_go/database"
	"tahfidz_go/middleware"
	"tahfidz_go/models"
	"tahfidz_go/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReportController struct {
	service *services.ReportService
}

func NewReportController() *ReportController {
	return &ReportController{service: services.NewReportService()}
}

// canViewSantri applies the same visibility rule as record listing: santri
// accounts see themselves, gurus their assigned santris, admins everyone.
func canViewSantri(c *fiber.Ctx, santriID uint) (bool, error) {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return false, err
	}

	switch claims.Role {
	case "admin":
		return true, nil
	case "guru":
		guru, err := currentGuru(c)
		if err != nil {
			return false, nil
		}
		var santri models.Santri
		if err := database.DB.First(&santri, santriID).Error; err != nil {
			return false, nil
		}
		return santri.GuruID != nil && *santri.GuruID == guru.ID, nil
	case "santri":
		var santri models.Santri
		if err := database.DB.First(&santri, santriID).Error; err != nil {
			return false, nil
		}
		return santri.UserID == claims.UserID, nil
	}
	return false, nil
}

// GetSantriSummary returns the aggregate progress report for one santri
func (rc *ReportController) GetSantriSummary(c *fiber.Ctx) error {
	santriID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid santri ID"})
	}

	allowed, err := canViewSantri(c, uint(santriID))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	summary, err := rc.service.SantriSummary(uint(santriID))
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
		}
		logrus.WithError(err).Error("Santri summary failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	return c.JSON(fiber.Map{"summary": summary})
}

// GetKelasSummary returns the per-class report (guru or admin)
func (rc *ReportController) GetKelasSummary(c *fiber.Ctx) error {
	kelasID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid kelas ID"})
	}

	summary, err := rc.service.KelasSummary(uint(kelasID))
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
		}
		logrus.WithError(err).Error("Kelas summary failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	return c.JSON(fiber.Map{"summary": summary})
}

// ExportSantriRecords streams a santri's record history as an XLSX download
func (rc *ReportController) ExportSantriRecords(c *fiber.Ctx) error {
	santriID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid santri ID"})
	}

	allowed, err := canViewSantri(c, uint(santriID))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	if !allowed {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}

	data, fileName, err := rc.service.ExportSantriRecords(uint(santriID))
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
		}
		logrus.WithError(err).Error("Record export failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export records"})
	}

	middleware.LogActivity(c, "EXPORT", "records", uint(santriID), fiber.Map{"file": fileName})

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Send(data)
}
