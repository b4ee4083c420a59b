package controllers

import (
	"strconv"
	"tahfidz_go/database"
	"tahfidz_go/middleware"
	"tahfidz_go/models"

	"github.com/gofiber/fiber/v2"
)

type KelasController struct{}

// GetKelas returns all kelas with santri counts
func (kc *KelasController) GetKelas(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Kelas{})

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var kelas []models.Kelas
	if err := query.Order("name ASC").Find(&kelas).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch kelas"})
	}

	type kelasWithCount struct {
		models.Kelas
		SantriCount int64 `json:"santri_count"`
	}

	result := make([]kelasWithCount, 0, len(kelas))
	for _, k := range kelas {
		var count int64
		database.DB.Model(&models.Santri{}).Where("kelas_id = ? AND active = ?", k.ID, true).Count(&count)
		result = append(result, kelasWithCount{Kelas: k, SantriCount: count})
	}

	return c.JSON(fiber.Map{"kelas": result})
}

// GetKelasByID returns one kelas with its santris
func (kc *KelasController) GetKelasByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid kelas ID"})
	}

	var kelas models.Kelas
	if err := database.DB.Preload("Santris", "active = ?", true).Preload("Santris.Guru").
		First(&kelas, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kelas not found"})
	}

	return c.JSON(fiber.Map{"kelas": kelas})
}

// CreateKelas creates a new kelas (admin only)
func (kc *KelasController) CreateKelas(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name is required"})
	}

	var existing models.Kelas
	if err := database.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Kelas name already exists"})
	}

	kelas := models.Kelas{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
	}
	if err := database.DB.Create(&kelas).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create kelas"})
	}

	middleware.LogActivity(c, "CREATE", "kelas", kelas.ID, fiber.Map{"name": kelas.Name})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Kelas created successfully",
		"kelas":   kelas,
	})
}

// UpdateKelas updates a kelas (admin only)
func (kc *KelasController) UpdateKelas(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid kelas ID"})
	}

	var kelas models.Kelas
	if err := database.DB.First(&kelas, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kelas not found"})
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Active      *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	if err := database.DB.Model(&kelas).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update kelas"})
	}

	middleware.LogActivity(c, "UPDATE", "kelas", kelas.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Kelas updated successfully",
		"kelas":   kelas,
	})
}

// DeleteKelas soft-deletes a kelas (admin only). Refused while santris are
// still assigned, to keep their grouping intact.
func (kc *KelasController) DeleteKelas(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid kelas ID"})
	}

	var kelas models.Kelas
	if err := database.DB.First(&kelas, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kelas not found"})
	}

	var santriCount int64
	database.DB.Model(&models.Santri{}).Where("kelas_id = ?", kelas.ID).Count(&santriCount)
	if santriCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Kelas still has santris assigned; reassign them first",
		})
	}

	if err := database.DB.Delete(&kelas).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete kelas"})
	}

	middleware.LogActivity(c, "DELETE", "kelas", kelas.ID, fiber.Map{"name": kelas.Name})

	return c.JSON(fiber.Map{"message": "Kelas deleted successfully"})
}
