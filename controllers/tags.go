package controllers

import (
	"strconv"
	"tahfidz_go/database"
	"tahfidz_go/middleware"
	"tahfidz_go/models"

	"github.com/gofiber/fiber/v2"
)

type TagController struct{}

// GetTags returns master tags grouped for the submission form.
// Gurus and admins both read this list; only admins mutate it.
func (tc *TagController) GetTags(c *fiber.Ctx) error {
	query := database.DB.Model(&models.MasterTag{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	// Inactive tags stay out of the picker unless explicitly requested
	if c.Query("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var tags []models.MasterTag
	if err := query.Order("category ASC, text ASC").Find(&tags).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tags"})
	}

	grouped := make(map[string][]models.MasterTag)
	for _, tag := range tags {
		grouped[tag.Category] = append(grouped[tag.Category], tag)
	}

	return c.JSON(fiber.Map{
		"tags":    tags,
		"grouped": grouped,
	})
}

// CreateTag adds a master tag (admin only)
func (tc *TagController) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Category string `json:"category" validate:"required"`
		Text     string `json:"text" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Category == "" || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category and text are required"})
	}

	var existing models.MasterTag
	if err := database.DB.Where("category = ? AND text = ?", req.Category, req.Text).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Tag already exists"})
	}

	tag := models.MasterTag{
		Category: req.Category,
		Text:     req.Text,
		Active:   true,
	}
	if err := database.DB.Create(&tag).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create tag"})
	}

	middleware.LogActivity(c, "CREATE", "master_tags", tag.ID, fiber.Map{
		"category": tag.Category,
		"text":     tag.Text,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Tag created successfully",
		"tag":     tag,
	})
}

// UpdateTag edits or deactivates a master tag (admin only). Existing records
// keep their tag rows; deactivation only removes it from the picker.
func (tc *TagController) UpdateTag(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tag ID"})
	}

	var tag models.MasterTag
	if err := database.DB.First(&tag, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tag not found"})
	}

	var req struct {
		Category *string `json:"category"`
		Text     *string `json:"text"`
		Active   *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.Category != nil && *req.Category != "" {
		updates["category"] = *req.Category
	}
	if req.Text != nil && *req.Text != "" {
		updates["text"] = *req.Text
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	if err := database.DB.Model(&tag).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update tag"})
	}

	middleware.LogActivity(c, "UPDATE", "master_tags", tag.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Tag updated successfully",
		"tag":     tag,
	})
}

// DeleteTag soft-deletes a master tag (admin only). Refused while records
// still reference it; deactivate instead to retire a tag.
func (tc *TagController) DeleteTag(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid tag ID"})
	}

	var tag models.MasterTag
	if err := database.DB.First(&tag, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Tag not found"})
	}

	var usageCount int64
	database.DB.Model(&models.RecordTag{}).Where("tag_id = ?", tag.ID).Count(&usageCount)
	if usageCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Tag is referenced by existing records; deactivate it instead",
		})
	}

	if err := database.DB.Delete(&tag).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete tag"})
	}

	middleware.LogActivity(c, "DELETE", "master_tags", tag.ID, fiber.Map{"text": tag.Text})

	return c.JSON(fiber.Map{"message": "Tag deleted successfully"})
}
