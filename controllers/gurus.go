package controllers

import (
	"strconv"
	"tahfidz_go/database"
	"tahfidz_go/middleware"
	"tahfidz_go/models"
	"tahfidz_go/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GuruController struct{}

// CreateGuruRequest creates the user account and guru profile together
type CreateGuruRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	FullName string `json:"full_name" validate:"required"`
	NIP      string `json:"nip"`
	Gender   string `json:"gender"`
}

// GetGurus returns all gurus with their assigned santri counts
func (gc *GuruController) GetGurus(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Guru{}).Preload("User")

	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("full_name LIKE ?", "%"+utils.SanitizeString(search)+"%")
	}

	var gurus []models.Guru
	if err := query.Order("full_name ASC").Find(&gurus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch gurus"})
	}

	type guruWithCount struct {
		models.Guru
		SantriCount int64 `json:"santri_count"`
	}

	result := make([]guruWithCount, 0, len(gurus))
	for _, g := range gurus {
		var count int64
		database.DB.Model(&models.Santri{}).Where("guru_id = ? AND active = ?", g.ID, true).Count(&count)
		result = append(result, guruWithCount{Guru: g, SantriCount: count})
	}

	return c.JSON(fiber.Map{"gurus": result})
}

// GetGuru returns one guru with their assigned santris
func (gc *GuruController) GetGuru(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid guru ID"})
	}

	var guru models.Guru
	if err := database.DB.Preload("User").Preload("Santris", "active = ?", true).Preload("Santris.Kelas").
		First(&guru, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Guru not found"})
	}

	return c.JSON(fiber.Map{"guru": guru})
}

// CreateGuru creates the user account and profile in one transaction (admin only)
func (gc *GuruController) CreateGuru(c *fiber.Ctx) error {
	var req CreateGuruRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Username == "" || req.Password == "" || req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username, password and full_name are required"})
	}

	var existing models.User
	if err := database.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var guru models.Guru
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username: req.Username,
			Password: hashedPassword,
			Email:    req.Email,
			Phone:    req.Phone,
			Role:     "guru",
			Status:   "active",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		guru = models.Guru{
			UserID:   user.ID,
			FullName: req.FullName,
			NIP:      req.NIP,
			Gender:   req.Gender,
			Active:   true,
		}
		return tx.Create(&guru).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create guru"})
	}

	database.DB.Preload("User").First(&guru, guru.ID)

	middleware.LogActivity(c, "CREATE", "gurus", guru.ID, fiber.Map{
		"username":  req.Username,
		"full_name": req.FullName,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Guru created successfully",
		"guru":    guru,
	})
}

// UpdateGuru updates profile fields (admin only)
func (gc *GuruController) UpdateGuru(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid guru ID"})
	}

	var guru models.Guru
	if err := database.DB.First(&guru, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Guru not found"})
	}

	var req struct {
		FullName *string `json:"full_name"`
		NIP      *string `json:"nip"`
		Gender   *string `json:"gender"`
		Phone    *string `json:"phone"`
		Active   *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.FullName != nil && *req.FullName != "" {
		updates["full_name"] = *req.FullName
	}
	if req.NIP != nil {
		updates["nip"] = *req.NIP
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	if err := database.DB.Model(&guru).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update guru"})
	}

	middleware.LogActivity(c, "UPDATE", "gurus", guru.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Guru updated successfully",
		"guru":    guru,
	})
}

// DeleteGuru soft-deletes a guru profile and deactivates the account (admin
// only). Refused while santris are still assigned: records reference the
// guru and mentorship must be handed over explicitly.
func (gc *GuruController) DeleteGuru(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid guru ID"})
	}

	var guru models.Guru
	if err := database.DB.First(&guru, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Guru not found"})
	}

	var santriCount int64
	database.DB.Model(&models.Santri{}).Where("guru_id = ?", guru.ID).Count(&santriCount)
	if santriCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Guru still has santris assigned; reassign them first",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", guru.UserID).
			Update("status", "inactive").Error; err != nil {
			return err
		}
		return tx.Delete(&guru).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete guru"})
	}

	middleware.LogActivity(c, "DELETE", "gurus", guru.ID, fiber.Map{"full_name": guru.FullName})

	return c.JSON(fiber.Map{"message": "Guru deleted successfully"})
}
