package controllers

import (
	"strconv"
	"tahfidz_go/database"
	"tahfidz_go/middleware"
	"tahfidz_go/models"
	"tahfidz_go/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SantriController struct{}

// CreateSantriRequest creates the shared guardian/santri account and the
// profile together
type CreateSantriRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=50"`
	Password      string `json:"password" validate:"required,min=6"`
	Email         string `json:"email"`
	FullName      string `json:"full_name" validate:"required"`
	NIS           string `json:"nis"`
	Gender        string `json:"gender"`
	DateOfBirth   string `json:"date_of_birth"` // YYYY-MM-DD
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	KelasID       *uint  `json:"kelas_id"`
	GuruID        *uint  `json:"guru_id"`
}

// GetSantris lists santris. Gurus see only their assigned santris.
func (sc *SantriController) GetSantris(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	query := database.DB.Model(&models.Santri{}).Preload("User").Preload("Kelas").Preload("Guru")

	if claims.Role == "guru" {
		guru, err := currentGuru(c)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No guru profile for this account"})
		}
		query = query.Where("guru_id = ?", guru.ID)
	}

	if kelasID := c.Query("kelas_id"); kelasID != "" {
		query = query.Where("kelas_id = ?", kelasID)
	}
	if guruID := c.Query("guru_id"); guruID != "" {
		query = query.Where("guru_id = ?", guruID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + utils.SanitizeString(search) + "%"
		query = query.Where("full_name LIKE ? OR nis LIKE ?", like, like)
	}

	var santris []models.Santri
	if err := query.Order("full_name ASC").Find(&santris).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch santris"})
	}

	return c.JSON(fiber.Map{"santris": santris})
}

// GetSantri returns one santri profile
func (sc *SantriController) GetSantri(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid santri ID"})
	}

	var santri models.Santri
	if err := database.DB.Preload("User").Preload("Kelas").Preload("Guru").
		First(&santri, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Santri not found"})
	}

	switch claims.Role {
	case "guru":
		guru, err := currentGuru(c)
		if err != nil || santri.GuruID == nil || *santri.GuruID != guru.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
	case "santri":
		if santri.UserID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
	}

	return c.JSON(fiber.Map{"santri": santri})
}

// CreateSantri creates the account and profile in one transaction (admin only)
func (sc *SantriController) CreateSantri(c *fiber.Ctx) error {
	var req CreateSantriRequest
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

	var dob *time.Time
	if req.DateOfBirth != "" {
		t, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		dob = &t
	}

	if req.KelasID != nil {
		var kelas models.Kelas
		if err := database.DB.First(&kelas, *req.KelasID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kelas not found"})
		}
	}
	if req.GuruID != nil {
		var guru models.Guru
		if err := database.DB.First(&guru, *req.GuruID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Guru not found"})
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var santri models.Santri
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Username: req.Username,
			Password: hashedPassword,
			Email:    req.Email,
			Role:     "santri",
			Status:   "active",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		santri = models.Santri{
			UserID:        user.ID,
			FullName:      req.FullName,
			NIS:           req.NIS,
			Gender:        req.Gender,
			DateOfBirth:   dob,
			GuardianName:  req.GuardianName,
			GuardianPhone: req.GuardianPhone,
			KelasID:       req.KelasID,
			GuruID:        req.GuruID,
			Active:        true,
		}
		return tx.Create(&santri).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create santri"})
	}

	database.DB.Preload("User").Preload("Kelas").Preload("Guru").First(&santri, santri.ID)

	middleware.LogActivity(c, "CREATE", "santris", santri.ID, fiber.Map{
		"username":  req.Username,
		"full_name": req.FullName,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Santri created successfully",
		"santri":  santri,
	})
}

// UpdateSantri updates profile fields (admin only)
func (sc *SantriController) UpdateSantri(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid santri ID"})
	}

	var santri models.Santri
	if err := database.DB.First(&santri, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Santri not found"})
	}

	var req struct {
		FullName      *string `json:"full_name"`
		NIS           *string `json:"nis"`
		Gender        *string `json:"gender"`
		DateOfBirth   *string `json:"date_of_birth"`
		GuardianName  *string `json:"guardian_name"`
		GuardianPhone *string `json:"guardian_phone"`
		Active        *bool   `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.FullName != nil && *req.FullName != "" {
		updates["full_name"] = *req.FullName
	}
	if req.NIS != nil {
		updates["nis"] = *req.NIS
	}
	if req.Gender != nil {
		updates["gender"] = *req.Gender
	}
	if req.DateOfBirth != nil {
		t, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		updates["date_of_birth"] = t
	}
	if req.GuardianName != nil {
		updates["guardian_name"] = *req.GuardianName
	}
	if req.GuardianPhone != nil {
		updates["guardian_phone"] = *req.GuardianPhone
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No fields to update"})
	}

	if err := database.DB.Model(&santri).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update santri"})
	}

	middleware.LogActivity(c, "UPDATE", "santris", santri.ID, updates)

	return c.JSON(fiber.Map{
		"message": "Santri updated successfully",
		"santri":  santri,
	})
}

// AssignSantri moves a santri to a kelas and/or mentor guru (admin only).
// Passing null clears the assignment.
func (sc *SantriController) AssignSantri(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid santri ID"})
	}

	var santri models.Santri
	if err := database.DB.First(&santri, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Santri not found"})
	}

	var req struct {
		KelasID *uint `json:"kelas_id"`
		GuruID  *uint `json:"guru_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.KelasID != nil {
		var kelas models.Kelas
		if err := database.DB.Where("active = ?", true).First(&kelas, *req.KelasID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kelas not found or inactive"})
		}
	}
	if req.GuruID != nil {
		var guru models.Guru
		if err := database.DB.Where("active = ?", true).First(&guru, *req.GuruID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Guru not found or inactive"})
		}
	}

	if err := database.DB.Model(&santri).Updates(map[string]interface{}{
		"kelas_id": req.KelasID,
		"guru_id":  req.GuruID,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to assign santri"})
	}

	database.DB.Preload("Kelas").Preload("Guru").First(&santri, santri.ID)

	middleware.LogActivity(c, "UPDATE", "santris", santri.ID, fiber.Map{
		"action":   "assign",
		"kelas_id": req.KelasID,
		"guru_id":  req.GuruID,
	})

	return c.JSON(fiber.Map{
		"message": "Santri assignment updated",
		"santri":  santri,
	})
}

// DeleteSantri removes a santri (admin only). Memorization records and their
// tag rows go with the profile; the user account is deactivated.
func (sc *SantriController) DeleteSantri(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid santri ID"})
	}

	var santri models.Santri
	if err := database.DB.First(&santri, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Santri not found"})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id IN (?)", tx.
			Model(&models.MemorizationRecord{}).Select("id").Where("santri_id = ?", santri.ID)).
			Delete(&models.RecordTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("santri_id = ?", santri.ID).Delete(&models.MemorizationRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", santri.UserID).
			Update("status", "inactive").Error; err != nil {
			return err
		}
		return tx.Delete(&santri).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete santri"})
	}

	middleware.LogActivity(c, "DELETE", "santris", santri.ID, fiber.Map{"full_name": santri.FullName})

	return c.JSON(fiber.Map{"message": "Santri deleted successfully"})
}
