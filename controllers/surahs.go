package controllers

import (
	"strconv"
	"tahfidz_go/database"
	"tahfidz_go/models"

	"github.com/gofiber/fiber/v2"
)

// SurahController serves the seeded Quran chapter reference data.
// Read-only: the 114 rows never change after seeding.
type SurahController struct{}

// GetSurahs returns all surahs in mushaf order
func (sc *SurahController) GetSurahs(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Surah{})

	if juz := c.Query("juz"); juz != "" {
		query = query.Where("juz = ?", juz)
	}

	var surahs []models.Surah
	if err := query.Order("id ASC").Find(&surahs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch surahs"})
	}

	return c.JSON(fiber.Map{"surahs": surahs})
}

// GetSurah returns one surah by its mushaf number (1..114)
func (sc *SurahController) GetSurah(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id < 1 || id > 114 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Surah number must be 1..114"})
	}

	var surah models.Surah
	if err := database.DB.First(&surah, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Surah not found"})
	}

	return c.JSON(fiber.Map{"surah": surah})
}
