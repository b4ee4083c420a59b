package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"tahfidz_go/database"
	"tahfidz_go/middleware"
	"tahfidz_go/models"
	"tahfidz_go/services"
	"tahfidz_go/services/notifications"
	"tahfidz_go/utils"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type RecordController struct {
	service  *services.RecordService
	validate *validator.Validate
}

func NewRecordController() *RecordController {
	return &RecordController{
		service:  services.NewRecordService(),
		validate: validator.New(),
	}
}

// recordErrorResponse maps service errors onto HTTP statuses. Domain-policy
// refusals (cross-surah conflict, elapsed window) get explicit messages so
// the UI can distinguish them from plain validation failures.
func recordErrorResponse(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Msg})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Error()})
	case errors.Is(err, services.ErrSantriNotAssigned):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Santri is not assigned to you"})
	case errors.Is(err, services.ErrNotRecordOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Record belongs to another guru"})
	case errors.Is(err, services.ErrEditWindowElapsed):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Record can no longer be modified: the 24-hour window has elapsed"})
	case errors.Is(err, services.ErrCrossSurahMerge):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A record for a different surah already exists today; merging across surahs is not supported",
		})
	default:
		logrus.WithError(err).Error("Record operation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}

// currentGuru resolves the guru profile of the authenticated user
func currentGuru(c *fiber.Ctx) (*models.Guru, error) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return nil, err
	}
	var guru models.Guru
	if err := database.DB.Where("user_id = ?", user.ID).First(&guru).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "No guru profile for this account")
	}
	return &guru, nil
}

// SubmitRecord records a memorization session. Same-day resubmissions for the
// same (santri, session type) merge into the existing record.
func (rc *RecordController) SubmitRecord(c *fiber.Ctx) error {
	guru, err := currentGuru(c)
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var input services.SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := rc.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := rc.service.Submit(guru.ID, input)
	if err != nil {
		return recordErrorResponse(c, err)
	}

	// Reload with relations for the response
	var record models.MemorizationRecord
	if err := database.DB.Preload("Santri").Preload("Guru").Preload("Surah").Preload("Tags.Tag").
		First(&record, result.Record.ID).Error; err != nil {
		logrus.WithError(err).Error("Failed to reload record after submit")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	middleware.LogActivity(c, "SUBMIT", "records", record.ID, fiber.Map{
		"outcome":      result.Outcome,
		"santri_id":    record.SantriID,
		"session_type": record.SessionType,
	})

	rc.notifySantri(record, result.Outcome)

	response := fiber.Map{
		"message": "Record created successfully",
		"outcome": result.Outcome,
		"record":  utils.ToRecordDTO(record, services.CanModify(record.CreatedAt, rc.service.Clock.Now())),
	}
	status := fiber.StatusCreated
	if result.Outcome == services.OutcomeMerged {
		response["message"] = "Record merged into today's existing entry"
		response["previous_range"] = fiber.Map{
			"ayah_start": result.PreviousStart,
			"ayah_end":   result.PreviousEnd,
		}
		status = fiber.StatusOK
	}

	return c.Status(status).JSON(response)
}

// notifySantri pushes a notification to the santri's user account (shared
// with the guardian) whenever a session is recorded.
func (rc *RecordController) notifySantri(record models.MemorizationRecord, outcome string) {
	sessionLabel := "Ziyadah"
	if record.SessionType == models.SessionMurajaah {
		sessionLabel = "Murajaah"
	}
	message := fmt.Sprintf("%s %s ayat %d-%d telah dicatat oleh %s",
		sessionLabel, record.Surah.Name, record.AyahStart, record.AyahEnd, record.Guru.FullName)

	notifier := notifications.NewService()
	if err := notifier.NotifyUser(record.Santri.UserID, "Setoran tercatat", message, "success", fiber.Map{
		"record_id": record.ID,
		"outcome":   outcome,
	}); err != nil {
		logrus.WithError(err).Warn("Failed to notify santri of new record")
	}
}

// GetRecords lists records with pagination, scoped by role: santri accounts
// see their own history, gurus their assigned santris, admins everything.
func (rc *RecordController) GetRecords(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := database.DB.Model(&models.MemorizationRecord{})

	var requesterGuruID uint
	switch claims.Role {
	case "santri":
		var santri models.Santri
		if err := database.DB.Where("user_id = ?", claims.UserID).First(&santri).Error; err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No santri profile for this account"})
		}
		query = query.Where("santri_id = ?", santri.ID)
	case "guru":
		guru, err := currentGuru(c)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No guru profile for this account"})
		}
		requesterGuruID = guru.ID
		query = query.Where("santri_id IN (?)", database.DB.
			Model(&models.Santri{}).Select("id").Where("guru_id = ?", guru.ID))
	}

	if santriID := c.Query("santri_id"); santriID != "" {
		query = query.Where("santri_id = ?", santriID)
	}
	if sessionType := c.Query("session_type"); sessionType != "" {
		if !utils.IsValidSessionType(sessionType) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session_type"})
		}
		query = query.Where("session_type = ?", sessionType)
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_from must be YYYY-MM-DD"})
		}
		query = query.Where("record_date >= ?", t)
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date_to must be YYYY-MM-DD"})
		}
		query = query.Where("record_date <= ?", t)
	}

	var total int64
	query.Count(&total)

	var records []models.MemorizationRecord
	if err := query.Preload("Santri").Preload("Guru").Preload("Surah").Preload("Tags.Tag").
		Order("record_date DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch records"})
	}

	now := rc.service.Clock.Now()
	dtos := make([]utils.RecordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, utils.ToRecordDTO(r, rc.canEdit(claims.Role, requesterGuruID, r, now)))
	}

	return c.JSON(fiber.Map{
		"records": dtos,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// canEdit reflects both the window and ownership for the requesting role
func (rc *RecordController) canEdit(role string, guruID uint, r models.MemorizationRecord, now time.Time) bool {
	switch role {
	case "admin":
		return true
	case "guru":
		return r.GuruID == guruID && services.CanModify(r.CreatedAt, now)
	default:
		return false
	}
}

// GetRecord returns one record by ID, with the same role scoping as the list
func (rc *RecordController) GetRecord(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	var record models.MemorizationRecord
	if err := database.DB.Preload("Santri").Preload("Guru").Preload("Surah").Preload("Tags.Tag").
		First(&record, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Record not found"})
	}

	var requesterGuruID uint
	switch claims.Role {
	case "santri":
		if record.Santri.UserID != claims.UserID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
	case "guru":
		guru, err := currentGuru(c)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No guru profile for this account"})
		}
		requesterGuruID = guru.ID
		if record.Santri.GuruID == nil || *record.Santri.GuruID != guru.ID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
	}

	return c.JSON(fiber.Map{
		"record": utils.ToRecordDTO(record, rc.canEdit(claims.Role, requesterGuruID, record, rc.service.Clock.Now())),
	})
}

// UpdateRecord overwrites ayah range, quality and notes of an owned record.
// Distinct from SubmitRecord: no merge semantics here.
func (rc *RecordController) UpdateRecord(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	var input services.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := rc.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	isAdmin := claims.Role == "admin"
	var guruID uint
	if !isAdmin {
		guru, err := currentGuru(c)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No guru profile for this account"})
		}
		guruID = guru.ID
	}

	record, err := rc.service.Update(guruID, isAdmin, uint(id), input)
	if err != nil {
		return recordErrorResponse(c, err)
	}

	if err := database.DB.Preload("Santri").Preload("Guru").Preload("Surah").Preload("Tags.Tag").
		First(record, record.ID).Error; err != nil {
		logrus.WithError(err).Error("Failed to reload record after update")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	middleware.LogActivity(c, "UPDATE", "records", record.ID, input)

	return c.JSON(fiber.Map{
		"message": "Record updated successfully",
		"record":  utils.ToRecordDTO(*record, rc.canEdit(claims.Role, guruID, *record, rc.service.Clock.Now())),
	})
}

// DeleteRecord hard-deletes a record and its tags
func (rc *RecordController) DeleteRecord(c *fiber.Ctx) error {
	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	isAdmin := claims.Role == "admin"
	var guruID uint
	if !isAdmin {
		guru, err := currentGuru(c)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No guru profile for this account"})
		}
		guruID = guru.ID
	}

	if err := rc.service.Delete(guruID, isAdmin, uint(id)); err != nil {
		return recordErrorResponse(c, err)
	}

	middleware.LogActivity(c, "DELETE", "records", uint(id), nil)

	return c.JSON(fiber.Map{"message": "Record deleted successfully"})
}
