package controllers

import (
	"tahfidz_go/services"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct {
	service *services.HealthService
}

func NewHealthController() *HealthController {
	return &HealthController{
		service: services.NewHealthService("Tahfidz API", "1.0.0"),
	}
}

// GetHealth returns the full dependency and runtime report. Returns 503 when
// a critical dependency is down so load balancers can react.
func (hc *HealthController) GetHealth(c *fiber.Ctx) error {
	report := hc.service.GetHealthReport()
	return c.Status(hc.service.HTTPStatusForOverall(report.Status)).JSON(report)
}
