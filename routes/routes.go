package routes

import (
	"tahfidz_go/controllers"
	"tahfidz_go/middleware"
	"tahfidz_go/services/websocket"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, wsHub *websocket.Hub) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	kelasController := &controllers.KelasController{}
	guruController := &controllers.GuruController{}
	santriController := &controllers.SantriController{}
	tagController := &controllers.TagController{}
	surahController := &controllers.SurahController{}
	recordController := controllers.NewRecordController()
	reportController := controllers.NewReportController()
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController()
	wsController := controllers.NewWebSocketController(wsHub)

	// API group
	api := app.Group("/api")

	// Health (no auth so load balancers can probe it)
	app.Get("/health", healthController.GetHealth)

	// Public reference data: the surah list backs the submission form and has
	// no per-user content
	public := api.Group("/public")
	public.Get("/surahs", surahController.GetSurahs)
	public.Get("/surahs/:id", surahController.GetSurah)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Post("/reset-password-token", authController.ResetPasswordWithToken)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// Password reset (admin only)
	passwordReset := protected.Group("/password-reset", middleware.RequireAdmin())
	passwordReset.Post("/generate-token", authController.GeneratePasswordResetToken)
	passwordReset.Post("/reset-by-admin", authController.ResetPasswordByAdmin)

	// User account management (admin only, except own avatar)
	users := protected.Group("/users")
	users.Get("/", middleware.RequireAdmin(), userController.GetUsers)
	users.Get("/:id", middleware.RequireAdmin(), userController.GetUser)
	users.Put("/:id", middleware.RequireAdmin(), userController.UpdateUser)
	users.Delete("/:id", middleware.RequireAdmin(), userController.DeleteUser)
	users.Post("/avatar", userController.UploadAvatar)

	// Kelas management
	kelas := protected.Group("/kelas")
	kelas.Get("/", middleware.RequireGuruOrAdmin(), kelasController.GetKelas)
	kelas.Get("/:id", middleware.RequireGuruOrAdmin(), kelasController.GetKelasByID)
	kelas.Post("/", middleware.RequireAdmin(), kelasController.CreateKelas)
	kelas.Put("/:id", middleware.RequireAdmin(), kelasController.UpdateKelas)
	kelas.Delete("/:id", middleware.RequireAdmin(), kelasController.DeleteKelas)

	// Guru management
	gurus := protected.Group("/gurus")
	gurus.Get("/", middleware.RequireGuruOrAdmin(), guruController.GetGurus)
	gurus.Get("/:id", middleware.RequireGuruOrAdmin(), guruController.GetGuru)
	gurus.Post("/", middleware.RequireAdmin(), guruController.CreateGuru)
	gurus.Put("/:id", middleware.RequireAdmin(), guruController.UpdateGuru)
	gurus.Delete("/:id", middleware.RequireAdmin(), guruController.DeleteGuru)

	// Santri management. Reads are role-scoped inside the controller; santri
	// accounts may fetch their own profile by ID.
	santris := protected.Group("/santris")
	santris.Get("/", middleware.RequireGuruOrAdmin(), santriController.GetSantris)
	santris.Get("/:id", santriController.GetSantri)
	santris.Post("/", middleware.RequireAdmin(), santriController.CreateSantri)
	santris.Put("/:id", middleware.RequireAdmin(), santriController.UpdateSantri)
	santris.Patch("/:id/assign", middleware.RequireAdmin(), santriController.AssignSantri)
	santris.Delete("/:id", middleware.RequireAdmin(), santriController.DeleteSantri)

	// Master tags: gurus read for the submission form, admin curates
	tags := protected.Group("/tags")
	tags.Get("/", middleware.RequireGuruOrAdmin(), tagController.GetTags)
	tags.Post("/", middleware.RequireAdmin(), tagController.CreateTag)
	tags.Put("/:id", middleware.RequireAdmin(), tagController.UpdateTag)
	tags.Delete("/:id", middleware.RequireAdmin(), tagController.DeleteTag)

	// Memorization records: the daily submit/merge endpoint plus scoped reads
	records := protected.Group("/records")
	records.Post("/", middleware.RequireRole("guru"), recordController.SubmitRecord)
	records.Get("/", recordController.GetRecords)
	records.Get("/:id", recordController.GetRecord)
	records.Put("/:id", middleware.RequireGuruOrAdmin(), recordController.UpdateRecord)
	records.Delete("/:id", middleware.RequireGuruOrAdmin(), recordController.DeleteRecord)

	// Reports
	reports := protected.Group("/reports")
	reports.Get("/santri/:id", reportController.GetSantriSummary)
	reports.Get("/santri/:id/export", reportController.ExportSantriRecords)
	reports.Get("/kelas/:id", middleware.RequireGuruOrAdmin(), reportController.GetKelasSummary)

	// Notifications
	notificationsGroup := protected.Group("/notifications")
	notificationsGroup.Get("/", notificationController.GetNotifications)
	notificationsGroup.Get("/unread-count", notificationController.GetUnreadCount)
	notificationsGroup.Get("/stats", middleware.RequireAdmin(), notificationController.GetNotificationStats)
	notificationsGroup.Get("/:id", notificationController.GetNotification)
	notificationsGroup.Post("/", middleware.RequireAdmin(), notificationController.CreateNotification)
	notificationsGroup.Patch("/:id/read", notificationController.MarkAsRead)
	notificationsGroup.Patch("/read-all", notificationController.MarkAllAsRead)
	notificationsGroup.Delete("/:id", notificationController.DeleteNotification)

	// Activity logs (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Get("/archives", logController.GetArchives)
	logs.Get("/archives/:id/download", logController.DownloadArchive)
	logs.Get("/:id", logController.GetLog)
	logs.Post("/flush", logController.FlushCachedLogs)
	logs.Post("/archive", logController.ArchiveLogs)

	// WebSocket stats (admin only)
	protected.Get("/ws/stats", middleware.RequireAdmin(), wsController.GetWebSocketStats)

	// WebSocket upgrade. Auth happens inside the handler via ?token=<jwt>
	// because browsers cannot set headers on upgrade requests.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", wsController.WebSocketHandler())
}
