package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.CurrentUser)

	cycles := api.Group("/cycles", handler.AuthRequired, handler.PasswordChangeGate)
	cycles.Get("", handler.ListCycles)
	cycles.Post("", handler.CreateCycle)
	cycles.Post("/quick-start", handler.QuickStartCycle)
	cycles.Put("/:id", handler.UpdateCycle)
	cycles.Delete("/:id", handler.DeleteCycle)

	protected := []fiber.Handler{handler.AuthRequired, handler.PasswordChangeGate}
	api.Get("/predictions", append(protected, handler.GetPredictions)...)
	api.Get("/late-status", append(protected, handler.GetLateStatus)...)
	api.Get("/conception-plan", append(protected, handler.GetConceptionPlan)...)
	api.Get("/dashboard", append(protected, handler.GetDashboard)...)
	api.Get("/analytics", append(protected, handler.GetAnalytics)...)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Post("/change-password", handler.ChangePassword)
	settings.Get("", handler.PasswordChangeGate, handler.GetSettings)
	settings.Put("/preferences", handler.PasswordChangeGate, handler.UpdatePreferences)
	settings.Put("/profile", handler.PasswordChangeGate, handler.UpdateProfile)
	settings.Get("/events", handler.PasswordChangeGate, handler.ListOwnEvents)

	export := api.Group("/export", handler.AuthRequired, handler.PasswordChangeGate)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/report", handler.ExportReport)

	admin := api.Group("/admin", handler.AuthRequired, handler.PasswordChangeGate, handler.AdminRequired)
	admin.Get("/users", handler.AdminListUsers)
	admin.Put("/users/:id/admin", handler.AdminSetUserAdmin)
	admin.Post("/users/:id/deactivate", handler.AdminDeactivateUser)
	admin.Post("/users/:id/reactivate", handler.AdminReactivateUser)
	admin.Post("/users/:id/reset-password", handler.AdminResetUserPassword)
	admin.Get("/events", handler.AdminListEvents)
}
