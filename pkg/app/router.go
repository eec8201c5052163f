package app

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	internalApp "github.com/MicahMunyard/easyworkshophub-sub002/internal/app"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/handlers"
	"github.com/MicahMunyard/easyworkshophub-sub002/pkg/middleware"
)

// RegisterRoutes configures all application routes from the container.
func RegisterRoutes(pb *pocketbase.PocketBase, c *internalApp.Container) {
	pb.OnServe().BindFunc(func(se *core.ServeEvent) error {

		tech := &handlers.TechHandler{
			App:     pb,
			Broker:  c.Broker,
			Manager: c.TechJobManager,
			Photos:  c.FileStore,
		}

		admin := &handlers.AdminHandler{
			Broker:    c.Broker,
			Bookings:  c.BookingService,
			Diary:     c.BookingRepo,
			Techs:     c.TechRepo,
			Reviews:   c.ReviewService,
			Inventory: c.InventoryService,
		}

		intake := &handlers.IntakeHandler{
			Settings: c.SettingsRepo,
			Intake:   c.IntakeService,
		}

		public := &handlers.PublicHandler{
			Reviews: c.ReviewService,
			Help:    c.HelpService,
		}

		// ---------------------------------------------------------
		// Technician mobile API
		// ---------------------------------------------------------
		se.Router.POST("/api/tech/login", tech.ProcessLogin)
		se.Router.POST("/api/tech/logout", tech.Logout)

		techGroup := se.Router.Group("/api/tech")
		techGroup.BindFunc(middleware.RequireTech(pb))
		techGroup.GET("/jobs", tech.GetJobs)
		techGroup.POST("/jobs/{id}/status", tech.UpdateJobStatus)
		techGroup.POST("/jobs/{id}/timer", tech.ToggleJobTimer)
		techGroup.POST("/jobs/{id}/photos", tech.UploadJobPhoto)
		techGroup.POST("/jobs/{id}/parts", tech.RequestJobParts)
		techGroup.POST("/heartbeat", tech.Heartbeat)
		techGroup.GET("/stream", tech.Stream)

		// Photo files live outside collection storage, served here
		se.Router.GET("/files/tech_photos/{path...}", tech.ServePhoto)

		// ---------------------------------------------------------
		// Back office API
		// ---------------------------------------------------------
		adminGroup := se.Router.Group("/api/admin")
		adminGroup.BindFunc(middleware.RequireAdmin(pb))
		adminGroup.GET("/diary", admin.GetDiary)
		adminGroup.GET("/bookings/pending", admin.GetPendingBookings)
		adminGroup.POST("/bookings", admin.CreateBooking)
		adminGroup.POST("/bookings/{id}/assign", admin.AssignTechnician)
		adminGroup.POST("/bookings/{id}/recall", admin.RecallBooking)
		adminGroup.POST("/bookings/{id}/status", admin.UpdateBookingStatus)
		adminGroup.POST("/bookings/{id}/cancel", admin.CancelBooking)
		adminGroup.POST("/bookings/{id}/reschedule", admin.RescheduleBooking)
		adminGroup.GET("/technicians", admin.GetTechnicians)
		adminGroup.GET("/reviews/pending", admin.GetPendingReviews)
		adminGroup.POST("/reviews/{id}/moderate", admin.ModerateReview)
		adminGroup.POST("/reviews/{id}/reply", admin.ReplyToReview)
		adminGroup.GET("/inventory", admin.GetInventory)
		adminGroup.GET("/inventory/low-stock", admin.GetLowStock)
		adminGroup.POST("/inventory/{id}/deduct", admin.DeductStock)
		adminGroup.POST("/jobs/{id}/parts-used", admin.RecordPartsUsed)
		adminGroup.GET("/jobs/{id}/parts", admin.GetJobParts)
		adminGroup.GET("/stream", admin.Stream)

		// ---------------------------------------------------------
		// Webhooks & public content
		// ---------------------------------------------------------
		se.Router.POST("/api/intake/email", intake.ReceiveEmail)
		se.Router.GET("/api/reviews", public.GetApprovedReviews)
		se.Router.GET("/api/help", public.GetHelpArticles)

		return se.Next()
	})
}
