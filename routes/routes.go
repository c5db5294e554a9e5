package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ticket9ja/ticket9ja-backend/config"
	"github.com/ticket9ja/ticket9ja-backend/internal/auditlog"
	"github.com/ticket9ja/ticket9ja-backend/internal/auth"
	"github.com/ticket9ja/ticket9ja-backend/internal/dashboard"
	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/filestore"
	"github.com/ticket9ja/ticket9ja-backend/internal/notification"
	"github.com/ticket9ja/ticket9ja-backend/internal/reports"
	"github.com/ticket9ja/ticket9ja-backend/internal/scan"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticketgen"
	"github.com/ticket9ja/ticket9ja-backend/middleware"
)

// Setup wires repositories, services and handlers onto the engine.
// stream may be nil when Kafka is not configured.
func Setup(r *gin.Engine, cfg *config.Config, db *gorm.DB, files *filestore.Store, stream scan.Publisher) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}))

	// Generated files are served directly; paths follow the on-disk
	// layout under DATA_DIR.
	r.Static("/uploads", files.UploadsDir())
	r.Static("/tickets", files.TicketsDir())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := r.Group("/api")
	api.Use(middleware.RateLimiter(cfg))

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	api.POST("/auth/login", authHandler.Login)

	// ========== Events ==========
	eventRepo := event.NewRepository(db)
	eventSvc := event.NewService(eventRepo, files, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	// ========== Tickets ==========
	renderer := ticketgen.NewRenderer(files, cfg.FontBoldPath, cfg.FontRegularPath)
	notifier := notification.NewEmailSender(cfg)
	ticketRepo := ticket.NewRepository(db)
	ticketSvc := ticket.NewService(ticketRepo, eventSvc, renderer, notifier, files, auditSvc)
	ticketHandler := ticket.NewHandler(ticketSvc)

	// ========== Scan ==========
	scanSvc := scan.NewService(ticketRepo, eventRepo, stream, auditSvc)
	scanHandler := scan.NewHandler(scanSvc)

	// ========== Dashboard ==========
	dashSvc := dashboard.NewService(ticketRepo, eventRepo)
	dashHandler := dashboard.NewHandler(dashSvc)

	// ========== Reports ==========
	reportSvc := reports.NewService(ticketRepo, eventRepo)
	reportHandler := reports.NewHandler(reportSvc)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/events", eventHandler.Create)
		protected.GET("/events", eventHandler.List)
		protected.GET("/events/active", eventHandler.ListActive)
		protected.GET("/events/:id", eventHandler.Get)
		protected.PUT("/events/:id", eventHandler.Update)
		protected.DELETE("/events/:id", eventHandler.Delete)
		protected.POST("/events/:id/toggle-active", eventHandler.ToggleActive)
		protected.POST("/events/:id/upload-design", eventHandler.UploadDesign)

		protected.POST("/events/:id/tickets", ticketHandler.CreateBatch)
		protected.GET("/events/:id/tickets", ticketHandler.ListByEvent)
		protected.GET("/tickets", ticketHandler.List)
		protected.GET("/tickets/:id", ticketHandler.Get)
		protected.PUT("/tickets/:id", ticketHandler.Update)
		protected.DELETE("/tickets/:id", ticketHandler.Delete)
		protected.POST("/tickets/:id/resend", ticketHandler.Resend)
		protected.GET("/tickets/:id/pdf", reportHandler.TicketPDF)

		protected.POST("/scan/validate", scanHandler.Validate)

		protected.GET("/dashboard/stats", dashHandler.Overview)
		protected.GET("/events/:id/stats", dashHandler.ForEvent)
		protected.GET("/events/:id/guestlist", reportHandler.GuestList)

		protected.GET("/auditlogs", auditHandler.List)
	}
}
