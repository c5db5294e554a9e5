package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ticket9ja/ticket9ja-backend/config"
	"github.com/ticket9ja/ticket9ja-backend/database"
	"github.com/ticket9ja/ticket9ja-backend/internal/auditlog"
	"github.com/ticket9ja/ticket9ja-backend/internal/auth"
	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/filestore"
	"github.com/ticket9ja/ticket9ja-backend/internal/scan"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
	"github.com/ticket9ja/ticket9ja-backend/routes"
	"github.com/ticket9ja/ticket9ja-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&event.Event{},
		&ticket.Ticket{},
		&auditlog.AuditLog{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Seed default admin
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg)
	if err := authSvc.SeedDefaultAdmin(); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed default admin: %v", err))
	}

	// File storage for uploads, QR codes and rendered tickets
	files, err := filestore.New(cfg.DataDir)
	if err != nil {
		log.Fatalf("❌ Failed to initialize file storage at %s: %v", cfg.DataDir, err)
	}

	// Kafka scan stream (optional)
	var stream scan.Publisher
	if pub := utils.NewScanEventPublisher(cfg); pub != nil {
		defer pub.Close()
		stream = pub
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.Setup(router, cfg, db, files, stream)

	log.Printf("🚀 Ticket9ja backend listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
