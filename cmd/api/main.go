package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toolhaven/internal/auth"
	"toolhaven/internal/config"
	"toolhaven/internal/email"
	"toolhaven/internal/httpserver"
	"toolhaven/internal/logger"
	"toolhaven/internal/models"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()
	cfg := config.Load()

	// A misconfigured or unreachable backend degrades to the visible
	// connection-error state; it never takes the process down.
	var db *gorm.DB
	if missing := cfg.MissingBackend(); len(missing) > 0 {
		lg.Errorw("backend not configured, serving degraded", "missing", strings.Join(missing, ","))
	} else {
		var err error
		// TranslateError surfaces unique-index violations as
		// gorm.ErrDuplicatedKey so handlers can answer 409 instead of 503.
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
		if err != nil {
			lg.Errorw("db connect failed, serving degraded", "error", err)
			db = nil
		}
	}

	if db != nil {
		if err := db.AutoMigrate(
			&models.Role{}, &models.User{}, &models.Session{},
			&models.BlogCategory{}, &models.BlogPost{}, &models.Tool{},
			&models.NewsletterSubscription{}, &models.ContactMessage{}, &models.AuditLog{},
		); err != nil {
			lg.Fatalw("automigrate failed", "error", err)
		}
		seedRolesAndAdmin(db, cfg, lg)
		seedBlogCategories(db)
		seedToolCatalog(db)
	}

	mailer := email.NewService(cfg.ResendAPIKey, cfg.MailFrom, cfg.MailFromName, lg)
	router := httpserver.NewRouter(db, lg, cfg, mailer)
	lg.Infow("listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, router); err != nil {
		log.Fatal(err)
	}
}

func seedRolesAndAdmin(db *gorm.DB, cfg config.Config, lg *zap.SugaredLogger) {
	db.Exec("INSERT INTO roles(name) VALUES ('Administrator') ON CONFLICT DO NOTHING")
	db.Exec("INSERT INTO roles(name) VALUES ('User') ON CONFLICT DO NOTHING")
	if cfg.SeedAdminPassword == "" {
		return
	}
	adminEmail := strings.ToLower(cfg.SeedAdminEmail)
	var count int64
	db.Model(&models.User{}).Where("LOWER(email) = ?", adminEmail).Count(&count)
	if count > 0 {
		return
	}
	hash, _ := auth.HashPassword(cfg.SeedAdminPassword)
	u := models.User{
		Email:        adminEmail,
		PasswordHash: &hash,
		DisplayName:  "Site Admin",
		Provider:     models.ProviderPassword,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&u).Error; err == nil {
		var adminRole models.Role
		if err := db.First(&adminRole, "name = ?", models.RoleAdministrator).Error; err == nil {
			_ = db.Model(&u).Association("Roles").Append(&adminRole)
		}
	}
	lg.Infow("seeded admin account", "email", adminEmail)
}

func seedBlogCategories(db *gorm.DB) {
	cats := []models.BlogCategory{
		{Name: "AI News", Slug: "ai-news", Color: "#6366f1"},
		{Name: "Tutorials", Slug: "tutorials", Color: "#10b981"},
		{Name: "Product Updates", Slug: "product-updates", Color: "#f59e0b"},
		{Name: "Opinion", Slug: "opinion", Color: "#ef4444"},
	}
	for i := range cats {
		cats[i].CreatedAt = time.Now()
	}
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&cats)
}

// seedToolCatalog carries the former in-code tool catalog, including the
// per-tool frame capability allow-lists for embeddable entries.
func seedToolCatalog(db *gorm.DB) {
	tools := []models.Tool{
		{
			Name: "PromptPad", Slug: "promptpad",
			Description: "Collaborative prompt workspace with versioning and shared libraries.",
			Link:        "https://promptpad.example.com", Category: "Writing",
			Rating: 4.6, UsersLabel: "120k+", Featured: true, Embeddable: true,
			Sandbox:     models.StringList{"allow-scripts", "allow-same-origin", "allow-forms"},
			Permissions: models.StringList{"clipboard-write"},
		},
		{
			Name: "PixelForge", Slug: "pixelforge",
			Description: "Text-to-image studio with style presets and batch generation.",
			Link:        "https://pixelforge.example.com", Category: "Image",
			Rating: 4.4, UsersLabel: "80k+", Featured: true, Embeddable: true,
			Sandbox:     models.StringList{"allow-scripts", "allow-same-origin", "allow-downloads"},
			Permissions: models.StringList{"fullscreen", "clipboard-write"},
		},
		{
			Name: "VoiceLoom", Slug: "voiceloom",
			Description: "Voice cloning and narration with multi-language output.",
			Link:        "https://voiceloom.example.com", Category: "Audio",
			Rating: 4.2, UsersLabel: "35k+", Embeddable: true,
			Sandbox:     models.StringList{"allow-scripts", "allow-same-origin"},
			Permissions: models.StringList{"microphone", "autoplay"},
		},
		{
			Name: "CodePilot Lite", Slug: "codepilot-lite",
			Description: "In-browser AI pair programmer for quick snippets and reviews.",
			Link:        "https://codepilot.example.com", Category: "Developer",
			Rating: 4.7, UsersLabel: "210k+", Featured: true,
		},
		{
			Name: "SlideSmith", Slug: "slidesmith",
			Description: "Outline-to-deck generator with brand kit support.",
			Link:        "https://slidesmith.example.com", Category: "Productivity",
			Rating: 4.1, UsersLabel: "50k+",
		},
	}
	now := time.Now()
	for i := range tools {
		// Preserve catalog order under created_at asc listing.
		tools[i].CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		tools[i].UpdatedAt = tools[i].CreatedAt
	}
	db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&tools)
}
