package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"toolhaven/internal/email"
	"toolhaven/internal/models"
	"toolhaven/pkg/errs"
)

// SubscribeNewsletter upserts on the normalized email, so subscribing twice
// leaves exactly one active row. The UI only ever sees a boolean flag,
// never backend error detail.
func SubscribeNewsletter(db *gorm.DB, mailer email.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		addr := strings.TrimSpace(strings.ToLower(req.Email))
		if addr == "" || !strings.Contains(addr, "@") {
			respondError(w, lg, errs.New(errs.KindValidation, "a valid email is required"))
			return
		}

		sub := models.NewsletterSubscription{
			Email:     addr,
			Status:    "active",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"status": "active", "updated_at": time.Now()}),
		}).Create(&sub).Error
		if err != nil {
			lg.Errorw("newsletter subscribe failed", "error", err)
			respondJSON(w, map[string]any{"subscribed": false})
			return
		}

		go func() {
			if err := mailer.SendNewsletterWelcome(addr); err != nil {
				lg.Warnw("newsletter welcome mail failed", "error", err)
			}
		}()
		respondJSON(w, map[string]any{"subscribed": true})
	}
}
