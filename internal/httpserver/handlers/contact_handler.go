package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/auth"
	"toolhaven/internal/email"
	"toolhaven/internal/models"
	"toolhaven/pkg/errs"
)

// SubmitContact stores a contact message (insert only, never read back by
// the app) and notifies the site inbox. A signed-in caller gets attributed
// via the optional bearer token.
func SubmitContact(db *gorm.DB, mailer email.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
			Email     string `json:"email"`
			Message   string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		req.FirstName = strings.TrimSpace(req.FirstName)
		req.LastName = strings.TrimSpace(req.LastName)
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.Message = strings.TrimSpace(req.Message)
		if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Message == "" {
			respondError(w, lg, errs.New(errs.KindValidation, "first_name, last_name, email and message are required"))
			return
		}

		msg := models.ContactMessage{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Message:   req.Message,
			CreatedAt: time.Now(),
		}
		if uid := auth.Subject(r.Context()); uid != "" {
			msg.UserID = &uid
		}
		if err := db.Create(&msg).Error; err != nil {
			lg.Errorw("contact message insert failed", "error", err)
			respondJSON(w, map[string]any{"sent": false})
			return
		}

		go func() {
			if err := mailer.SendContactNotification(msg); err != nil {
				lg.Warnw("contact notification mail failed", "error", err)
			}
		}()
		respondJSON(w, map[string]any{"sent": true})
	}
}
