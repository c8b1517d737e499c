package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/auth"
	"toolhaven/internal/models"
	"toolhaven/pkg/errs"
)

func ListUsers(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		if err := db.Preload("Roles").Order("created_at desc").Find(&users).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "list users failed", err))
			return
		}
		respondJSON(w, users)
	}
}

// UpdateUser lets an administrator toggle activity or grant roles. Profile
// fields stay owned by the user themselves.
func UpdateUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req struct {
			IsActive *bool    `json:"is_active"`
			Roles    []string `json:"roles"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		var u models.User
		err := db.Preload("Roles").First(&u, "id = ?", id).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondAdminError(w, lg, errs.New(errs.KindNotFound, "user not found"))
			return
		case err != nil:
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "update user lookup failed", err))
			return
		}
		if req.IsActive != nil {
			u.IsActive = *req.IsActive
		}
		if req.Roles != nil {
			var roles []models.Role
			if err := db.Where("name IN ?", req.Roles).Find(&roles).Error; err != nil {
				respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "role lookup failed", err))
				return
			}
			if err := db.Model(&u).Association("Roles").Replace(roles); err != nil {
				respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "role update failed", err))
				return
			}
		}
		u.UpdatedAt = time.Now()
		if err := db.Save(&u).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "update user failed", err))
			return
		}
		uid := auth.Subject(r.Context())
		audit(db, &uid, "USER_UPDATE", map[string]any{"id": u.ID})
		respondJSON(w, map[string]any{"updated": true})
	}
}

func DeleteUser(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := db.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "delete user failed", err))
			return
		}
		uid := auth.Subject(r.Context())
		audit(db, &uid, "USER_DELETE", map[string]any{"id": id})
		respondJSON(w, map[string]any{"deleted": true})
	}
}
