package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/auth"
	"toolhaven/internal/models"
	"toolhaven/internal/services/content"
	"toolhaven/pkg/errs"
	"toolhaven/pkg/webembed"
)

// ListTools serves the directory in catalog order (oldest first) with the
// same category/search filter shape as the blog list, plus ?featured=true.
func ListTools(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx := db.Order("created_at asc")
		if cat := r.URL.Query().Get("category"); cat != "" && cat != "All" {
			tx = tx.Where("category = ?", cat)
		}
		if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
			like := "%" + search + "%"
			tx = tx.Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ?", like, like, like)
		}
		if r.URL.Query().Get("featured") == "true" {
			tx = tx.Where("featured = ?", true)
		}
		var tools []models.Tool
		if err := tx.Find(&tools).Error; err != nil {
			respondError(w, lg, errs.Wrap(errs.KindBackend, "list tools failed", err))
			return
		}
		respondJSON(w, tools)
	}
}

func GetTool(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		var tool models.Tool
		err := db.First(&tool, "slug = ?", slug).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, lg, errs.New(errs.KindNotFound, "tool not found"))
			return
		case err != nil:
			respondError(w, lg, errs.Wrap(errs.KindBackend, "get tool failed", err))
			return
		}
		respondJSON(w, tool)
	}
}

type toolWriteReq struct {
	Name        *string  `json:"name"`
	Slug        *string  `json:"slug"`
	Description *string  `json:"description"`
	ImageURL    *string  `json:"image_url"`
	Link        *string  `json:"link"`
	Category    *string  `json:"category"`
	Rating      *float64 `json:"rating"`
	UsersLabel  *string  `json:"users_label"`
	Featured    *bool    `json:"featured"`
	Embeddable  *bool    `json:"embeddable"`
	Sandbox     []string `json:"sandbox"`
	Permissions []string `json:"permissions"`
}

func (req toolWriteReq) policy(existing models.Tool) webembed.Policy {
	p := webembed.Policy{Sandbox: existing.Sandbox, Permissions: existing.Permissions}
	if req.Sandbox != nil {
		p.Sandbox = req.Sandbox
	}
	if req.Permissions != nil {
		p.Permissions = req.Permissions
	}
	return p
}

func CreateTool(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toolWriteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		name := strings.TrimSpace(deref(req.Name))
		link := strings.TrimSpace(deref(req.Link))
		category := strings.TrimSpace(deref(req.Category))
		if name == "" || link == "" || category == "" {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "name, link and category are required"))
			return
		}
		policy := req.policy(models.Tool{})
		if err := policy.Validate(); err != nil {
			respondAdminError(w, lg, err)
			return
		}
		slug := content.Slugify(deref(req.Slug))
		if slug == "" {
			slug = content.Slugify(name)
		}
		var count int64
		if err := db.Model(&models.Tool{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "slug check failed", err))
			return
		}
		if count > 0 {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "slug already in use"))
			return
		}

		tool := models.Tool{
			Name:        name,
			Slug:        slug,
			Description: deref(req.Description),
			ImageURL:    deref(req.ImageURL),
			Link:        link,
			Category:    category,
			UsersLabel:  deref(req.UsersLabel),
			Featured:    req.Featured != nil && *req.Featured,
			Embeddable:  req.Embeddable != nil && *req.Embeddable,
			Sandbox:     models.StringList(policy.Sandbox),
			Permissions: models.StringList(policy.Permissions),
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if req.Rating != nil {
			tool.Rating = *req.Rating
		}
		if err := db.Create(&tool).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "create tool failed", err))
			return
		}
		uid := auth.Subject(r.Context())
		audit(db, &uid, "TOOL_CREATE", map[string]any{"id": tool.ID, "slug": tool.Slug})
		respondJSON(w, tool)
	}
}

func UpdateTool(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req toolWriteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		var tool models.Tool
		err := db.First(&tool, "id = ?", id).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondAdminError(w, lg, errs.New(errs.KindNotFound, "tool not found"))
			return
		case err != nil:
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "update tool lookup failed", err))
			return
		}
		policy := req.policy(tool)
		if err := policy.Validate(); err != nil {
			respondAdminError(w, lg, err)
			return
		}

		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				respondAdminError(w, lg, errs.New(errs.KindValidation, "name cannot be empty"))
				return
			}
			tool.Name = strings.TrimSpace(*req.Name)
		}
		if req.Slug != nil {
			slug := content.Slugify(*req.Slug)
			if slug == "" {
				slug = content.Slugify(tool.Name)
			}
			tool.Slug = slug
		}
		if req.Description != nil {
			tool.Description = *req.Description
		}
		if req.ImageURL != nil {
			tool.ImageURL = *req.ImageURL
		}
		if req.Link != nil {
			tool.Link = strings.TrimSpace(*req.Link)
		}
		if req.Category != nil {
			tool.Category = strings.TrimSpace(*req.Category)
		}
		if req.Rating != nil {
			tool.Rating = *req.Rating
		}
		if req.UsersLabel != nil {
			tool.UsersLabel = *req.UsersLabel
		}
		if req.Featured != nil {
			tool.Featured = *req.Featured
		}
		if req.Embeddable != nil {
			tool.Embeddable = *req.Embeddable
		}
		tool.Sandbox = models.StringList(policy.Sandbox)
		tool.Permissions = models.StringList(policy.Permissions)
		tool.UpdatedAt = time.Now()
		if err := db.Save(&tool).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "update tool failed", err))
			return
		}
		uid := auth.Subject(r.Context())
		audit(db, &uid, "TOOL_UPDATE", map[string]any{"id": tool.ID, "slug": tool.Slug})
		respondJSON(w, tool)
	}
}

func DeleteTool(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := db.Delete(&models.Tool{}, "id = ?", id).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "delete tool failed", err))
			return
		}
		uid := auth.Subject(r.Context())
		audit(db, &uid, "TOOL_DELETE", map[string]any{"id": id})
		respondJSON(w, map[string]any{"deleted": true})
	}
}
