package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/models"
	"toolhaven/pkg/errs"
)

// ListCategories returns every blog category ordered by name. Fully cacheable
// per page load on the client side.
func ListCategories(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cats []models.BlogCategory
		if err := db.Order("name asc").Find(&cats).Error; err != nil {
			respondError(w, lg, errs.Wrap(errs.KindBackend, "list categories failed", err))
			return
		}
		respondJSON(w, cats)
	}
}
