package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/models"
	"toolhaven/pkg/errs"
)

// AuditLogs returns the most recent admin/auth audit entries.
func AuditLogs(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var logs []models.AuditLog
		if err := db.Order("created_at desc").Limit(200).Find(&logs).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "list audit logs failed", err))
			return
		}
		respondJSON(w, logs)
	}
}
