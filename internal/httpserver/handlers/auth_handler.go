package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/auth"
	"toolhaven/internal/config"
	"toolhaven/internal/models"
	"toolhaven/pkg/errs"
)

// MinPasswordLength is checked before any database work so a weak password
// never costs a round trip.
const MinPasswordLength = 6

type signupReq struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName string  `json:"display_name"`
	Phone       *string `json:"phone,omitempty"`
	Country     *string `json:"country,omitempty"`
}

func Signup(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		req.DisplayName = strings.TrimSpace(req.DisplayName)
		if req.Email == "" || req.Password == "" || req.DisplayName == "" {
			respondError(w, lg, errs.New(errs.KindValidation, "email, password and display_name are required"))
			return
		}
		if utf8.RuneCountInString(req.Password) < MinPasswordLength {
			respondError(w, lg, errs.New(errs.KindWeakPassword, "password must be at least 6 characters"))
			return
		}

		var count int64
		if err := db.Model(&models.User{}).Where("LOWER(email) = ?", req.Email).Count(&count).Error; err != nil {
			respondError(w, lg, errs.Wrap(errs.KindBackend, "signup lookup failed", err))
			return
		}
		if count > 0 {
			respondError(w, lg, errs.New(errs.KindEmailInUse, "email already in use"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "password hash failed", err))
			return
		}
		u := models.User{
			Email:        req.Email,
			PasswordHash: &hash,
			DisplayName:  req.DisplayName,
			Phone:        req.Phone,
			Country:      req.Country,
			Provider:     models.ProviderPassword,
			IsActive:     true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		var userRole models.Role
		if err := db.First(&userRole, "name = ?", models.RoleUser).Error; err == nil {
			u.Roles = []models.Role{userRole}
		}
		// Two concurrent signups can both pass the count check; the unique
		// index decides, and the loser gets the same answer as a plain
		// duplicate.
		if err := db.Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				respondError(w, lg, errs.New(errs.KindEmailInUse, "email already in use"))
				return
			}
			respondError(w, lg, errs.Wrap(errs.KindBackend, "signup create failed", err))
			return
		}

		tok, err := issueToken(db, u)
		if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "token issue failed", err))
			return
		}
		audit(db, &u.ID, "AUTH_SIGNUP", map[string]any{"email": u.Email})
		respondJSON(w, map[string]any{"token": tok, "user": u})
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login deliberately collapses "unknown account" and "wrong password" into
// one invalid-credentials answer so accounts can't be enumerated.
func Login(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		email := strings.TrimSpace(strings.ToLower(req.Email))
		var u models.User
		err := db.Preload("Roles").First(&u, "LOWER(email) = ?", email).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, lg, errs.New(errs.KindInvalidCredentials, "invalid credentials"))
			return
		case err != nil:
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "login lookup failed", err))
			return
		}
		if u.PasswordHash == nil || auth.CheckPassword(*u.PasswordHash, req.Password) != nil || !u.IsActive {
			respondError(w, lg, errs.New(errs.KindInvalidCredentials, "invalid credentials"))
			return
		}
		tok, err := issueToken(db, u)
		if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "token issue failed", err))
			return
		}
		audit(db, &u.ID, "AUTH_LOGIN", map[string]any{"email": u.Email})
		respondJSON(w, map[string]any{"token": tok, "user": u})
	}
}

// FederatedStart hands the browser the provider consent URL with a signed
// state parameter.
func FederatedStart(cfg config.Config, lg *zap.SugaredLogger) http.HandlerFunc {
	oauthCfg := auth.OAuthConfig(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL)
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.FederatedEnabled() {
			respondError(w, lg, errs.New(errs.KindBackend, "federated sign-in is not configured"))
			return
		}
		state, err := auth.SignState()
		if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "state sign failed", err))
			return
		}
		respondJSON(w, map[string]any{"url": oauthCfg.AuthCodeURL(state)})
	}
}

// FederatedCallback exchanges the code and signs the user in. The profile
// record is created on first login only; later logins never overwrite it.
func FederatedCallback(db *gorm.DB, cfg config.Config, lg *zap.SugaredLogger) http.HandlerFunc {
	oauthCfg := auth.OAuthConfig(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthRedirectURL)
	return func(w http.ResponseWriter, r *http.Request) {
		if !cfg.FederatedEnabled() {
			respondError(w, lg, errs.New(errs.KindBackend, "federated sign-in is not configured"))
			return
		}
		state := r.URL.Query().Get("state")
		code := r.URL.Query().Get("code")
		if code == "" || auth.VerifyState(state) != nil {
			respondError(w, lg, errs.New(errs.KindInvalidCredentials, "invalid federated callback"))
			return
		}
		profile, err := auth.FetchProfile(r.Context(), oauthCfg, code)
		if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "federated profile fetch failed", err))
			return
		}

		email := strings.TrimSpace(strings.ToLower(profile.Email))
		var u models.User
		err = db.Preload("Roles").First(&u, "LOWER(email) = ?", email).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			name := strings.TrimSpace(profile.Name)
			if name == "" {
				name = strings.SplitN(email, "@", 2)[0]
			}
			u = models.User{
				Email:       email,
				DisplayName: name,
				Provider:    models.ProviderFederated,
				IsActive:    true,
				CreatedAt:   time.Now(),
				UpdatedAt:   time.Now(),
			}
			if profile.Picture != "" {
				u.PhotoURL = &profile.Picture
			}
			var userRole models.Role
			if roleErr := db.First(&userRole, "name = ?", models.RoleUser).Error; roleErr == nil {
				u.Roles = []models.Role{userRole}
			}
			if createErr := db.Create(&u).Error; createErr != nil {
				respondError(w, lg, errs.Wrap(errs.KindBackend, "federated profile create failed", createErr))
				return
			}
			audit(db, &u.ID, "AUTH_FEDERATED_FIRST_LOGIN", map[string]any{"email": u.Email})
		} else if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "federated lookup failed", err))
			return
		}
		if !u.IsActive {
			respondError(w, lg, errs.New(errs.KindInvalidCredentials, "invalid credentials"))
			return
		}

		tok, err := issueToken(db, u)
		if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "token issue failed", err))
			return
		}
		audit(db, &u.ID, "AUTH_FEDERATED_LOGIN", map[string]any{"email": u.Email})
		respondJSON(w, map[string]any{"token": tok, "user": u})
	}
}

// Logout revokes the session row behind the token's jti. Revocation failure
// is surfaced as a non-fatal flag, not an error: the client clears its local
// session either way.
func Logout(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		now := time.Now()
		err := db.Model(&models.Session{}).Where("jti = ?", claims.JWTID).Update("revoked_at", &now).Error
		if err != nil {
			lg.Warnw("logout revoke failed", "jti", claims.JWTID, "error", err)
			respondJSON(w, map[string]any{"signed_out": true, "revoked": false})
			return
		}
		uid := claims.Subject
		audit(db, &uid, "AUTH_LOGOUT", nil)
		respondJSON(w, map[string]any{"signed_out": true, "revoked": true})
	}
}

func Me(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.Subject(r.Context())
		var u models.User
		err := db.Preload("Roles").First(&u, "id = ?", sub).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, lg, errs.New(errs.KindNotFound, "profile not found"))
			return
		case err != nil:
			respondError(w, lg, errs.Wrap(errs.KindBackend, "profile lookup failed", err))
			return
		}
		respondJSON(w, u)
	}
}

func ChangePassword(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Current string `json:"current"`
			New     string `json:"new"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		if utf8.RuneCountInString(req.New) < MinPasswordLength {
			respondError(w, lg, errs.New(errs.KindWeakPassword, "password must be at least 6 characters"))
			return
		}
		sub := auth.Subject(r.Context())
		var u models.User
		err := db.First(&u, "id = ?", sub).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, lg, errs.New(errs.KindNotFound, "profile not found"))
			return
		case err != nil:
			respondError(w, lg, errs.Wrap(errs.KindBackend, "profile lookup failed", err))
			return
		}
		if u.PasswordHash == nil {
			respondError(w, lg, errs.New(errs.KindValidation, "federated accounts have no password"))
			return
		}
		if auth.CheckPassword(*u.PasswordHash, req.Current) != nil {
			respondError(w, lg, errs.New(errs.KindInvalidCredentials, "invalid credentials"))
			return
		}
		hash, err := auth.HashPassword(req.New)
		if err != nil {
			respondError(w, lg, errs.Wrap(errs.KindUnknown, "password hash failed", err))
			return
		}
		u.PasswordHash = &hash
		u.UpdatedAt = time.Now()
		if err := db.Save(&u).Error; err != nil {
			respondError(w, lg, errs.Wrap(errs.KindBackend, "password update failed", err))
			return
		}
		audit(db, &u.ID, "AUTH_PASSWORD_CHANGE", nil)
		respondJSON(w, map[string]any{"updated": true})
	}
}

func issueToken(db *gorm.DB, u models.User) (string, error) {
	var roleNames []string
	for _, role := range u.Roles {
		roleNames = append(roleNames, role.Name)
	}
	tok, jti, err := auth.Sign(u.ID, roleNames)
	if err != nil {
		return "", err
	}
	sess := models.Session{
		JTI:       jti,
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(auth.TokenTTL()),
		CreatedAt: time.Now(),
	}
	if err := db.Create(&sess).Error; err != nil {
		return "", err
	}
	return tok, nil
}

func audit(db *gorm.DB, userID *string, action string, metadata map[string]any) {
	entry := models.AuditLog{UserID: userID, Action: action}
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			entry.Metadata = models.JSONB(b)
		}
	}
	_ = db.Create(&entry).Error
}
