package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"toolhaven/internal/auth"
	"toolhaven/internal/models"
	"toolhaven/internal/services/content"
	"toolhaven/pkg/errs"
)

// ListBlogs serves the public blog list: published only, newest first, with
// optional category equality and a substring-or-tag search across title,
// content and tags.
func ListBlogs(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx := db.Where("published = ?", true).Order("created_at desc")
		tx = applyBlogFilters(tx, r)
		var posts []models.BlogPost
		if err := tx.Find(&posts).Error; err != nil {
			respondError(w, lg, errs.Wrap(errs.KindBackend, "list blogs failed", err))
			return
		}
		respondJSON(w, posts)
	}
}

func applyBlogFilters(tx *gorm.DB, r *http.Request) *gorm.DB {
	if cat := r.URL.Query().Get("category"); cat != "" && cat != "All" {
		tx = tx.Where("category_slug = ?", cat)
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		like := "%" + search + "%"
		tx = tx.Where("title ILIKE ? OR content ILIKE ? OR tags::text ILIKE ?", like, like, like)
	}
	return tx
}

// GetBlog fetches one published post by slug. A miss is an expected outcome
// and maps to not_found, never to a backend error. Each hit counts a view.
func GetBlog(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		var post models.BlogPost
		err := db.First(&post, "slug = ? AND published = ?", slug, true).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, lg, errs.New(errs.KindNotFound, "blog post not found"))
			return
		case err != nil:
			respondError(w, lg, errs.Wrap(errs.KindBackend, "get blog failed", err))
			return
		}
		if err := db.Model(&post).UpdateColumn("views", gorm.Expr("views + 1")).Error; err == nil {
			post.Views++
		}
		respondJSON(w, post)
	}
}

func LikeBlog(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		var post models.BlogPost
		err := db.First(&post, "slug = ? AND published = ?", slug, true).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondError(w, lg, errs.New(errs.KindNotFound, "blog post not found"))
			return
		case err != nil:
			respondError(w, lg, errs.Wrap(errs.KindBackend, "like blog failed", err))
			return
		}
		if err := db.Model(&post).UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
			respondError(w, lg, errs.Wrap(errs.KindBackend, "like blog failed", err))
			return
		}
		respondJSON(w, map[string]any{"likes": post.Likes + 1})
	}
}

// AdminListBlogs returns drafts and published posts alike; ?published=true
// or ?published=false narrows it.
func AdminListBlogs(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tx := db.Order("created_at desc")
		if p := r.URL.Query().Get("published"); p == "true" || p == "false" {
			tx = tx.Where("published = ?", p == "true")
		}
		tx = applyBlogFilters(tx, r)
		var posts []models.BlogPost
		if err := tx.Find(&posts).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "admin list blogs failed", err))
			return
		}
		respondJSON(w, posts)
	}
}

type blogWriteReq struct {
	Title     *string  `json:"title"`
	Slug      *string  `json:"slug"`
	Content   *string  `json:"content"`
	Excerpt   *string  `json:"excerpt"`
	Category  *string  `json:"category"`
	Tags      []string `json:"tags"`
	Published *bool    `json:"published"`
}

func CreateBlog(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req blogWriteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		title := strings.TrimSpace(deref(req.Title))
		body := deref(req.Content)
		category := strings.TrimSpace(deref(req.Category))
		if title == "" || body == "" || category == "" {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "title, content and category are required"))
			return
		}
		excerpt := deref(req.Excerpt)
		if utf8.RuneCountInString(excerpt) > content.DefaultExcerptLength {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "excerpt must be at most 150 characters"))
			return
		}

		slug := content.Slugify(deref(req.Slug))
		if slug == "" {
			slug = content.Slugify(title)
		}
		if slug == "" {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "slug could not be derived from title"))
			return
		}
		if err := ensureCategory(db, category); err != nil {
			respondAdminError(w, lg, err)
			return
		}
		var count int64
		if err := db.Model(&models.BlogPost{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "slug check failed", err))
			return
		}
		if count > 0 {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "slug already in use"))
			return
		}

		if strings.TrimSpace(excerpt) == "" {
			excerpt = content.GenerateExcerpt(body, content.DefaultExcerptLength)
		}
		uid := auth.Subject(r.Context())
		post := models.BlogPost{
			Title:        title,
			Slug:         slug,
			Content:      body,
			Excerpt:      excerpt,
			CategorySlug: category,
			Tags:         models.StringList(req.Tags),
			Published:    req.Published != nil && *req.Published,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if uid != "" {
			post.AuthorID = &uid
		}
		if err := db.Create(&post).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "create blog failed", err))
			return
		}
		audit(db, post.AuthorID, "BLOG_CREATE", map[string]any{"id": post.ID, "slug": post.Slug})
		respondJSON(w, post)
	}
}

func UpdateBlog(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req blogWriteReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondAdminError(w, lg, errs.New(errs.KindValidation, "invalid request body"))
			return
		}
		var post models.BlogPost
		err := db.First(&post, "id = ?", id).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondAdminError(w, lg, errs.New(errs.KindNotFound, "blog post not found"))
			return
		case err != nil:
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "update blog lookup failed", err))
			return
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				respondAdminError(w, lg, errs.New(errs.KindValidation, "title cannot be empty"))
				return
			}
			post.Title = title
		}
		if req.Content != nil {
			if *req.Content == "" {
				respondAdminError(w, lg, errs.New(errs.KindValidation, "content cannot be empty"))
				return
			}
			post.Content = *req.Content
			if req.Excerpt == nil {
				post.Excerpt = content.GenerateExcerpt(post.Content, content.DefaultExcerptLength)
			}
		}
		if req.Excerpt != nil {
			if utf8.RuneCountInString(*req.Excerpt) > content.DefaultExcerptLength {
				respondAdminError(w, lg, errs.New(errs.KindValidation, "excerpt must be at most 150 characters"))
				return
			}
			post.Excerpt = *req.Excerpt
		}
		if req.Category != nil {
			category := strings.TrimSpace(*req.Category)
			if err := ensureCategory(db, category); err != nil {
				respondAdminError(w, lg, err)
				return
			}
			post.CategorySlug = category
		}
		if req.Slug != nil {
			slug := content.Slugify(*req.Slug)
			if slug == "" {
				slug = content.Slugify(post.Title)
			}
			if slug == "" {
				respondAdminError(w, lg, errs.New(errs.KindValidation, "slug could not be derived from title"))
				return
			}
			var count int64
			if err := db.Model(&models.BlogPost{}).Where("slug = ? AND id <> ?", slug, post.ID).Count(&count).Error; err != nil {
				respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "slug check failed", err))
				return
			}
			if count > 0 {
				respondAdminError(w, lg, errs.New(errs.KindValidation, "slug already in use"))
				return
			}
			post.Slug = slug
		}
		if req.Tags != nil {
			post.Tags = models.StringList(req.Tags)
		}
		if req.Published != nil {
			post.Published = *req.Published
		}
		post.UpdatedAt = time.Now()
		if err := db.Save(&post).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "update blog failed", err))
			return
		}
		uid := auth.Subject(r.Context())
		audit(db, &uid, "BLOG_UPDATE", map[string]any{"id": post.ID, "slug": post.Slug})
		respondJSON(w, post)
	}
}

func DeleteBlog(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := db.Delete(&models.BlogPost{}, "id = ?", id).Error; err != nil {
			respondAdminError(w, lg, errs.Wrap(errs.KindBackend, "delete blog failed", err))
			return
		}
		uid := auth.Subject(r.Context())
		audit(db, &uid, "BLOG_DELETE", map[string]any{"id": id})
		respondJSON(w, map[string]any{"deleted": true})
	}
}

func ensureCategory(db *gorm.DB, slug string) error {
	if slug == "" {
		return errs.New(errs.KindValidation, "category is required")
	}
	var cat models.BlogCategory
	err := db.First(&cat, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.New(errs.KindValidation, "unknown category: "+slug)
	}
	if err != nil {
		return errs.Wrap(errs.KindBackend, "category check failed", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
