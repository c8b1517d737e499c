package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolhaven/pkg/errs"
	"toolhaven/pkg/session"
	"toolhaven/pkg/viewstate"
)

func writeData(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": v})
}

func writeErr(w http.ResponseWriter, status int, kind errs.Kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"kind": string(kind), "message": msg},
	})
}

func TestSignInStoresTokenAndMapsAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/auth/login", r.URL.Path)
		writeData(w, map[string]interface{}{
			"token": "tok-123",
			"user": map[string]interface{}{
				"id": "u1", "email": "a@b.c", "display_name": "Ada",
				"provider": "password",
				"roles":    []map[string]string{{"name": "User"}},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	acct, err := c.SignIn(context.Background(), "a@b.c", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", c.Token())
	assert.Equal(t, "Ada", acct.DisplayName)
	assert.Equal(t, []string{"User"}, acct.Roles)
}

func TestErrorKindDecodedFromWire(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusConflict, errs.KindEmailInUse, "email already in use")
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.SignUp(context.Background(), session.SignUpParams{
		Email: "a@b.c", Password: "secret1", DisplayName: "Ada",
	})
	require.Error(t, err)
	assert.Equal(t, errs.KindEmailInUse, errs.KindOf(err))
	assert.Empty(t, c.Token())
}

func TestBlogSlugMissIsNotFoundNotBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, errs.KindNotFound, "blog post not found")
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetBlog(context.Background(), "missing-post")
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.NotEqual(t, errs.KindBackend, errs.KindOf(err))
}

func TestRestoreWithoutTokenFailsLocally(t *testing.T) {
	c := New("http://127.0.0.1:0")
	_, err := c.Restore(context.Background())
	require.Error(t, err)
	assert.Equal(t, errs.KindUnauthorized, errs.KindOf(err))
}

func TestListBlogsSendsCriteria(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tutorials", r.URL.Query().Get("category"))
		assert.Equal(t, "go", r.URL.Query().Get("search"))
		writeData(w, []map[string]interface{}{{"id": "p1", "title": "Go 101", "category": "tutorials"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	blogs, err := c.ListBlogs(context.Background(), viewstate.Criteria{Category: "tutorials", Search: "go"})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "Go 101", blogs[0].Title)
}

func TestCategoryAllOmittedFromQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("category"))
		writeData(w, []map[string]interface{}{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListTools(context.Background(), viewstate.Criteria{Category: viewstate.CategoryAll})
	require.NoError(t, err)
}

func TestBlogPageJoinsBothFetches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/blogs":
			writeData(w, []map[string]interface{}{{"id": "p1", "title": "Hello"}})
		case "/v1/categories":
			writeData(w, []map[string]interface{}{{"id": "c1", "name": "AI News", "slug": "ai-news"}})
		default:
			writeErr(w, http.StatusNotFound, errs.KindNotFound, "no route")
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	blogs, cats, err := c.BlogPage(context.Background(), viewstate.Criteria{})
	require.NoError(t, err)
	assert.Len(t, blogs, 1)
	assert.Len(t, cats, 1)
}

func TestBlogPageFailureIsCoherent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/blogs":
			writeData(w, []map[string]interface{}{{"id": "p1"}})
		default:
			writeErr(w, http.StatusServiceUnavailable, errs.KindBackend, "backend unavailable")
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	blogs, cats, err := c.BlogPage(context.Background(), viewstate.Criteria{})
	require.Error(t, err)
	assert.Nil(t, blogs, "no partial render on join failure")
	assert.Nil(t, cats)
}
