package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"toolhaven/pkg/errs"
)

// The validation paths below are all checked before any database work, so a
// nil *gorm.DB proves the handler rejected the request without touching it.

func decodeWireError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var env struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h(rec, req)
	return rec
}

func TestSignupWeakPasswordRejectedBeforeDatabase(t *testing.T) {
	h := Signup(nil, zap.NewNop().Sugar())
	rec := post(h, `{"email":"a@b.c","password":"12345","display_name":"Ada"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.KindWeakPassword, decodeWireError(t, rec).Kind)
}

func TestSignupMissingFields(t *testing.T) {
	h := Signup(nil, zap.NewNop().Sugar())
	for _, body := range []string{
		`{"password":"secret1","display_name":"Ada"}`,
		`{"email":"a@b.c","display_name":"Ada"}`,
		`{"email":"a@b.c","password":"secret1"}`,
		`not json`,
	} {
		rec := post(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, errs.KindValidation, decodeWireError(t, rec).Kind)
	}
}

func TestChangePasswordWeakNewRejectedBeforeDatabase(t *testing.T) {
	h := ChangePassword(nil, zap.NewNop().Sugar())
	rec := post(h, `{"current":"oldpass1","new":"short"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.KindWeakPassword, decodeWireError(t, rec).Kind)
}

func TestCreateBlogRejectsOversizedExcerpt(t *testing.T) {
	h := CreateBlog(nil, zap.NewNop().Sugar())
	long := strings.Repeat("x", 151)
	rec := post(h, `{"title":"T","content":"C","category":"ai-news","excerpt":"`+long+`"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.KindValidation, decodeWireError(t, rec).Kind)
}

func TestNewsletterRequiresValidEmail(t *testing.T) {
	h := SubscribeNewsletter(nil, nil, zap.NewNop().Sugar())
	for _, body := range []string{`{}`, `{"email":"   "}`, `{"email":"no-at-sign"}`} {
		rec := post(h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, errs.KindValidation, decodeWireError(t, rec).Kind)
	}
}

func TestContactRequiresAllFields(t *testing.T) {
	h := SubmitContact(nil, nil, zap.NewNop().Sugar())
	rec := post(h, `{"first_name":"Ada","last_name":"","email":"a@b.c","message":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, errs.KindValidation, decodeWireError(t, rec).Kind)
}

func TestBackendUnavailableEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	BackendUnavailable()(rec, httptest.NewRequest(http.MethodGet, "/v1/blogs", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeWireError(t, rec)
	assert.Equal(t, errs.KindBackend, body.Kind)
	assert.NotEmpty(t, body.Message)
}
