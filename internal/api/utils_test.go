package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/journalhub/internal/types"
)

func TestErrorResponse(t *testing.T) {
	var rr *httptest.ResponseRecorder
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, r, http.StatusNotFound, "User not found")
	}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User not found", body["error"])
	assert.NotEmpty(t, body["request_id"])
}

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Email string `json:"email"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"email":"a@b.co"}`},
		{name: "empty", body: ``, wantErr: "body must not be empty"},
		{name: "malformed", body: `{"email":`, wantErr: "badly-formed JSON"},
		{name: "unknown key", body: `{"mail":"x"}`, wantErr: `unknown key "mail"`},
		{name: "wrong type", body: `{"email":1}`, wantErr: `incorrect JSON type for field "email"`},
		{name: "two values", body: `{"email":"a"}{"email":"b"}`, wantErr: "single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "a@b.co", dst.Email)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParsePage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=500", nil)
	assert.Equal(t, types.Page{Page: 3, Limit: types.MaxPageLimit}, ParsePage(req))

	req = httptest.NewRequest(http.MethodGet, "/?page=abc", nil)
	assert.Equal(t, types.Page{Page: 1, Limit: types.DefaultPageLimit}, ParsePage(req))

	req = httptest.NewRequest(http.MethodGet, "/?page=9223372036854775807&limit=100", nil)
	page := ParsePage(req)
	assert.Equal(t, int64(types.MaxPage), page.Page)
	assert.GreaterOrEqual(t, page.Skip(), int64(0))

	req = httptest.NewRequest(http.MethodGet, "/?page=9223372036854775807&limit=1", nil)
	assert.GreaterOrEqual(t, ParsePage(req).Skip(), int64(0))
}

func TestBaseURL(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "http://journal.local/api/auth/request-password-reset", nil)
	assert.Equal(t, "http://journal.local", BaseURL(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://journal.local", BaseURL(req))
}
