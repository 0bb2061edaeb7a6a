package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"foodgram/internal/config"
	"foodgram/internal/database/dbtest"
	"foodgram/internal/domain"
	"foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/shortcode"
	"foodgram/internal/storage/storagetest"
)

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:               "test",
		PublicBaseURL:        "http://foodgram.test",
		ShortCodeLength:      shortcode.DefaultLength,
		ShortCodeAlphabet:    shortcode.DefaultAlphabet,
		ShortCodeMaxAttempts: shortcode.DefaultMaxAttempts,
		ShortCodeCacheSize:   16,
		ImageStore:           "local",
		DefaultPageSize:      6,
	}
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *jwt.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.New(t)
	tokens := jwt.New("router-test-secret", time.Hour)

	router, err := NewRouter(Deps{
		Config: testConfig(),
		DB:     db,
		Images: storagetest.NewMemoryStore(),
		Tokens: tokens,
	})
	require.NoError(t, err)
	return &testServer{router: router, db: db, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := s.tokens.GenerateToken(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s.do(t, http.MethodGet, "/api/tags", 0, nil)
	w = s.do(t, http.MethodGet, "/metrics", 0, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foodgram_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/api/nope", 0, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestInvalidTokenOnPublicRoute(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenForDeletedUser(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/users/me", 9999, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "USER_NOT_FOUND")

	w = s.do(t, http.MethodPost, "/api/recipes/1/favorite", 9999, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	require.NoError(t, s.db.Model(&domain.Favorite{}).Count(&count).Error)
	assert.Zero(t, count)
}

// TestRecipeLifecycle walks the main user journey across modules.
func TestRecipeLifecycle(t *testing.T) {
	s := newTestServer(t)
	alice := &domain.User{Email: "alice@example.com", Username: "alice", FirstName: "Alice", LastName: "A"}
	bob := &domain.User{Email: "bob@example.com", Username: "bob", FirstName: "Bob", LastName: "B"}
	require.NoError(t, s.db.Create(alice).Error)
	require.NoError(t, s.db.Create(bob).Error)
	tag := &domain.Tag{Name: "Завтрак", Slug: "breakfast"}
	require.NoError(t, s.db.Create(tag).Error)
	flour := &domain.Ingredient{Name: "flour", MeasurementUnit: "g"}
	require.NoError(t, s.db.Create(flour).Error)

	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	body := map[string]any{
		"ingredients":  []map[string]any{{"id": flour.ID, "amount": 200}},
		"tags":         []int64{tag.ID},
		"image":        image,
		"name":         "Bread",
		"text":         "Knead and bake.",
		"cooking_time": 90,
	}

	var ids []int64
	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/api/recipes", alice.ID, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created struct {
			ID int64 `json:"id"`
		}
		decodeData(t, w, &created)
		ids = append(ids, created.ID)
	}
	body["ingredients"] = []map[string]any{{"id": flour.ID, "amount": 300}}
	w := s.do(t, http.MethodPatch, fmt.Sprintf("/api/recipes/%d", ids[1]), alice.ID, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// bob follows alice and fills the cart
	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe", alice.ID), bob.ID, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	for _, id := range ids {
		w = s.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", id), bob.ID, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shopping list:\n\nflour (g): 500\n", w.Body.String())

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d", ids[0]), bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		IsInShoppingCart bool `json:"is_in_shopping_cart"`
		Author           struct {
			IsSubscribed bool `json:"is_subscribed"`
		} `json:"author"`
	}
	decodeData(t, w, &got)
	assert.True(t, got.IsInShoppingCart)
	assert.True(t, got.Author.IsSubscribed)

	// the permalink resolves through the short code
	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/recipes/%d/get-link", ids[0]), 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var link struct {
		ShortLink string `json:"short-link"`
	}
	decodeData(t, w, &link)
	require.True(t, strings.HasPrefix(link.ShortLink, "http://foodgram.test/api/s/"))
	w = s.do(t, http.MethodGet, strings.TrimPrefix(link.ShortLink, "http://foodgram.test"), 0, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fmt.Sprintf("/recipes/%d", ids[0]), w.Header().Get("Location"))

	// deleting the recipe empties it from the cart
	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/recipes/%d", ids[1]), alice.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", bob.ID, nil)
	assert.Equal(t, "Shopping list:\n\nflour (g): 200\n", w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/subscriptions", bob.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var subs struct {
		Results []struct {
			ID           int64 `json:"id"`
			RecipesCount int64 `json:"recipes_count"`
		} `json:"results"`
	}
	decodeData(t, w, &subs)
	require.Len(t, subs.Results, 1)
	assert.Equal(t, alice.ID, subs.Results[0].ID)
	assert.EqualValues(t, 1, subs.Results[0].RecipesCount)
}
