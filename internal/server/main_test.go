package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureMailer records outbound reset tokens instead of talking to SMTP.
type captureMailer struct {
	mu     sync.Mutex
	tokens []string
	sent   chan string
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan string, 8)}
}

func (m *captureMailer) SendPasswordReset(to, token string) error {
	m.mu.Lock()
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()
	m.sent <- token
	return nil
}

// withCache points the global cache client at a miniredis for the duration of
// the test. Handler tests run uncached unless they opt in with this.
func withCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := cache.GetClient()
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(prev)
		_ = rdb.Close()
	})
	return mr
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "handler-test-secret-0123456789abcdef",
		JWTTTLHours:       1,
		Port:              "0",
		Env:               "test",
		ResetTokenTTLMins: 15,
		UploadMaxSizeMB:   5,
		FrontendURL:       "http://localhost:5173",
	}
}

func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB, *captureMailer) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	mailer := newCaptureMailer()
	s, err := NewServerWithDeps(testConfig(), db, nil, mailer, nil)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db, mailer
}

// doJSON performs a JSON request against the test app and decodes the response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

// registerUser signs up a user through the API and returns their token.
func registerUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "Sup3rSecret",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%v)", username, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response %v", username, body)
	}
	return token
}

// createPost creates a post through the API and returns its ID.
func createPost(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/api/posts", token, map[string]any{
		"title":   title,
		"content": "<p>content for " + title + "</p>",
		"tags":    []string{"go"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d (%v)", status, body)
	}
	id, ok := body["id"].(float64)
	if !ok || id <= 0 {
		t.Fatalf("create post: bad ID in response %v", body)
	}
	return uint(id)
}

func postPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/posts/%d%s", id, suffix)
}
