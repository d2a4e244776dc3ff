package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amitkhot2001/blogs/docs"
	"github.com/amitkhot2001/blogs/internal/config"
	"github.com/amitkhot2001/blogs/internal/database"
	"github.com/amitkhot2001/blogs/internal/handlers"
	"github.com/amitkhot2001/blogs/internal/hashid"
	"github.com/amitkhot2001/blogs/internal/mailer"
	"github.com/amitkhot2001/blogs/internal/otp"
	"github.com/amitkhot2001/blogs/internal/repository"
	"github.com/amitkhot2001/blogs/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "scenario-secret-with-at-least-32-bytes"

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

// inbox captures outgoing passcode emails.
type inbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func (i *inbox) Send(_ context.Context, msg mailer.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if m := codePattern.FindStringSubmatch(msg.Text); m != nil {
		i.codes[msg.To] = m[1]
	}
	return nil
}

func (i *inbox) code(email string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.codes[email]
}

type testServer struct {
	router *gin.Engine
	inbox  *inbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:     "test",
		DBDriver:        config.DriverSQLite,
		DBName:          ":memory:",
		JWTSecret:       testSecret,
		JWTExpiry:       time.Hour,
		HashIDSalt:      "scenario-salt",
		HashIDMinLength: 10,
		OTPTTL:          5 * time.Minute,
		AllowedOrigins:  []string{"http://localhost:5173"},
	}

	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := logrus.New()
	log.Out = io.Discard

	codec, err := hashid.New(cfg.HashIDSalt, cfg.HashIDMinLength)
	require.NoError(t, err)
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	require.NoError(t, err)

	box := &inbox{codes: make(map[string]string)}
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	respond := handlers.NewResponder(log, cfg.IsProduction())

	router := gin.New()
	Setup(router, Handlers{
		Auth:   handlers.NewAuthHandler(service.NewAuthService(userRepo, jwtService, otp.NewMemoryStore(), box, cfg.OTPTTL), respond),
		Blog:   handlers.NewBlogHandler(service.NewPostService(postRepo, codec), respond),
		Public: handlers.NewPublicHandler(service.NewPublicService(postRepo, userRepo, codec), respond),
		Health: handlers.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }, respond),
	}, jwtService, cfg, log)

	return &testServer{router: router, inbox: box}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w.Code, decoded
}

// signup registers a user through the passcode flow and returns the token.
func (s *testServer) signup(t *testing.T, name, email, password string) string {
	t.Helper()
	status, _ := s.do(t, http.MethodPost, "/api/request-otp", "", gin.H{"fullName": name, "email": email, "password": password})
	require.Equal(t, http.StatusOK, status)

	code := s.inbox.code(email)
	require.Len(t, code, 6)

	status, body := s.do(t, http.MethodPost, "/api/verify-otp", "", gin.H{"email": email, "otp": code})
	require.Equal(t, http.StatusOK, status)
	return body["token"].(string)
}

func wrongCode(code string) string {
	first := (code[0]-'0'+1)%10 + '0'
	return string(first) + code[1:]
}

func TestScenario_SignupAndLogin(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodPost, "/api/request-otp", "", gin.H{"fullName": "Ann", "email": "ann@x.com", "password": "p@ss1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OTP sent to your email.", body["message"])

	code := s.inbox.code("ann@x.com")
	require.Len(t, code, 6)

	status, body = s.do(t, http.MethodPost, "/api/verify-otp", "", gin.H{"email": "ann@x.com", "otp": wrongCode(code)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid OTP", body["error"])

	status, body = s.do(t, http.MethodPost, "/api/verify-otp", "", gin.H{"email": "ann@x.com", "otp": code})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Signup complete!", body["message"])
	assert.NotEmpty(t, body["token"])

	status, body = s.do(t, http.MethodPost, "/api/verify-otp", "", gin.H{"email": "ann@x.com", "otp": code})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No OTP found for this email", body["error"])

	status, body = s.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "ann@x.com", "password": "p@ss1"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Login successful", body["message"])
	token := body["token"].(string)

	status, body = s.do(t, http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ann", body["fullName"])

	status, _ = s.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "ann@x.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(t, http.MethodPost, "/api/request-otp", "", gin.H{"fullName": "Ann", "email": "ann@x.com", "password": "p@ss1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, body["error"])
}

func TestScenario_AuthenticationGate(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/api/fetch-blogs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Access denied. No token provided.", body["error"])

	status, body = s.do(t, http.MethodGet, "/api/fetch-blogs", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Invalid token.", body["error"])
}

func TestScenario_Ownership(t *testing.T) {
	s := newTestServer(t)
	ann := s.signup(t, "Ann", "ann@x.com", "p@ss1")
	bob := s.signup(t, "Bob", "bob@x.com", "p@ss2")

	status, body := s.do(t, http.MethodPost, "/api/blogs", ann, gin.H{"title": "Ann's post", "content": "body", "isDraft": false, "authorId": 999})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Blog published successfully!", body["message"])
	id := body["id"].(string)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var payload any
		if method == http.MethodPut {
			payload = gin.H{"title": "hijacked", "content": "x"}
		}
		status, body = s.do(t, method, "/api/blogs/"+id, bob, payload)
		assert.Equal(t, http.StatusForbidden, status, method)
		assert.Equal(t, "access denied: not owner", body["error"], method)
	}

	status, body = s.do(t, http.MethodGet, "/api/blogs/"+id, ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ann's post", body["title"])

	status, body = s.do(t, http.MethodGet, "/api/fetch-blogs", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["blogs"])

	status, _ = s.do(t, http.MethodGet, "/api/blogs/not-an-id", ann, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = s.do(t, http.MethodDelete, "/api/blogs/"+id, ann, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Blog deleted successfully", body["message"])

	status, _ = s.do(t, http.MethodGet, "/api/blogs/"+id, ann, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestScenario_PublicSearch(t *testing.T) {
	s := newTestServer(t)
	ann := s.signup(t, "Ann", "ann@x.com", "p@ss1")

	for i := 0; i < 8; i++ {
		status, _ := s.do(t, http.MethodPost, "/api/blogs", ann, gin.H{
			"title":   fmt.Sprintf("React tip %d", i),
			"content": "hooks",
		})
		require.Equal(t, http.StatusCreated, status)
	}
	status, body := s.do(t, http.MethodPost, "/api/blogs", ann, gin.H{"title": "React secret", "content": "draft", "isDraft": true})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Blog saved as draft successfully!", body["message"])
	status, _ = s.do(t, http.MethodPost, "/api/blogs", ann, gin.H{"title": "Go", "content": "unrelated"})
	require.Equal(t, http.StatusCreated, status)

	status, body = s.do(t, http.MethodGet, "/api/public-blogs?page=1&limit=6&search=react", "", nil)
	require.Equal(t, http.StatusOK, status)
	blogs := body["blogs"].([]any)
	assert.Len(t, blogs, 6)
	assert.Equal(t, float64(8), body["totalBlogs"])
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Equal(t, "react", body["searchQuery"])
	for _, b := range blogs {
		assert.Contains(t, b.(map[string]any)["title"], "<mark>React</mark>")
	}

	status, body = s.do(t, http.MethodGet, "/api/public-blogs", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(9), body["totalBlogs"])
	assert.Nil(t, body["searchQuery"])

	status, body = s.do(t, http.MethodGet, "/api/search-suggestions?q=re", "", nil)
	require.Equal(t, http.StatusOK, status)
	suggestions := body["suggestions"].([]any)
	assert.LessOrEqual(t, len(suggestions), 5)
	for _, sg := range suggestions {
		assert.NotEqual(t, "React secret", sg.(map[string]any)["suggestion"])
	}

	first := blogs[0].(map[string]any)
	status, body = s.do(t, http.MethodGet, fmt.Sprintf("/api/blog/%d", int64(first["id"].(float64))), "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ann", body["blog"].(map[string]any)["author"])
}

func TestScenario_HealthAndOriginGuard(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{}`))
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

var (
	routerAnnotation = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)
	ginParam         = regexp.MustCompile(`:(\w+)`)
)

// swaggerOperations returns "method path" keys for every operation in the
// registered swagger document.
func swaggerOperations(t *testing.T) map[string]bool {
	t.Helper()
	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))
	require.Equal(t, "/api", doc.BasePath)

	ops := make(map[string]bool)
	for path, methods := range doc.Paths {
		for method := range methods {
			ops[strings.ToUpper(method)+" "+path] = true
		}
	}
	return ops
}

func TestSwaggerDocs_MatchAnnotations(t *testing.T) {
	ops := swaggerOperations(t)

	files, err := filepath.Glob(filepath.Join("..", "handlers", "*.go"))
	require.NoError(t, err)

	annotated := make(map[string]bool)
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		src, err := os.ReadFile(file)
		require.NoError(t, err)
		for _, m := range routerAnnotation.FindAllStringSubmatch(string(src), -1) {
			annotated[strings.ToUpper(m[2])+" "+m[1]] = true
		}
	}

	require.NotEmpty(t, annotated)
	assert.Equal(t, annotated, ops, "docs/docs.go is out of sync with the handler annotations")
}

func TestSwaggerDocs_CoverAPIRoutes(t *testing.T) {
	ops := swaggerOperations(t)
	s := newTestServer(t)

	var checked int
	for _, route := range s.router.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") {
			continue
		}
		path := ginParam.ReplaceAllString(strings.TrimPrefix(route.Path, "/api"), "{$1}")
		assert.True(t, ops[route.Method+" "+path], "%s %s has no swagger entry", route.Method, route.Path)
		checked++
	}
	assert.Positive(t, checked)
}
