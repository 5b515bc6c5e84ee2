package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"newsfeed-service/internal/adapter/db/gormdb"
	"newsfeed-service/internal/adapter/gin/handler"
	"newsfeed-service/internal/adapter/gin/router"
	"newsfeed-service/internal/adapter/newsapi"
	newsuc "newsfeed-service/internal/usecase/news"
	useruc "newsfeed-service/internal/usecase/user"
	"newsfeed-service/pkg/security"
	"newsfeed-service/pkg/token"
)

// APIIntegrationTestSuite exercises the full HTTP surface against a
// real in-memory store and a stubbed upstream news API.
type APIIntegrationTestSuite struct {
	suite.Suite
	engine   http.Handler
	upstream *httptest.Server

	// query parameters the stub saw on its last request
	lastPath  string
	lastQuery string
}

func (s *APIIntegrationTestSuite) SetupTest() {
	t := s.T()
	log := zaptest.NewLogger(t)

	s.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastPath = r.URL.Path
		s.lastQuery = r.URL.Query().Get("q")
		if r.URL.Query().Get("apiKey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status":"error","code":"apiKeyInvalid"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"title":"stub"}]}`))
	}))
	t.Cleanup(s.upstream.Close)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(gormdb.Migrate(db))

	repo := gormdb.NewUserRepo(db, log)
	hasher := security.NewPasswordHasher(security.DefaultCost)
	tokens := token.NewManager([]byte("integration-secret"), time.Hour)
	provider := newsapi.NewClient(newsapi.Config{
		BaseURL: s.upstream.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, log)

	userUC := useruc.New(repo, hasher, tokens, log)
	newsUC := newsuc.New(repo, provider, "in", log)

	s.engine = router.SetupRouter(
		handler.NewAccountHandler(userUC, log),
		handler.NewPreferencesHandler(userUC, log),
		handler.NewNewsHandler(newsUC, log),
		tokens,
		log,
	)
}

func (s *APIIntegrationTestSuite) do(method, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *APIIntegrationTestSuite) signup(name, email, password string) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, "/users/signup", "",
		`{"name":"`+name+`","email":"`+email+`","password":"`+password+`"}`)
}

func (s *APIIntegrationTestSuite) login(email, password string) string {
	w := s.do(http.MethodPost, "/users/login", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Require().NotEmpty(body.Token)
	return body.Token
}

func (s *APIIntegrationTestSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "healthy")
}

func (s *APIIntegrationTestSuite) TestSignupLoginFlow() {
	w := s.signup("John", "john@example.com", "pass123")
	s.Equal(http.StatusCreated, w.Code)
	s.Contains(w.Body.String(), `"User registered"`)
	s.NotContains(w.Body.String(), "password")

	token := s.login("john@example.com", "pass123")

	w = s.do(http.MethodGet, "/users/me", token, "")
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"john@example.com"`)
	s.Contains(w.Body.String(), `"preferences":[]`)
}

func (s *APIIntegrationTestSuite) TestDuplicateSignup() {
	w := s.signup("John", "john@example.com", "pass123")
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.signup("Impostor", "john@example.com", "other")
	s.Equal(http.StatusBadRequest, w.Code)

	// Original credentials still work
	s.login("john@example.com", "pass123")
}

func (s *APIIntegrationTestSuite) TestLoginRejectsWrongPassword() {
	w := s.signup("John", "john@example.com", "pass123")
	s.Require().Equal(http.StatusCreated, w.Code)

	w = s.do(http.MethodPost, "/users/login", "", `{"email":"john@example.com","password":"wrong"}`)
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/users/login", "", `{"email":"nobody@example.com","password":"pass123"}`)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APIIntegrationTestSuite) TestPreferencesRoundTrip() {
	s.Require().Equal(http.StatusCreated, s.signup("John", "john@example.com", "pass123").Code)
	token := s.login("john@example.com", "pass123")

	w := s.do(http.MethodGet, "/users/preferences", token, "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"preferences":[]}`, w.Body.String())

	w = s.do(http.MethodPut, "/users/preferences", token, `{"preferences":["cricket","politics"]}`)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Updated","preferences":["cricket","politics"]}`, w.Body.String())

	// Replacement is wholesale, not a merge
	w = s.do(http.MethodPut, "/users/preferences", token, `{"preferences":["tech"]}`)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/users/preferences", token, "")
	s.JSONEq(`{"preferences":["tech"]}`, w.Body.String())
}

func (s *APIIntegrationTestSuite) TestPreferencesMustBeArray() {
	s.Require().Equal(http.StatusCreated, s.signup("John", "john@example.com", "pass123").Code)
	token := s.login("john@example.com", "pass123")

	w := s.do(http.MethodPut, "/users/preferences", token, `{"preferences":"cricket"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.JSONEq(`{"error":"Must be array"}`, w.Body.String())
}

func (s *APIIntegrationTestSuite) TestPreferencesAreIsolatedPerUser() {
	s.Require().Equal(http.StatusCreated, s.signup("John", "john@example.com", "pass123").Code)
	s.Require().Equal(http.StatusCreated, s.signup("Jane", "jane@example.com", "pass456").Code)

	johnToken := s.login("john@example.com", "pass123")
	janeToken := s.login("jane@example.com", "pass456")

	w := s.do(http.MethodPut, "/users/preferences", johnToken, `{"preferences":["cricket"]}`)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/users/preferences", janeToken, "")
	s.JSONEq(`{"preferences":[]}`, w.Body.String())
}

func (s *APIIntegrationTestSuite) TestNewsUsesStoredPreferences() {
	s.Require().Equal(http.StatusCreated, s.signup("John", "john@example.com", "pass123").Code)
	token := s.login("john@example.com", "pass123")

	w := s.do(http.MethodPut, "/users/preferences", token, `{"preferences":["cricket","politics"]}`)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/news", token, "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"articles":[{"title":"stub"}]}`, w.Body.String())
	s.Equal("/everything", s.lastPath)
	s.Equal("cricket OR politics", s.lastQuery)
}

func (s *APIIntegrationTestSuite) TestNewsFallsBackToHeadlines() {
	s.Require().Equal(http.StatusCreated, s.signup("John", "john@example.com", "pass123").Code)
	token := s.login("john@example.com", "pass123")

	w := s.do(http.MethodGet, "/news", token, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("/top-headlines", s.lastPath)
}

func (s *APIIntegrationTestSuite) TestProtectedRoutesRejectAnonymous() {
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/users/preferences"},
		{http.MethodPut, "/users/preferences"},
		{http.MethodGet, "/news"},
	} {
		w := s.do(route.method, route.path, "", "")
		s.Equal(http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func (s *APIIntegrationTestSuite) TestExpiredTokenIsForbidden() {
	s.Require().Equal(http.StatusCreated, s.signup("John", "john@example.com", "pass123").Code)

	expired := token.NewManager([]byte("integration-secret"), -time.Minute)
	stale, err := expired.Issue(1)
	s.Require().NoError(err)

	w := s.do(http.MethodGet, "/news", stale, "")
	s.Equal(http.StatusForbidden, w.Code)
}

func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
