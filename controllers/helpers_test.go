// file: controllers/helpers_test.go
package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"go-ref-assist/models"
)

// setupTestRouter creates a new Gin engine with session middleware.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))
	return router
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "testsession" {
			return cookie
		}
	}
	return nil
}

// hashPassword hashes the given password using bcrypt.
func hashPassword(password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic("failed to hash password: " + err.Error())
	}
	return string(hashed)
}

// MockConsole is a testify mock for Console.
type MockConsole struct {
	mock.Mock
}

func (m *MockConsole) ToggleCamera(ctx context.Context) (models.CameraState, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.CameraState), args.Error(1)
}

func (m *MockConsole) ToggleDetectionMode() models.DetectionMode {
	return m.Called().Get(0).(models.DetectionMode)
}

func (m *MockConsole) BeginRecognition() error {
	return m.Called().Error(0)
}

func (m *MockConsole) SelectCard(card models.CardType) error {
	return m.Called(card).Error(0)
}

func (m *MockConsole) IssueCard(card models.CardType, reason string) (*models.Incident, error) {
	args := m.Called(card, reason)
	inc, _ := args.Get(0).(*models.Incident)
	return inc, args.Error(1)
}

func (m *MockConsole) SetLanguage(lang models.Language) error {
	return m.Called(lang).Error(0)
}

func (m *MockConsole) State() models.ConsoleState {
	return m.Called().Get(0).(models.ConsoleState)
}

func (m *MockConsole) Language() models.Language {
	return m.Called().Get(0).(models.Language)
}

func (m *MockConsole) Match() models.Match {
	return m.Called().Get(0).(models.Match)
}

func (m *MockConsole) Incidents() []models.Incident {
	return m.Called().Get(0).([]models.Incident)
}

func (m *MockConsole) Report() models.FinalReport {
	return m.Called().Get(0).(models.FinalReport)
}
