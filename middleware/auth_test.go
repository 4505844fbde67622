// file: middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSeat struct {
	token string
}

func (s *staticSeat) Holder() string { return s.token }

// Helper function to create a test router with session middleware
func setupAuthTestRouter(enabled bool, seat SeatHolder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := cookie.NewStore([]byte("secret"))
	router.Use(sessions.Sessions("testsession", store))

	router.GET("/login-as", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUser, "ref@example.com")
		session.Set(SessionSeat, c.Query("token"))
		_ = session.Save()
		c.String(http.StatusOK, "ok")
	})
	router.GET("/protected", AuthRequired(enabled, seat), func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the protected page")
	})
	return router
}

func loginCookies(t *testing.T, router *gin.Engine, token string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/login-as?token="+token, nil)
	router.ServeHTTP(w, req)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func getProtected(router *gin.Engine, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/protected", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// Test: unauthenticated requests get a JSON 401
func TestAuthRequired_Unauthenticated(t *testing.T) {
	router := setupAuthTestRouter(true, &staticSeat{token: "token-1"})

	w := getProtected(router, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"operator login required"}`, w.Body.String())
}

// Test: the session holding the seat passes
func TestAuthRequired_Authenticated(t *testing.T) {
	router := setupAuthTestRouter(true, &staticSeat{token: "token-1"})

	w := getProtected(router, loginCookies(t, router, "token-1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the protected page", w.Body.String())
}

// Test: a session from an earlier login is refused once the seat moved on
func TestAuthRequired_StaleSession(t *testing.T) {
	seat := &staticSeat{token: "token-1"}
	router := setupAuthTestRouter(true, seat)
	cookies := loginCookies(t, router, "token-1")

	seat.token = "token-2"
	assert.Equal(t, http.StatusUnauthorized, getProtected(router, cookies).Code)

	seat.token = ""
	assert.Equal(t, http.StatusUnauthorized, getProtected(router, cookies).Code, "vacated seat")
}

// Test: without configured credentials the middleware is a passthrough
func TestAuthRequired_Disabled(t *testing.T) {
	router := setupAuthTestRouter(false, &staticSeat{})

	assert.Equal(t, http.StatusOK, getProtected(router, nil).Code)
}
