// main_test.go
package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-ref-assist/config"
	"go-ref-assist/services"
	"go-ref-assist/websocket"
)

// newTestApp wires a real assistant and hub the way main does, with the
// given operator credentials.
func newTestApp(t *testing.T, username, password string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.New()
	cfg.RandomSeed = 7
	if username != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		cfg.OperatorUsername = username
		cfg.OperatorPasswordHash = string(hash)
	}

	match, err := loadMatch(cfg)
	require.NoError(t, err)
	prom, recorder := newRecorder(cfg, match.ID)
	assistant := newAssistant(cfg, match, recorder, nil)
	hub := websocket.InitTest(assistant)
	assistant.SetBroadcaster(hub)
	t.Cleanup(func() {
		assistant.Close()
		hub.Close()
	})

	return setupRouter(&app{cfg: cfg, assistant: assistant, hub: hub, seat: services.NewOperatorSeat(), prom: prom})
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthEndpoint tests the /health endpoint.
func TestHealthEndpoint(t *testing.T) {
	router := newTestApp(t, "", "")

	req, _ := http.NewRequest("GET", "/health", nil)
	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

// TestMetricsEndpoint checks the Prometheus exposition is mounted.
func TestMetricsEndpoint(t *testing.T) {
	router := newTestApp(t, "", "")

	req, _ := http.NewRequest("GET", "/metrics", nil)
	w := serve(router, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "referee_assist_websocket_connections")
}

// TestAPI_OpenWhenNoCredentials drives the console end to end without login.
func TestAPI_OpenWhenNoCredentials(t *testing.T) {
	router := newTestApp(t, "", "")

	req, _ := http.NewRequest("GET", "/api/match/incidents", nil)
	w := serve(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Incidents []json.RawMessage `json:"incidents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Incidents, 3)

	// recognition needs an active camera
	req, _ = http.NewRequest("POST", "/api/recognition", nil)
	assert.Equal(t, http.StatusConflict, serve(router, req).Code)

	req, _ = http.NewRequest("POST", "/api/camera/toggle", nil)
	w = serve(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cameraState":"active","cameraActive":true}`, w.Body.String())

	req, _ = http.NewRequest("POST", "/api/recognition", nil)
	assert.Equal(t, http.StatusAccepted, serve(router, req).Code)

	// no player recognized yet
	req, _ = http.NewRequest("POST", "/api/cards", strings.NewReader(`{"cardType":"yellow"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusConflict, serve(router, req).Code)

	assert.Eventually(t, func() bool {
		req, _ := http.NewRequest("GET", "/api/state", nil)
		var state struct {
			RecognizedPlayer *struct{ ID string } `json:"recognizedPlayer"`
		}
		_ = json.Unmarshal(serve(router, req).Body.Bytes(), &state)
		return state.RecognizedPlayer != nil
	}, 10*time.Second, 50*time.Millisecond)

	req, _ = http.NewRequest("POST", "/api/cards", strings.NewReader(`{"cardType":"red","reason":"violent conduct"}`))
	req.Header.Set("Content-Type", "application/json")
	w = serve(router, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req, _ = http.NewRequest("GET", "/api/match/report", nil)
	w = serve(router, req)
	var report struct {
		RedCards int `json:"redCards"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 2, report.RedCards)
}

// TestAPI_RequiresLoginWhenConfigured checks /api is guarded once credentials exist.
func TestAPI_RequiresLoginWhenConfigured(t *testing.T) {
	router := newTestApp(t, "ref@example.com", "whistle")

	req, _ := http.NewRequest("GET", "/api/state", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	form := url.Values{"username": {"ref@example.com"}, "password": {"whistle"}}
	req, _ = http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	login := serve(router, req)
	require.Equal(t, http.StatusOK, login.Code)

	req, _ = http.NewRequest("GET", "/api/state", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	assert.Equal(t, http.StatusOK, serve(router, req).Code)
}
