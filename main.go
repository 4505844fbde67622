// main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-ref-assist/config"
	"go-ref-assist/controllers"
	"go-ref-assist/logger"
	"go-ref-assist/metrics"
	"go-ref-assist/middleware"
	"go-ref-assist/models"
	"go-ref-assist/publisher"
	"go-ref-assist/services"
	"go-ref-assist/websocket"
)

const shutdownTimeout = 10 * time.Second

// app holds everything the router is built from.
type app struct {
	cfg       *config.Config
	assistant *services.Assistant
	hub       *websocket.Hub
	seat      services.OperatorSeatInterface
	prom      *metrics.Prometheus
}

// setupRouter mounts every route on a fresh gin engine.
func setupRouter(a *app) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	// Initialize session store
	store := cookie.NewStore([]byte(a.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // one match day
		HttpOnly: true,
		Secure:   a.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("refassist", store))

	controllers.SetConfig(a.cfg.ApplicationURL)
	auth := controllers.NewAuthController(a.cfg.OperatorUsername, a.cfg.OperatorPasswordHash, a.seat)

	// Public routes
	router.GET("/health", controllers.Health)
	router.GET("/qrcode", controllers.GetQRCode)
	router.GET("/metrics", gin.WrapH(a.prom.Handler()))
	router.POST("/login", auth.Login)
	router.GET("/logout", auth.Logout)
	router.GET("/ws", controllers.NewWebSocketController(a.hub, auth).ServeWs)

	// Protected routes
	api := router.Group("/api", middleware.AuthRequired(a.cfg.AuthEnabled(), a.seat))
	controllers.NewMatchController(a.assistant).RegisterRoutes(api)

	return router
}

// loadMatch reads the configured fixture or falls back to the built-in match.
func loadMatch(cfg *config.Config) (models.Match, error) {
	if cfg.MatchFile == "" {
		return services.DefaultMatch(time.Now()), nil
	}
	return services.LoadMatch(cfg.MatchFile)
}

// newRecorder builds the Prometheus recorder and, when enabled, a CloudWatch
// recorder alongside it.
func newRecorder(cfg *config.Config, matchID string) (*metrics.Prometheus, metrics.Recorder) {
	prom := metrics.NewPrometheus("")
	if !cfg.CloudWatchEnabled {
		return prom, prom
	}
	cw, err := metrics.NewCloudWatch(cfg.CloudWatchNamespace, matchID)
	if err != nil {
		logger.Warn.Printf("CloudWatch disabled: %v", err)
		return prom, prom
	}
	return prom, metrics.Multi{prom, cw}
}

// newAssistant wires the console for one match.
func newAssistant(cfg *config.Config, match models.Match, recorder metrics.Recorder, pub services.IncidentPublisher) *services.Assistant {
	provider := services.NewSimulatedProvider(cfg.RandomSeed)
	return services.NewAssistant(services.AssistantOptions{
		Match:    match,
		Language: models.Language(cfg.Language),
		Device:   services.NewSimulatedCamera(cfg.CameraPolicy),
		Constraints: services.Constraints{
			FacingMode:  cfg.CameraFacingMode,
			IdealWidth:  cfg.CameraWidth,
			IdealHeight: cfg.CameraHeight,
			FPS:         cfg.CameraFPS,
		},
		Recognition:       provider,
		Analysis:          provider,
		Detection:         provider,
		Recorder:          recorder,
		Publisher:         pub,
		ReviewDelay:       cfg.ReviewDelay,
		RecognitionTick:   cfg.RecognitionTick,
		ReviewClearPolicy: cfg.ReviewClearPolicy,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.InitLogger(cfg.LogDir); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	logger.SetLogLevel(cfg.Env, cfg.LogLevel)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	match, err := loadMatch(cfg)
	if err != nil {
		log.Fatalf("Failed to load match: %v", err)
	}
	logger.Info.Printf("Loaded match %s: %s vs %s", match.ID, match.HomeTeam.Name, match.AwayTeam.Name)

	prom, recorder := newRecorder(cfg, match.ID)

	var pub services.IncidentPublisher
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = publisher.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			logger.Warn.Printf("Incident stream disabled: %v", err)
		} else {
			pub = publisher.NewStreamPublisher(redisClient, 10000)
			logger.Info.Printf("Publishing incidents to %s", publisher.StreamKey(match.ID))
		}
	}

	assistant := newAssistant(cfg, match, recorder, pub)
	hub := websocket.NewHub(assistant, cfg.AllowedOrigins, recorder)
	assistant.SetBroadcaster(hub)
	go hub.HandleMessages()

	router := setupRouter(&app{
		cfg:       cfg,
		assistant: assistant,
		hub:       hub,
		seat:      services.NewOperatorSeat(),
		prom:      prom,
	})

	var handler http.Handler = router
	if cfg.XRayEnabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer("referee-assist"), router)
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info.Printf("Referee assistant listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("Server shutdown: %v", err)
	}
	assistant.Close()
	hub.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	logger.Info.Println("Shutdown complete")
}
