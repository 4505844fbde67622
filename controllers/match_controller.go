// Package controllers file: controllers/match_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ref-assist/logger"
	"go-ref-assist/models"
	"go-ref-assist/services"
	"go-ref-assist/websocket"
)

// Console is what the HTTP API drives: the socket actions plus read access
// to the match document.
type Console interface {
	websocket.ActionHandler
	Match() models.Match
	Incidents() []models.Incident
	Report() models.FinalReport
}

var _ Console = (*services.Assistant)(nil)

// MatchController serves the /api routes.
type MatchController struct {
	Console Console
}

// NewMatchController creates an instance of MatchController
func NewMatchController(console Console) *MatchController {
	logger.Debug.Println("NewMatchController: Initializing MatchController")
	return &MatchController{Console: console}
}

type cardRequest struct {
	CardType models.CardType `json:"cardType"`
	Reason   string          `json:"reason"`
}

type languageRequest struct {
	Language models.Language `json:"language" binding:"required"`
}

// statusFor maps a console error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, services.ErrDeviceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrPreconditionNotMet):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (mc *MatchController) fail(c *gin.Context, err error) {
	logger.Info.Printf("[MatchController] %s %s rejected: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(statusFor(err), gin.H{
		"error":  err.Error(),
		"notice": services.NoticeFor(err, mc.Console.Language()),
	})
}

func badRequest(c *gin.Context, err error) {
	logger.Warn.Printf("[MatchController] %s %s invalid body: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// GetState returns the console state.
func (mc *MatchController) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, mc.Console.State())
}

// GetMatch returns the match document.
func (mc *MatchController) GetMatch(c *gin.Context) {
	c.JSON(http.StatusOK, mc.Console.Match())
}

// GetIncidents returns the incident log, most recent first.
func (mc *MatchController) GetIncidents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"incidents": mc.Console.Incidents()})
}

// GetReport returns the final report.
func (mc *MatchController) GetReport(c *gin.Context) {
	c.JSON(http.StatusOK, mc.Console.Report())
}

// ToggleCamera starts or stops the camera. The request context bounds the
// permission request.
func (mc *MatchController) ToggleCamera(c *gin.Context) {
	state, err := mc.Console.ToggleCamera(c.Request.Context())
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cameraState": state, "cameraActive": state == models.CameraActive})
}

// ToggleDetection flips the detection overlay mode.
func (mc *MatchController) ToggleDetection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"detectionMode": mc.Console.ToggleDetectionMode()})
}

// BeginRecognition starts a scan; progress arrives over the socket.
func (mc *MatchController) BeginRecognition(c *gin.Context) {
	if err := mc.Console.BeginRecognition(); err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, mc.Console.State())
}

// SelectCard records the pending card choice.
func (mc *MatchController) SelectCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := mc.Console.SelectCard(req.CardType); err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedCardType": req.CardType})
}

// IssueCard records an incident against the recognized player.
func (mc *MatchController) IssueCard(c *gin.Context) {
	var req cardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	inc, err := mc.Console.IssueCard(req.CardType, req.Reason)
	if err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, inc)
}

// SetLanguage switches the notice language.
func (mc *MatchController) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := mc.Console.SetLanguage(req.Language); err != nil {
		mc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": req.Language})
}

// RegisterRoutes mounts the API on group.
func (mc *MatchController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/state", mc.GetState)
	group.GET("/match", mc.GetMatch)
	group.GET("/match/incidents", mc.GetIncidents)
	group.GET("/match/report", mc.GetReport)
	group.POST("/camera/toggle", mc.ToggleCamera)
	group.POST("/detection/toggle", mc.ToggleDetection)
	group.POST("/recognition", mc.BeginRecognition)
	group.POST("/cards/select", mc.SelectCard)
	group.POST("/cards", mc.IssueCard)
	group.PUT("/language", mc.SetLanguage)
}
