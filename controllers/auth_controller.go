// Package controllers controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-ref-assist/logger"
	"go-ref-assist/middleware"
	"go-ref-assist/services"
)

// SessionUser is the session key holding the logged-in operator.
const SessionUser = middleware.SessionUser

// SessionSeat is the session key holding the operator seat token.
const SessionSeat = middleware.SessionSeat

// ComparePasswords checks if the given password matches the hashed password
func ComparePasswords(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// AuthController logs the single operator in and out.
type AuthController struct {
	Username     string
	PasswordHash string
	Seat         services.OperatorSeatInterface
}

// NewAuthController creates an AuthController for the configured operator.
func NewAuthController(username, passwordHash string, seat services.OperatorSeatInterface) *AuthController {
	logger.Debug.Println("NewAuthController: Initializing AuthController")
	return &AuthController{Username: username, PasswordHash: passwordHash, Seat: seat}
}

// Enabled reports whether operator credentials are configured.
func (ac *AuthController) Enabled() bool {
	return ac.Username != "" && ac.PasswordHash != ""
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Login authenticates the operator and claims the operator seat with a fresh
// token. A session that already holds the seat keeps its token; any other
// login is refused with 409 until the holder logs out.
func (ac *AuthController) Login(c *gin.Context) {
	if !ac.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "operator login is not configured"})
		return
	}

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		logger.Warn.Println("[AuthController.Login] Missing username or password")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields."})
		return
	}

	if req.Username != ac.Username || !ComparePasswords(ac.PasswordHash, req.Password) {
		logger.Warn.Printf("[AuthController.Login] Invalid login attempt for user %s", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password."})
		return
	}

	session := sessions.Default(c)
	token, _ := session.Get(SessionSeat).(string)
	if token == "" || token != ac.Seat.Holder() {
		token = uuid.NewString()
	}

	if err := ac.Seat.Claim(req.Username, token); err != nil {
		if errors.Is(err, services.ErrSeatTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "The operator console is already in use."})
			return
		}
		logger.Error.Printf("[AuthController.Login] claim failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again later."})
		return
	}

	session.Set(SessionUser, req.Username)
	session.Set(SessionSeat, token)
	if err := session.Save(); err != nil {
		logger.Error.Printf("[AuthController.Login] Failed to save session: %v", err)
		_ = ac.Seat.Release(token)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again later."})
		return
	}

	logger.Info.Printf("[AuthController.Login] %s logged in as operator", req.Username)
	c.JSON(http.StatusOK, gin.H{"user": req.Username})
}

// Logout clears the session and vacates the operator seat.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	user, _ := session.Get(SessionUser).(string)
	if token, ok := session.Get(SessionSeat).(string); ok && token != "" {
		if err := ac.Seat.Release(token); err != nil {
			logger.Warn.Printf("[AuthController.Logout] %s: %v", user, err)
		}
	}
	if user != "" {
		logger.Info.Printf("[AuthController.Logout] Logging out user %s", user)
	}

	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("[AuthController.Logout] Error saving session during logout: %v", err)
	}
	c.Status(http.StatusNoContent)
}

// IsOperator reports whether the request comes from the seated operator.
// Without configured credentials every client is an operator.
func (ac *AuthController) IsOperator(c *gin.Context) bool {
	if !ac.Enabled() {
		return true
	}
	return middleware.HoldsSeat(c, ac.Seat)
}
