// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ref-assist/logger"
	"go-ref-assist/services"
)

var (
	ApplicationURL string
	qrEncoder      services.QREncoder // nil uses qrcode.Encode
)

// SetConfig sets the public console URL advertised by the QR code.
func SetConfig(appURL string) {
	ApplicationURL = appURL
	logger.Info.Printf("SetConfig: Global config updated: ApplicationURL=%s", appURL)
}

// Health answers liveness checks.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// GetQRCode serves a PNG QR code linking to the console.
func GetQRCode(c *gin.Context) {
	logger.Info.Println("GetQRCode: Generating QR code")

	qrBytes, err := services.GenerateQRCode(ApplicationURL, 300, 300, qrEncoder)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}
