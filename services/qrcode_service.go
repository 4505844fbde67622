// services/qrcode_service.go
package services

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

// QREncoder matches qrcode.Encode so tests can swap it out.
type QREncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateQRCode encodes the console URL as a PNG. A nil encoder uses qrcode.Encode.
func GenerateQRCode(consoleURL string, width, height int, encoder QREncoder) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid dimensions: width and height must be positive")
	}
	if consoleURL == "" {
		consoleURL = "http://localhost:8080" // local testing
	}
	if encoder == nil {
		encoder = qrcode.Encode
	}

	png, err := encoder(consoleURL, qrcode.Medium, width)
	if err != nil {
		return nil, err
	}
	return png, nil
}
