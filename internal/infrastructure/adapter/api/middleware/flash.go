package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// FlashCookie holds one-shot messages between a redirect and the next page
const FlashCookie = "flash"

const (
	flashInKey  = "flash_in"
	flashOutKey = "flash_out"
)

// Flash moves messages left by the previous response into the request and
// expires the cookie
func Flash() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(FlashCookie); err == nil {
			if messages := decodeFlashes(raw); len(messages) > 0 {
				c.Set(flashInKey, messages)
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(FlashCookie, "", -1, "/", "", false, true)
		}
		c.Next()
	}
}

// AddFlash queues a message for the next rendered page
func AddFlash(c *gin.Context, message string) {
	var pending []string
	if v, ok := c.Get(flashOutKey); ok {
		pending = v.([]string)
	}
	pending = append(pending, message)
	c.Set(flashOutKey, pending)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, encodeFlashes(pending), 0, "/", "", false, true)
}

// Flashes returns the messages delivered with this request
func Flashes(c *gin.Context) []string {
	if v, ok := c.Get(flashInKey); ok {
		return v.([]string)
	}
	return nil
}

func encodeFlashes(messages []string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(messages, "\n")))
}

func decodeFlashes(raw string) []string {
	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(decoded) == 0 {
		return nil
	}
	return strings.Split(string(decoded), "\n")
}
