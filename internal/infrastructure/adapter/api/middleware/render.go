package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/view"
)

// Render writes a page together with the layout data of the request:
// the signed in user, their cash and pending flash messages
func Render(c *gin.Context, status int, name string, data any) {
	page := view.Page{Flashes: Flashes(c), Data: data}
	if user := CurrentUser(c); user != nil {
		page.SignedIn = true
		page.Username = user.Username
		page.Cash = user.Cash()
	}
	c.HTML(status, name, page)
}

// Apology renders the apology page with a status code and message
func Apology(c *gin.Context, status int, message string) {
	Render(c, status, view.Apology, gin.H{"code": status, "message": message})
}
