package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/papertrade/internal/domain/error"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/middleware"
)

// userID returns the id stored by middleware.RequireSession. Routes using it
// are always behind that middleware.
func userID(c *gin.Context) uint64 {
	id, ok := middleware.UserID(c)
	if !ok {
		panic("handler: route is not behind RequireSession")
	}
	return id
}

func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validation("invalid watchlist id")
	}
	return id, nil
}
