package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/papertrade/internal/domain/port/core"
	"github.com/amirhossein-jamali/papertrade/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/middleware"
	"github.com/amirhossein-jamali/papertrade/internal/infrastructure/adapter/api/view"
)

const watchlistPath = "/watchlist"

// WatchlistHandler handles the price alert pages
type WatchlistHandler struct {
	watchlistUseCase usecase.WatchlistUseCase
	logger           coreport.Logger
}

// NewWatchlistHandler creates a new watchlist handler instance
func NewWatchlistHandler(watchlistUseCase usecase.WatchlistUseCase, logger coreport.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistUseCase: watchlistUseCase,
		logger:           logger,
	}
}

// List handles GET /watchlist. With ?edit=<id> the owned entry is shown
// with an inline edit form.
func (h *WatchlistHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)

	var editID uint64
	if raw := c.Query("edit"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			middleware.Fail(c, h.logger, err)
			return
		}
		if _, err := h.watchlistUseCase.Get(ctx, uid, id); err != nil {
			middleware.Fail(c, h.logger, err)
			return
		}
		editID = id
	}

	statuses, err := h.watchlistUseCase.List(ctx, uid)
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}
	middleware.Render(c, http.StatusOK, view.Watchlist, gin.H{
		"statuses": statuses,
		"editID":   editID,
	})
}

// Create handles POST /watchlist
func (h *WatchlistHandler) Create(c *gin.Context) {
	entry, err := h.watchlistUseCase.Create(
		c.Request.Context(),
		userID(c),
		c.PostForm("symbol"),
		c.PostForm("target_price"),
		c.PostForm("direction"),
	)
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	middleware.AddFlash(c, "Added "+entry.Symbol+" to your watchlist")
	c.Redirect(http.StatusFound, watchlistPath)
}

// EditForm handles GET /watchlist/edit/:id by switching the list into
// inline edit mode
func (h *WatchlistHandler) EditForm(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusFound, watchlistPath+"?edit="+strconv.FormatUint(id, 10))
}

// Edit handles POST /watchlist/edit/:id
func (h *WatchlistHandler) Edit(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	_, changed, err := h.watchlistUseCase.Edit(
		c.Request.Context(),
		userID(c),
		id,
		c.PostForm("target_price"),
		c.PostForm("direction"),
	)
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	if changed {
		middleware.AddFlash(c, "Watchlist entry updated")
	} else {
		middleware.AddFlash(c, "No changes made")
	}
	c.Redirect(http.StatusFound, watchlistPath)
}

// Delete handles POST /watchlist/delete/:id
func (h *WatchlistHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	if err := h.watchlistUseCase.Delete(c.Request.Context(), userID(c), id); err != nil {
		middleware.Fail(c, h.logger, err)
		return
	}

	middleware.AddFlash(c, "Watchlist entry deleted")
	c.Redirect(http.StatusFound, watchlistPath)
}
