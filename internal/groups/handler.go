package groups

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo     *Repo
	Resolver *Resolver
}

func NewHandler(repo *Repo, resolver *Resolver) *Handler {
	return &Handler{Repo: repo, Resolver: resolver}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token", h.getByToken) // GET /groups/:token
}

func (h *Handler) getByToken(c *gin.Context) {
	id, err := h.Resolver.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		RespondResolveError(c, err)
		return
	}

	g, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "group lookup failed"})
		return
	}
	if g == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
		return
	}
	c.JSON(http.StatusOK, g)
}

// RespondResolveError maps resolution failures onto the HTTP surface.
// Shared by every handler that takes a group token.
func RespondResolveError(c *gin.Context, err error) {
	var amb *AmbiguousError
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "group not found"})
	case errors.As(err, &amb):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "group token is ambiguous",
			"candidates": amb.Candidates,
		})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "group resolution failed"})
	}
}
