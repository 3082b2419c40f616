package codes

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"raidrelay/internal/auth"
	"raidrelay/internal/groups"
	"raidrelay/internal/relay"
	"raidrelay/pkg/models"
)

// Join codes are short alphanumeric strings handed out by the game client.
var reCode = regexp.MustCompile(`^[A-Za-z0-9]{4,12}$`)

type Handler struct {
	Repo     *Repo
	Groups   *groups.Resolver
	Hub      *relay.Hub
	Required gin.HandlerFunc // auth middleware applied to posting
}

func NewHandler(repo *Repo, resolver *groups.Resolver, hub *relay.Hub, authRequired gin.HandlerFunc) *Handler {
	return &Handler{Repo: repo, Groups: resolver, Hub: hub, Required: authRequired}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token/codes", h.list)                // GET  /groups/:token/codes
	rg.POST("/:token/codes", h.Required, h.create) // POST /groups/:token/codes
}

type createReq struct {
	Code       string `json:"code"`
	BossName   string `json:"boss_name"`
	BattleName string `json:"battle_name"`
}

func (h *Handler) create(c *gin.Context) {
	groupID, err := h.Groups.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		groups.RespondResolveError(c, err)
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if !reCode.MatchString(req.Code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code must be 4-12 alphanumeric chars"})
		return
	}

	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	rc := models.RaidCode{
		ID:         uuid.NewString(),
		GroupID:    groupID,
		UserID:     claims.UserID,
		PosterName: claims.Username,
		BossName:   strings.TrimSpace(req.BossName),
		BattleName: strings.TrimSpace(req.BattleName),
		Code:       req.Code,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.Repo.Create(c.Request.Context(), rc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	h.Hub.Broadcast(relay.NewCodeEvent(rc))

	c.JSON(http.StatusCreated, rc)
}

func (h *Handler) list(c *gin.Context) {
	groupID, err := h.Groups.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		groups.RespondResolveError(c, err)
		return
	}

	limit := parseInt(c.Query("limit"), 20)
	items, err := h.Repo.ListRecent(c.Request.Context(), groupID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group_id": groupID,
		"items":    items,
	})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
