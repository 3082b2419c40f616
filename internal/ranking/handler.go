package ranking

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"raidrelay/internal/groups"
	"raidrelay/internal/names"
	"raidrelay/internal/timewindow"
)

const defaultLimit = 10

type Handler struct {
	Repo   *Repo
	Groups *groups.Resolver
	Names  *names.Cache
}

func NewHandler(repo *Repo, resolver *groups.Resolver, nameCache *names.Cache) *Handler {
	return &Handler{Repo: repo, Groups: resolver, Names: nameCache}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:token/rankings", h.rankings) // GET /groups/:token/rankings
}

// rankings resolves the group token and time window, then fetches and
// aggregates both categories independently: one failing category never
// withholds the one that succeeded.
func (h *Handler) rankings(c *gin.Context) {
	groupID, err := h.Groups.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		groups.RespondResolveError(c, err)
		return
	}

	window, err := h.resolveWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := parseInt(c.Query("limit"), defaultLimit)
	if limit <= 0 || limit > 100 {
		limit = defaultLimit
	}
	fetch := FetchLimit(limit)

	var (
		posters    []PosterRank
		battles    []BattleRank
		postersErr error
		battlesErr error
	)

	rawPosters, postersErr := h.Repo.TopPosters(c.Request.Context(), groupID, window, fetch)
	if postersErr == nil {
		var dropped int
		posters, dropped = AggregatePosters(rawPosters, limit)
		if dropped > 0 {
			log.Printf("[ranking] dropped %d unusable poster rows for group %s", dropped, groupID)
		}
	} else {
		log.Printf("[ranking] poster fetch failed for group %s: %v", groupID, postersErr)
	}

	rawBattles, battlesErr := h.Repo.TopBattles(c.Request.Context(), groupID, window, fetch)
	if battlesErr == nil {
		var dropped int
		battles, dropped = AggregateBattles(rawBattles, limit, h.Names.Current())
		if dropped > 0 {
			log.Printf("[ranking] dropped %d unusable battle rows for group %s", dropped, groupID)
		}
	} else {
		log.Printf("[ranking] battle fetch failed for group %s: %v", groupID, battlesErr)
	}

	if postersErr != nil && battlesErr != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rankings unavailable"})
		return
	}

	resp := gin.H{
		"group_id": groupID,
		"window": gin.H{
			"start": window.Start.Format(time.RFC3339),
			"end":   window.End.Format(time.RFC3339),
		},
		"limit": limit,
	}
	if postersErr == nil {
		resp["posters"] = posters
	}
	if battlesErr == nil {
		resp["battles"] = battles
	}
	c.JSON(http.StatusOK, resp)
}

// resolveWindow accepts either days=N (rolling window ending now) or
// period=day|week|month plus date=YYYY-MM-DD, defaulting to the current
// civil day.
func (h *Handler) resolveWindow(c *gin.Context) (timewindow.Window, error) {
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 366 {
			return timewindow.Window{}, errors.New("days must be a positive integer")
		}
		return timewindow.Days(n), nil
	}

	period, err := timewindow.ParsePeriod(c.Query("period"))
	if err != nil {
		return timewindow.Window{}, err
	}

	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		date = timewindow.Today(time.Now())
	}
	return timewindow.Resolve(period, date)
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
