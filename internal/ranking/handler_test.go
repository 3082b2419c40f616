package ranking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raidrelay/internal/groups"
	"raidrelay/internal/names"
)

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router.Group("/groups"))
	return router
}

func seedHandler(t *testing.T) *Handler {
	t.Helper()
	db := testDB(t)
	_, err := db.Exec(`INSERT INTO groups (id, name, slug) VALUES
		('11111111-1111-4111-8111-111111111111', 'Dragons', 'dragons')`)
	require.NoError(t, err)

	base := ts("2025-12-25T10:00:00Z")
	insertCode(t, db, "c1", "11111111-1111-4111-8111-111111111111", "", "alice", "Ifrit", base)
	insertCode(t, db, "c2", "11111111-1111-4111-8111-111111111111", "u-bob", "bob", "Ifrit HL", base.Add(time.Minute))
	insertCode(t, db, "c3", "11111111-1111-4111-8111-111111111111", "u-bob", "bob", "ifrit hl", base.Add(2*time.Minute))

	cache := names.NewCache()
	cache.Replace(names.Build([]names.Entry{
		{Key: "ifrit", Label: "Ifrit"},
		{Key: "ifrit hl", Label: "Ifrit HL"},
	}))

	slugStrategy := groups.Strategy{
		Name: "by_slug",
		Find: func(ctx context.Context, token string) ([]string, error) {
			if token == "dragons" {
				return []string{"11111111-1111-4111-8111-111111111111"}, nil
			}
			if token == "dup" {
				return []string{"a", "b"}, nil
			}
			return nil, nil
		},
	}
	return NewHandler(NewRepo(db), groups.NewResolver(slugStrategy), cache)
}

func doGet(router *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRankingsHappyPath(t *testing.T) {
	router := newRouter(seedHandler(t))

	w := doGet(router, "/groups/dragons/rankings?period=day&date=2025-12-25&limit=5")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		GroupID string `json:"group_id"`
		Window  struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"window"`
		Posters []PosterRank `json:"posters"`
		Battles []BattleRank `json:"battles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "11111111-1111-4111-8111-111111111111", resp.GroupID)
	assert.Equal(t, "2025-12-24T20:00:00Z", resp.Window.Start)
	require.Len(t, resp.Posters, 2)
	require.Len(t, resp.Battles, 2)
	// "Ifrit HL" and "ifrit hl" merge and outrank "Ifrit"; labels render
	// through the dictionary with longest-key priority.
	assert.Equal(t, "Ifrit HL", resp.Battles[0].Label)
	assert.Equal(t, 2, resp.Battles[0].Count)
	assert.Equal(t, "Ifrit", resp.Battles[1].Label)
}

func TestRankingsUUIDTokenSkipsLookup(t *testing.T) {
	router := newRouter(seedHandler(t))
	w := doGet(router, "/groups/11111111-1111-4111-8111-111111111111/rankings?period=day&date=2025-12-25")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRankingsGroupNotFound(t *testing.T) {
	router := newRouter(seedHandler(t))
	w := doGet(router, "/groups/nobody/rankings")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRankingsAmbiguousGroup(t *testing.T) {
	router := newRouter(seedHandler(t))
	w := doGet(router, "/groups/dup/rankings")
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Candidates []string `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"a", "b"}, resp.Candidates)
}

func TestRankingsInvalidDate(t *testing.T) {
	router := newRouter(seedHandler(t))
	w := doGet(router, "/groups/dragons/rankings?period=day&date=2025-13-40")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(router, "/groups/dragons/rankings?days=-3")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doGet(router, "/groups/dragons/rankings?period=decade")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRankingsUpstreamUnavailable(t *testing.T) {
	h := seedHandler(t)
	_, err := h.Repo.DB.Exec(`DROP TABLE raid_codes`)
	require.NoError(t, err)

	router := newRouter(h)
	w := doGet(router, "/groups/dragons/rankings?period=day&date=2025-12-25")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRankingsDaysWindow(t *testing.T) {
	router := newRouter(seedHandler(t))
	// Codes are dated 2025-12-25; a rolling window ending now excludes them,
	// but the endpoint itself must succeed with empty results.
	w := doGet(router, "/groups/dragons/rankings?days=1")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Posters []PosterRank `json:"posters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Posters)
}
