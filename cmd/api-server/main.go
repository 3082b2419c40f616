package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"raidrelay/internal/auth"
	"raidrelay/internal/codes"
	"raidrelay/internal/groups"
	"raidrelay/internal/names"
	"raidrelay/internal/ranking"
	"raidrelay/internal/relay"
	"raidrelay/pkg/database"
	"raidrelay/pkg/utils"
)

func main() {
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db, dbCfg.SchemaPath); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	// Relay feed first (so you notice binding errors early)
	hub := relay.NewHub()
	router.GET("/ws", relay.WSHandler(hub))
	tcpSrv := relay.NewServer(srvCfg.RelayAddr, hub)

	// Name dictionary: remote CSV feed if configured, local table otherwise.
	nameCache := names.NewCache()
	var feed names.Source
	if srvCfg.BossFeedURL != "" {
		feed = names.NewCSVFeed(srvCfg.BossFeedURL)
	} else {
		feed = &names.TableSource{DB: db}
	}
	refresher := names.NewRefresher(feed, nameCache, srvCfg.RefreshInterval)

	refreshCtx, stopRefresh := context.WithCancel(context.Background())
	defer stopRefresh()
	go refresher.Run(refreshCtx)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"names":       nameCache.Current().Len(),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/debug", func(c *gin.Context) {
		stats := hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"db":           dbCfg.Path,
			"names_loaded": nameCache.Loaded(),
			"tcp_clients":  stats.TCPClients,
			"ws_clients":   stats.WSClients,
		})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Group resolution + metadata
	groupRepo := groups.NewRepo(db)
	groupResolver := groups.NewResolver(groupRepo.Strategies()...)
	groupRoutes := router.Group("/groups")
	groups.NewHandler(groupRepo, groupResolver).RegisterRoutes(groupRoutes)

	// Rankings
	rankingRepo := ranking.NewRepo(db)
	ranking.NewHandler(rankingRepo, groupResolver, nameCache).RegisterRoutes(groupRoutes)

	// Raid codes (posting requires a login)
	codesRepo := codes.NewRepo(db)
	codes.NewHandler(codesRepo, groupResolver, hub, auth.AuthMiddleware(tokenSvc)).RegisterRoutes(groupRoutes)

	httpSrv := &http.Server{
		Addr:    srvCfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	stopRefresh()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
