package connection

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authcontroller "tasktracker/controller/auth"
	taskcontroller "tasktracker/controller/task"
	"tasktracker/database"
	"tasktracker/middleware"
	"tasktracker/services"
)

// NewRouter wires services and controllers over store.
func NewRouter(cfg Config, store database.Store, hasher services.Hasher) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	if len(cfg.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AddAllowHeaders(middleware.RequestIDHeader)
		router.Use(cors.New(corsConfig))
	}

	authService := services.NewAuthService(store, hasher)
	taskService := services.NewTaskService(store)
	session := &middleware.Session{
		Tokens:     services.NewTokenService(cfg.JWTSecret, cfg.SessionTTL),
		Auth:       authService,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.CookieSecure,
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	authcontroller.SignUpController(router, authService)
	authcontroller.SignInController(router, authService, session)
	taskcontroller.TaskController(router, taskService, session)

	return router
}

func StartServer(cfg Config) error {
	gin.SetMode(cfg.GinMode)
	if err := services.NewTokenService(cfg.JWTSecret, cfg.SessionTTL).Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, store, services.NewBcryptHasher()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[HTTP] listening on %s (store=%s)", srv.Addr, cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[HTTP] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
