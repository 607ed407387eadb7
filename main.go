package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FlorianRuen/profile-stats-backend/config"
	"github.com/FlorianRuen/profile-stats-backend/controller"
	"github.com/FlorianRuen/profile-stats-backend/logger"
	"github.com/FlorianRuen/profile-stats-backend/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("unable to load configuration")
	}

	// configure logger
	logger.Setup(*cfg)

	// setup github client
	githubClient := service.NewGithubClient(context.Background(), *cfg)

	// setup local rate limiter from the current github rate limits
	log.Debug("loading current rate limit from github")
	rateLimiter, err := service.NewGithubRateLimiter(context.Background(), githubClient)
	if err != nil {
		log.WithError(err).Panic("unable to configure the github rate limiter")
	}

	// setup handlers and services
	githubService := service.NewGithubService(*cfg, githubClient, rateLimiter)
	apiController := controller.NewAPIController(*cfg, githubService)

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	server := &http.Server{
		Addr:    ":" + cfg.API.ListenPort,
		Handler: router,
	}

	router.Use(
		gin.Recovery(),
		logger.GinMiddleware(),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Content-Type, Content-Length, Accept-Encoding, Host, accept, Origin, Cache-Control, X-Requested-With"},
			MaxAge:       12 * time.Hour,
		}),
	)

	controller.RegisterRoutes(router, apiController)

	// start with configuration
	go func() {
		log.Info("server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}
	}()

	// wait for interrupt signal to gracefully shut down the server with a timeout of 15 seconds.
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	} else {
		log.Info("Application stopped gracefully !")
	}
}
