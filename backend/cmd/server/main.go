package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"samvad-relay/backend/internal/adapter"
	"samvad-relay/backend/internal/cost"
	"samvad-relay/backend/internal/language"
	"samvad-relay/backend/internal/push"
	"samvad-relay/backend/internal/store"
	"samvad-relay/backend/internal/translate"
	"samvad-relay/backend/internal/webhook"
	"samvad-relay/backend/internal/workflow"
	"samvad-relay/backend/pkg/config"
	"samvad-relay/backend/pkg/logger"
)

func main() {
	// Load configuration first so the logger knows the environment
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting relay server...")

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	// Initialize dependencies. The driver, gateways, and workflow are all owned
	// here; nothing else holds global state.
	repo := store.NewRepository(driver)
	directory := language.NewDirectory(repo)
	var translateSvc translate.Translator
	if cfg.TranslateURL != "" {
		translateSvc = translate.NewClient(cfg.TranslateURL)
	}
	translator := translate.NewGateway(translateSvc)
	agent := adapter.NewAgentGateway(cfg.AgentBaseURL, cfg.AgentAPIKey, cfg.AgentModelID)
	wf := workflow.New(repo, directory, translator, agent)

	senders := map[string]push.Sender{
		"facebook":  push.NewFacebookSender(cfg.FacebookPageAccessToken, ""),
		"instagram": push.NewInstagramSender(cfg.InstagramPageAccessToken, cfg.FacebookPageAccessToken, ""),
		"whatsapp":  push.NewWhatsAppSender(cfg.WhatsAppAccessToken, cfg.FacebookPageAccessToken, cfg.WhatsAppPhoneNumberID, ""),
	}

	var awsSource, gcpSource cost.Source
	if s := cost.NewHTTPSource(cfg.AWSBillingURL); s != nil {
		awsSource = s
	}
	if s := cost.NewHTTPSource(cfg.GCPBillingURL); s != nil {
		gcpSource = s
	}
	costs := cost.NewAggregator(awsSource, gcpSource)

	handler := webhook.NewHandler(repo, wf, agent, costs, senders, cfg.WebhookVerifyToken, cfg.TranslationPlatforms)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	handler.RegisterRoutes(router)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started",
		zap.String("port", cfg.Port),
		zap.Strings("translation_platforms", cfg.TranslationPlatforms),
	)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
