package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Hinneman/opalseotool/analyzer"
	"github.com/Hinneman/opalseotool/logging"
	"github.com/Hinneman/opalseotool/middleware"
	"github.com/Hinneman/opalseotool/stats"
	"github.com/Hinneman/opalseotool/tools"
)

const maxRequestBody = 1 << 20 // 1 MB

func loadEnv() {
	// Try .env.development first (for local development), then regular .env.
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	loadEnv()
	setupGinMode()

	log, err := logging.New(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	storage, err := stats.NewStorage(getEnv("DATA_DIR", "data"))
	if err != nil {
		log.Fatal("failed to initialize stats storage", zap.Error(err))
	}

	seo := analyzer.New()

	registry := tools.NewRegistry(log)
	tools.RegisterAnalyzePage(registry, seo, storage)

	rateLimiter := middleware.NewRateLimiter(2, 5) // 2 requests per second, bursts of 5

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.ErrorHandler(log))
	r.Use(rateLimiter.RateLimit())
	r.Use(middleware.TrackVisitors(storage))
	r.Use(corsMiddleware())

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":     "ok",
				"operations": registry.Operations(),
			})
		})
		api.POST("/analyze", analyzeHandler(registry))
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, storage.Statistics())
		})
	}

	port := getEnv("PORT", "8082")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Info("server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	if err := storage.Shutdown(); err != nil {
		log.Error("failed to save statistics", zap.Error(err))
	}
}

// analyzeHandler feeds the raw request body to the analyze_page operation
// and serializes whichever half of the result union comes back.
func analyzeHandler(registry *tools.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
		if err != nil {
			c.JSON(http.StatusBadRequest, analyzer.ErrorResult{Error: "Invalid request body"})
			return
		}

		result := registry.Dispatch(c.Request.Context(), tools.AnalyzePageOperation, body)
		if _, failed := result.(analyzer.ErrorResult); failed {
			c.JSON(http.StatusBadRequest, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
