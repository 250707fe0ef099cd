package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/tsp-platform/casegen/cmd/backend/handlers"
	"github.com/tsp-platform/casegen/database"
	"github.com/tsp-platform/casegen/generator"
	"github.com/tsp-platform/casegen/gentask"
	"github.com/tsp-platform/casegen/logger"
	"github.com/tsp-platform/casegen/project"
	"github.com/tsp-platform/casegen/session"
	"github.com/tsp-platform/casegen/stepeditor"
	"github.com/tsp-platform/casegen/storage"
	"github.com/tsp-platform/casegen/testcase"
	"github.com/tsp-platform/casegen/testpoint"
	"github.com/tsp-platform/casegen/user"
)

var configFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log := logger.NewLogrusLogger(cfg.Log.Level)
	log.Info(ctx, "starting server", map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    BuildDate,
	})

	// Connect to database
	dbCfg := database.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	log.Info(ctx, "database connected", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	// Initialize stores
	userStore := user.NewMySQLStore(db, log)
	projectStore := project.NewMySQLStore(db, log)
	testPointStore := testpoint.NewMySQLStore(db, log)
	testCaseStore := testcase.NewMySQLStore(db, log)
	taskStore := gentask.NewMySQLStore(db, log)

	// Initialize blob storage for generation artifacts
	blobStorage, err := storage.NewBlobStorage(storage.Config{
		Type:          cfg.Storage.Type,
		BaseDir:       cfg.Storage.BaseDir,
		Bucket:        cfg.Storage.S3Bucket,
		Region:        cfg.Storage.S3Region,
		PresignExpiry: cfg.Storage.S3PresignExpiry,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	artifactStore := storage.NewArtifactStore(blobStorage)

	// Initialize the case generator
	caseGenerator, err := generator.NewBedrockGenerator(generator.BedrockConfig{
		Region:          cfg.Generator.BedrockRegion,
		ModelID:         cfg.Generator.BedrockModel,
		MaxTokens:       cfg.Generator.MaxTokens,
		AccessKeyID:     cfg.Generator.BedrockAccessKey,
		SecretAccessKey: cfg.Generator.BedrockSecretKey,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize case generator: %w", err)
	}

	// Initialize session manager
	sessionManager := session.NewManager(cfg.Session.Duration, log)
	sessionManager.StartCleanup(5 * time.Minute)
	defer sessionManager.StopCleanup()

	log.Info(ctx, "session manager initialized", map[string]interface{}{
		"duration": cfg.Session.Duration.String(),
	})

	// Initialize editor session manager
	editorManager := stepeditor.NewManager(cfg.Editor.SessionTTL, log)
	editorManager.StartCleanup(cfg.Editor.CleanupInterval)
	defer editorManager.StopCleanup()

	// Setup router
	router := mux.NewRouter()

	// Health check endpoint (public)
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	// Auth handlers (public)
	authHandler := handlers.NewAuthHandler(
		userStore,
		sessionManager,
		cfg.Session.CookieSecret,
		cfg.Session.CookieName,
		cfg.Session.Secure,
		log,
	)

	router.HandleFunc("/api/v1/auth/register", authHandler.Register).Methods("POST")
	router.HandleFunc("/api/v1/auth/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/v1/auth/logout", authHandler.Logout).Methods("POST")

	// Protected routes
	authMiddleware := handlers.NewAuthMiddleware(sessionManager, cfg.Session.CookieName, log)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authMiddleware.Handler)

	userHandler := handlers.NewUserHandler(userStore, log)
	apiRouter.HandleFunc("/users", userHandler.List).Methods("GET")
	apiRouter.HandleFunc("/users/{id}", userHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/users/{id}", userHandler.Update).Methods("PUT")
	apiRouter.HandleFunc("/users/{id}", userHandler.Delete).Methods("DELETE")

	projectHandler := handlers.NewProjectHandler(projectStore, log)
	apiRouter.HandleFunc("/projects", projectHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/projects", projectHandler.List).Methods("GET")
	apiRouter.HandleFunc("/projects/{id}", projectHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/projects/{id}", projectHandler.Update).Methods("PUT")
	apiRouter.HandleFunc("/projects/{id}", projectHandler.Delete).Methods("DELETE")

	testPointHandler := handlers.NewTestPointHandler(testPointStore, testCaseStore, log)
	apiRouter.HandleFunc("/test-points", testPointHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/projects/{project_id}/test-points", testPointHandler.List).Methods("GET")
	apiRouter.HandleFunc("/test-points/{id}", testPointHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/test-points/{id}", testPointHandler.Update).Methods("PUT")
	apiRouter.HandleFunc("/test-points/{id}", testPointHandler.Delete).Methods("DELETE")
	apiRouter.HandleFunc("/test-points/{id}/convert", testPointHandler.Convert).Methods("POST")

	testCaseHandler := handlers.NewTestCaseHandler(testCaseStore, log)
	apiRouter.HandleFunc("/test-cases", testCaseHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/projects/{project_id}/test-cases", testCaseHandler.List).Methods("GET")
	apiRouter.HandleFunc("/test-cases/{id}", testCaseHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/test-cases/{id}", testCaseHandler.Update).Methods("PUT")
	apiRouter.HandleFunc("/test-cases/{id}", testCaseHandler.Delete).Methods("DELETE")
	apiRouter.HandleFunc("/test-cases/{id}/versions", testCaseHandler.CreateVersion).Methods("POST")
	apiRouter.HandleFunc("/test-cases/{id}/versions", testCaseHandler.GetVersionHistory).Methods("GET")

	editorHandler := handlers.NewEditorHandler(editorManager, testCaseStore, testPointStore, log)
	apiRouter.HandleFunc("/editor/sessions", editorHandler.Open).Methods("POST")
	apiRouter.HandleFunc("/editor/sessions/{id}", editorHandler.GetState).Methods("GET")
	apiRouter.HandleFunc("/editor/sessions/{id}", editorHandler.Close).Methods("DELETE")
	apiRouter.HandleFunc("/editor/sessions/{id}/ops", editorHandler.ApplyOp).Methods("POST")
	apiRouter.HandleFunc("/editor/sessions/{id}/steps", editorHandler.Reconcile).Methods("PUT")
	apiRouter.HandleFunc("/editor/sessions/{id}/save", editorHandler.Save).Methods("POST")

	genTaskHandler := handlers.NewGenTaskHandler(taskStore, testPointStore, testCaseStore, caseGenerator, artifactStore, log)
	apiRouter.HandleFunc("/gen-tasks", genTaskHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/gen-tasks", genTaskHandler.List).Methods("GET")
	apiRouter.HandleFunc("/gen-tasks/{id}", genTaskHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/gen-tasks/{id}/artifact", genTaskHandler.GetArtifact).Methods("GET")
	apiRouter.HandleFunc("/gen-tasks/{id}/apply", genTaskHandler.Apply).Methods("POST")

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info(ctx, "server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server", nil)

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info(ctx, "server stopped", nil)
	return nil
}
