package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courseboard/internal/api"
	"courseboard/internal/app/service"
	"courseboard/internal/app/worker"
	"courseboard/internal/common/security"
	"courseboard/internal/domain/repository"
	"courseboard/internal/platform/config"
	"courseboard/internal/platform/database"
	"courseboard/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	if err := database.Connect(); err != nil {
		log.Fatalf("Database: %v", err)
	}
	defer database.Close()

	// 4. Initialize Redis
	if err := queue.ConnectRedis(); err != nil {
		log.Fatalf("Redis: %v", err)
	}
	defer queue.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	assignmentRepo := repository.NewPgAssignmentRepository(database.DB)
	submissionRepo := repository.NewPgSubmissionRepository(database.DB)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, queue.RDB)

	authService.BootstrapAdmin(context.Background(), config.AppConfig.AdminEmail)

	// 7. Initialize Notification Worker (as a goroutine)
	notificationWorker := worker.NewNotificationWorker(queue.RDB, submissionRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationWorker.Start(workerCtx)
	fmt.Println("Notification worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, assignmentService, submissionService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
