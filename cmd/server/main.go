// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"

	"todochat-backend/internal/auth"
	"todochat-backend/internal/config"
	"todochat-backend/internal/domain"
	"todochat-backend/internal/handlers"
	"todochat-backend/internal/middleware"
	conversationrepo "todochat-backend/internal/repository/conversation"
	messagerepo "todochat-backend/internal/repository/message"
	taskrepo "todochat-backend/internal/repository/task"
	"todochat-backend/internal/services"
	"todochat-backend/internal/services/agent"
	chatsvc "todochat-backend/internal/services/chat"
	tasksvc "todochat-backend/internal/services/task"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func newOpenAIClient(cfg *config.Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAIBaseURL
	}
	return openai.NewClientWithConfig(clientConfig)
}

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}, &domain.Conversation{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	taskRepository := taskrepo.NewTaskRepository(db)
	conversationRepository := conversationrepo.NewConversationRepository(db)
	messageRepository := messagerepo.NewMessageRepository(db)

	// --- Services ---
	taskLogger := services.NewLogger("task")
	chatLogger := services.NewLogger("chat")
	agentLogger := services.NewLogger("agent")

	taskService := tasksvc.NewService(taskRepository, taskLogger)

	agentConfig := agent.DefaultConfig()
	agentConfig.APIKey = cfg.OpenAIAPIKey
	agentConfig.BaseURL = cfg.OpenAIBaseURL
	agentConfig.Model = cfg.AgentModel
	agentConfig.MaxToolRounds = cfg.MaxToolRounds
	agentConfig.ToolTimeout = time.Duration(cfg.ToolTimeoutSeconds) * time.Second
	agentConfig.WorkerCommand = cfg.WorkerCommand
	agentConfig.WorkerDir = cfg.WorkerDir

	// Each chat turn gets its own worker subprocess.
	channelFactory := func() agent.ToolChannel {
		return agent.NewStdioChannel(
			agentConfig.WorkerCommand,
			agentConfig.WorkerArgs,
			agentConfig.WorkerDir,
			agentConfig.ToolTimeout,
			agentConfig.StartupTimeout,
		)
	}

	orchestrator, err := agent.NewOrchestrator(agentConfig, newOpenAIClient(cfg), channelFactory, agentLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize agent orchestrator: %v", err)
	}

	chatService := chatsvc.NewService(conversationRepository, messageRepository, orchestrator, chatLogger)

	// --- Handlers ---
	taskHandler := handlers.NewTaskHandler(taskService)
	chatHandler := handlers.NewChatHandler(chatService)

	// --- Router Setup ---
	r := mux.NewRouter()
	jwksClient := auth.NewClient(cfg.AuthBaseURL)
	authMiddleware := middleware.NewJWTMiddleware(jwksClient)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK); _, _ = w.Write([]byte("OK")) }).Methods("GET")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/{user_id}/tasks", taskHandler.CreateTask).Methods("POST")
	api.HandleFunc("/{user_id}/tasks", taskHandler.ListTasks).Methods("GET")
	api.HandleFunc("/{user_id}/tasks/{id:[0-9]+}", taskHandler.GetTask).Methods("GET")
	api.HandleFunc("/{user_id}/tasks/{id:[0-9]+}", taskHandler.UpdateTask).Methods("PUT")
	api.HandleFunc("/{user_id}/tasks/{id:[0-9]+}", taskHandler.DeleteTask).Methods("DELETE")
	api.HandleFunc("/{user_id}/tasks/{id:[0-9]+}/complete", taskHandler.ToggleComplete).Methods("PATCH")
	api.HandleFunc("/{user_id}/chat", chatHandler.HandleChatMessage).Methods("POST")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.ServerPort)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
