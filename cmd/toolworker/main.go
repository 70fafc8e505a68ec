// File: cmd/toolworker/main.go
package main

import (
	"log"

	"github.com/glebarez/sqlite"
	"github.com/mark3labs/mcp-go/server"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"todochat-backend/internal/config"
	"todochat-backend/internal/domain"
	taskrepo "todochat-backend/internal/repository/task"
	"todochat-backend/internal/tools"
)

// The worker speaks MCP over stdout, so nothing else may write there. The
// standard logger already targets stderr; gorm's logger is silenced.
func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	registry := tools.NewRegistry(taskrepo.NewTaskRepository(db))

	if err := server.ServeStdio(registry.Server()); err != nil {
		log.Fatalf("Tool worker terminated: %v", err)
	}
}
