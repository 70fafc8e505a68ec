// File: internal/services/task/service_test.go
package task

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"todochat-backend/internal/domain"
	taskrepo "todochat-backend/internal/repository/task"
	"todochat-backend/internal/services"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Task{}); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return NewService(taskrepo.NewTaskRepository(db), &services.NoOpLogger{})
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"empty title", CreateInput{Title: "   "}, ErrTitleRequired},
		{"title too long", CreateInput{Title: strings.Repeat("x", domain.MaxTitleLength+1)}, ErrTitleTooLong},
		{"description too long", CreateInput{Title: "ok", Description: strings.Repeat("x", domain.MaxDescriptionLength+1)}, ErrDescriptionTooLong},
		{"bad priority", CreateInput{Title: "ok", Priority: "urgent"}, ErrInvalidPriority},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, "user-1", tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "  trim me  "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "trim me" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Priority != domain.PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", created.Priority)
	}
	if created.Tags == nil {
		t.Fatal("expected tags to default to empty slice")
	}
}

func TestUpdatePartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", CreateInput{
		Title:       "original",
		Description: "keep me",
		Priority:    domain.PriorityLow,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTitle := "renamed"
	updated, err := svc.Update(ctx, "user-1", created.ID, UpdateInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "renamed" {
		t.Fatalf("expected renamed title, got %q", updated.Title)
	}
	if updated.Description != "keep me" {
		t.Fatalf("expected description untouched, got %q", updated.Description)
	}
	if updated.Priority != domain.PriorityLow {
		t.Fatalf("expected priority untouched, got %q", updated.Priority)
	}
}

func TestUpdateRejectsInvalidPriority(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", CreateInput{Title: "task"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	bad := "asap"
	if _, err := svc.Update(ctx, "user-1", created.ID, UpdateInput{Priority: &bad}); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Get(context.Background(), "user-1", 42); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestToggleCompleteFlipsBothWays(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", CreateInput{Title: "toggle"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	once, err := svc.ToggleComplete(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if !once.Completed {
		t.Fatal("expected completed after first toggle")
	}

	twice, err := svc.ToggleComplete(ctx, "user-1", created.ID)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if twice.Completed {
		t.Fatal("expected pending after second toggle")
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := newTestService(t)

	if err := svc.Delete(context.Background(), "user-1", 42); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}
