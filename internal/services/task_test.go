package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/insightly-hq/insightly/internal/models"
	"github.com/insightly-hq/insightly/pkg/response"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestValidateTaskInput_Valid(t *testing.T) {
	due, appErr := validateTaskInput("Ship the release notes", "in_progress", "2026-04-10")
	if appErr != nil {
		t.Fatalf("unexpected validation error: %v", appErr)
	}
	if due == nil || !due.Equal(time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due = %v, expected 2026-04-10", due)
	}
}

func TestValidateTaskInput_NoDueDate(t *testing.T) {
	due, appErr := validateTaskInput("Untimed chore", "", "")
	if appErr != nil {
		t.Fatalf("unexpected validation error: %v", appErr)
	}
	if due != nil {
		t.Errorf("due = %v, expected nil", due)
	}
}

func TestValidateTaskInput_TitleBounds(t *testing.T) {
	cases := []struct {
		title string
		ok    bool
	}{
		{"ab", false},
		{"fix", true},
		{strings.Repeat("t", 200), true},
		{strings.Repeat("t", 201), false},
		{"   ", false},
	}
	for _, tc := range cases {
		_, appErr := validateTaskInput(tc.title, "", "")
		if tc.ok && appErr != nil {
			t.Errorf("title %q rejected: %v", tc.title, appErr)
		}
		if !tc.ok && (appErr == nil || appErr.Field != "title") {
			t.Errorf("title %q: got %v, expected title error", tc.title, appErr)
		}
	}
}

func TestValidateTaskInput_MultibyteTitleBounds(t *testing.T) {
	_, appErr := validateTaskInput("日本", "", "")
	if appErr == nil || appErr.Field != "title" {
		t.Errorf("2-rune title accepted, expected title error, got %v", appErr)
	}

	if _, appErr := validateTaskInput(strings.Repeat("タ", 200), "", ""); appErr != nil {
		t.Errorf("200-rune title rejected: %v", appErr)
	}

	_, appErr = validateTaskInput(strings.Repeat("タ", 201), "", "")
	if appErr == nil || appErr.Field != "title" {
		t.Errorf("201-rune title accepted, expected title error, got %v", appErr)
	}
}

func TestValidateTaskInput_Status(t *testing.T) {
	for _, status := range []string{"pending", "in_progress", "completed"} {
		if _, appErr := validateTaskInput("Valid title", status, ""); appErr != nil {
			t.Errorf("status %q rejected: %v", status, appErr)
		}
	}
	_, appErr := validateTaskInput("Valid title", "done", "")
	if appErr == nil || appErr.Field != "status" {
		t.Errorf("status done: got %v, expected status error", appErr)
	}
}

// unreachableDB returns a handle whose first query fails: the DSN is valid
// but nothing listens on the port, and connection setup is deferred past Open.
func unreachableDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "insightly:insightly@tcp(127.0.0.1:1)/insightly",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return db
}

func TestCheckTaskVisible_StoreErrorPropagates(t *testing.T) {
	s := NewTaskService(unreachableDB(t))
	task := &models.TaskItem{ID: 1, ProjectID: 2}

	err := s.checkTaskVisible(Principal{UserID: 5, Role: models.RoleClient}, task)
	if err == nil {
		t.Fatal("expected the store error to propagate")
	}

	// A store failure is not an authorization decision.
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		t.Errorf("store failure reported as application error %d %q", appErr.HTTPStatus, appErr.Message)
	}
}

func TestValidateTaskInput_BadDueDate(t *testing.T) {
	_, appErr := validateTaskInput("Valid title", "", "next week")
	if appErr == nil || appErr.Field != "due_date" {
		t.Errorf("got %v, expected due_date error", appErr)
	}
}
