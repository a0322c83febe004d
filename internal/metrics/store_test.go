package metrics

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"recipe-planner/internal/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "metrics.db"))
	if err != nil {
		t.Fatalf("Failed to create test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.SQL)
}

func TestRecordAndDailyUsage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	records := []ExecutionMetric{
		{AgentName: "suggest", Model: "gemini", PromptTokens: 100, CompletionTokens: 20, Timestamp: now.Add(-time.Hour)},
		{AgentName: "suggest", Model: "gemini", PromptTokens: 50, CompletionTokens: 5, Timestamp: now.Add(-2 * time.Hour)},
		{AgentName: "suggest", Model: "groq", PromptTokens: 10, CompletionTokens: 1, Timestamp: now.AddDate(0, 0, -1)},
		{AgentName: "suggest", Model: "groq", PromptTokens: 999, CompletionTokens: 999, Timestamp: now.AddDate(0, 0, -30)},
	}
	for _, m := range records {
		if err := store.Record(ctx, m); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	usage, err := store.GetDailyUsage(ctx, 7)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("Expected 2 days, got %d: %+v", len(usage), usage)
	}
	if usage[0].Date != "2026-05-10" || usage[0].TotalPrompt != 150 || usage[0].TotalCompletion != 25 || usage[0].TotalExecution != 2 {
		t.Errorf("Unexpected usage for today: %+v", usage[0])
	}
	if usage[1].Date != "2026-05-09" || usage[1].TotalExecution != 1 {
		t.Errorf("Unexpected usage for yesterday: %+v", usage[1])
	}
}

func TestRecordUsageSkipsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.RecordUsage(ctx, "suggest", Usage{Model: "gemini"}, time.Second); err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}
	if err := store.RecordUsage(ctx, "suggest", Usage{Model: "gemini", PromptTokens: 3}, 1500*time.Millisecond); err != nil {
		t.Fatalf("RecordUsage failed: %v", err)
	}

	var count int
	var latency int64
	if err := store.db.QueryRow(`SELECT COUNT(*), MAX(latency_ms) FROM execution_metrics`).Scan(&count, &latency); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 metric, got %d", count)
	}
	if latency != 1500 {
		t.Errorf("Expected latency 1500ms, got %d", latency)
	}
}

func TestCleanup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	_ = store.Record(ctx, ExecutionMetric{AgentName: "a", Model: "m", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -40)})
	_ = store.Record(ctx, ExecutionMetric{AgentName: "a", Model: "m", PromptTokens: 1, Timestamp: now.AddDate(0, 0, -35)})
	_ = store.Record(ctx, ExecutionMetric{AgentName: "a", Model: "m", PromptTokens: 1, Timestamp: now})

	deleted, err := store.Cleanup(ctx, 30)
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted rows, got %d", deleted)
	}
}

func TestGetSysHealth(t *testing.T) {
	health := GetSysHealth(t.TempDir())
	if health.Goroutines < 1 {
		t.Errorf("Expected at least one goroutine, got %d", health.Goroutines)
	}
	if health.DataDiskSize != "0 B" {
		t.Errorf("Expected empty dir size, got %s", health.DataDiskSize)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
