package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/wayfinder-core/internal/floorplan/floorplantest"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/database"
	"github.com/nerrad567/wayfinder-core/internal/routing"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
	"github.com/nerrad567/wayfinder-core/migrations"
)

func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "audit.db"),
		WALMode:     true,
		BusyTimeout: 1,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close() //nolint:errcheck // Test cleanup
	})
	if err := db.Migrate(context.Background(), migrations.FS); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

func TestCreateAndList(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	entries := []*AuditLog{
		{Action: ActionClose, EntityType: "gate", EntityID: "gate-1", CreatedAt: base},
		{Action: ActionBlock, EntityType: "path", EntityID: "path-1", Details: map[string]any{"reason": "works"}, CreatedAt: base.Add(time.Minute)},
		{Action: ActionOpen, EntityType: "gate", EntityID: "gate-1", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if e.ID == "" {
			t.Error("Create should assign an ID")
		}
	}

	res, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 3 || len(res.Logs) != 3 || res.Limit != defaultLimit {
		t.Fatalf("List = total %d, %d logs, limit %d", res.Total, len(res.Logs), res.Limit)
	}
	if res.Logs[0].Action != ActionOpen || !res.Logs[0].CreatedAt.Equal(base.Add(2*time.Minute)) {
		t.Errorf("newest = %+v", res.Logs[0])
	}
	if res.Logs[1].Details["reason"] != "works" {
		t.Errorf("details = %v, want reason works", res.Logs[1].Details)
	}

	tests := []struct {
		name   string
		filter Filter
		total  int
		logs   int
	}{
		{"by entity type", Filter{EntityType: "gate"}, 2, 2},
		{"by entity id", Filter{EntityID: "path-1"}, 1, 1},
		{"by action", Filter{Action: ActionClose}, 1, 1},
		{"combined", Filter{EntityType: "gate", Action: ActionBlock}, 0, 0},
		{"paged", Filter{Limit: 1, Offset: 1}, 3, 1},
		{"past end", Filter{Offset: 10}, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if res.Total != tt.total || len(res.Logs) != tt.logs {
				t.Errorf("total = %d logs = %d, want %d and %d", res.Total, len(res.Logs), tt.total, tt.logs)
			}
		})
	}

	if res, _ := repo.List(ctx, Filter{Limit: 1000}); res.Limit != maxLimit {
		t.Errorf("limit = %d, want clamp to %d", res.Limit, maxLimit)
	}
}

func TestFromEvent(t *testing.T) {
	yes, no := true, false
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ev     wayfinding.Event
		action string
		ok     bool
	}{
		{"gate opened", wayfinding.Event{Type: wayfinding.EventFloorPlanUpdated, Change: &wayfinding.Change{Kind: wayfinding.ChangeGate, ID: "g", IsOpen: &yes}}, ActionOpen, true},
		{"gate closed", wayfinding.Event{Type: wayfinding.EventFloorPlanUpdated, Change: &wayfinding.Change{Kind: wayfinding.ChangeGate, ID: "g", IsOpen: &no}}, ActionClose, true},
		{"path blocked", wayfinding.Event{Type: wayfinding.EventFloorPlanUpdated, Change: &wayfinding.Change{Kind: wayfinding.ChangePath, ID: "p", IsBlocked: &yes, Reason: "flood"}}, ActionBlock, true},
		{"path unblocked", wayfinding.Event{Type: wayfinding.EventFloorPlanUpdated, Change: &wayfinding.Change{Kind: wayfinding.ChangePath, ID: "p", IsBlocked: &no}}, ActionUnblock, true},
		{"replaced", wayfinding.Event{Type: wayfinding.EventFloorPlanUpdated, Change: &wayfinding.Change{Kind: wayfinding.ChangeFloorPlan, ID: "fp"}}, ActionReplace, true},
		{"route event", wayfinding.Event{Type: wayfinding.EventRouteComputed}, "", false},
		{"no change", wayfinding.Event{Type: wayfinding.EventFloorPlanUpdated}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ev.Timestamp = at
			log, ok := FromEvent(tt.ev)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if log.Action != tt.action || !log.CreatedAt.Equal(at) {
				t.Errorf("log = %+v, want action %q", log, tt.action)
			}
		})
	}
}

func TestRecorder_ServiceEvents(t *testing.T) {
	repo := setupTestRepo(t)
	svc := wayfinding.NewService(routing.NewEngine(floorplantest.Corridor()), nil)
	svc.Subscribe(NewRecorder(repo, nil).Listen)

	if err := svc.SetGateOpen("gate-1", false); err != nil {
		t.Fatal(err)
	}
	if err := svc.SetPathBlocked("path-1-corridor", true, "wet floor"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.FindRoute(context.Background(), wayfinding.Query{From: "room-2", To: "test-library"}); err != nil {
		t.Fatal(err)
	}

	res, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("total = %d, want 2 (route queries are not audited)", res.Total)
	}
	got := map[string]string{}
	for _, l := range res.Logs {
		got[l.EntityID] = l.Action
	}
	if got["gate-1"] != ActionClose || got["path-1-corridor"] != ActionBlock {
		t.Errorf("actions = %v", got)
	}
}
