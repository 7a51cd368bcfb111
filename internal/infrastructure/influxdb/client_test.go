package influxdb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/wayfinder-core/internal/infrastructure/config"
)

func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "wayfinder-dev-token",
		Org:           "wayfinder",
		Bucket:        "routes",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

// connectOrSkip connects to a local dev server, skipping when absent.
func connectOrSkip(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION") == "" {
		t.Skip("set RUN_INTEGRATION=1 with InfluxDB on 127.0.0.1:8086")
	}
	c, err := Connect(testConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { c.Close() }) //nolint:errcheck // Test cleanup
	return c
}

func tagsOf(p *write.Point) map[string]string {
	out := make(map[string]string)
	for _, tag := range p.TagList() {
		out[tag.Key] = tag.Value
	}
	return out
}

func fieldsOf(p *write.Point) map[string]any {
	out := make(map[string]any)
	for _, f := range p.FieldList() {
		out[f.Key] = f.Value
	}
	return out
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	_, err := Connect(cfg)
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:1"

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestRoutePoint(t *testing.T) {
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	p := routePoint(RouteMetric{
		From:     "room-1",
		To:       "library",
		Distance: 7,
		Steps:    3,
		Duration: 1500 * time.Microsecond,
		At:       at,
	})

	if p.Name() != MeasurementRouteQueries {
		t.Errorf("Name() = %q", p.Name())
	}
	if !p.Time().Equal(at) {
		t.Errorf("Time() = %v, want %v", p.Time(), at)
	}

	tags := tagsOf(p)
	if tags["outcome"] != OutcomeOK || tags["from"] != "room-1" || tags["to"] != "library" {
		t.Errorf("tags = %v", tags)
	}

	fields := fieldsOf(p)
	if fields["distance"] != 7.0 {
		t.Errorf("distance = %v", fields["distance"])
	}
	if fields["steps"] != int64(3) {
		t.Errorf("steps = %#v, want int64(3)", fields["steps"])
	}
	if fields["duration_ms"] != 1.5 {
		t.Errorf("duration_ms = %v, want 1.5", fields["duration_ms"])
	}
}

func TestRoutePoint_FailureOutcome(t *testing.T) {
	p := routePoint(RouteMetric{From: "room-1", To: "room-9", Outcome: "no_path_found"})

	if got := tagsOf(p)["outcome"]; got != "no_path_found" {
		t.Errorf("outcome = %q", got)
	}
	if p.Time().IsZero() {
		t.Error("zero At must be stamped with now")
	}
}

func TestChangePoint(t *testing.T) {
	p := changePoint(ChangeMetric{Kind: "gate", ID: "gate-library", Active: false})

	if p.Name() != MeasurementFloorPlanChanges {
		t.Errorf("Name() = %q", p.Name())
	}
	if tags := tagsOf(p); tags["kind"] != "gate" || tags["id"] != "gate-library" {
		t.Errorf("tags = %v", tags)
	}
	if fieldsOf(p)["active"] != false {
		t.Errorf("active = %v", fieldsOf(p)["active"])
	}
}

func TestWritesWhenDisconnected(t *testing.T) {
	var c *Client
	// Must not panic on a nil or closed client.
	c.WriteRouteMetric(RouteMetric{From: "a", To: "b"})
	c.WriteChangeMetric(ChangeMetric{Kind: "gate", ID: "g"})
	c.Flush()
	if c.IsConnected() {
		t.Error("nil client reports connected")
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	closed := &Client{}
	if err := closed.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestIntegration_WriteRouteMetric(t *testing.T) {
	c := connectOrSkip(t)

	c.WriteRouteMetric(RouteMetric{From: "room-1", To: "library", Distance: 7, Steps: 3})
	c.WriteChangeMetric(ChangeMetric{Kind: "path", ID: "path-corridor-to-room1", Active: true})
	c.Flush()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
