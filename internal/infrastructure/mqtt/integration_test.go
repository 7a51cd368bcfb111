//go:build integration

package mqtt

import (
	"sync"
	"testing"
	"time"
)

// Integration tests require a broker at 127.0.0.1:1883.
//
//	go test -tags=integration ./internal/infrastructure/mqtt/...

func TestIntegration_Connect(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "wayfinder-int-connect"

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	if !client.IsConnected() {
		t.Error("IsConnected() = false, want true")
	}
}

func TestIntegration_GateCommandRoundtrip(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.ClientID = "wayfinder-int-roundtrip"

	client, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	var (
		mu      sync.Mutex
		gotID   string
		gotBody string
	)
	done := make(chan struct{})

	err = client.Subscribe(Topics{}.AllGateCommands(), 1, func(topic string, payload []byte) error {
		id, _ := Topics{}.GateID(topic)
		mu.Lock()
		gotID, gotBody = id, string(payload)
		mu.Unlock()
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if !client.HasSubscription(Topics{}.AllGateCommands()) {
		t.Error("subscription not tracked")
	}

	if err := client.PublishJSON(Topics{}.GateCommand("gate-library"), map[string]bool{"is_open": false}, false); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
	}

	mu.Lock()
	defer mu.Unlock()
	if gotID != "gate-library" || gotBody != `{"is_open":false}` {
		t.Errorf("received %q %q", gotID, gotBody)
	}

	if err := client.Unsubscribe(Topics{}.AllGateCommands()); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}
	if client.SubscriptionCount() != 0 {
		t.Error("subscription still tracked after Unsubscribe")
	}
}
