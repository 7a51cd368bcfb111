package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/nerrad567/wayfinder-core/internal/infrastructure/config"
)

// testConfig points at a port nothing listens on; unit tests never connect.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "wayfinder-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

type mockLogger struct {
	mu       sync.Mutex
	warnings []string
	errors   []string
}

func (l *mockLogger) Info(string, ...any) {}

func (l *mockLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, msg)
}

func (l *mockLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"GateCommand", topics.GateCommand("gate-library"), "wayfinder/command/gate/gate-library"},
		{"PathCommand", topics.PathCommand("path-1"), "wayfinder/command/path/path-1"},
		{"GateState", topics.GateState("gate-1"), "wayfinder/state/gate/gate-1"},
		{"PathState", topics.PathState("path-1"), "wayfinder/state/path/path-1"},
		{"Event", topics.Event("route.computed"), "wayfinder/event/route.computed"},
		{"SystemStatus", topics.SystemStatus(), "wayfinder/system/status"},
		{"AllGateCommands", topics.AllGateCommands(), "wayfinder/command/gate/+"},
		{"AllPathCommands", topics.AllPathCommands(), "wayfinder/command/path/+"},
		{"AllEvents", topics.AllEvents(), "wayfinder/event/#"},
		{"AllTopics", topics.AllTopics(), "wayfinder/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestTopicIDs(t *testing.T) {
	tests := []struct {
		topic  string
		gate   string
		gateOK bool
		path   string
		pathOK bool
	}{
		{"wayfinder/command/gate/gate-1", "gate-1", true, "", false},
		{"wayfinder/state/gate/gate-1", "gate-1", true, "", false},
		{"wayfinder/command/path/p-9", "", false, "p-9", true},
		{"wayfinder/command/gate/", "", false, "", false},
		{"wayfinder/event/gate/gate-1", "", false, "", false},
		{"other/command/gate/gate-1", "", false, "", false},
		{"wayfinder/command/gate/a/b", "", false, "", false},
	}

	for _, tt := range tests {
		gate, ok := Topics{}.GateID(tt.topic)
		if gate != tt.gate || ok != tt.gateOK {
			t.Errorf("GateID(%q) = %q, %v; want %q, %v", tt.topic, gate, ok, tt.gate, tt.gateOK)
		}
		path, ok := Topics{}.PathID(tt.topic)
		if path != tt.path || ok != tt.pathOK {
			t.Errorf("PathID(%q) = %q, %v; want %q, %v", tt.topic, path, ok, tt.path, tt.pathOK)
		}
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "wayfinder"
	cfg.Auth.Password = "secret"
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want ssl://127.0.0.1:1883", opts.Servers)
	}
	if opts.ClientID != "wayfinder-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "wayfinder" || opts.Password != "secret" {
		t.Error("credentials not applied")
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS config not applied")
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("AutoReconnect and CleanSession should be enabled")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, "wayfinder-test")

	if !opts.WillEnabled || opts.WillTopic != "wayfinder/system/status" || !opts.WillRetained {
		t.Fatalf("will = %v %q retained=%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}

	var status statusPayload
	if err := json.Unmarshal(opts.WillPayload, &status); err != nil {
		t.Fatalf("will payload not JSON: %v", err)
	}
	if status.Status != StatusOffline || status.Reason != "unexpected_disconnect" || status.ClientID != "wayfinder-test" {
		t.Errorf("will payload = %+v", status)
	}
}

func TestValidationBeforeConnection(t *testing.T) {
	c := newClient(testConfig())

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"publish empty topic", c.Publish("", []byte("x"), 1, false), ErrInvalidTopic},
		{"publish bad qos", c.Publish("t", []byte("x"), 3, false), ErrInvalidQoS},
		{"publish too large", c.Publish("t", make([]byte, maxPayloadSize+1), 1, false), ErrPublishFailed},
		{"publish disconnected", c.Publish("t", []byte("x"), 1, false), ErrNotConnected},
		{"publish json unmarshalable", c.PublishJSON("t", make(chan int), false), ErrPublishFailed},
		{"subscribe empty topic", c.Subscribe("", 1, func(string, []byte) error { return nil }), ErrInvalidTopic},
		{"subscribe bad qos", c.Subscribe("t", 3, func(string, []byte) error { return nil }), ErrInvalidQoS},
		{"subscribe nil handler", c.Subscribe("t", 1, nil), ErrSubscribeFailed},
		{"subscribe disconnected", c.Subscribe("t", 1, func(string, []byte) error { return nil }), ErrNotConnected},
		{"unsubscribe empty topic", c.Unsubscribe(""), ErrInvalidTopic},
		{"unsubscribe disconnected", c.Unsubscribe("t"), ErrNotConnected},
		{"health", c.HealthCheck(context.Background()), ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.wantErr) {
				t.Errorf("error = %v, want %v", tt.err, tt.wantErr)
			}
		})
	}

	if c.SubscriptionCount() != 0 || c.HasSubscription("t") {
		t.Error("failed subscriptions must not be remembered")
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	c := newClient(testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.HealthCheck(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestCloseUnconnected(t *testing.T) {
	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
	if err := newClient(testConfig()).Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestDispatch(t *testing.T) {
	c := newClient(testConfig())
	logger := &mockLogger{}
	c.SetLogger(logger)

	c.dispatch(func(string, []byte) error { return errors.New("bad payload") }, "t", nil)
	c.dispatch(func(string, []byte) error { panic("boom") }, "t", nil)

	var got string
	c.dispatch(func(topic string, payload []byte) error {
		got = topic + "=" + string(payload)
		return nil
	}, "wayfinder/command/gate/gate-1", []byte(`{"is_open":true}`))

	if len(logger.warnings) != 1 || !strings.Contains(logger.warnings[0], "error") {
		t.Errorf("warnings = %v", logger.warnings)
	}
	if len(logger.errors) != 1 || !strings.Contains(logger.errors[0], "panic") {
		t.Errorf("errors = %v", logger.errors)
	}
	if got != `wayfinder/command/gate/gate-1={"is_open":true}` {
		t.Errorf("handler saw %q", got)
	}
}

func TestDispatchWithoutLogger(t *testing.T) {
	c := newClient(testConfig())
	c.dispatch(func(string, []byte) error { panic("boom") }, "t", nil)
}

func TestDisconnectCallback(t *testing.T) {
	c := newClient(testConfig())
	c.SetLogger(&mockLogger{})

	var lost error
	c.SetOnDisconnect(func(err error) { lost = err })
	c.handleDisconnect(errors.New("network down"))

	if lost == nil || lost.Error() != "network down" {
		t.Errorf("onDisconnect got %v", lost)
	}
	if c.IsConnected() {
		t.Error("IsConnected() = true after disconnect")
	}
}
