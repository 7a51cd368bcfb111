package access

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessrules "github.com/nerrad567/wayfinder-core/internal/access"
	"github.com/nerrad567/wayfinder-core/internal/floorplan/floorplantest"
	"github.com/nerrad567/wayfinder-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/wayfinder-core/internal/routing"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

var noon = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type published struct {
	topic    string
	payload  []byte
	retained bool
}

// fakeClient records traffic and lets tests inject inbound messages.
type fakeClient struct {
	mu         sync.Mutex
	handlers   map[string]mqtt.MessageHandler
	published  []published
	publishErr error
	subErr     error
}

func newFakeClient() *fakeClient {
	return &fakeClient{handlers: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeClient) Publish(topic string, payload []byte, _ byte, retained bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, published{topic, payload, retained})
	return nil
}

func (f *fakeClient) Subscribe(topic string, _ byte, handler mqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subErr != nil {
		return f.subErr
	}
	f.handlers[topic] = handler
	return nil
}

func (f *fakeClient) Unsubscribe(topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, topic)
	return nil
}

func (f *fakeClient) deliver(t *testing.T, pattern, topic, payload string) error {
	t.Helper()
	f.mu.Lock()
	h, ok := f.handlers[pattern]
	f.mu.Unlock()
	require.True(t, ok, "no handler for %s", pattern)
	return h(topic, []byte(payload))
}

func (f *fakeClient) byTopic(topic string) []published {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []published
	for _, p := range f.published {
		if p.topic == topic {
			out = append(out, p)
		}
	}
	return out
}

func setup(t *testing.T) (*Bridge, *fakeClient, *wayfinding.Service) {
	t.Helper()
	svc := wayfinding.NewService(
		routing.NewEngine(floorplantest.Corridor()),
		accessrules.New(time.UTC),
		wayfinding.WithClock(func() time.Time { return noon }),
	)
	client := newFakeClient()
	b, err := NewBridge(Options{
		Client:     client,
		Controller: svc,
		QoS:        1,
		Now:        func() time.Time { return noon },
	})
	require.NoError(t, err)
	return b, client, svc
}

func TestNewBridge_RequiresDeps(t *testing.T) {
	_, err := NewBridge(Options{})
	assert.Error(t, err)
}

func TestStart_PublishesInitialGateState(t *testing.T) {
	b, client, _ := setup(t)
	require.NoError(t, b.Start(context.Background()))
	require.NoError(t, b.Start(context.Background()), "second Start is a no-op")
	b.Stop()

	msgs := client.byTopic("wayfinder/state/gate/gate-library")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].retained)

	var state GateStateMessage
	require.NoError(t, json.Unmarshal(msgs[0].payload, &state))
	assert.Equal(t, "gate-library", state.GateID)
	assert.True(t, state.IsOpen)
	assert.Equal(t, accessrules.StateOpen, state.Status.State)
	assert.True(t, noon.Equal(state.Timestamp))

	assert.Empty(t, client.handlers, "Stop unsubscribes command topics")
}

func TestGateCommand(t *testing.T) {
	b, client, svc := setup(t)
	require.NoError(t, b.Start(context.Background()))

	err := client.deliver(t, "wayfinder/command/gate/+", "wayfinder/command/gate/gate-corridor", `{"is_open":false,"source":"acs"}`)
	require.NoError(t, err)

	g, ok := svc.Engine().FloorPlan().GateByID("gate-corridor")
	require.True(t, ok)
	assert.False(t, g.IsOpen)

	b.Stop()

	msgs := client.byTopic("wayfinder/state/gate/gate-corridor")
	require.Len(t, msgs, 2, "initial state plus the change")
	var state GateStateMessage
	require.NoError(t, json.Unmarshal(msgs[1].payload, &state))
	assert.False(t, state.IsOpen)
	assert.Equal(t, accessrules.StateClosed, state.Status.State)

	assert.Len(t, client.byTopic("wayfinder/event/floorplan.updated"), 1)
}

func TestPathCommand(t *testing.T) {
	b, client, svc := setup(t)
	require.NoError(t, b.Start(context.Background()))

	err := client.deliver(t, "wayfinder/command/path/+", "wayfinder/command/path/path-2-corridor", `{"is_blocked":true,"reason":"spill"}`)
	require.NoError(t, err)

	_, err = svc.FindRoute(context.Background(), wayfinding.Query{From: "room-1", To: "room-2"})
	assert.ErrorIs(t, err, routing.ErrNoPathFound)

	b.Stop()

	msgs := client.byTopic("wayfinder/state/path/path-2-corridor")
	require.Len(t, msgs, 1)
	var state PathStateMessage
	require.NoError(t, json.Unmarshal(msgs[0].payload, &state))
	assert.True(t, state.IsBlocked)
	assert.Equal(t, "spill", state.Reason)

	failed := client.byTopic("wayfinder/event/route.failed")
	require.Len(t, failed, 1)
	assert.False(t, failed[0].retained)
}

func TestCommandErrors(t *testing.T) {
	b, client, _ := setup(t)
	require.NoError(t, b.Start(context.Background()))
	defer b.Stop()

	tests := []struct {
		name    string
		pattern string
		topic   string
		payload string
	}{
		{"bad json", "wayfinder/command/gate/+", "wayfinder/command/gate/gate-1", `{`},
		{"missing field", "wayfinder/command/gate/+", "wayfinder/command/gate/gate-1", `{}`},
		{"bad topic", "wayfinder/command/gate/+", "wayfinder/command/gate/", `{"is_open":true}`},
		{"missing blocked", "wayfinder/command/path/+", "wayfinder/command/path/p", `{"reason":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.deliver(t, tt.pattern, tt.topic, tt.payload)
			assert.ErrorIs(t, err, ErrInvalidCommand)
		})
	}

	err := client.deliver(t, "wayfinder/command/gate/+", "wayfinder/command/gate/gate-nope", `{"is_open":true}`)
	assert.True(t, wayfinding.IsNotFound(err))
}

func TestStart_SubscribeFailure(t *testing.T) {
	b, client, _ := setup(t)
	client.subErr = errors.New("broker down")

	err := b.Start(context.Background())
	assert.Error(t, err)
	b.Stop()
}

func TestRouteEventsForwarded(t *testing.T) {
	b, client, svc := setup(t)
	require.NoError(t, b.Start(context.Background()))

	_, err := svc.FindRoute(context.Background(), wayfinding.Query{From: "room-1", To: "room-2"})
	require.NoError(t, err)
	b.Stop()

	msgs := client.byTopic("wayfinder/event/route.computed")
	require.Len(t, msgs, 1)

	var ev struct {
		Type  string `json:"type"`
		Route struct {
			TotalDistance float64 `json:"total_distance"`
		} `json:"route"`
	}
	require.NoError(t, json.Unmarshal(msgs[0].payload, &ev))
	assert.Equal(t, "route.computed", ev.Type)
	assert.Equal(t, 55.0, ev.Route.TotalDistance)
}

func TestQueueFullDrops(t *testing.T) {
	client := newFakeClient()
	svc := wayfinding.NewService(routing.NewEngine(floorplantest.Corridor()), nil)
	b, err := NewBridge(Options{Client: client, Controller: svc, QueueSize: 1})
	require.NoError(t, err)

	// Not started: nothing drains the queue.
	b.enqueue("a", 1, false)
	b.enqueue("b", 2, false)
	assert.Len(t, b.queue, 1)
}
