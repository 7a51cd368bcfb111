package access

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/wayfinder-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/wayfinder-core/internal/wayfinding"
)

const defaultQueueSize = 256

// MQTTClient is the subset of *mqtt.Client used by the bridge.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Controller is the subset of *wayfinding.Service used by the bridge.
type Controller interface {
	SetGateOpen(gateID string, open bool) error
	SetPathBlocked(pathID string, blocked bool, reason string) error
	GateStates(t time.Time) []wayfinding.GateState
	Subscribe(l wayfinding.Listener) func()
}

// Logger defines the logging interface used by the Bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type outbound struct {
	topic    string
	payload  []byte
	retained bool
}

// Options configures a Bridge.
type Options struct {
	Client     MQTTClient
	Controller Controller
	QoS        byte
	Logger     Logger

	// QueueSize bounds pending outbound messages. Zero means 256.
	QueueSize int

	// Now overrides the clock used for state timestamps.
	Now func() time.Time
}

// Bridge connects MQTT commands and state to the wayfinding service.
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	client MQTTClient
	ctrl   Controller
	qos    byte
	logger Logger
	now    func() time.Time

	queue chan outbound

	mu          sync.Mutex
	started     bool
	unsubscribe func()
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewBridge validates opts and returns an unstarted bridge.
func NewBridge(opts Options) (*Bridge, error) {
	if opts.Client == nil || opts.Controller == nil {
		return nil, fmt.Errorf("access bridge: client and controller are required")
	}
	if opts.Logger == nil {
		opts.Logger = noopLogger{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Bridge{
		client: opts.Client,
		ctrl:   opts.Controller,
		qos:    opts.QoS,
		logger: opts.Logger,
		now:    opts.Now,
		queue:  make(chan outbound, opts.QueueSize),
	}, nil
}

// Start subscribes to command topics, publishes the current state of every
// gate and begins forwarding service events. It returns once subscribed.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}

	topics := mqtt.Topics{}
	if err := b.client.Subscribe(topics.AllGateCommands(), b.qos, b.handleGateCommand); err != nil {
		return fmt.Errorf("subscribing to gate commands: %w", err)
	}
	if err := b.client.Subscribe(topics.AllPathCommands(), b.qos, b.handlePathCommand); err != nil {
		b.client.Unsubscribe(topics.AllGateCommands()) //nolint:errcheck // best effort rollback
		return fmt.Errorf("subscribing to path commands: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.wg.Add(1)
	go b.run(ctx)

	b.unsubscribe = b.ctrl.Subscribe(b.onEvent)

	now := b.now()
	for _, gs := range b.ctrl.GateStates(now) {
		b.enqueue(topics.GateState(gs.Gate.ID), GateStateMessage{
			GateID:    gs.Gate.ID,
			IsOpen:    gs.Gate.IsOpen,
			Status:    gs.Status,
			Timestamp: now,
		}, true)
	}

	b.started = true
	b.logger.Info("access bridge started")
	return nil
}

// Stop unsubscribes, drains queued messages and stops the worker.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return
	}
	b.started = false
	b.unsubscribe()
	topics := mqtt.Topics{}
	for _, t := range []string{topics.AllGateCommands(), topics.AllPathCommands()} {
		if err := b.client.Unsubscribe(t); err != nil {
			b.logger.Debug("unsubscribe failed", "topic", t, "error", err)
		}
	}
	b.cancel()
	b.mu.Unlock()

	b.wg.Wait()
	b.logger.Info("access bridge stopped")
}

// run publishes queued messages until ctx is cancelled, then drains what is left.
func (b *Bridge) run(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case msg := <-b.queue:
			b.publish(msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-b.queue:
					b.publish(msg)
				default:
					return
				}
			}
		}
	}
}

func (b *Bridge) publish(msg outbound) {
	if err := b.client.Publish(msg.topic, msg.payload, b.qos, msg.retained); err != nil {
		b.logger.Warn("publish failed", "topic", msg.topic, "error", err)
	}
}

func (b *Bridge) enqueue(topic string, v any, retained bool) {
	payload, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("marshalling outbound message", "topic", topic, "error", err)
		return
	}
	select {
	case b.queue <- outbound{topic: topic, payload: payload, retained: retained}:
	default:
		b.logger.Warn("outbound queue full, dropping message", "topic", topic)
	}
}

// onEvent mirrors service events onto MQTT.
func (b *Bridge) onEvent(ev wayfinding.Event) {
	topics := mqtt.Topics{}

	switch ev.Type {
	case wayfinding.EventFloorPlanUpdated:
		if ev.Change == nil {
			return
		}
		switch ev.Change.Kind {
		case wayfinding.ChangeGate:
			b.publishGate(ev.Change.ID, ev.Timestamp)
		case wayfinding.ChangePath:
			blocked := ev.Change.IsBlocked != nil && *ev.Change.IsBlocked
			b.enqueue(topics.PathState(ev.Change.ID), PathStateMessage{
				PathID:    ev.Change.ID,
				IsBlocked: blocked,
				Reason:    ev.Change.Reason,
				Timestamp: ev.Timestamp,
			}, true)
		case wayfinding.ChangeFloorPlan:
			for _, gs := range b.ctrl.GateStates(ev.Timestamp) {
				b.publishGateState(gs, ev.Timestamp)
			}
		}
		b.enqueue(topics.Event(string(ev.Type)), ev, false)
	case wayfinding.EventRouteComputed, wayfinding.EventRouteFailed:
		b.enqueue(topics.Event(string(ev.Type)), ev, false)
	}
}

func (b *Bridge) publishGate(gateID string, at time.Time) {
	for _, gs := range b.ctrl.GateStates(at) {
		if gs.Gate.ID == gateID {
			b.publishGateState(gs, at)
			return
		}
	}
}

func (b *Bridge) publishGateState(gs wayfinding.GateState, at time.Time) {
	b.enqueue(mqtt.Topics{}.GateState(gs.Gate.ID), GateStateMessage{
		GateID:    gs.Gate.ID,
		IsOpen:    gs.Gate.IsOpen,
		Status:    gs.Status,
		Timestamp: at,
	}, true)
}

func (b *Bridge) handleGateCommand(topic string, payload []byte) error {
	gateID, ok := mqtt.Topics{}.GateID(topic)
	if !ok {
		return fmt.Errorf("%w: topic %s", ErrInvalidCommand, topic)
	}

	var cmd GateCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if cmd.IsOpen == nil {
		return fmt.Errorf("%w: is_open missing", ErrInvalidCommand)
	}

	b.logger.Info("gate command received", "gate", gateID, "is_open", *cmd.IsOpen, "source", cmd.Source)
	return b.ctrl.SetGateOpen(gateID, *cmd.IsOpen)
}

func (b *Bridge) handlePathCommand(topic string, payload []byte) error {
	pathID, ok := mqtt.Topics{}.PathID(topic)
	if !ok {
		return fmt.Errorf("%w: topic %s", ErrInvalidCommand, topic)
	}

	var cmd PathCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}
	if cmd.IsBlocked == nil {
		return fmt.Errorf("%w: is_blocked missing", ErrInvalidCommand)
	}

	b.logger.Info("path command received", "path", pathID, "is_blocked", *cmd.IsBlocked, "source", cmd.Source)
	return b.ctrl.SetPathBlocked(pathID, *cmd.IsBlocked, cmd.Reason)
}
