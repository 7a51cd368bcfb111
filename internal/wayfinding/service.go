package wayfinding

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/wayfinder-core/internal/access"
	"github.com/nerrad567/wayfinder-core/internal/analyzer"
	"github.com/nerrad567/wayfinder-core/internal/floorplan"
	"github.com/nerrad567/wayfinder-core/internal/routing"
)

// Logger defines the logging interface used by the Service.
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

// Service is the shared wayfinding state for one site.
type Service struct {
	engine    *routing.Engine
	evaluator *access.Evaluator
	logger    Logger
	now       func() time.Time

	timeAware   bool
	avoidStairs bool

	mutateMu sync.Mutex // serialises copy-on-write plan changes

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for queries without an instant.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTimeAware makes every query honour access rules at its instant.
func WithTimeAware(on bool) Option {
	return func(s *Service) { s.timeAware = on }
}

// WithAvoidStairs makes every query avoid stairs.
func WithAvoidStairs(on bool) Option {
	return func(s *Service) { s.avoidStairs = on }
}

// NewService creates a Service over engine. A nil evaluator evaluates in UTC.
func NewService(engine *routing.Engine, eval *access.Evaluator, opts ...Option) *Service {
	if eval == nil {
		eval = access.New(nil)
	}
	s := &Service{
		engine:    engine,
		evaluator: eval,
		logger:    noopLogger{},
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the underlying routing engine.
func (s *Service) Engine() *routing.Engine {
	return s.engine
}

// Evaluator returns the access evaluator.
func (s *Service) Evaluator() *access.Evaluator {
	return s.evaluator
}

// Subscribe registers l and returns a function that removes it.
func (s *Service) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

func (s *Service) emit(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now()
	}

	s.listenersMu.RLock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	ls := make([]Listener, len(ids))
	for i, id := range ids {
		ls[i] = s.listeners[id]
	}
	s.listenersMu.RUnlock()

	for _, l := range ls {
		l(ev)
	}
}

// FindRoute computes the route for q.
//
// Returns ErrInvalidQuery for an empty endpoint, or the routing taxonomy
// errors. Every call emits route.computed or route.failed.
func (s *Service) FindRoute(ctx context.Context, q Query) (*NavigationRoute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.At.IsZero() {
		q.At = s.now()
	}
	q.TimeAware = q.TimeAware || s.timeAware
	q.AvoidStairs = q.AvoidStairs || s.avoidStairs

	start := time.Now()
	route, err := s.route(q)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Debug("route failed", "from", q.From, "to", q.To, "error", err)
		s.emit(Event{
			Type:      EventRouteFailed,
			Query:     &q,
			ErrorKind: ErrorKind(err),
			Err:       err,
			Duration:  elapsed,
		})
		return nil, err
	}

	s.emit(Event{
		Type:     EventRouteComputed,
		Query:    &q,
		Route:    route,
		Duration: elapsed,
	})
	return route, nil
}

// FindAlternatives returns candidate routes for q, best first. Only the
// optimal route is produced.
func (s *Service) FindAlternatives(ctx context.Context, q Query) ([]*NavigationRoute, error) {
	best, err := s.FindRoute(ctx, q)
	if err != nil {
		return nil, err
	}
	return []*NavigationRoute{best}, nil
}

func (s *Service) route(q Query) (*NavigationRoute, error) {
	if q.From == "" || q.To == "" {
		return nil, ErrInvalidQuery
	}

	var opts []routing.QueryOption
	if q.TimeAware {
		opts = append(opts, routing.WithAccessRules(q.At, s.evaluator))
	}
	if q.AvoidStairs {
		opts = append(opts, routing.AvoidStairs())
	}

	steps, err := s.engine.FindOptimalPath(q.From, q.To, opts...)
	if err != nil {
		return nil, err
	}

	warnings := s.warnings(steps, q.At)
	total := s.engine.EstimatedTime(steps)
	return &NavigationRoute{
		ID:            uuid.NewString(),
		From:          q.From,
		To:            q.To,
		RequestedAt:   q.At,
		Steps:         steps,
		Instructions:  s.engine.NavigationInstructions(steps),
		TotalDistance: routing.TotalDistance(steps),
		TotalTime:     total,
		TotalSeconds:  int(total / time.Second),
		Valid:         len(steps) > 0 && len(warnings) == 0 && s.engine.IsPathAccessible(steps),
		Warnings:      warnings,
		Analysis:      analyzer.Analyze(steps),
	}, nil
}

// warnings lists gates and paths of steps that are not passable at t.
func (s *Service) warnings(steps []routing.RouteStep, t time.Time) []string {
	fp := s.engine.FloorPlan()
	out := []string{}
	seen := make(map[string]bool)
	add := func(msg string) {
		if !seen[msg] {
			seen[msg] = true
			out = append(out, msg)
		}
	}

	for _, step := range steps {
		if g, ok := fp.GateByID(step.To); ok {
			if st := s.evaluator.GateStatus(g, t); !st.Available() {
				add(fmt.Sprintf("%s is %s (%s)", displayName(g.Name, g.ID), st.State, st.Reason))
			}
		}
		if step.PathID == "" {
			continue
		}
		for _, p := range fp.Paths {
			if p.ID == step.PathID && p.Connects(step.From, step.To) {
				if st := s.evaluator.PathStatus(p, t); !st.Available() {
					add(fmt.Sprintf("Path %s is %s (%s)", p.ID, st.State, st.Reason))
				}
				break
			}
		}
	}
	return out
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

// GateStates evaluates every gate of the current plan at t.
func (s *Service) GateStates(t time.Time) []GateState {
	fp := s.engine.FloorPlan()
	out := make([]GateState, 0, len(fp.Gates))
	for _, g := range fp.Gates {
		out = append(out, GateState{Gate: g, Status: s.evaluator.GateStatus(g, t)})
	}
	return out
}

// SetGateOpen changes a gate's open flag and rebuilds the graph.
func (s *Service) SetGateOpen(gateID string, open bool) error {
	s.mutateMu.Lock()
	next, err := s.engine.FloorPlan().WithGateOpen(gateID, open)
	if err != nil {
		s.mutateMu.Unlock()
		return err
	}
	s.engine.UpdateGraph(next)
	s.mutateMu.Unlock()

	s.logger.Info("gate state changed", "gate", gateID, "is_open", open)
	s.emit(Event{
		Type:   EventFloorPlanUpdated,
		Change: &Change{Kind: ChangeGate, ID: gateID, IsOpen: &open},
	})
	return nil
}

// SetPathBlocked changes a path's blocked flag and rebuilds the graph.
// Unblocking clears the reason.
func (s *Service) SetPathBlocked(pathID string, blocked bool, reason string) error {
	s.mutateMu.Lock()
	next, err := s.engine.FloorPlan().WithPathBlocked(pathID, blocked, reason)
	if err != nil {
		s.mutateMu.Unlock()
		return err
	}
	s.engine.UpdateGraph(next)
	s.mutateMu.Unlock()

	if !blocked {
		reason = ""
	}
	s.logger.Info("path state changed", "path", pathID, "is_blocked", blocked, "reason", reason)
	s.emit(Event{
		Type:   EventFloorPlanUpdated,
		Change: &Change{Kind: ChangePath, ID: pathID, IsBlocked: &blocked, Reason: reason},
	})
	return nil
}

// ReplaceFloorPlan validates fp and swaps it in whole.
func (s *Service) ReplaceFloorPlan(fp *floorplan.FloorPlan) error {
	if fp == nil {
		return fmt.Errorf("%w: nil floor plan", floorplan.ErrInvalidFloorPlan)
	}
	if err := floorplan.Validate(fp); err != nil {
		return err
	}

	s.mutateMu.Lock()
	s.engine.UpdateGraph(fp)
	s.mutateMu.Unlock()

	s.logger.Info("floor plan replaced", "floorplan", fp.ID, "rooms", len(fp.Rooms), "gates", len(fp.Gates))
	s.emit(Event{
		Type:   EventFloorPlanUpdated,
		Change: &Change{Kind: ChangeFloorPlan, ID: fp.ID},
	})
	return nil
}

// Reload reads the floor plan at path and replaces the current one.
func (s *Service) Reload(path string) error {
	fp, err := floorplan.Load(path)
	if err != nil {
		return err
	}
	return s.ReplaceFloorPlan(fp)
}
