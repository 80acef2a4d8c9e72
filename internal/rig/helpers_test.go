package rig

import (
	"fmt"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b Vertex, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func assertNear(t *testing.T, what string, got, want Vertex) {
	t.Helper()
	if !near(got, want, eps) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

// recorder collects the kinds of events delivered to a subscriber.
type recorder struct {
	events []Event
}

func (r *recorder) on(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) reset() {
	r.events = nil
}

// subscribe attaches a recorder and drops the event sent on subscription.
func subscribe(e *Engine) *recorder {
	r := &recorder{}
	e.Subscribe(r.on)
	r.reset()
	return r
}

func sameKinds(got, want []EventKind) bool {
	return fmt.Sprint(got) == fmt.Sprint(want)
}

// memStore is an in-memory PointStore.
type memStore struct {
	tasks   map[string][]TaskPoint
	homes   map[string][]HomePoint
	saves   int
	saveErr error
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{
		tasks: make(map[string][]TaskPoint),
		homes: make(map[string][]HomePoint),
	}
}

func (s *memStore) Save(path string, tasks []TaskPoint, homes []HomePoint) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tasks[path] = tasks
	s.homes[path] = homes
	return nil
}

func (s *memStore) Load(path string) ([]TaskPoint, []HomePoint, error) {
	if s.loadErr != nil {
		return nil, nil, s.loadErr
	}
	return s.tasks[path], s.homes[path], nil
}
