package rig

import "fmt"

// PointSet is an ordered collection of points. Order is significant and is
// never changed except by Move.
type PointSet[T any] struct {
	items []T
}

// NewPointSet creates an empty set.
func NewPointSet[T any]() *PointSet[T] {
	return &PointSet[T]{}
}

// Count returns the number of points.
func (s *PointSet[T]) Count() int {
	return len(s.items)
}

// At returns the point at index.
func (s *PointSet[T]) At(index int) (T, error) {
	if err := s.check(index); err != nil {
		var zero T
		return zero, err
	}
	return s.items[index], nil
}

// All returns a copy of the points in order.
func (s *PointSet[T]) All() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Append adds a point at the end.
func (s *PointSet[T]) Append(p T) {
	s.items = append(s.items, p)
}

// Replace overwrites the point at index.
func (s *PointSet[T]) Replace(index int, p T) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.items[index] = p
	return nil
}

// RemoveAt deletes the point at index, keeping the order of the rest.
func (s *PointSet[T]) RemoveAt(index int) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// ReplaceAll clears the set and inserts points exactly as given.
func (s *PointSet[T]) ReplaceAll(points []T) {
	s.items = make([]T, len(points))
	copy(s.items, points)
}

// Clear removes every point.
func (s *PointSet[T]) Clear() {
	s.items = nil
}

// Move takes the point at from and reinserts it so that it ends up at
// index to. Both indices must address existing points; from == to is a
// no-op.
func (s *PointSet[T]) Move(from, to int) error {
	if err := s.check(from); err != nil {
		return err
	}
	if err := s.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	p := s.items[from]
	if from < to {
		copy(s.items[from:to], s.items[from+1:to+1])
	} else {
		copy(s.items[to+1:from+1], s.items[to:from])
	}
	s.items[to] = p
	return nil
}

func (s *PointSet[T]) check(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, index, len(s.items))
	}
	return nil
}
