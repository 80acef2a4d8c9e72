package rig

import (
	"errors"
	"testing"
)

func intsOf(s *PointSet[int]) []int {
	return s.All()
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func filled(values ...int) *PointSet[int] {
	s := NewPointSet[int]()
	s.ReplaceAll(values)
	return s
}

func TestPointSet_IndexOutOfRange(t *testing.T) {
	s := filled(1, 2, 3)

	if _, err := s.At(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(3): expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.Replace(-1, 9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace(-1): expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.RemoveAt(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveAt(5): expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.Move(0, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Move(0,3): expected ErrIndexOutOfRange, got %v", err)
	}

	if !equalInts(intsOf(s), []int{1, 2, 3}) {
		t.Errorf("failed operations changed the set: %v", intsOf(s))
	}
}

func TestPointSet_ReplaceAllKeepsOrder(t *testing.T) {
	in := []int{5, 3, 9, 1}
	s := filled(in...)
	in[0] = 100

	if !equalInts(intsOf(s), []int{5, 3, 9, 1}) {
		t.Errorf("got %v, want [5 3 9 1]", intsOf(s))
	}
}

func TestPointSet_AllIsCopy(t *testing.T) {
	s := filled(1, 2)
	out := s.All()
	out[0] = 42

	if v, _ := s.At(0); v != 1 {
		t.Errorf("mutating All() result changed the set: %d", v)
	}
}

func TestPointSet_Move(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []int
	}{
		{"forward", 0, 2, []int{1, 2, 0, 3}},
		{"backward", 3, 1, []int{0, 3, 1, 2}},
		{"to end", 1, 3, []int{0, 2, 3, 1}},
		{"to front", 2, 0, []int{2, 0, 1, 3}},
		{"same index", 2, 2, []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := filled(0, 1, 2, 3)
			if err := s.Move(tt.from, tt.to); err != nil {
				t.Fatalf("Move(%d,%d): %v", tt.from, tt.to, err)
			}
			if !equalInts(intsOf(s), tt.want) {
				t.Errorf("got %v, want %v", intsOf(s), tt.want)
			}
		})
	}
}

func TestPointSet_RemoveAtKeepsOrder(t *testing.T) {
	s := filled(0, 1, 2, 3)
	if err := s.RemoveAt(1); err != nil {
		t.Fatal(err)
	}
	if !equalInts(intsOf(s), []int{0, 2, 3}) {
		t.Errorf("got %v, want [0 2 3]", intsOf(s))
	}
}

func TestPointSet_Clear(t *testing.T) {
	s := filled(1, 2)
	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count after Clear = %d", s.Count())
	}
	s.Append(7)
	if v, err := s.At(0); err != nil || v != 7 {
		t.Errorf("At(0) = %d, %v", v, err)
	}
}
