package tensor

import (
	"errors"
	"testing"
)

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{3, 4}, 12},
		{Shape{10, 0}, 0},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("%v.NumElements() = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestShapeEqual(t *testing.T) {
	if !(Shape{2, 3}).Equal(Shape{2, 3}) {
		t.Error("identical shapes should be equal")
	}
	if (Shape{2, 3}).Equal(Shape{3, 2}) {
		t.Error("transposed shapes should differ")
	}
	if (Shape{2}).Equal(Shape{2, 1}) {
		t.Error("shapes of different rank should differ")
	}
}

func TestShapeClone(t *testing.T) {
	s := Shape{1, 2}
	c := s.Clone()
	c[0] = 9
	if s[0] != 1 {
		t.Error("Clone should not alias the original")
	}
}

func TestShapeValidate(t *testing.T) {
	valid := []Shape{{}, {0}, {3, 0}, {1 << 31, 1 << 31}}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("%v.Validate() = %v, want nil", s, err)
		}
	}

	invalid := []Shape{{-1}, {2, -3}, {1 << 62, 4}, {1 << 32, 1 << 32}}
	for _, s := range invalid {
		if err := s.Validate(); !errors.Is(err, ErrInvalidShape) {
			t.Errorf("%v.Validate() = %v, want ErrInvalidShape", s, err)
		}
	}
}
