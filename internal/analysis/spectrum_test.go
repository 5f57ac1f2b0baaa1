package analysis

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestDominantPeriod(t *testing.T) {
	const n, period = 400, 50.0
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*float64(i)/period) + 0.1*math.Sin(2*math.Pi*float64(i)/10)
	}

	got, err := DominantPeriod(data, 2)
	if err != nil {
		t.Fatalf("DominantPeriod: %v", err)
	}
	if want := period * 2; math.Abs(got-want) > 1e-9 {
		t.Errorf("period = %v, want %v", got, want)
	}
}

func TestDominantPeriod_Errors(t *testing.T) {
	if _, err := DominantPeriod([]float64{1, 2}, 1); !errors.Is(err, ErrTooShort) {
		t.Errorf("short series error = %v", err)
	}
	if _, err := DominantPeriod(make([]float64, 16), 0); err == nil {
		t.Error("expected error for zero interval")
	}
	flat := make([]float64, 16)
	for i := range flat {
		flat[i] = 5
	}
	if _, err := DominantPeriod(flat, 1); err == nil {
		t.Error("expected error for a constant series")
	}
}

func TestAxis(t *testing.T) {
	pts := []r3.Vec{{X: 1, Z: 4}, {X: 2, Z: 5}}
	if xs := Axis(pts, X); xs[0] != 1 || xs[1] != 2 {
		t.Errorf("X axis = %v", xs)
	}
	if zs := Axis(pts, Z); zs[1] != 5 {
		t.Errorf("Z axis = %v", zs)
	}
}
