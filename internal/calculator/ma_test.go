package calculator

import (
	"errors"
	"testing"

	"TickerCast/internal/model"
)

func TestMovingAverage_Windows(t *testing.T) {
	series := rampSeries(30, 100)
	tests := []struct {
		window int
	}{{1}, {3}, {5}, {20}, {30}}

	for _, tt := range tests {
		ma, err := MovingAverage(series, tt.window)
		if err != nil {
			t.Fatalf("window %d: unexpected error: %v", tt.window, err)
		}
		if len(ma) != series.Len() {
			t.Fatalf("window %d: expected length %d, got %d", tt.window, series.Len(), len(ma))
		}
		closes := series.Closes()
		for i, v := range ma {
			if i < tt.window-1 {
				if v.Valid {
					t.Errorf("window %d: index %d should be undefined", tt.window, i)
				}
				continue
			}
			sum := 0.0
			for _, c := range closes[i-tt.window+1 : i+1] {
				sum += c
			}
			want := sum / float64(tt.window)
			if !v.Valid || v.Value != want {
				t.Errorf("window %d: index %d expected %.4f, got %+v", tt.window, i, want, v)
			}
		}
	}
}

func TestMovingAverage_RampScenario(t *testing.T) {
	series := rampSeries(30, 100)

	ma5, _ := MovingAverage(series, 5)
	if v, ok := LastValue(ma5); !ok || v != 127.0 {
		t.Errorf("expected MA5 127.0, got %v (valid=%v)", v, ok)
	}
	ma20, _ := MovingAverage(series, 20)
	if v, ok := LastValue(ma20); !ok || v != 119.5 {
		t.Errorf("expected MA20 119.5, got %v (valid=%v)", v, ok)
	}
}

func TestMovingAverage_ShortSeries(t *testing.T) {
	series := rampSeries(4, 10)
	ma, err := MovingAverage(series, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ma) != 4 {
		t.Fatalf("expected length 4, got %d", len(ma))
	}
	for i, v := range ma {
		if v.Valid {
			t.Errorf("index %d should be undefined", i)
		}
	}
}

func TestMovingAverage_InvalidWindow(t *testing.T) {
	for _, w := range []int{0, -1, -20} {
		_, err := MovingAverage(rampSeries(5, 1), w)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("window %d: expected ErrInvalidWindow, got %v", w, err)
		}
	}
}

func TestMovingAverage_DoesNotMutateInput(t *testing.T) {
	series := rampSeries(10, 50)
	before := append([]model.PricePoint(nil), series.Points...)
	if _, err := MovingAverage(series, 3); err != nil {
		t.Fatal(err)
	}
	for i := range before {
		if before[i] != series.Points[i] {
			t.Fatalf("point %d mutated", i)
		}
	}
}

func TestLastValue_Empty(t *testing.T) {
	if _, ok := LastValue(nil); ok {
		t.Error("expected no value for empty series")
	}
}
