package layout

import (
	"errors"
	"reflect"
	"testing"
)

func TestFitShortTextKeepsMaxFontSize(t *testing.T) {
	m := &stubMeasurer{}
	got, err := Fit(m, defaultRequest("Hi"))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if got.FontSize != 120 {
		t.Fatalf("FontSize = %d, want 120", got.FontSize)
	}
	if !reflect.DeepEqual(got.Lines, []string{"Hi"}) {
		t.Fatalf("Lines = %q, want [\"Hi\"]", got.Lines)
	}
	if got.Overflow {
		t.Fatalf("unexpected overflow")
	}
	if m.calls != 1 {
		t.Fatalf("expected a single measurement pass, got %d", m.calls)
	}
}

func TestFitWrapsBeforeShrinking(t *testing.T) {
	// 120px 时每字 72px，三个词各占一行：3×144=432 ≤ 470。
	got, err := Fit(&stubMeasurer{}, defaultRequest("hello world again"))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if got.FontSize != 120 {
		t.Fatalf("FontSize = %d, want 120", got.FontSize)
	}
	want := []string{"hello", "world", "again"}
	if !reflect.DeepEqual(got.Lines, want) {
		t.Fatalf("Lines = %q, want %q", got.Lines, want)
	}
	if !near(got.LineHeight, 144) {
		t.Fatalf("LineHeight = %g, want 144", got.LineHeight)
	}
}

func TestFitShrinksOverwideWord(t *testing.T) {
	// 10 个字符需要 6·s ≤ 470，即 s ≤ 78.3；步长 2 从 120 递减得到 78。
	got, err := Fit(&stubMeasurer{}, defaultRequest("abcdefghij"))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if got.FontSize != 78 {
		t.Fatalf("FontSize = %d, want 78", got.FontSize)
	}
	if got.Overflow {
		t.Fatalf("unexpected overflow")
	}
}

func TestFitOverflowAtFloorIsBestEffort(t *testing.T) {
	m := &stubMeasurer{}
	got, err := Fit(m, defaultRequest(repeat("w", 100)))
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if !got.Overflow {
		t.Fatalf("expected overflow at the floor")
	}
	if got.FontSize < DefaultMinFontSize {
		t.Fatalf("FontSize %d below floor %d", got.FontSize, DefaultMinFontSize)
	}
	if got.FontSize != 12 {
		t.Fatalf("FontSize = %d, want 12", got.FontSize)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("expected the word on one line, got %q", got.Lines)
	}
	if limit := MaxIterations(DefaultMaxFontSize, DefaultMinFontSize, DefaultFontStep); m.calls > limit {
		t.Fatalf("Fit took %d iterations, bound is %d", m.calls, limit)
	}
}

func TestFitSizesDecreaseByStep(t *testing.T) {
	m := &stubMeasurer{}
	if _, err := Fit(m, defaultRequest(repeat("m", 40))); err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	for i := 1; i < len(m.sizes); i++ {
		if m.sizes[i-1]-m.sizes[i] != DefaultFontStep {
			t.Fatalf("sizes %v not decreasing by %d", m.sizes, DefaultFontStep)
		}
	}
}

func TestFitMaxBelowFloorReturnsOnce(t *testing.T) {
	m := &stubMeasurer{}
	req := defaultRequest(repeat("w", 100))
	req.MaxFontSize = 8
	got, err := Fit(m, req)
	if err != nil {
		t.Fatalf("Fit error: %v", err)
	}
	if m.calls != 1 || got.FontSize != 8 || !got.Overflow {
		t.Fatalf("got %+v after %d calls, want a single overflowing pass at 8", got, m.calls)
	}
}

func TestFitPropagatesMeasurerError(t *testing.T) {
	_, err := Fit(&stubMeasurer{err: errMeasure}, defaultRequest("Hi"))
	if !errors.Is(err, errMeasure) {
		t.Fatalf("expected measurer error, got %v", err)
	}
}

func TestFitRequiresMeasurer(t *testing.T) {
	if _, err := Fit(nil, defaultRequest("Hi")); err == nil {
		t.Fatalf("expected error without measurer")
	}
}

func TestMaxIterations(t *testing.T) {
	tests := []struct {
		max, floor, step int
		want             int
	}{
		{120, 10, 2, 56},
		{12, 10, 2, 2},
		{10, 10, 2, 1},
		{8, 10, 2, 1},
		{120, 10, 0, 56},
	}
	for _, tt := range tests {
		if got := MaxIterations(tt.max, tt.floor, tt.step); got != tt.want {
			t.Errorf("MaxIterations(%d, %d, %d) = %d, want %d", tt.max, tt.floor, tt.step, got, tt.want)
		}
	}
}
