package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestSpectrumRender(t *testing.T) {
	freqs := make([]float64, 4097)
	in := make([]float64, len(freqs))
	out := make([]float64, len(freqs))
	for i := range freqs {
		freqs[i] = float64(i) * 24000 / 4096
	}
	in[171] = 1
	out[341] = 0.5

	var buf bytes.Buffer
	err := Spectrum{
		Title:    "octave up",
		Subtitle: "ratio 2.00",
		MaxHz:    8000,
		Freqs:    freqs,
		Series:   []Series{{Name: "input", Magnitudes: in}, {Name: "output", Magnitudes: out}},
	}.Render(&buf)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"octave up", "ratio 2.00", "input", "output", "echarts"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered chart missing %q", want)
		}
	}
	if strings.Contains(html, "24000") {
		t.Error("bins above MaxHz were not dropped")
	}
}

func TestDecimateDB(t *testing.T) {
	items := decimateDB([]float64{0, 1, 0.1, 0, 0}, 2)
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}

	want := []float64{0, -20, FloorDB}
	for i, it := range items {
		if it.Value.(float64) != want[i] {
			t.Errorf("item %d = %v, want %v", i, it.Value, want[i])
		}
	}
}

func TestSpectrumRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := (Spectrum{}).Render(&buf); err == nil {
		t.Error("expected error for empty chart")
	}

	err := Spectrum{
		Freqs:  []float64{0, 1, 2},
		Series: []Series{{Name: "short", Magnitudes: []float64{1}}},
	}.Render(&buf)
	if err == nil {
		t.Error("expected length mismatch error")
	}
}
