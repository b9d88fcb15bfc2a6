package pitch

import (
	"math"
	"sync"
	"testing"
)

func TestParamsSetters(t *testing.T) {
	s, err := NewShifter()
	if err != nil {
		t.Fatalf("NewShifter() error = %v", err)
	}
	p := s.Params()

	tests := []struct {
		name    string
		set     func() error
		wantErr bool
	}{
		{name: "ratio octave up", set: func() error { return p.SetPitchRatio(2) }},
		{name: "ratio min", set: func() error { return p.SetPitchRatio(MinPitchRatio) }},
		{name: "ratio too low", set: func() error { return p.SetPitchRatio(0.1) }, wantErr: true},
		{name: "ratio too high", set: func() error { return p.SetPitchRatio(8) }, wantErr: true},
		{name: "ratio NaN", set: func() error { return p.SetPitchRatio(math.NaN()) }, wantErr: true},
		{name: "semitones fifth", set: func() error { return p.SetPitchSemitones(7) }},
		{name: "semitones out of range", set: func() error { return p.SetPitchSemitones(36) }, wantErr: true},
		{name: "window", set: func() error { return p.SetWindowMs(40) }},
		{name: "window zero", set: func() error { return p.SetWindowMs(0) }, wantErr: true},
		{name: "window above max", set: func() error { return p.SetWindowMs(DefaultMaxWindowMs + 1) }, wantErr: true},
		{name: "mix", set: func() error { return p.SetMix(0.3) }},
		{name: "mix above 1", set: func() error { return p.SetMix(1.1) }, wantErr: true},
		{name: "gain", set: func() error { return p.SetOutputGainDB(-6) }},
		{name: "gain Inf", set: func() error { return p.SetOutputGainDB(math.Inf(1)) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.set(); (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParamsRejectedValueKeepsPrevious(t *testing.T) {
	s, err := NewShifter()
	if err != nil {
		t.Fatalf("NewShifter() error = %v", err)
	}
	p := s.Params()

	if err := p.SetPitchRatio(1.25); err != nil {
		t.Fatalf("SetPitchRatio() error = %v", err)
	}
	if err := p.SetPitchRatio(-1); err == nil {
		t.Fatal("expected error")
	}

	if p.PitchRatio() != 1.25 {
		t.Fatalf("PitchRatio() = %v, want 1.25", p.PitchRatio())
	}
}

func TestParamsSemitones(t *testing.T) {
	s, err := NewShifter()
	if err != nil {
		t.Fatalf("NewShifter() error = %v", err)
	}
	p := s.Params()

	if err := p.SetPitchSemitones(12); err != nil {
		t.Fatalf("SetPitchSemitones() error = %v", err)
	}
	if math.Abs(p.PitchRatio()-2) > 1e-12 {
		t.Fatalf("PitchRatio() = %v, want 2", p.PitchRatio())
	}
	if math.Abs(p.PitchSemitones()-12) > 1e-9 {
		t.Fatalf("PitchSemitones() = %v, want 12", p.PitchSemitones())
	}
}

func TestParamsDefaultsFollowOptions(t *testing.T) {
	s, err := NewShifter(WithWindowMs(30), WithMix(0.4), WithOutputGainDB(-3))
	if err != nil {
		t.Fatalf("NewShifter() error = %v", err)
	}
	p := s.Params()

	if p.PitchRatio() != 1 || p.WindowMs() != 30 || p.Mix() != 0.4 || p.OutputGainDB() != -3 {
		t.Fatalf("defaults = %v %v %v %v", p.PitchRatio(), p.WindowMs(), p.Mix(), p.OutputGainDB())
	}
}

func TestParamsConcurrentWithProcessing(t *testing.T) {
	s, err := NewShifter(WithChannels(1))
	if err != nil {
		t.Fatalf("NewShifter() error = %v", err)
	}
	if err := s.Prepare(48000, 128); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			_ = s.Params().SetPitchRatio(1 + float64(i%100)/100)
			_ = s.Params().SetMix(float64(i%10) / 10)
		}
	}()

	buf := [][]float64{make([]float64, 128)}
	for range 500 {
		if err := s.ProcessInPlace(buf); err != nil {
			t.Errorf("ProcessInPlace() error = %v", err)
			break
		}
	}

	close(done)
	wg.Wait()
}
