package waitingroom

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"
)

func TestEnvelope(t *testing.T) {
	const vol = 0.4
	const dur = 1.0

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"silent at start", 0, 0},
		{"half way up the attack", 0.05, 0.2},
		{"peak after attack", 0.1, 0.4},
		{"sustain end at 80%", 0.8, 0.32},
		{"release floor", 1.0, 0.01},
		{"after the tone", 1.5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envelope(tt.t, dur, vol); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("envelope(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}

	// exponential release stays between the two ends
	mid := envelope(0.9, dur, vol)
	if mid >= 0.32 || mid <= 0.01 {
		t.Errorf("envelope(0.9) = %v, want inside (0.01, 0.32)", mid)
	}
}

func TestChimeStagesSchedule(t *testing.T) {
	if len(ChimeStages) != 3 {
		t.Fatalf("len(ChimeStages) = %d, want 3", len(ChimeStages))
	}

	wantAt := []time.Duration{0, 2500 * time.Millisecond, 5 * time.Second}
	wantTones := []int{4, 3, 2}
	for i, st := range ChimeStages {
		if st.At != wantAt[i] {
			t.Errorf("stage %d at %v, want %v", i+1, st.At, wantAt[i])
		}
		if len(st.Tones) != wantTones[i] {
			t.Errorf("stage %d has %d tones, want %d", i+1, len(st.Tones), wantTones[i])
		}
	}

	if got := ChimeStages[0].Length(); got != 2200*time.Millisecond {
		t.Errorf("stage 1 length = %v, want 2.2s", got)
	}
}

func TestStageRender(t *testing.T) {
	const rate = 8000
	st := ChimeStages[2]

	samples := st.Render(rate)
	if want := int(math.Ceil(st.Length().Seconds() * rate)); len(samples) != want {
		t.Fatalf("len(samples) = %d, want %d", len(samples), want)
	}
	if samples[0] != 0 {
		t.Errorf("first sample = %d, want silence", samples[0])
	}

	var peak int16
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	// two overlapping tones at 0.2 can never reach full scale
	limit := 0.4 * math.MaxInt16
	if peak == 0 || peak > int16(limit)+1 {
		t.Errorf("peak = %d, out of expected range", peak)
	}
}

func TestEncodeWAV(t *testing.T) {
	samples := []int16{0, 100, -100, math.MaxInt16}
	wav := encodeWAV(samples, 22050)

	if len(wav) != 44+len(samples)*2 {
		t.Fatalf("len(wav) = %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Error("missing RIFF/WAVE/data markers")
	}

	le := binary.LittleEndian
	if got := le.Uint32(wav[4:8]); got != uint32(36+len(samples)*2) {
		t.Errorf("riff size = %d", got)
	}
	if got := le.Uint16(wav[22:24]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := le.Uint32(wav[24:28]); got != 22050 {
		t.Errorf("sample rate = %d", got)
	}
	if got := le.Uint16(wav[34:36]); got != 16 {
		t.Errorf("bits per sample = %d", got)
	}
	if got := int16(le.Uint16(wav[46:48])); got != 100 {
		t.Errorf("second sample = %d, want 100", got)
	}
}

func TestChimerRendersOnce(t *testing.T) {
	c := newChimer(newFakeClock(), &recordingOutput{}, 8000, quietLogger(), nil)

	a := c.render()
	b := c.render()
	if len(a) != 3 || &a[0] != &b[0] {
		t.Error("Clips should be rendered once and reused")
	}
	for i, clip := range a {
		if clip.Stage != i+1 || clip.SampleRate != 8000 || clip.DurationMs == 0 {
			t.Errorf("clip %d = %+v", i, clip)
		}
	}
}

func TestChimerStop(t *testing.T) {
	clock := newFakeClock()
	out := &recordingOutput{}
	c := newChimer(clock, out, 8000, quietLogger(), nil)

	c.play()
	clock.Advance(time.Second)
	c.stop()
	clock.Advance(10 * time.Second)
	c.play()
	clock.Advance(10 * time.Second)

	if got := out.played(); len(got) != 1 {
		t.Errorf("played = %v, want only stage 1 before stop", got)
	}
}

type panickyOutput struct{}

func (panickyOutput) Play(ctx context.Context, clip Clip) error { panic("driver crashed") }

func TestChimerRecoversFromPanics(t *testing.T) {
	clock := newFakeClock()
	c := newChimer(clock, panickyOutput{}, 8000, quietLogger(), nil)

	c.play()
	clock.Advance(10 * time.Second)
}
