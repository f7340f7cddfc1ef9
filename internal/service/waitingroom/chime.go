package waitingroom

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Tone is one sine note inside a chime stage.
type Tone struct {
	Frequency float64       // Hz
	Offset    time.Duration // from the start of the stage
	Duration  time.Duration
	Volume    float64 // peak gain, 0..1
}

// Stage is a group of tones started together at At after the call.
type Stage struct {
	At    time.Duration
	Tones []Tone
}

const (
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50
)

// ChimeStages is the three-part announcement: an ascending arpeggio, a
// shorter reminder at 2.5s and a soft two-note tail at 5s.
var ChimeStages = []Stage{
	{At: 0, Tones: []Tone{
		{noteC5, 0, time.Second, 0.4},
		{noteE5, 400 * time.Millisecond, time.Second, 0.4},
		{noteG5, 800 * time.Millisecond, 1200 * time.Millisecond, 0.4},
		{noteC6, 1200 * time.Millisecond, time.Second, 0.3},
	}},
	{At: 2500 * time.Millisecond, Tones: []Tone{
		{noteC5, 0, 800 * time.Millisecond, 0.3},
		{noteE5, 300 * time.Millisecond, 800 * time.Millisecond, 0.3},
		{noteG5, 600 * time.Millisecond, time.Second, 0.3},
	}},
	{At: 5 * time.Second, Tones: []Tone{
		{noteE5, 0, 600 * time.Millisecond, 0.2},
		{noteG5, 300 * time.Millisecond, 800 * time.Millisecond, 0.2},
	}},
}

const (
	attackTime  = 0.1
	releaseTime = 0.2
	releaseTo   = 0.01
	sustainTo   = 0.8
)

// envelope returns the gain at t seconds into a tone of dur seconds:
// linear rise to vol, linear decline to 80% of vol, exponential release to 0.01.
func envelope(t, dur, vol float64) float64 {
	sustainEnd := dur - releaseTime
	if sustainEnd < attackTime {
		sustainEnd = attackTime
	}

	switch {
	case t < 0 || t > dur:
		return 0
	case t < attackTime:
		return vol * t / attackTime
	case t < sustainEnd:
		return vol + (sustainTo*vol-vol)*(t-attackTime)/(sustainEnd-attackTime)
	default:
		from := sustainTo * vol
		if from <= releaseTo {
			return from
		}
		span := dur - sustainEnd
		if span <= 0 {
			return releaseTo
		}
		return from * math.Pow(releaseTo/from, (t-sustainEnd)/span)
	}
}

// Length is the time from the first tone start to the last tone end.
func (s Stage) Length() time.Duration {
	var end time.Duration
	for _, t := range s.Tones {
		if e := t.Offset + t.Duration; e > end {
			end = e
		}
	}
	return end
}

// Render mixes the stage into mono 16-bit PCM. Overlapping tones are summed and clipped.
func (s Stage) Render(sampleRate int) []int16 {
	rate := float64(sampleRate)
	n := int(math.Ceil(s.Length().Seconds() * rate))
	mix := make([]float64, n)

	for _, tone := range s.Tones {
		start := int(tone.Offset.Seconds() * rate)
		dur := tone.Duration.Seconds()
		count := int(dur * rate)
		w := 2 * math.Pi * tone.Frequency

		for i := 0; i < count && start+i < n; i++ {
			t := float64(i) / rate
			mix[start+i] += envelope(t, dur, tone.Volume) * math.Sin(w*t)
		}
	}

	out := make([]int16, n)
	for i, v := range mix {
		v = math.Max(-1, math.Min(1, v))
		out[i] = int16(math.Round(v * math.MaxInt16))
	}
	return out
}

// Clip is a rendered chime stage ready for playback.
type Clip struct {
	Stage      int    `json:"stage"` // 1-based
	SampleRate int    `json:"sampleRate"`
	DurationMs int64  `json:"durationMs"`
	MimeType   string `json:"mimeType"`
	Data       []byte `json:"data"`
}

// AudioOutput plays rendered clips somewhere audible.
// Implementations return ErrNoAudioOutput when nothing can play the clip.
type AudioOutput interface {
	Play(ctx context.Context, clip Clip) error
}

// chimer schedules the stages of one announcement. Every call to play is
// independent; later calls never cancel stages already scheduled.
type chimer struct {
	clock      Clock
	out        AudioOutput
	sampleRate int
	logger     *slog.Logger
	metrics    *metrics

	renderOnce sync.Once
	clips      []Clip
	stopped    atomic.Bool
}

func newChimer(clock Clock, out AudioOutput, sampleRate int, logger *slog.Logger, m *metrics) *chimer {
	if sampleRate <= 0 {
		sampleRate = 22050
	}
	return &chimer{
		clock:      clock,
		out:        out,
		sampleRate: sampleRate,
		logger:     logger,
		metrics:    m,
	}
}

func (c *chimer) render() []Clip {
	c.renderOnce.Do(func() {
		c.clips = make([]Clip, len(ChimeStages))
		for i, st := range ChimeStages {
			c.clips[i] = Clip{
				Stage:      i + 1,
				SampleRate: c.sampleRate,
				DurationMs: st.Length().Milliseconds(),
				MimeType:   "audio/wav",
				Data:       encodeWAV(st.Render(c.sampleRate), c.sampleRate),
			}
		}
	})
	return c.clips
}

func (c *chimer) play() {
	if c.stopped.Load() {
		return
	}
	for i, st := range ChimeStages {
		c.clock.AfterFunc(st.At, func() { c.playStage(i) })
	}
}

func (c *chimer) playStage(i int) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("chime stage panicked", "stage", i+1, "panic", r)
		}
	}()

	if c.stopped.Load() {
		return
	}

	clip := c.render()[i]
	err := c.out.Play(context.Background(), clip)
	c.metrics.chimeStage(i+1, err)

	switch {
	case err == nil:
	case errors.Is(err, ErrNoAudioOutput):
		c.logger.Debug("chime stage skipped, no audio output", "stage", clip.Stage)
	default:
		c.logger.Warn("chime stage failed", "stage", clip.Stage, "error", err)
	}
}

func (c *chimer) stop() {
	c.stopped.Store(true)
}

// displayOutput sends clips to connected waiting-room screens.
type displayOutput struct {
	broker *broker
	clock  Clock
}

func (o *displayOutput) Play(ctx context.Context, clip Clip) error {
	if o.broker.len() == 0 {
		return ErrNoAudioOutput
	}
	o.broker.publish(Event{Type: EventChime, At: o.clock.Now(), Clip: &clip})
	return nil
}
