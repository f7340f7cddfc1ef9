package waitingroom

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultAutoClear   = 60 * time.Second
	DefaultHistorySize = 10
)

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

type Options struct {
	AutoClear        time.Duration
	HistorySize      int
	DisplayHistory   int
	SubscriberBuffer int

	// AudioEnabled turns the chime sequencer on. Output defaults to the
	// display stream when nil.
	AudioEnabled bool
	Output       AudioOutput
	SampleRate   int

	Clock     Clock
	Store     SettingsStore
	Publisher CallPublisher
	Logger    *slog.Logger
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// CallNext announces patient to cabinet and replaces the active call.
	CallNext(ctx context.Context, patient Patient, doctor Doctor, cabinet string) (Call, error)
	CurrentCall() (Call, bool)
	// History lists past calls, most recent first.
	History() []Call
	Settings() Settings
	UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error)
	// PlayNotification plays the chime when sound is enabled. It never blocks.
	PlayNotification()
	// Dismiss clears the active call before its timeout. Reports whether one was active.
	Dismiss(ctx context.Context) bool
	Display() DisplayView
	Subscribe() (<-chan Event, func())
	Close()
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type pager struct {
	clock     Clock
	store     SettingsStore
	publisher CallPublisher
	logger    *slog.Logger
	metrics   *metrics
	broker    *broker
	chimer    *chimer

	autoClear      time.Duration
	historySize    int
	displayHistory int

	// saveMu orders settings writes so the store never lags behind memory.
	saveMu sync.Mutex

	mu       sync.Mutex
	current  *Call
	history  []Call
	settings Settings
	timer    Timer
	queue    int
	closed   bool
}

// New builds a pager and loads persisted settings. A missing or unreadable
// document falls back to DefaultSettings.
func New(ctx context.Context, opts Options) Service {
	if opts.AutoClear <= 0 {
		opts.AutoClear = DefaultAutoClear
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = DefaultHistorySize
	}
	if opts.DisplayHistory <= 0 || opts.DisplayHistory > opts.HistorySize {
		opts.DisplayHistory = opts.HistorySize
	}
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("component", "waitingroom")

	m := newMetrics()
	p := &pager{
		clock:          opts.Clock,
		store:          opts.Store,
		publisher:      opts.Publisher,
		logger:         logger,
		metrics:        m,
		broker:         newBroker(opts.SubscriberBuffer, m.droppedEvent),
		autoClear:      opts.AutoClear,
		historySize:    opts.HistorySize,
		displayHistory: opts.DisplayHistory,
		history:        make([]Call, 0, opts.HistorySize),
	}

	if opts.AudioEnabled {
		out := opts.Output
		if out == nil {
			out = &displayOutput{broker: p.broker, clock: p.clock}
		}
		p.chimer = newChimer(p.clock, out, opts.SampleRate, logger, m)
	}

	p.settings = p.loadSettings(ctx)
	return p
}

func (p *pager) loadSettings(ctx context.Context) Settings {
	s, err := p.store.Load(ctx)
	switch {
	case errors.Is(err, ErrSettingsNotFound):
		return DefaultSettings()
	case err != nil:
		p.logger.Warn("could not load waiting room settings, using defaults", "error", err)
		return DefaultSettings()
	}
	if err := s.Validate(); err != nil {
		p.logger.Warn("stored waiting room settings are invalid, using defaults", "error", err)
		return DefaultSettings()
	}
	return s
}

func (p *pager) CallNext(ctx context.Context, patient Patient, doctor Doctor, cabinet string) (Call, error) {
	cabinet = strings.TrimSpace(cabinet)
	if err := validateCall(patient, doctor, cabinet); err != nil {
		return Call{}, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return Call{}, ErrPagerClosed
	}

	p.queue++
	call := Call{
		ID:          uuid.New(),
		Patient:     patient,
		Doctor:      doctor,
		Cabinet:     cabinet,
		CreatedAt:   p.clock.Now(),
		DisplayMode: p.settings.DisplayMode,
		QueueNumber: p.queue,
	}

	if p.timer != nil {
		p.timer.Stop()
	}
	p.current = &call

	keep := min(len(p.history), p.historySize-1)
	p.history = append([]Call{call}, p.history[:keep]...)

	id := call.ID
	p.timer = p.clock.AfterFunc(p.autoClear, func() { p.expire(id) })
	sound := p.settings.SoundEnabled
	p.mu.Unlock()

	p.metrics.called(cabinet)
	p.broker.publish(Event{Type: EventCalled, CallID: id, At: call.CreatedAt})
	if sound {
		p.playChime()
	}

	if p.publisher != nil {
		if err := p.publisher.PublishCall(ctx, call); err != nil {
			p.logger.WarnContext(ctx, "could not publish call", "call_id", id, "error", err)
		}
	}

	p.logger.InfoContext(ctx, "patient called",
		"call_id", id,
		"cabinet", cabinet,
		"queue_number", call.QueueNumber,
		"display_mode", call.DisplayMode,
	)

	return call, nil
}

// expire clears the active call if it is still the one the timer was armed for.
func (p *pager) expire(id uuid.UUID) {
	p.mu.Lock()
	if p.current == nil || p.current.ID != id {
		p.mu.Unlock()
		return
	}
	p.current = nil
	p.timer = nil
	now := p.clock.Now()
	p.mu.Unlock()

	p.metrics.cleared("timeout")
	p.broker.publish(Event{Type: EventCleared, CallID: id, At: now})
	p.logger.Debug("active call expired", "call_id", id)
}

func (p *pager) Dismiss(ctx context.Context) bool {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return false
	}
	id := p.current.ID
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.current = nil
	now := p.clock.Now()
	p.mu.Unlock()

	p.metrics.cleared("dismissed")
	p.broker.publish(Event{Type: EventCleared, CallID: id, At: now})
	p.logger.InfoContext(ctx, "active call dismissed", "call_id", id)
	return true
}

func (p *pager) CurrentCall() (Call, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current == nil {
		return Call{}, false
	}
	return *p.current, true
}

func (p *pager) History() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Call, len(p.history))
	copy(out, p.history)
	return out
}

func (p *pager) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

func (p *pager) UpdateSettings(ctx context.Context, patch SettingsPatch) (Settings, error) {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	p.mu.Lock()
	next := patch.Apply(p.settings)
	if err := next.Validate(); err != nil {
		p.mu.Unlock()
		return Settings{}, err
	}
	p.settings = next
	now := p.clock.Now()
	p.mu.Unlock()

	if err := p.store.Save(ctx, next); err != nil {
		p.logger.WarnContext(ctx, "could not persist waiting room settings", "error", err)
	}

	p.broker.publish(Event{Type: EventSettings, At: now})
	p.logger.InfoContext(ctx, "waiting room settings updated",
		"display_mode", next.DisplayMode,
		"sound_enabled", next.SoundEnabled,
	)
	return next, nil
}

func (p *pager) PlayNotification() {
	if !p.Settings().SoundEnabled {
		return
	}
	p.playChime()
}

func (p *pager) playChime() {
	if p.chimer == nil {
		p.logger.Debug("chime skipped, audio disabled")
		return
	}
	p.chimer.play()
}

func (p *pager) Display() DisplayView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return buildDisplayView(p.current, p.history, p.settings, p.displayHistory, p.clock.Now())
}

func (p *pager) Subscribe() (<-chan Event, func()) {
	ch, cancel := p.broker.subscribe()
	p.metrics.subscriberDelta(1)

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			cancel()
			p.metrics.subscriberDelta(-1)
		})
	}
}

// Close stops pending timers and disconnects subscribers.
func (p *pager) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	if p.chimer != nil {
		p.chimer.stop()
	}
	p.broker.close()
}
