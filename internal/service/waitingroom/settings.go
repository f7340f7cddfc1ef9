package waitingroom

import (
	"context"
	"fmt"
	"sync"
)

// Settings drive the public display and the audio cue.
// JSON field names match what the dashboard historically stored.
type Settings struct {
	DisplayMode         DisplayMode `json:"displayMode"`
	AutoRefreshInterval int         `json:"autoRefreshInterval"` // seconds
	SoundEnabled        bool        `json:"soundEnabled"`
	AnimationEnabled    bool        `json:"animationEnabled"`
	ShowQueueNumber     bool        `json:"showQueueNumber"`
	ShowEstimatedTime   bool        `json:"showEstimatedTime"`
}

func DefaultSettings() Settings {
	return Settings{
		DisplayMode:         DisplayFirstNameOnly,
		AutoRefreshInterval: 5,
		SoundEnabled:        true,
		AnimationEnabled:    true,
		ShowQueueNumber:     false,
		ShowEstimatedTime:   false,
	}
}

func (s Settings) Validate() error {
	if !s.DisplayMode.Valid() {
		return fmt.Errorf("%w: unknown display mode %q", ErrInvalidSettings, s.DisplayMode)
	}
	if s.AutoRefreshInterval <= 0 {
		return fmt.Errorf("%w: auto refresh interval must be positive", ErrInvalidSettings)
	}
	return nil
}

// SettingsPatch is a partial update; nil fields keep their current value.
type SettingsPatch struct {
	DisplayMode         *DisplayMode `json:"displayMode,omitempty"`
	AutoRefreshInterval *int         `json:"autoRefreshInterval,omitempty"`
	SoundEnabled        *bool        `json:"soundEnabled,omitempty"`
	AnimationEnabled    *bool        `json:"animationEnabled,omitempty"`
	ShowQueueNumber     *bool        `json:"showQueueNumber,omitempty"`
	ShowEstimatedTime   *bool        `json:"showEstimatedTime,omitempty"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DisplayMode != nil {
		s.DisplayMode = *p.DisplayMode
	}
	if p.AutoRefreshInterval != nil {
		s.AutoRefreshInterval = *p.AutoRefreshInterval
	}
	if p.SoundEnabled != nil {
		s.SoundEnabled = *p.SoundEnabled
	}
	if p.AnimationEnabled != nil {
		s.AnimationEnabled = *p.AnimationEnabled
	}
	if p.ShowQueueNumber != nil {
		s.ShowQueueNumber = *p.ShowQueueNumber
	}
	if p.ShowEstimatedTime != nil {
		s.ShowEstimatedTime = *p.ShowEstimatedTime
	}
	return s
}

// SettingsStore persists the whole settings document under one key.
type SettingsStore interface {
	// Load returns ErrSettingsNotFound when nothing was saved yet.
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// MemoryStore keeps settings in process. Used when Redis is disabled.
type MemoryStore struct {
	mu    sync.Mutex
	value *Settings
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.value == nil {
		return Settings{}, ErrSettingsNotFound
	}
	return *m.value, nil
}

func (m *MemoryStore) Save(ctx context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = &s
	return nil
}
