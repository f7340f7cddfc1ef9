package waitingroom

import "errors"

var (
	ErrInvalidCall      = errors.New("invalid call")
	ErrInvalidSettings  = errors.New("invalid waiting room settings")
	ErrNoAudioOutput    = errors.New("no audio output available")
	ErrSettingsNotFound = errors.New("waiting room settings not found")
	ErrPagerClosed      = errors.New("pager is closed")
)
