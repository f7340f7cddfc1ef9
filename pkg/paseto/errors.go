package pasetotoken

import "fmt"

// ErrConfig reports a key or manager setting that cannot produce tokens.
type ErrConfig struct{ Msg string }

func (e ErrConfig) Error() string { return "paseto: bad configuration: " + e.Msg }

func configErrorf(format string, args ...any) error {
	return ErrConfig{Msg: fmt.Sprintf(format, args...)}
}

// ErrInvalidToken wraps whatever the parser rejected the token for.
type ErrInvalidToken struct{ Err error }

func (e ErrInvalidToken) Error() string { return "paseto: token rejected: " + e.Err.Error() }
func (e ErrInvalidToken) Unwrap() error { return e.Err }
