package pasetotoken

import (
	"time"

	"github.com/minou2442/clinic/config"
)

// NewFromConfig loads the keys of authentication.paseto and builds a Manager.
func NewFromConfig(cfg *config.Config) (*Manager, error) {
	p := cfg.Authentication.Paseto
	mode := Mode(p.Mode)

	keys, err := LoadKeys(KeyStrings{
		Mode:         mode,
		SymmetricHex: p.LocalKeyHex,
		SecretHex:    p.SecretKeyHex,
		PublicHex:    p.PublicKeyHex,
	})
	if err != nil {
		return nil, err
	}

	return New(Config{
		Mode:       mode,
		Issuer:     p.Issuer,
		Audience:   p.Audience,
		AccessTTL:  time.Duration(p.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(p.RefreshTTLDays) * 24 * time.Hour,
	}, keys)
}
