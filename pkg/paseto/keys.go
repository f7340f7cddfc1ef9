package pasetotoken

import (
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	// ModeLocal issues v4.local tokens sealed with one shared key.
	ModeLocal Mode = "local"
	// ModePublic issues v4.public tokens; verify-only nodes need just the public half.
	ModePublic Mode = "public"
)

type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey
	Secret    *paseto.V4AsymmetricSecretKey
	Public    *paseto.V4AsymmetricPublicKey
}

// KeyStrings is the hex form of Keys as it appears in configuration.
type KeyStrings struct {
	Mode         Mode
	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		return loadLocal(strings.TrimSpace(in.SymmetricHex))
	case ModePublic:
		return loadPublic(strings.TrimSpace(in.SecretHex), strings.TrimSpace(in.PublicHex))
	default:
		return Keys{}, configErrorf("mode %q is not one of local, public", in.Mode)
	}
}

func loadLocal(symHex string) (Keys, error) {
	if symHex == "" {
		return Keys{}, configErrorf("local mode needs local_key_hex")
	}
	k, err := paseto.V4SymmetricKeyFromHex(symHex)
	if err != nil {
		return Keys{}, configErrorf("local_key_hex: %v", err)
	}
	return Keys{Mode: ModeLocal, Symmetric: &k}, nil
}

// loadPublic derives the public key from the secret one when only the
// secret is given. An explicit public key wins.
func loadPublic(secHex, pubHex string) (Keys, error) {
	if secHex == "" && pubHex == "" {
		return Keys{}, configErrorf("public mode needs secret_key_hex or public_key_hex")
	}

	out := Keys{Mode: ModePublic}
	if secHex != "" {
		sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(secHex)
		if err != nil {
			return Keys{}, configErrorf("secret_key_hex: %v", err)
		}
		pk := sk.Public()
		out.Secret, out.Public = &sk, &pk
	}
	if pubHex != "" {
		pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(pubHex)
		if err != nil {
			return Keys{}, configErrorf("public_key_hex: %v", err)
		}
		out.Public = &pk
	}
	return out, nil
}

// Export renders the keys back to their configuration form.
func (k Keys) Export() KeyStrings {
	out := KeyStrings{Mode: k.Mode}
	if k.Symmetric != nil {
		out.SymmetricHex = k.Symmetric.ExportHex()
	}
	if k.Secret != nil {
		out.SecretHex = k.Secret.ExportHex()
	}
	if k.Public != nil {
		out.PublicHex = k.Public.ExportHex()
	}
	return out
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}

// GenerateKeys creates a fresh key set for mode.
func GenerateKeys(mode Mode) (Keys, error) {
	switch mode {
	case ModeLocal:
		return NewLocalKeys(), nil
	case ModePublic:
		return NewPublicKeys(), nil
	}
	return Keys{}, configErrorf("mode %q is not one of local, public", mode)
}
