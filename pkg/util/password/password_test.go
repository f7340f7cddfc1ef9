package password

import (
	"errors"
	"strings"
	"testing"

	"github.com/minou2442/clinic/config"
)

// cheap parameters keep the suite fast
var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHash(t *testing.T) {
	h := NewHasher(testParams)

	encoded, err := h.Hash("correcthorsebatterystaple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=") {
		t.Errorf("Hash() format invalid, got %s", encoded)
	}
	if parts := strings.Split(encoded, "$"); len(parts) != 6 {
		t.Errorf("Hash() expected 6 parts, got %d", len(parts))
	}

	again, _ := h.Hash("correcthorsebatterystaple")
	if again == encoded {
		t.Error("Expected distinct salts to produce distinct hashes")
	}
}

func TestVerify(t *testing.T) {
	h := NewHasher(testParams)
	encoded, err := h.Hash("fauteuil-7")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
	}{
		{"correct password", encoded, "fauteuil-7", nil},
		{"wrong password", encoded, "fauteuil-8", ErrMismatch},
		{"empty password", encoded, "", ErrMismatch},
		{"invalid format", "notahash", "fauteuil-7", ErrInvalidHash},
		{"wrong algorithm", strings.Replace(encoded, "argon2id", "argon2i", 1), "fauteuil-7", ErrInvalidHash},
		{"wrong version", strings.Replace(encoded, "v=19", "v=16", 1), "fauteuil-7", ErrIncompatibleVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.hash, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	h := NewHasher(testParams)
	encoded, _ := h.Hash("x")

	if h.NeedsRehash(encoded) {
		t.Error("Expected fresh hash not to need rehash")
	}
	stronger := NewHasher(DefaultParams())
	if !stronger.NeedsRehash(encoded) {
		t.Error("Expected hash with weaker params to need rehash")
	}
	if !h.NeedsRehash("garbage") {
		t.Error("Expected invalid hash to need rehash")
	}
}

func TestFromCentralConfig(t *testing.T) {
	p := FromCentralConfig(config.PasswordConfig{})
	if p != DefaultParams() {
		t.Errorf("Expected defaults for empty config, got %+v", p)
	}

	low := FromCentralConfig(config.PasswordConfig{LowMemoryMode: true})
	if low.Memory != 32*1024 {
		t.Errorf("Memory = %d, want 32768", low.Memory)
	}
	if low.Iterations != 4 {
		t.Errorf("Iterations = %d, want 4", low.Iterations)
	}
}

func TestGenerate(t *testing.T) {
	for _, n := range []int{8, 16, 33} {
		pw, err := Generate(n)
		if err != nil {
			t.Fatalf("Generate(%d) error = %v", n, err)
		}
		if len(pw) != n {
			t.Errorf("Generate(%d) length = %d", n, len(pw))
		}
	}
	if pw, _ := Generate(0); len(pw) != 16 {
		t.Errorf("Generate(0) length = %d, want 16", len(pw))
	}
}
