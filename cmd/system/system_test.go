package system

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/minou2442/clinic/pkg/authorize"
	pasetotoken "github.com/minou2442/clinic/pkg/paseto"
	"github.com/minou2442/clinic/pkg/util/password"
)

// run executes the system command tree under a throwaway root.
func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	cfgDir := t.TempDir()
	cfg := "password:\n  memory_kib: 1024\n  iterations: 1\n  parallelism: 1\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}

	root := &cobra.Command{Use: "dentaldesk"}
	root.PersistentFlags().String("config", filepath.Join(cfgDir, "config.yaml"), "")
	root.AddCommand(NewSystemCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"system"}, args...))

	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestHashPassword(t *testing.T) {
	out := strings.TrimSpace(run(t, "s3cret\n", "hash-password"))

	if err := password.Verify(out, "s3cret"); err != nil {
		t.Fatalf("printed hash does not verify: %v (%q)", err, out)
	}
	if !strings.Contains(out, "m=1024,t=1,p=1") {
		t.Errorf("config parameters not applied: %s", out)
	}
}

func TestHashPassword_Generate(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(run(t, "", "hash-password", "--generate", "16")), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}

	secret := strings.TrimPrefix(lines[0], "password: ")
	if len(secret) != 16 {
		t.Errorf("generated password length = %d", len(secret))
	}
	if err := password.Verify(lines[1], secret); err != nil {
		t.Errorf("hash does not match generated password: %v", err)
	}
}

func TestPermissions(t *testing.T) {
	out := run(t, "", "permissions")
	for _, want := range []string{"ROLE", "receptionist", "Réceptionniste", "waiting_room", "* (toutes)"} {
		if !strings.Contains(out, want) {
			t.Errorf("table is missing %q", want)
		}
	}

	var rows []authorize.MatrixRow
	if err := json.Unmarshal([]byte(run(t, "", "permissions", "--json")), &rows); err != nil {
		t.Fatalf("--json output: %v", err)
	}
	if len(rows) != len(authorize.KnownRoles) {
		t.Errorf("rows = %d", len(rows))
	}
}

func TestGenKeys(t *testing.T) {
	out := run(t, "", "gen-keys", "--mode", "public")

	fields := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		k, v, _ := strings.Cut(line, ": ")
		fields[k] = v
	}

	keys, err := pasetotoken.LoadKeys(pasetotoken.KeyStrings{
		Mode:      pasetotoken.Mode(fields["mode"]),
		SecretHex: fields["secret_key_hex"],
	})
	if err != nil {
		t.Fatalf("printed keys do not load: %v\n%s", err, out)
	}
	if keys.Public.ExportHex() != fields["public_key_hex"] {
		t.Error("printed public key does not match the secret key")
	}
}

func TestGenDocs(t *testing.T) {
	dir := t.TempDir()
	run(t, "", "gendocs", "--outdir", dir)

	for _, name := range []string{"dentaldesk_system.md", "dentaldesk_system_hash-password.md"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not generated: %v", name, err)
		}
	}

	man := t.TempDir()
	run(t, "", "gendocs", "--outdir", man, "--format", "man")
	if _, err := os.Stat(filepath.Join(man, "dentaldesk-system-gen-keys.1")); err != nil {
		t.Errorf("man page not generated: %v", err)
	}
}
