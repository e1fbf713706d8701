package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"guidekit/internal/config"
)

const categories = `{"Phone":{"Apple":{"iPhone 4":null,"iPhone 5":null},"Nokia":null},"Tablet":{"iPad":null}}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func lines(s string) []string { return strings.Split(strings.TrimRight(s, "\n"), "\n") }

func TestSearchCommand(t *testing.T) {
	p := filepath.Join(t.TempDir(), "categories.json")
	if err := os.WriteFile(p, []byte(categories), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "search", p, "iphone")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if diff := cmp.Diff([]string{"iPhone 4", "iPhone 5"}, lines(out)); diff != "" {
		t.Fatalf("search (-want +got):\n%s", diff)
	}

	out, err = execute(t, "search", "--leaves", p)
	if err != nil {
		t.Fatalf("search leaves: %v", err)
	}
	if diff := cmp.Diff([]string{"iPhone 4", "iPhone 5", "Nokia", "iPad"}, lines(out)); diff != "" {
		t.Fatalf("leaves (-want +got):\n%s", diff)
	}
}

func TestSearchCommandErrors(t *testing.T) {
	if _, err := execute(t, "search"); err == nil {
		t.Fatalf("expected arg count error")
	}
	if _, err := execute(t, "search", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected missing file error")
	}
	p := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(p, []byte(`[1,2]`), 0o644)
	if _, err := execute(t, "search", p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSitesCommand(t *testing.T) {
	out, err := execute(t, "sites", "fix")
	if err != nil {
		t.Fatalf("sites: %v", err)
	}
	if !strings.HasPrefix(out, "ifixit\t") || strings.Contains(out, "dozuki") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "sites"); err == nil {
		t.Fatalf("expected invalid log level error")
	}
}

func TestServeResolveFlagsOverrideConfig(t *testing.T) {
	p := filepath.Join(t.TempDir(), "guidekit.toml")
	body := "addr = \":9000\"\ndefault_site = \"ifixit\"\nlocale = \"fr\"\ncors_origins = [\"http://a\"]\n"
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, o := serveCmd(&globalOpts{})
	if err := cmd.ParseFlags([]string{"--config", p, "--site", "dozuki", "--request-timeout", "3"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := o.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.DefaultSite != "dozuki" || cfg.Locale != "fr" || cfg.RequestTimeoutSeconds != 3 {
		t.Fatalf("unexpected cfg %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://a" {
		t.Fatalf("config origins should survive: %v", cfg.CORSOrigins)
	}
	if cfg.DataDir != "" {
		t.Fatalf("config without data_dir should keep saved state off, got %q", cfg.DataDir)
	}
	if cfg.LogLevel != config.DefaultLogLevel {
		t.Fatalf("log level default not applied: %q", cfg.LogLevel)
	}
}
