package objmodel

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("trait_precedence: traits\nlog_level: debug\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Config{TraitPrecedence: PrecedenceTraits, Redeclare: RedeclareReject, LogLevel: "debug"}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}

	empty, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("unexpected error for empty config: %v", err)
	}
	if empty != DefaultConfig() {
		t.Errorf("expected defaults, got %+v", empty)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "colour: blue\n"},
		{"unknown precedence", "trait_precedence: random\n"},
		{"unknown policy", "redeclare: merge\n"},
		{"unknown level", "log_level: loud\n"},
		{"not a mapping", "- a\n- b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objmodel.yaml")
	if err := os.WriteFile(path, []byte("redeclare: replace\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redeclare != RedeclareReplace {
		t.Errorf("expected replace, got %s", cfg.Redeclare)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestApplyOverrides(t *testing.T) {
	values, err := ParseOverrides([]string{"redeclare=replace", "log_level=warn", "unknown=1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(values["redeclare"], []string{"replace"}) {
		t.Errorf("unexpected values %v", values)
	}

	cfg := DefaultConfig()
	if err := ApplyOverrides(&cfg, values); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Redeclare != RedeclareReplace || cfg.LogLevel != "warn" || cfg.TraitPrecedence != PrecedenceDeclared {
		t.Errorf("unexpected config %+v", cfg)
	}

	if err := ApplyOverrides(&cfg, map[string][]string{"trait_precedence": {"nope"}}); err == nil {
		t.Error("expected invalid override to be rejected")
	}
	if err := ApplyOverrides(&cfg, nil); err != nil {
		t.Errorf("expected no-op for empty overrides, got %v", err)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := ParseOverrides([]string{bad}); err == nil {
			t.Errorf("ParseOverrides(%q): expected an error", bad)
		}
	}
}

func TestConfig_Level(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := (Config{LogLevel: in}).Level(); got != want {
			t.Errorf("Level(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRegistry_TraitPrecedenceConfig(t *testing.T) {
	trait := NewBody().Set("public hello", returning("trait"))
	body := NewBody().Set("public hello", returning("declared"))

	for p, want := range map[TraitPrecedence]string{PrecedenceDeclared: "declared", PrecedenceTraits: "trait"} {
		reg := NewRegistry().WithConfig(Config{TraitPrecedence: p})
		d := mustDeclare(t, reg, Declaration{Name: "Greeter", Parameters: Parameters{Uses: []*Body{trait}}, Body: body})
		if got := mustCall(t, mustNew(t, d), "hello"); got != want {
			t.Errorf("%s: expected %s, got %v", p, want, got)
		}
	}
}
