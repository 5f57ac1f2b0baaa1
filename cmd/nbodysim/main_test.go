package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/models"
)

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset = "", ""
	cmd := &cobra.Command{Use: "test"}
	addSimFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return cmd
}

func TestResolveConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(newTestCmd(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bodies != config.DefaultBodies || cfg.SimRate != 10000 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestResolveConfig_PresetThenFlags(t *testing.T) {
	cfg, err := resolveConfig(newTestCmd(t, "--preset", "sparse", "--seed", "9"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bodies != 60 {
		t.Errorf("Bodies = %d, want preset's 60", cfg.Bodies)
	}
	if cfg.Seed != 9 {
		t.Errorf("Seed = %d, want 9", cfg.Seed)
	}
}

func TestResolveConfig_FileKeepsUnsetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("bodies: 33\nsim_rate: 500\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := resolveConfig(newTestCmd(t, "--config", path, "--sim-rate", "2000"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bodies != 33 {
		t.Errorf("Bodies = %d, want 33 from file", cfg.Bodies)
	}
	if cfg.SimRate != 2000 {
		t.Errorf("SimRate = %g, want flag value 2000", cfg.SimRate)
	}
}

func TestResolveConfig_Invalid(t *testing.T) {
	if _, err := resolveConfig(newTestCmd(t, "--bodies", "0")); err == nil {
		t.Error("expected error for zero bodies")
	}
	if _, err := resolveConfig(newTestCmd(t, "--preset", "nope")); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestViewRadius(t *testing.T) {
	disc := config.DefaultConfig()
	if got, want := viewRadius(disc), 1.2*models.MoonOrbit; got != want {
		t.Errorf("disc viewRadius = %g, want %g", got, want)
	}

	em := config.GetPreset("earthmoon")
	want := 1.2 * (models.MoonOrbit + models.MoonRadius)
	if got := viewRadius(em); got != want {
		t.Errorf("earthmoon viewRadius = %g, want %g", got, want)
	}
}
