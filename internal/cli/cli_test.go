package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/plexgraph/plexgraph/pkg/pipeline"
)

func TestApplyConfigDefaults(t *testing.T) {
	c := &CLI{
		Logger: newLogger(io.Discard, log.InfoLevel),
		Config: Config{Defaults: DefaultsConfig{
			Algorithm: "circular",
			Router:    "curved",
			Width:     2,
			Height:    3,
			Seed:      7,
		}},
	}

	opts := pipeline.Options{}
	c.applyConfigDefaults(&opts)
	if opts.Algorithm != "circular" || opts.Router != "curved" {
		t.Errorf("opts = %+v, want config defaults applied", opts)
	}
	if opts.Width != 2 || opts.Height != 3 || opts.Seed != 7 {
		t.Errorf("opts = %+v, want config defaults applied", opts)
	}

	// Flag-bound fields take precedence over the config file.
	opts = pipeline.Options{Algorithm: "spring", Width: 5, Seed: 1}
	c.applyConfigDefaults(&opts)
	if opts.Algorithm != "spring" || opts.Width != 5 || opts.Seed != 1 {
		t.Errorf("opts = %+v, want flag values kept", opts)
	}
	if opts.Router != "curved" || opts.Height != 3 {
		t.Errorf("opts = %+v, want unset fields filled", opts)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := &CLI{Logger: newLogger(io.Discard, log.InfoLevel)}
	root := c.RootCommand()

	want := []string{"layout", "route", "serve", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestCacheDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/tmp/xdg-cache", appName)
	if dir != want {
		t.Errorf("cacheDir = %q, want %q", dir, want)
	}
}

func TestSetLogLevel(t *testing.T) {
	c := &CLI{Logger: newLogger(io.Discard, log.InfoLevel)}
	c.SetLogLevel(log.DebugLevel)
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
