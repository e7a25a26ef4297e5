package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestProfilesAreValid(t *testing.T) {
	names := ProfileNames()
	if want := []string{"caden32", "default", "flow", "minimax", "mybot"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("profiles: got %v want %v", names, want)
	}
	for _, name := range names {
		cfg, err := Profile(name)
		if err != nil {
			t.Fatalf("Profile(%s): %v", name, err)
		}
		if cfg.Name != name {
			t.Errorf("Profile(%s) is named %q", name, cfg.Name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Profile(%s) does not validate: %v", name, err)
		}
	}
}

func TestUnknownProfile(t *testing.T) {
	if _, err := Profile("stockfish"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
	if _, err := NewBotFromProfile("stockfish"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile from NewBotFromProfile, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	mutations := map[string]func(*Config){
		"zero depth":        func(c *Config) { c.MaxDepth = 0 },
		"too deep":          func(c *Config) { c.MaxDepth = MaxPly + 1 },
		"no quiescence ply": func(c *Config) { c.QuiescenceDepth = 0 },
		"empty table":       func(c *Config) { c.TTSize = 0 },
		"negative noise":    func(c *Config) { c.EvalNoise = -1 },
	}
	for name, mutate := range mutations {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
		if _, err := NewEngine(cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: NewEngine accepted an invalid config", name)
		}
	}

	// a disabled component ignores its size
	cfg := DefaultConfig()
	cfg.UseTT = false
	cfg.TTSize = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("table size should not matter without a table: %v", err)
	}
}

func TestProfilesDoNotShareWeights(t *testing.T) {
	a, _ := Profile("mybot")
	b, _ := Profile("mybot")
	a.Weights.PST[Knight][0] = 999
	if b.Weights.PST[Knight][0] == 999 {
		t.Fatalf("profiles must hand out independent weight tables")
	}
}
