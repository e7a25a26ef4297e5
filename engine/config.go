package engine

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Config parameterises one engine. The bots differ only in their Config.
type Config struct {
	Name string

	MaxDepth        int
	UseQuiescence   bool
	QuiescenceDepth int

	UseTT       bool
	TTSize      int
	Replacement Replacement

	OrderMVVLVA bool
	UseKillers  bool

	// Contempt is how much the side that started the search dislikes a draw.
	Contempt int32

	// EvalNoise adds a uniform value in [-EvalNoise, EvalNoise] to every leaf
	// evaluation. Zero keeps the search deterministic.
	EvalNoise int32
	Seed      int64

	Weights Weights
	Time    TimePolicy

	Logger zerolog.Logger
}

// DefaultConfig enables every component.
func DefaultConfig() Config {
	return Config{
		Name:            "default",
		MaxDepth:        6,
		UseQuiescence:   true,
		QuiescenceDepth: 6,
		UseTT:           true,
		TTSize:          DefaultTTSize,
		Replacement:     AlwaysReplace,
		OrderMVVLVA:     true,
		UseKillers:      true,
		Weights:         DefaultWeights(),
		Time:            DefaultTimePolicy(),
		Logger:          zerolog.Nop(),
	}
}

var profiles = map[string]func() Config{
	"default": DefaultConfig,
	// material, tables, mobility and check penalty; the most complete evaluator
	"mybot": func() Config {
		c := DefaultConfig()
		c.Name = "mybot"
		c.MaxDepth = 5
		c.Weights.PieceValues = classicPieceValues
		c.Weights.CheckPenalty = 100
		return c
	},
	// capture-first ordering, one ply of captures, noisy leaves, draw avoidance
	"flow": func() Config {
		c := DefaultConfig()
		c.Name = "flow"
		c.MaxDepth = 4
		c.QuiescenceDepth = 1
		c.UseTT = false
		c.OrderMVVLVA = false
		c.UseKillers = false
		c.Contempt = 50
		c.EvalNoise = 10
		c.Weights = CentralWeights()
		return c
	},
	// transposition table without quiescence
	"caden32": func() Config {
		c := DefaultConfig()
		c.Name = "caden32"
		c.MaxDepth = 5
		c.UseQuiescence = false
		c.UseKillers = false
		c.Weights = MobilityWeights()
		return c
	},
	// plain material alpha-beta
	"minimax": func() Config {
		c := DefaultConfig()
		c.Name = "minimax"
		c.MaxDepth = 4
		c.UseQuiescence = false
		c.UseTT = false
		c.UseKillers = false
		c.Weights = MaterialWeights()
		return c
	},
}

// ProfileNames lists the known profiles in sorted order.
func ProfileNames() []string {
	names := lo.Keys(profiles)
	sort.Strings(names)
	return names
}

// Profile returns the named configuration.
func Profile(name string) (Config, error) {
	build, ok := profiles[name]
	if !ok {
		return Config{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownProfile, name, ProfileNames())
	}
	return build(), nil
}

// Validate reports the first setting the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 1 || c.MaxDepth > MaxPly:
		return fmt.Errorf("%w: max depth %d outside [1, %d]", ErrInvalidConfig, c.MaxDepth, MaxPly)
	case c.UseQuiescence && c.QuiescenceDepth < 1:
		return fmt.Errorf("%w: quiescence depth %d", ErrInvalidConfig, c.QuiescenceDepth)
	case c.UseTT && c.TTSize < 1:
		return fmt.Errorf("%w: table size %d", ErrInvalidConfig, c.TTSize)
	case c.EvalNoise < 0:
		return fmt.Errorf("%w: negative eval noise", ErrInvalidConfig)
	}
	return nil
}
