package engine

// Bot couples one Engine with its time policy. A Bot plays one game at a
// time; call NewGame between games.
type Bot struct {
	engine *Engine
}

func NewBot(cfg Config) (*Bot, error) {
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return &Bot{engine: e}, nil
}

// NewBotFromProfile builds a bot from a named profile.
func NewBotFromProfile(name string) (*Bot, error) {
	cfg, err := Profile(name)
	if err != nil {
		return nil, err
	}
	return NewBot(cfg)
}

func (b *Bot) Engine() *Engine { return b.engine }

func (b *Bot) Name() string { return b.engine.cfg.Name }

// Think picks a move for the side to move. remainingMillis <= 0 means no
// clock: the search runs to the configured depth. Low on time, the bot gives
// up one ply.
func (b *Bot) Think(pos Position, remainingMillis, incrementMillis int) (SearchResult, error) {
	cfg := b.engine.cfg
	depth := cfg.MaxDepth
	if remainingMillis > 0 && remainingMillis < cfg.Time.LowTimeMillis && depth > 1 {
		depth--
	}
	deadline := b.engine.timer.Budget(remainingMillis, incrementMillis)

	b.engine.log.Debug().
		Int("remaining", remainingMillis).
		Int("increment", incrementMillis).
		Int("depth", depth).
		Time("deadline", deadline).
		Msg("think")

	return b.engine.Search(pos, depth, deadline)
}

// NewGame clears state carried between moves of a game.
func (b *Bot) NewGame() {
	b.engine.NewGame()
}

// Stop ends a running Think early; the best completed depth is returned.
func (b *Bot) Stop() {
	b.engine.Stop()
}
