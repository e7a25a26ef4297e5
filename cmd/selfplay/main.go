package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"chess-challenge/board"
	"chess-challenge/engine"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type match struct {
	white, black string
	clockMillis  int
	incMillis    int
	maxPlies     int
	fen          string
	log          zerolog.Logger
}

type gameResult struct {
	round   int
	white   string
	black   string
	outcome chess.Outcome
	method  chess.Method
	plies   int
	pgn     string
}

// play runs one game between two bots. Each side keeps its own clock; a bot
// that runs out of time loses.
func (m match) play(round int) (gameResult, error) {
	res := gameResult{round: round, white: m.white, black: m.black}

	bots := make(map[engine.Color]*engine.Bot, 2)
	for color, name := range map[engine.Color]string{engine.White: m.white, engine.Black: m.black} {
		cfg, err := engine.Profile(name)
		if err != nil {
			return res, err
		}
		cfg.Logger = m.log.With().Int("round", round).Str("side", color.String()).Logger()
		bot, err := engine.NewBot(cfg)
		if err != nil {
			return res, err
		}
		bots[color] = bot
	}

	pos, err := board.ParseFen(m.fen)
	if err != nil {
		return res, err
	}
	opts := []func(*chess.Game){chess.UseNotation(chess.UCINotation{})}
	if m.fen != board.StartFEN {
		fenOpt, err := chess.FEN(m.fen)
		if err != nil {
			return res, err
		}
		opts = append(opts, fenOpt)
	}
	game := chess.NewGame(opts...)
	game.AddTagPair("Event", "selfplay")
	game.AddTagPair("Round", fmt.Sprint(round))
	game.AddTagPair("White", m.white)
	game.AddTagPair("Black", m.black)
	game.AddTagPair("Date", time.Now().Format("2006.01.02"))

	clocks := map[engine.Color]int{engine.White: m.clockMillis, engine.Black: m.clockMillis}

	for ply := 0; ply < m.maxPlies && game.Outcome() == chess.NoOutcome; ply++ {
		if pos.IsCheckmate() || pos.IsStalemate() {
			break
		}
		if pos.IsDraw() {
			claimDraw(game, m.log)
			break
		}

		side := pos.SideToMove()
		start := time.Now()
		sr, err := bots[side].Think(pos, clocks[side], m.incMillis)
		if err != nil {
			return res, fmt.Errorf("round %d ply %d: %w", round, ply, err)
		}
		if m.clockMillis > 0 {
			clocks[side] -= int(time.Since(start).Milliseconds())
			if clocks[side] <= 0 {
				if side == engine.White {
					game.Resign(chess.White)
				} else {
					game.Resign(chess.Black)
				}
				m.log.Info().Int("round", round).Str("side", side.String()).Msg("flag fell")
				break
			}
			clocks[side] += m.incMillis
		}

		pos.Apply(sr.BestMove)
		if err := game.MoveStr(sr.BestMove.String()); err != nil {
			return res, fmt.Errorf("round %d: %s rejected by the PGN recorder: %w", round, sr.BestMove, err)
		}
		m.log.Debug().
			Int("round", round).
			Int("ply", ply).
			Str("move", sr.BestMove.String()).
			Str("score", engine.FormatScore(sr.Score)).
			Int("depth", sr.Depth).
			Bool("fallback", sr.Fallback).
			Msg("move")
	}

	res.outcome = game.Outcome()
	res.method = game.Method()
	res.plies = len(game.Moves())
	res.pgn = game.String()
	return res, nil
}

// claimDraw records a draw that the board detected but the recorder does not
// apply on its own.
func claimDraw(game *chess.Game, log zerolog.Logger) {
	if game.Outcome() != chess.NoOutcome {
		return
	}
	for _, method := range []chess.Method{chess.ThreefoldRepetition, chess.FiftyMoveRule} {
		if err := game.Draw(method); err == nil {
			return
		}
	}
	log.Warn().Str("fen", game.Position().String()).Msg("draw not recognised by the recorder")
}

func main() {
	names := strings.Join(engine.ProfileNames(), ", ")
	white := flag.String("white", "mybot", "white profile: "+names)
	black := flag.String("black", "flow", "black profile: "+names)
	games := flag.Int("games", 2, "number of games; colours alternate")
	clock := flag.Int("clock", 10000, "starting clock per side in ms (0 = fixed depth)")
	inc := flag.Int("inc", 100, "increment per move in ms")
	maxPlies := flag.Int("maxplies", 300, "adjudicate as unfinished after this many plies")
	fen := flag.String("fen", board.StartFEN, "starting position")
	parallel := flag.Int("parallel", runtime.NumCPU()/2+1, "games played at the same time")
	out := flag.String("out", "", "write PGN to this file instead of stdout")
	debug := flag.Bool("debug", false, "log every move and depth")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	for _, name := range []string{*white, *black} {
		if _, err := engine.Profile(name); err != nil {
			log.Fatal().Err(err).Msg("profile")
		}
	}
	if *games <= 0 {
		log.Fatal().Int("games", *games).Msg("games must be positive")
	}

	results := make([]gameResult, *games)
	g := errgroup.Group{}
	g.SetLimit(*parallel)
	for i := range results {
		i := i
		m := match{
			white:       *white,
			black:       *black,
			clockMillis: *clock,
			incMillis:   *inc,
			maxPlies:    *maxPlies,
			fen:         *fen,
			log:         log,
		}
		if i%2 == 1 {
			m.white, m.black = m.black, m.white
		}
		g.Go(func() error {
			r, err := m.play(i + 1)
			if err != nil {
				return err
			}
			results[i] = r
			log.Info().
				Int("round", r.round).
				Str("white", r.white).
				Str("black", r.black).
				Str("result", r.outcome.String()).
				Str("method", r.method.String()).
				Int("plies", r.plies).
				Msg("game over")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("selfplay failed")
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Msg("creating pgn file")
		}
		defer f.Close()
		w = f
	}
	for _, r := range results {
		fmt.Fprintln(w, r.pgn)
	}

	points := func(name string) float64 {
		return lo.SumBy(results, func(r gameResult) float64 {
			switch {
			case r.outcome == chess.Draw:
				return 0.5
			case r.outcome == chess.WhiteWon && r.white == name, r.outcome == chess.BlackWon && r.black == name:
				return 1
			}
			return 0
		})
	}
	log.Info().
		Float64(*white, points(*white)).
		Float64(*black, points(*black)).
		Int("unfinished", lo.CountBy(results, func(r gameResult) bool { return r.outcome == chess.NoOutcome })).
		Msg("match")
}
