package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"chess-challenge/board"
	"chess-challenge/engine"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// approximate bytes per table entry, used to turn the Hash option into slots
const ttEntryBytes = 32

func main() {
	profile := flag.String("profile", "default", "bot profile: "+strings.Join(engine.ProfileNames(), ", "))
	debug := flag.Bool("debug", false, "log search details to stderr")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()

	u, err := newUCI(os.Stdout, logger, *profile)
	if err != nil {
		logger.Fatal().Err(err).Msg("startup")
	}
	u.loop(os.Stdin)
}

type goParams struct {
	wtime, btime, winc, binc int
	depth                    int
	movetime                 int
	infinite                 bool
}

type uci struct {
	out io.Writer
	log zerolog.Logger

	cfg   engine.Config
	bot   *engine.Bot
	board *board.Board

	mu   sync.Mutex    // guards out
	done chan struct{} // closed when the running search ends; nil when idle
	halt chan struct{} // closed by stop; an infinite search holds its bestmove until then
}

func newUCI(out io.Writer, log zerolog.Logger, profile string) (*uci, error) {
	cfg, err := engine.Profile(profile)
	if err != nil {
		return nil, err
	}
	cfg.Logger = log
	u := &uci{out: out, log: log, cfg: cfg, board: board.NewBoard()}
	if err := u.rebuild(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *uci) rebuild() error {
	bot, err := engine.NewBot(u.cfg)
	if err != nil {
		return err
	}
	bot.Engine().OnInfo = u.info
	u.bot = bot
	return nil
}

func (u *uci) println(a ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintln(u.out, a...)
}

func (u *uci) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if !u.handle(scanner.Text()) {
			break
		}
	}
	u.stop()
}

// wait blocks until the running search, if any, has printed its bestmove.
func (u *uci) wait() {
	if u.halt != nil {
		u.stop()
		return
	}
	if u.done != nil {
		<-u.done
		u.done = nil
	}
}

// stop keeps asking the search to end until it does; a stop issued before
// the search armed its timer would otherwise be lost.
func (u *uci) stop() {
	if u.halt != nil {
		close(u.halt)
		u.halt = nil
	}
	if u.done == nil {
		return
	}
	for {
		u.bot.Stop()
		select {
		case <-u.done:
			u.done = nil
			return
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// handle runs one command and reports whether the loop should continue.
func (u *uci) handle(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 { // ignore blank lines
		return true
	}
	switch strings.ToLower(tokens[0]) {
	case "uci":
		u.println("id name ChessChallenge", u.cfg.Name)
		u.println("id author chess-challenge")
		u.println("option name Profile type combo default", u.cfg.Name,
			strings.Join(lo.Map(engine.ProfileNames(), func(n string, _ int) string { return "var " + n }), " "))
		u.println("option name Depth type spin default", u.cfg.MaxDepth, "min 1 max", engine.MaxPly)
		u.println("option name Hash type spin default", u.cfg.TTSize*ttEntryBytes>>20, "min 1 max 1024")
		u.println("option name Contempt type spin default", u.cfg.Contempt, "min -500 max 500")
		u.println("uciok")
	case "isready":
		u.println("readyok")
	case "ucinewgame":
		u.wait()
		u.board = board.NewBoard()
		u.bot.NewGame()
	case "position":
		u.wait()
		if err := u.position(tokens[1:]); err != nil {
			u.println("info string", err)
			u.log.Warn().Err(err).Str("line", line).Msg("position")
		}
	case "go":
		u.wait()
		params, err := parseGo(tokens[1:])
		if err != nil {
			u.println("info string", err)
		}
		u.startSearch(params)
	case "stop":
		u.stop()
	case "setoption":
		u.wait()
		if err := u.setOption(tokens[1:]); err != nil {
			u.println("info string", err)
		}
	case "eval":
		u.wait()
		eval := u.bot.Engine().Evaluator()
		u.println("info string eval", eval.Evaluate(u.board, u.board.SideToMove()),
			"material", eval.Material(u.board, u.board.SideToMove()))
	case "moveordering":
		u.wait()
		ordered := u.bot.Engine().Orderer().Order(u.board.LegalMoves(), u.board)
		for i, m := range ordered {
			u.println(fmt.Sprintf("info string #%d %s", i+1, m))
		}
	case "d":
		u.wait()
		u.println("info string fen", u.board.ToFen())
	case "perft":
		u.wait()
		depth := 1
		if len(tokens) > 1 {
			depth, _ = strconv.Atoi(tokens[1])
		}
		start := time.Now()
		nodes := u.board.Perft(depth)
		u.println("info string perft", depth, "nodes", nodes, "time", time.Since(start).Milliseconds())
	case "quit":
		return false
	default:
		u.println("info string Unknown command:", line)
	}
	return true
}

func (u *uci) position(tokens []string) error {
	if len(tokens) == 0 {
		return fmt.Errorf("malformed position command")
	}
	var (
		b    *board.Board
		err  error
		rest []string
	)
	switch strings.ToLower(tokens[0]) {
	case "startpos":
		b, rest = board.NewBoard(), tokens[1:]
	case "fen":
		idx := lo.IndexOf(tokens, "moves")
		if idx < 0 {
			idx = len(tokens)
		}
		if b, err = board.ParseFen(strings.Join(tokens[1:idx], " ")); err != nil {
			return err
		}
		rest = tokens[idx:]
	default:
		return fmt.Errorf("invalid position subcommand %q", tokens[0])
	}

	if len(rest) > 0 && strings.ToLower(rest[0]) == "moves" {
		for _, mv := range rest[1:] {
			if _, err := b.ApplyUCI(strings.ToLower(mv)); err != nil {
				return err
			}
		}
	}
	u.board = b
	return nil
}

func parseGo(tokens []string) (goParams, error) {
	var p goParams
	var err error
	for i := 0; i < len(tokens); i++ {
		var target *int
		switch strings.ToLower(tokens[i]) {
		case "infinite":
			p.infinite = true
			continue
		case "wtime":
			target = &p.wtime
		case "btime":
			target = &p.btime
		case "winc":
			target = &p.winc
		case "binc":
			target = &p.binc
		case "depth":
			target = &p.depth
		case "movetime":
			target = &p.movetime
		default:
			// movestogo, nodes and friends are accepted and ignored
			continue
		}
		if i+1 >= len(tokens) {
			return p, fmt.Errorf("malformed go command option %s", tokens[i])
		}
		i++
		n, convErr := strconv.Atoi(tokens[i])
		if convErr != nil {
			err = fmt.Errorf("could not convert %s: %w", tokens[i-1], convErr)
			continue
		}
		*target = n
	}
	return p, err
}

func (u *uci) startSearch(p goParams) {
	pos := u.board
	bot := u.bot

	done := make(chan struct{})
	u.done = done
	var halt chan struct{}
	if p.infinite {
		halt = make(chan struct{})
		u.halt = halt
	}
	go func() {
		defer close(done)

		var (
			res engine.SearchResult
			err error
		)
		switch {
		case p.infinite:
			res, err = bot.Engine().Search(pos, engine.MaxPly, time.Time{})
		case p.depth > 0:
			res, err = bot.Engine().Search(pos, p.depth, time.Time{})
		case p.movetime > 0:
			res, err = bot.Engine().Search(pos, engine.MaxPly, time.Now().Add(time.Duration(p.movetime)*time.Millisecond))
		default:
			remaining, inc := p.wtime, p.winc
			if pos.SideToMove() == engine.Black {
				remaining, inc = p.btime, p.binc
			}
			res, err = bot.Think(pos, remaining, inc)
		}
		if halt != nil {
			<-halt
		}
		if err != nil {
			u.log.Error().Err(err).Str("fen", pos.ToFen()).Msg("search failed")
			u.println("bestmove 0000")
			return
		}
		u.log.Info().
			Str("move", res.BestMove.String()).
			Int("depth", res.Depth).
			Uint64("nodes", res.Nodes).
			Dur("elapsed", res.Elapsed).
			Bool("fallback", res.Fallback).
			Msg("bestmove")
		u.println("bestmove", res.BestMove)
	}()
}

func (u *uci) info(info engine.SearchInfo) {
	ms := info.Elapsed.Milliseconds()
	nps := uint64(0)
	if ms > 0 {
		nps = info.Nodes * 1000 / uint64(ms)
	}
	u.println(fmt.Sprintf("info depth %d score %s nodes %d nps %d time %d hashfull %d pv %s",
		info.Depth, engine.FormatScore(info.Score), info.Nodes, nps, ms, info.HashFull, engine.PVString(info.PV)))
}

func (u *uci) setOption(tokens []string) error {
	// setoption name <id> value <x>
	nameIdx, valueIdx := lo.IndexOf(tokens, "name"), lo.IndexOf(tokens, "value")
	if nameIdx < 0 || valueIdx < nameIdx+2 || valueIdx+1 >= len(tokens) {
		return fmt.Errorf("malformed setoption command")
	}
	name := strings.ToLower(strings.Join(tokens[nameIdx+1:valueIdx], " "))
	value := tokens[valueIdx+1]

	cfg := u.cfg
	switch name {
	case "profile":
		p, err := engine.Profile(strings.ToLower(value))
		if err != nil {
			return err
		}
		p.Logger = cfg.Logger
		cfg = p
	case "depth", "hash", "contempt":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("option %s: %w", name, err)
		}
		switch name {
		case "depth":
			cfg.MaxDepth = n
		case "hash":
			cfg.TTSize = n << 20 / ttEntryBytes
		case "contempt":
			cfg.Contempt = int32(n)
		}
	default:
		return fmt.Errorf("unknown option %q", name)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	u.cfg = cfg
	return u.rebuild()
}
