package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"chess-challenge/board"
	"chess-challenge/engine"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

var benchFens = []string{
	board.StartFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
}

type benchResult struct {
	fen string
	res engine.SearchResult
}

func main() {
	// --- Flags ---
	depthFlag := flag.Int("depth", 5, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run per position")
	fenFlag := flag.String("fen", "", "FEN to search (empty = built-in suite)")
	profileFlag := flag.String("profile", "default", "bot profile: "+strings.Join(engine.ProfileNames(), ", "))
	parallel := flag.Int("parallel", runtime.NumCPU(), "positions searched at the same time")
	debug := flag.Bool("debug", false, "log every completed depth")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	b := bench{
		depth:      *depthFlag,
		repeat:     *repeatFlag,
		fen:        *fenFlag,
		profile:    *profileFlag,
		parallel:   *parallel,
		cpuProfile: *cpuProfile,
		memProfile: *memProfile,
		log:        log,
	}
	if err := b.run(); err != nil {
		log.Error().Err(err).Msg("searchbench")
		os.Exit(1)
	}
}

type bench struct {
	depth, repeat, parallel int
	fen, profile            string
	cpuProfile, memProfile  string
	log                     zerolog.Logger
}

// run returns instead of exiting so the deferred profile writers always run.
func (b bench) run() error {
	if b.depth <= 0 {
		return fmt.Errorf("depth must be positive, got %d", b.depth)
	}
	cfg, err := engine.Profile(b.profile)
	if err != nil {
		return err
	}
	cfg.Logger = b.log

	// --- Optional CPU profiling setup ---
	if b.cpuProfile != "" {
		cpuFile, err := os.Create(b.cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			cpuFile.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fens := benchFens
	if b.fen != "" {
		fens = []string{b.fen}
	}
	fmt.Printf("searchbench: profile=%s depth=%d repeat=%d positions=%d\n", cfg.Name, b.depth, b.repeat, len(fens))

	// each position gets its own engine and board; nothing is shared
	results := make([][]benchResult, len(fens))
	g := errgroup.Group{}
	g.SetLimit(b.parallel)
	startAll := time.Now()
	for i, fen := range fens {
		i, fen := i, fen
		g.Go(func() error {
			e, err := engine.NewEngine(cfg)
			if err != nil {
				return err
			}
			for r := 0; r < b.repeat; r++ {
				pos, err := board.ParseFen(fen)
				if err != nil {
					return err
				}
				e.NewGame()
				res, err := e.Search(pos, b.depth, time.Time{})
				if err != nil {
					return fmt.Errorf("%s: %w", fen, err)
				}
				results[i] = append(results[i], benchResult{fen: fen, res: res})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	totalElapsed := time.Since(startAll)

	var totalNodes uint64
	for _, runs := range results {
		for i, r := range runs {
			totalNodes += r.res.Nodes
			fmt.Printf("%-70s run %d: bestmove %s %s depth=%d nodes=%d time=%v\n",
				r.fen, i+1, r.res.BestMove, engine.FormatScore(r.res.Score), r.res.Depth, r.res.Nodes, r.res.Elapsed)
		}
	}
	searchTime := lo.SumBy(lo.Flatten(results), func(r benchResult) time.Duration { return r.res.Elapsed })
	fmt.Printf("total nodes: %d  search time: %v  wall time: %v  nps: %.0f\n",
		totalNodes, searchTime, totalElapsed, float64(totalNodes)/searchTime.Seconds())

	// --- Optional heap profile at the end ---
	if b.memProfile != "" {
		f, err := os.Create(b.memProfile)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()

		runtime.GC() // get up-to-date heap info
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}
	return nil
}
