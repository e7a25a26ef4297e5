package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
// Mate scores are MateScore minus the ply at which the mate is found, so a
// mate closer to the root scores higher for the winner and lower for the
// loser. Every score stays far inside int32, so negation never wraps.
const (
	MaxPly = 64

	Infinity      int32 = 32500
	MateScore     int32 = 32000
	MateThreshold int32 = MateScore - MaxPly
	EvalLimit     int32 = MateThreshold - 1
	DrawScore     int32 = 0

	// time is polled every checkInterval+1 nodes
	checkInterval = 511
)

// SearchInfo is reported after every completed depth.
type SearchInfo struct {
	Depth    int
	Score    int32
	Nodes    uint64
	Elapsed  time.Duration
	PV       []Move
	HashFull int
}

// SearchResult is the outcome of one Search call. BestMove and Score always
// come from the deepest depth that finished.
type SearchResult struct {
	BestMove Move
	Score    int32
	Nodes    uint64
	Depth    int
	PV       []Move
	Elapsed  time.Duration

	// Fallback is set when not even depth 1 finished and BestMove is simply
	// the first ordered legal move.
	Fallback bool
}

// Engine is a single-threaded negamax searcher. One Engine owns its
// transposition table and killer moves across the Search calls of a game.
type Engine struct {
	cfg       Config
	evaluator *Evaluator
	orderer   *Orderer
	tt        *TransTable
	killers   KillerStruct
	timer     *TimeHandler
	rng       *rand.Rand
	log       zerolog.Logger

	nodes    uint64
	stats    CutStatistics
	rootSide Color

	// side to move at the root of the searches that filled the table
	ttRoot    Color
	ttRootSet bool

	// OnInfo, when set, is called after every completed depth.
	OnInfo func(SearchInfo)
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:       cfg,
		evaluator: NewEvaluator(cfg.Weights),
		orderer:   NewOrderer(cfg.OrderMVVLVA),
		timer:     NewTimeHandler(cfg.Time),
		log:       cfg.Logger.With().Str("profile", cfg.Name).Logger(),
	}
	if cfg.UseTT {
		e.tt = NewTransTable(cfg.TTSize, cfg.Replacement)
	}
	if cfg.EvalNoise > 0 {
		e.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return e, nil
}

func (e *Engine) Config() Config          { return e.cfg }
func (e *Engine) Evaluator() *Evaluator   { return e.evaluator }
func (e *Engine) Orderer() *Orderer       { return e.orderer }
func (e *Engine) Timer() *TimeHandler     { return e.timer }
func (e *Engine) Stats() CutStatistics    { return e.stats }
func (e *Engine) Nodes() uint64           { return e.nodes }
func (e *Engine) Table() *TransTable      { return e.tt }
func (e *Engine) Logger() *zerolog.Logger { return &e.log }

// Stop asks a running Search to return at its next time check.
func (e *Engine) Stop() {
	e.timer.Stop()
}

// NewGame forgets everything learned during the previous game.
func (e *Engine) NewGame() {
	if e.tt != nil {
		e.tt.Clear()
	}
	e.killers.ClearKillers()
	e.ttRootSet = false
	if e.rng != nil {
		e.rng.Seed(e.cfg.Seed)
	}
}

// Search runs iterative deepening from depth 1 to maxDepth or until the
// deadline passes (the zero deadline means no time limit). The position is
// restored before Search returns.
func (e *Engine) Search(pos Position, maxDepth int, deadline time.Time) (SearchResult, error) {
	if maxDepth < 1 {
		return SearchResult{}, fmt.Errorf("%w: max depth %d", ErrInvalidConfig, maxDepth)
	}
	maxDepth = Min(maxDepth, MaxPly)

	legal := pos.LegalMoves()
	if len(legal) == 0 {
		return SearchResult{}, ErrNoLegalMoves
	}

	start := time.Now()
	e.timer.StartTime(deadline)
	e.nodes = 0
	e.stats = CutStatistics{}
	e.rootSide = pos.SideToMove()

	var hashMove Move
	if e.tt != nil {
		// draw scores carry the root side's contempt, so entries from the
		// other side's searches hold the wrong sign
		if e.cfg.Contempt != 0 && e.ttRootSet && e.ttRoot != e.rootSide {
			e.tt.Clear()
			e.log.Debug().Str("root", e.rootSide.String()).Msg("table-cleared")
		}
		e.ttRoot, e.ttRootSet = e.rootSide, true
		e.tt.NewSearch()
		if entry, ok := e.tt.Lookup(pos.Fingerprint()); ok {
			hashMove = entry.Move
		}
	}
	rootMoves := e.orderRoot(legal, hashMove)

	var result SearchResult
	completed := false
	for depth := 1; depth <= maxDepth; depth++ {
		score, pv, err := e.rootSearch(pos, rootMoves, depth)
		if errors.Is(err, ErrDeadlineExceeded) {
			// the unfinished depth is dropped; result still holds depth-1
			e.log.Debug().Int("depth", depth).Uint64("nodes", e.nodes).Msg("depth-abandoned")
			break
		}
		if err != nil {
			return SearchResult{}, err
		}

		completed = true
		result.BestMove = pv[0]
		result.Score = score
		result.Depth = depth
		result.PV = pv
		moveToFront(rootMoves, pv[0])

		e.report(SearchInfo{
			Depth:    depth,
			Score:    score,
			Nodes:    e.nodes,
			Elapsed:  time.Since(start),
			PV:       pv,
			HashFull: e.hashFull(),
		})

		if Abs(score) >= MateThreshold {
			break
		}
	}

	if !completed {
		result = SearchResult{
			BestMove: rootMoves[0],
			Score:    e.evaluator.Evaluate(pos, e.rootSide),
			PV:       []Move{rootMoves[0]},
			Fallback: true,
		}
		e.log.Error().
			Str("move", rootMoves[0].String()).
			Uint64("nodes", e.nodes).
			Msg("no depth completed before the deadline, playing first ordered move")
	}

	result.Nodes = e.nodes
	result.Elapsed = time.Since(start)

	e.log.Debug().
		Object("cuts", e.stats).
		Str("bestmove", result.BestMove.String()).
		Int("depth", result.Depth).
		Dur("elapsed", result.Elapsed).
		Msg("search-done")

	return result, nil
}

func (e *Engine) orderRoot(moves []Move, hashMove Move) []Move {
	list := e.orderer.scoreMoves(moves, hashMove, [2]Move{})
	ordered := make([]Move, len(list.moves))
	for i := range list.moves {
		orderNextMove(i, &list)
		ordered[i] = list.moves[i].move
	}
	return ordered
}

// rootSearch searches every root move at depth with a full window. Ties keep
// the first move found.
func (e *Engine) rootSearch(pos Position, moves []Move, depth int) (int32, []Move, error) {
	alpha, beta := -Infinity, Infinity
	bestScore := -Infinity
	var bestMove Move
	var pvLine, childPV PVLine

	for _, m := range moves {
		if e.timer.TimeStatus() {
			return 0, nil, ErrDeadlineExceeded
		}
		pos.Apply(m)
		score, err := e.negamax(pos, depth-1, -beta, -alpha, 1, &childPV)
		pos.Undo(m)
		if err != nil {
			return 0, nil, err
		}
		score = -score

		if score > bestScore {
			bestScore = score
			bestMove = m
			pvLine.Update(m, childPV)
		}
		if score > alpha {
			alpha = score
		}
	}

	if e.tt != nil {
		e.tt.Store(pos.Fingerprint(), depth, scoreToTT(bestScore, 0), ExactBound, bestMove)
	}
	return bestScore, pvLine.Clone().Moves, nil
}

func (e *Engine) negamax(pos Position, depth int, alpha, beta int32, ply int, pvLine *PVLine) (int32, error) {
	pvLine.Clear()
	e.nodes++
	if e.nodes&checkInterval == 0 && e.timer.TimeStatus() {
		return 0, ErrDeadlineExceeded
	}

	if pos.IsCheckmate() {
		return -MateScore + int32(ply), nil
	}
	if pos.IsDraw() {
		return e.drawScore(ply), nil
	}
	if ply >= MaxPly {
		return e.evaluate(pos), nil
	}

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	alphaOrig := alpha
	posHash := pos.Fingerprint()
	var hashMove Move
	if e.tt != nil {
		if entry, ok := e.tt.Lookup(posHash); ok {
			hashMove = entry.Move
			if int(entry.Depth) >= depth {
				ttScore := scoreFromTT(entry.Score, ply)
				switch entry.Flag {
				case ExactBound:
					e.stats.TTCutoffs++
					return ttScore, nil
				case LowerBound:
					alpha = Max(alpha, ttScore)
				case UpperBound:
					beta = Min(beta, ttScore)
				}
				if alpha >= beta {
					e.stats.TTCutoffs++
					return ttScore, nil
				}
			}
		}
	}

	// Quiescence at leaf nodes
	if depth <= 0 {
		if e.cfg.UseQuiescence {
			return e.quiescence(pos, alpha, beta, ply, e.cfg.QuiescenceDepth)
		}
		return e.evaluate(pos), nil
	}

	var killers [2]Move
	if e.cfg.UseKillers {
		killers = e.killers.At(ply)
	}
	list := e.orderer.scoreMoves(pos.LegalMoves(), hashMove, killers)

	bestScore := -Infinity
	var bestMove Move
	var childPV PVLine

	for index := range list.moves {
		orderNextMove(index, &list)
		move := list.moves[index].move

		pos.Apply(move)
		score, err := e.negamax(pos, depth-1, -beta, -alpha, ply+1, &childPV)
		pos.Undo(move)
		if err != nil {
			return 0, err
		}
		score = -score

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			pvLine.Update(move, childPV)
		}
		// Beta cutoff
		if alpha >= beta {
			e.stats.BetaCutoffs++
			if e.cfg.UseKillers && move.IsQuiet() {
				e.killers.InsertKiller(move, ply)
			}
			break
		}
	}

	if e.tt != nil {
		flag := ExactBound
		if bestScore <= alphaOrig {
			flag = UpperBound
		} else if bestScore >= beta {
			flag = LowerBound
		}
		e.tt.Store(posHash, depth, scoreToTT(bestScore, ply), flag, bestMove)
	}

	return bestScore, nil
}

// quiescence resolves captures below the horizon. The static evaluation is a
// lower bound (stand pat) because the side to move may decline every capture.
func (e *Engine) quiescence(pos Position, alpha, beta int32, ply int, depth int) (int32, error) {
	e.nodes++
	e.stats.QNodes++
	if e.nodes&checkInterval == 0 && e.timer.TimeStatus() {
		return 0, ErrDeadlineExceeded
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.InCheck() {
			return -MateScore + int32(ply), nil
		}
		return e.drawScore(ply), nil
	}

	standPat := e.evaluate(pos)
	if standPat >= beta {
		e.stats.QStandPatCutoffs++
		return standPat, nil
	}
	if depth <= 0 || ply >= MaxPly {
		return standPat, nil
	}
	alpha = Max(alpha, standPat)

	captures := lo.Filter(moves, func(m Move, _ int) bool { return m.IsCapture() })
	list := e.orderer.scoreCaptures(captures)
	bestScore := standPat

	for index := range list.moves {
		orderNextMove(index, &list)
		move := list.moves[index].move

		pos.Apply(move)
		score, err := e.quiescence(pos, -beta, -alpha, ply+1, depth-1)
		pos.Undo(move)
		if err != nil {
			return 0, err
		}
		score = -score

		if score > bestScore {
			bestScore = score
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			e.stats.QBetaCutoffs++
			break
		}
	}
	return bestScore, nil
}

func (e *Engine) evaluate(pos Position) int32 {
	score := e.evaluator.Evaluate(pos, pos.SideToMove())
	if e.rng != nil {
		score += e.rng.Int31n(2*e.cfg.EvalNoise+1) - e.cfg.EvalNoise
	}
	return score
}

// drawScore is negative for the side that started the search when contempt is set.
func (e *Engine) drawScore(ply int) int32 {
	if ply%2 == 0 {
		return DrawScore - e.cfg.Contempt
	}
	return DrawScore + e.cfg.Contempt
}

func (e *Engine) hashFull() int {
	if e.tt == nil {
		return 0
	}
	return e.tt.HashFull()
}

func (e *Engine) report(info SearchInfo) {
	e.log.Debug().
		Int("depth", info.Depth).
		Str("score", FormatScore(info.Score)).
		Uint64("nodes", info.Nodes).
		Dur("elapsed", info.Elapsed).
		Str("pv", PVString(info.PV)).
		Msg("depth-complete")
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
}

// Mate scores are stored relative to the node, not the root, so that an
// entry stays valid when the same position is reached at another ply.
func scoreToTT(score int32, ply int) int32 {
	if score >= MateThreshold {
		return score + int32(ply)
	}
	if score <= -MateThreshold {
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int) int32 {
	if score >= MateThreshold {
		return score - int32(ply)
	}
	if score <= -MateThreshold {
		return score + int32(ply)
	}
	return score
}
