// Package board implements engine.Position on top of the dragontoothmg move
// generator. It adds what the generator leaves to its callers: a LIFO undo
// stack, repetition and fifty-move tracking, insufficient-material draws and
// conversion between generator moves and engine moves.
package board

import (
	"errors"
	"fmt"
	"math/bits"

	"chess-challenge/engine"

	"github.com/dylhunn/dragontoothmg"
)

var ErrIllegalMove = errors.New("board: illegal move")

type undoEntry struct {
	move    engine.Move
	unapply func()
}

// Board is a mutable chess position. It is not safe for concurrent use.
type Board struct {
	b      dragontoothmg.Board
	undo   []undoEntry
	states stateStack
}

var _ engine.Position = (*Board)(nil)

func newBoard(b dragontoothmg.Board) *Board {
	board := &Board{b: b}
	board.states.push(b.Hash(), int(b.Halfmoveclock))
	return board
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	board, err := ParseFen(StartFEN)
	if err != nil {
		panic(err)
	}
	return board
}

// Clone returns an independent copy of the current position. The copy keeps
// the repetition history but cannot undo moves applied before the clone.
func (b *Board) Clone() *Board {
	c := &Board{b: b.b}
	c.states = make(stateStack, len(b.states))
	for i, s := range b.states {
		c.states[i] = State{Hash: s.Hash, Rule50: s.Rule50}
	}
	return c
}

// LegalMoves returns the legal moves in generation order. The slice is shared
// with the board until the next Apply or Undo and must not be modified.
func (b *Board) LegalMoves() []engine.Move {
	st := b.states.top()
	if !st.generated {
		st.moves = b.generate()
		st.generated = true
	}
	return st.moves
}

func (b *Board) generate() []engine.Move {
	raw := b.b.GenerateLegalMoves()
	moves := make([]engine.Move, len(raw))
	for i, dm := range raw {
		moves[i] = b.convert(dm)

		unapply := b.b.Apply(dm)
		if b.b.OurKingInCheck() {
			moves[i].Flags |= engine.FlagCheck
		}
		unapply()
	}
	return moves
}

func (b *Board) convert(dm dragontoothmg.Move) engine.Move {
	us, them := &b.b.White, &b.b.Black
	if !b.b.Wtomove {
		us, them = them, us
	}
	from := engine.Square(dm.From())
	to := engine.Square(dm.To())

	m := engine.Move{
		From:      from,
		To:        to,
		Piece:     kindAt(us, from),
		Captured:  kindAt(them, to),
		Promotion: engine.PieceKind(dm.Promote()),
		Raw:       uint32(dm),
	}
	if m.Captured != engine.NoPiece {
		m.Flags |= engine.FlagCapture
	}
	// a pawn moving diagonally onto an empty square takes en passant
	if m.Piece == engine.Pawn && from.File() != to.File() && m.Captured == engine.NoPiece {
		m.Captured = engine.Pawn
		m.Flags |= engine.FlagCapture | engine.FlagEnPassant
	}
	if m.Piece == engine.King && engine.Abs(from.File()-to.File()) == 2 {
		m.Flags |= engine.FlagCastle
	}
	if m.Promotion != engine.NoPiece {
		m.Flags |= engine.FlagPromotion
	}
	return m
}

func kindAt(bb *dragontoothmg.Bitboards, sq engine.Square) engine.PieceKind {
	mask := uint64(1) << sq
	if bb.All&mask == 0 {
		return engine.NoPiece
	}
	switch {
	case bb.Pawns&mask != 0:
		return engine.Pawn
	case bb.Knights&mask != 0:
		return engine.Knight
	case bb.Bishops&mask != 0:
		return engine.Bishop
	case bb.Rooks&mask != 0:
		return engine.Rook
	case bb.Queens&mask != 0:
		return engine.Queen
	case bb.Kings&mask != 0:
		return engine.King
	}
	return engine.NoPiece
}

// Apply plays m, which must come from LegalMoves of the current position.
func (b *Board) Apply(m engine.Move) {
	dm := dragontoothmg.Move(m.Raw)
	unapply := b.b.Apply(dm)
	b.undo = append(b.undo, undoEntry{move: m, unapply: unapply})
	b.states.push(b.b.Hash(), int(b.b.Halfmoveclock))
}

// Undo takes back m. Undoing anything but the most recently applied move
// is a programming error and panics.
func (b *Board) Undo(m engine.Move) {
	if len(b.undo) == 0 {
		panic(fmt.Sprintf("board: undo %s with no move applied", m))
	}
	last := b.undo[len(b.undo)-1]
	if last.move != m {
		panic(fmt.Sprintf("board: undo %s but the last applied move is %s", m, last.move))
	}
	last.unapply()
	b.undo = b.undo[:len(b.undo)-1]
	b.states.pop()
}

// ApplyUCI plays a move given in UCI notation, e.g. "e2e4" or "e7e8q".
func (b *Board) ApplyUCI(uci string) (engine.Move, error) {
	m, ok := b.FindMove(uci)
	if !ok {
		return engine.NullMove, fmt.Errorf("%w: %q in %s", ErrIllegalMove, uci, b.ToFen())
	}
	b.Apply(m)
	return m, nil
}

// FindMove looks uci up among the legal moves.
func (b *Board) FindMove(uci string) (engine.Move, bool) {
	for _, m := range b.LegalMoves() {
		if m.String() == uci {
			return m, true
		}
	}
	return engine.NullMove, false
}

// Ply returns the number of moves applied since the board was created.
func (b *Board) Ply() int {
	return len(b.undo)
}

func (b *Board) InCheck() bool {
	return b.b.OurKingInCheck()
}

func (b *Board) IsCheckmate() bool {
	return len(b.LegalMoves()) == 0 && b.InCheck()
}

func (b *Board) IsStalemate() bool {
	return len(b.LegalMoves()) == 0 && !b.InCheck()
}

// IsDraw reports stalemate, the fifty-move rule, threefold repetition and
// insufficient material. A checkmate delivered on the hundredth half move
// still counts as checkmate.
func (b *Board) IsDraw() bool {
	if len(b.LegalMoves()) == 0 {
		return !b.InCheck()
	}
	if b.states.top().Rule50 >= fiftyMoveLimit {
		return true
	}
	if b.states.repetitions() >= 2 {
		return true
	}
	return b.InsufficientMaterial()
}

// InsufficientMaterial reports positions where neither side can mate: bare
// kings, or a single minor piece against a bare king.
func (b *Board) InsufficientMaterial() bool {
	w, bl := &b.b.White, &b.b.Black
	if w.Pawns|bl.Pawns|w.Rooks|bl.Rooks|w.Queens|bl.Queens != 0 {
		return false
	}
	minors := bits.OnesCount64(w.Knights | w.Bishops | bl.Knights | bl.Bishops)
	return minors <= 1
}

func (b *Board) Fingerprint() uint64 {
	return b.b.Hash()
}

func (b *Board) PieceAt(sq engine.Square) (engine.Piece, bool) {
	if k := kindAt(&b.b.White, sq); k != engine.NoPiece {
		return engine.Piece{Kind: k, Color: engine.White}, true
	}
	if k := kindAt(&b.b.Black, sq); k != engine.NoPiece {
		return engine.Piece{Kind: k, Color: engine.Black}, true
	}
	return engine.Piece{}, false
}

func (b *Board) SideToMove() engine.Color {
	if b.b.Wtomove {
		return engine.White
	}
	return engine.Black
}

// HalfmoveClock returns the number of half moves since the last capture or
// pawn move.
func (b *Board) HalfmoveClock() int {
	return b.states.top().Rule50
}

func (b *Board) ToFen() string {
	return b.b.ToFen()
}

func (b *Board) String() string {
	return b.ToFen()
}
