package engine

// Color identifies a side. White moves first.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceKind numbering matches dragontoothmg (Nothing, Pawn, ..., King) so the
// board adapter can convert with a plain cast.
type PieceKind uint8

const (
	NoPiece PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [7]byte{' ', 'p', 'n', 'b', 'r', 'q', 'k'}

// Piece is a piece kind together with its owner.
type Piece struct {
	Kind  PieceKind
	Color Color
}

// Square indexes the board little-endian rank-file style: a1 = 0, h1 = 7, a8 = 56.
type Square uint8

func (sq Square) File() int { return int(sq) % 8 }
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) String() string {
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// MoveFlag marks move properties known at generation time.
type MoveFlag uint8

const (
	FlagCapture MoveFlag = 1 << iota
	FlagCastle
	FlagPromotion
	FlagEnPassant
	FlagCheck
)

// Move is an immutable value; two moves are the same move when they compare equal.
// Raw is an encoding private to the Position implementation that produced the move.
type Move struct {
	From      Square
	To        Square
	Piece     PieceKind
	Captured  PieceKind
	Promotion PieceKind
	Flags     MoveFlag
	Raw       uint32
}

// NullMove is the zero move, used where no move is known.
var NullMove Move

func (m Move) IsNull() bool      { return m == NullMove }
func (m Move) IsCapture() bool   { return m.Flags&FlagCapture != 0 }
func (m Move) IsPromotion() bool { return m.Flags&FlagPromotion != 0 }
func (m Move) IsCastle() bool    { return m.Flags&FlagCastle != 0 }
func (m Move) GivesCheck() bool  { return m.Flags&FlagCheck != 0 }

// IsQuiet reports whether the move neither captures nor promotes.
func (m Move) IsQuiet() bool {
	return m.Flags&(FlagCapture|FlagPromotion) == 0
}

// String returns the move in UCI long algebraic notation, e.g. "e7e8q".
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPiece {
		s += string(pieceLetters[m.Promotion])
	}
	return s
}

// Position is the board the search borrows. Implementations are mutated in
// place by Apply/Undo and are not safe for concurrent use.
type Position interface {
	LegalMoves() []Move
	Apply(m Move)
	Undo(m Move)
	InCheck() bool
	IsCheckmate() bool
	IsDraw() bool
	Fingerprint() uint64
	PieceAt(sq Square) (Piece, bool)
	SideToMove() Color
}
