package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dylhunn/dragontoothmg"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidFEN = errors.New("board: invalid FEN")

// ParseFen validates fen and builds a board from it. The move counters may be
// omitted, as many GUIs do.
func ParseFen(fen string) (board *Board, err error) {
	fields := strings.Fields(fen)
	if len(fields) == 4 {
		fields = append(fields, "0", "1")
	}
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: want 6 fields, got %d", ErrInvalidFEN, len(fields))
	}
	if err := checkPlacement(fields[0]); err != nil {
		return nil, err
	}
	if fields[1] != "w" && fields[1] != "b" {
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}
	if !validCastling(fields[2]) {
		return nil, fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, fields[2])
	}
	if !validEnPassant(fields[3], fields[1]) {
		return nil, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, fields[3])
	}
	for _, counter := range fields[4:] {
		if n, convErr := strconv.Atoi(counter); convErr != nil || n < 0 {
			return nil, fmt.Errorf("%w: move counter %q", ErrInvalidFEN, counter)
		}
	}

	// the generator panics on shapes the checks above do not catch
	defer func() {
		if r := recover(); r != nil {
			board, err = nil, fmt.Errorf("%w: %v", ErrInvalidFEN, r)
		}
	}()
	return newBoard(dragontoothmg.ParseFen(strings.Join(fields, " "))), nil
}

func checkPlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	kings := map[rune]int{}
	for i, rank := range ranks {
		files := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				files += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				files++
				if c == 'k' || c == 'K' {
					kings[c]++
				}
			default:
				return fmt.Errorf("%w: unexpected %q in rank %d", ErrInvalidFEN, c, 8-i)
			}
		}
		if files != 8 {
			return fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-i, files)
		}
	}
	if kings['K'] != 1 || kings['k'] != 1 {
		return fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	return nil
}

func validCastling(s string) bool {
	if s == "-" {
		return true
	}
	if s == "" || len(s) > 4 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("KQkq", c) {
			return false
		}
	}
	return true
}

// The target square sits behind the pawn that just moved two squares, so its
// rank is fixed by the side to move.
func validEnPassant(s, side string) bool {
	if s == "-" {
		return true
	}
	rank := byte('6')
	if side == "b" {
		rank = '3'
	}
	return len(s) == 2 && s[0] >= 'a' && s[0] <= 'h' && s[1] == rank
}
