// Package board holds the 8x8 grid model and its FEN codec.
package board

import (
	"fmt"
	"strings"

	"chessrules/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Board is a fixed-size grid of optional pieces. It is a value type:
// assigning a Board copies all 64 cells, which is how scratch boards are made.
type Board struct {
	squares [8][8]core.Piece
}

var backRank = [8]core.PieceType{
	core.Rook, core.Knight, core.Bishop, core.Queen,
	core.King, core.Bishop, core.Knight, core.Rook,
}

// StartingPosition returns the standard initial layout, White on ranks 6-7.
func StartingPosition() Board {
	var b Board
	for f := 0; f < 8; f++ {
		b.squares[0][f] = core.Piece{Type: backRank[f], Color: core.ColorBlack}
		b.squares[1][f] = core.Piece{Type: core.Pawn, Color: core.ColorBlack}
		b.squares[6][f] = core.Piece{Type: core.Pawn, Color: core.ColorWhite}
		b.squares[7][f] = core.Piece{Type: backRank[f], Color: core.ColorWhite}
	}
	return b
}

func InBounds(sq core.Square) bool {
	return sq.InBounds()
}

// PieceAt returns the occupant of sq; empty and out-of-bounds squares yield core.NoPiece.
func (b *Board) PieceAt(sq core.Square) core.Piece {
	if !sq.InBounds() {
		return core.NoPiece
	}
	return b.squares[sq.Rank][sq.File]
}

func (b *Board) IsEmpty(sq core.Square) bool {
	return b.PieceAt(sq).IsEmpty()
}

func (b *Board) Set(sq core.Square, p core.Piece) {
	if !sq.InBounds() {
		return
	}
	b.squares[sq.Rank][sq.File] = p
}

func (b *Board) Clear(sq core.Square) {
	b.Set(sq, core.NoPiece)
}

// Move relocates whatever stands on from onto to, replacing any occupant
func (b *Board) Move(from, to core.Square) {
	p := b.PieceAt(from)
	b.Clear(from)
	b.Set(to, p)
}

// FindKing scans rank 0..7, file 0..7 and returns the first king of color.
func (b *Board) FindKing(color core.Color) (core.Square, bool) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			if b.squares[r][f].Is(core.King, color) {
				return core.Square{Rank: r, File: f}, true
			}
		}
	}
	return core.Square{}, false
}

// Squares calls fn for every occupied square of color in row-major order.
// Iteration stops when fn returns false.
func (b *Board) Squares(color core.Color, fn func(core.Square, core.Piece) bool) {
	for r := 0; r < 8; r++ {
		for f := 0; f < 8; f++ {
			p := b.squares[r][f]
			if p.IsEmpty() || p.Color != color {
				continue
			}
			if !fn(core.Square{Rank: r, File: f}, p) {
				return
			}
		}
	}
}

// Count returns the number of pieces of the given color
func (b *Board) Count(color core.Color) int {
	n := 0
	b.Squares(color, func(core.Square, core.Piece) bool {
		n++
		return true
	})
	return n
}

// ASCII creates an ASCII representation of the board
func (b *Board) ASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		sb.WriteString(fmt.Sprintf("%d ", 8-r))
		for f := 0; f < 8; f++ {
			piece := b.squares[r][f]
			if piece.IsEmpty() {
				sb.WriteString(". ")
			} else {
				sb.WriteString(fmt.Sprintf("%c ", piece.Letter()))
			}
		}
		sb.WriteString(fmt.Sprintf(" %d\n", 8-r))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
