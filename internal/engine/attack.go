// Package engine implements the chess rules: attack detection, move
// generation, legality filtering, position classification and move
// application. Every function is pure over its explicit arguments.
package engine

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

type offset struct{ dr, df int }

var (
	knightOffsets = []offset{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = []offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs  = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs  = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	allDirs       = append(append([]offset{}, straightDirs...), diagonalDirs...)
)

// forward is the rank delta of a pawn advance; white moves toward rank 0.
func forward(c core.Color) int {
	if c == core.ColorWhite {
		return -1
	}
	return 1
}

// IsSquareAttacked reports whether any piece of color by could capture on
// target. It does not look at turn state or history, so it is valid on
// scratch boards with missing or extra pieces.
func IsSquareAttacked(b *board.Board, target core.Square, by core.Color) bool {
	return isPawnAttacking(b, target, by) ||
		isKnightAttacking(b, target, by) ||
		isKingAttacking(b, target, by) ||
		isSlidingAttacking(b, target, diagonalDirs, core.Bishop, by) ||
		isSlidingAttacking(b, target, straightDirs, core.Rook, by)
}

// IsInCheck reports whether color's king is attacked. A board without that
// king reports false; callers must not read that as "safe".
func IsInCheck(b *board.Board, color core.Color) bool {
	kingSq, ok := b.FindKing(color)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, kingSq, core.OppositeColor(color))
}

// isPawnAttacking looks one rank behind target relative to the attacker's advance.
func isPawnAttacking(b *board.Board, target core.Square, by core.Color) bool {
	dr := -forward(by)
	for _, df := range []int{-1, 1} {
		if b.PieceAt(target.Offset(dr, df)).Is(core.Pawn, by) {
			return true
		}
	}
	return false
}

func isKnightAttacking(b *board.Board, target core.Square, by core.Color) bool {
	for _, o := range knightOffsets {
		if b.PieceAt(target.Offset(o.dr, o.df)).Is(core.Knight, by) {
			return true
		}
	}
	return false
}

func isKingAttacking(b *board.Board, target core.Square, by core.Color) bool {
	for _, o := range kingOffsets {
		if b.PieceAt(target.Offset(o.dr, o.df)).Is(core.King, by) {
			return true
		}
	}
	return false
}

// isSlidingAttacking walks each ray out from target; the first occupant
// attacks if it is a slider of the given type or a queen, otherwise it blocks.
func isSlidingAttacking(b *board.Board, target core.Square, dirs []offset, slider core.PieceType, by core.Color) bool {
	for _, d := range dirs {
		sq := target.Offset(d.dr, d.df)
		for sq.InBounds() {
			p := b.PieceAt(sq)
			if !p.IsEmpty() {
				if p.Is(slider, by) || p.Is(core.Queen, by) {
					return true
				}
				break
			}
			sq = sq.Offset(d.dr, d.df)
		}
	}
	return false
}
