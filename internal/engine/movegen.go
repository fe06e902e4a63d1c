package engine

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// TheoreticalMoves returns the pseudo-legal destinations of the piece on
// from. Whether a move exposes the mover's own king is not checked here;
// castling candidates already require the king's path to be unattacked.
// An empty square yields no moves.
func TheoreticalMoves(b *board.Board, from core.Square, rights core.CastlingRights) []core.Square {
	p := b.PieceAt(from)
	if p.IsEmpty() {
		return nil
	}

	switch p.Type {
	case core.Pawn:
		return pawnMoves(b, from, p.Color)
	case core.Knight:
		return stepMoves(b, from, p.Color, knightOffsets)
	case core.Bishop:
		return slideMoves(b, from, p.Color, diagonalDirs)
	case core.Rook:
		return slideMoves(b, from, p.Color, straightDirs)
	case core.Queen:
		return slideMoves(b, from, p.Color, allDirs)
	case core.King:
		moves := stepMoves(b, from, p.Color, kingOffsets)
		return append(moves, castlingMoves(b, from, p.Color, rights.For(p.Color))...)
	}
	return nil
}

func pawnStartRank(c core.Color) int {
	if c == core.ColorWhite {
		return 6
	}
	return 1
}

func pawnMoves(b *board.Board, from core.Square, color core.Color) []core.Square {
	var moves []core.Square
	dir := forward(color)

	one := from.Offset(dir, 0)
	if one.InBounds() && b.IsEmpty(one) {
		moves = append(moves, one)
		two := from.Offset(2*dir, 0)
		if from.Rank == pawnStartRank(color) && two.InBounds() && b.IsEmpty(two) {
			moves = append(moves, two)
		}
	}

	// Diagonals only onto an opposing piece; no en passant
	for _, df := range []int{-1, 1} {
		to := from.Offset(dir, df)
		target := b.PieceAt(to)
		if !target.IsEmpty() && target.Color != color {
			moves = append(moves, to)
		}
	}
	return moves
}

func stepMoves(b *board.Board, from core.Square, color core.Color, offsets []offset) []core.Square {
	var moves []core.Square
	for _, o := range offsets {
		to := from.Offset(o.dr, o.df)
		if !to.InBounds() {
			continue
		}
		target := b.PieceAt(to)
		if target.IsEmpty() || target.Color != color {
			moves = append(moves, to)
		}
	}
	return moves
}

func slideMoves(b *board.Board, from core.Square, color core.Color, dirs []offset) []core.Square {
	var moves []core.Square
	for _, d := range dirs {
		to := from.Offset(d.dr, d.df)
		for to.InBounds() {
			target := b.PieceAt(to)
			if target.IsEmpty() {
				moves = append(moves, to)
			} else {
				if target.Color != color {
					moves = append(moves, to)
				}
				break
			}
			to = to.Offset(d.dr, d.df)
		}
	}
	return moves
}
