package engine

import (
	"errors"
	"fmt"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

var (
	ErrNoPiece     = errors.New("no piece on origin square")
	ErrWrongTurn   = errors.New("piece does not belong to the side to move")
	ErrIllegalMove = errors.New("illegal move")
)

// FilterLegal keeps the candidates that do not leave mover's king attacked.
// Each candidate is played on a scratch copy of b; a candidate after which
// the king cannot be found is dropped.
func FilterLegal(b *board.Board, from core.Square, candidates []core.Square, mover core.Color) []core.Square {
	var legal []core.Square
	opponent := core.OppositeColor(mover)
	for _, to := range candidates {
		scratch := *b
		relocate(&scratch, from, to)

		kingSq, ok := scratch.FindKing(mover)
		if !ok {
			continue
		}
		if !IsSquareAttacked(&scratch, kingSq, opponent) {
			legal = append(legal, to)
		}
	}
	return legal
}

// LegalMoves returns the legal destinations of the piece on from. Squares
// that are empty or hold a piece of the side not to move yield nothing.
func LegalMoves(b *board.Board, from core.Square, rights core.CastlingRights, toMove core.Color) []core.Square {
	p := b.PieceAt(from)
	if p.IsEmpty() || p.Color != toMove {
		return nil
	}
	return FilterLegal(b, from, TheoreticalMoves(b, from, rights), toMove)
}

// AllLegalMoves enumerates every legal move of color in row-major origin order.
func AllLegalMoves(b *board.Board, color core.Color, rights core.CastlingRights) []core.Move {
	var moves []core.Move
	b.Squares(color, func(from core.Square, _ core.Piece) bool {
		for _, to := range LegalMoves(b, from, rights, color) {
			moves = append(moves, core.Move{From: from, To: to})
		}
		return true
	})
	return moves
}

// HasLegalMove stops at the first legal move found.
func HasLegalMove(b *board.Board, color core.Color, rights core.CastlingRights) bool {
	found := false
	b.Squares(color, func(from core.Square, _ core.Piece) bool {
		found = len(LegalMoves(b, from, rights, color)) > 0
		return !found
	})
	return found
}

// ValidateMove is the strict boundary in front of ApplyMove.
func ValidateMove(b *board.Board, move core.Move, rights core.CastlingRights, toMove core.Color) error {
	p := b.PieceAt(move.From)
	if p.IsEmpty() {
		return fmt.Errorf("%s: %w", move.From, ErrNoPiece)
	}
	if p.Color != toMove {
		return fmt.Errorf("%s: %w", move.From, ErrWrongTurn)
	}
	for _, to := range LegalMoves(b, move.From, rights, toMove) {
		if to == move.To {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", move, ErrIllegalMove)
}
