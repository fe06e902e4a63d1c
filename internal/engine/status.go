package engine

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// Classify evaluates the position for toMove. It has no side effects, so
// calling it repeatedly on the same inputs gives the same answer.
func Classify(b *board.Board, toMove core.Color, rights core.CastlingRights) core.Outcome {
	attacked := IsInCheck(b, toMove)
	hasMove := HasLegalMove(b, toMove, rights)

	switch {
	case attacked && !hasMove:
		return core.OutcomeCheckmate
	case !hasMove:
		return core.OutcomeStalemate
	case attacked:
		return core.OutcomeCheck
	default:
		return core.OutcomeOngoing
	}
}
