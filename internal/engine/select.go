package engine

import (
	"math/rand"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

var pieceValues = map[core.PieceType]int{
	core.Pawn:   1,
	core.Knight: 3,
	core.Bishop: 3,
	core.Rook:   5,
	core.Queen:  9,
}

// SelectMove picks a move for a computer player. LevelRandom draws uniformly
// from the legal moves; LevelGreedy prefers mate, then the most valuable
// capture, then a check. b is taken by value so workers never share a board.
func SelectMove(b board.Board, toMove core.Color, rights core.CastlingRights, level int, rng *rand.Rand) (core.Move, bool) {
	moves := AllLegalMoves(&b, toMove, rights)
	if len(moves) == 0 {
		return core.Move{}, false
	}
	if level <= core.LevelRandom {
		return moves[rng.Intn(len(moves))], true
	}

	opponent := core.OppositeColor(toMove)
	var captures, checks []core.Move
	bestValue := 0
	for _, m := range moves {
		next, nextRights := ApplyMove(b, m.From, m.To, rights)
		outcome := Classify(&next, opponent, nextRights)
		if outcome == core.OutcomeCheckmate {
			return m, true
		}

		if v := pieceValues[b.PieceAt(m.To).Type]; v > 0 && ClassifyMove(&b, m.From, m.To) == core.MoveCapture {
			switch {
			case v > bestValue:
				bestValue = v
				captures = []core.Move{m}
			case v == bestValue:
				captures = append(captures, m)
			}
		}
		if outcome == core.OutcomeCheck {
			checks = append(checks, m)
		}
	}

	switch {
	case len(captures) > 0:
		return captures[rng.Intn(len(captures))], true
	case len(checks) > 0:
		return checks[rng.Intn(len(checks))], true
	default:
		return moves[rng.Intn(len(moves))], true
	}
}
