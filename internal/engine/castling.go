package engine

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

const (
	kingHomeFile      = 4
	kingsideRookFile  = 7
	queensideRookFile = 0
)

type castleSide struct {
	kind     core.MoveKind
	rookFile int
	kingTo   int   // king destination file
	rookTo   int   // rook destination file
	empty    []int // files that must be vacant
	safe     []int // files besides the king's own that must not be attacked
}

var castleSides = []castleSide{
	{kind: core.MoveKingsideCastle, rookFile: kingsideRookFile, kingTo: 6, rookTo: 5, empty: []int{5, 6}, safe: []int{5, 6}},
	{kind: core.MoveQueensideCastle, rookFile: queensideRookFile, kingTo: 2, rookTo: 3, empty: []int{1, 2, 3}, safe: []int{3, 2}},
}

// HomeRank is the back rank of color.
func HomeRank(c core.Color) int {
	if c == core.ColorWhite {
		return 7
	}
	return 0
}

func sideFor(kind core.MoveKind) (castleSide, bool) {
	for _, s := range castleSides {
		if s.kind == kind {
			return s, true
		}
	}
	return castleSide{}, false
}

func (s castleSide) allowed(r core.SideRights) bool {
	if s.kind == core.MoveKingsideCastle {
		return r.CanCastleKingside()
	}
	return r.CanCastleQueenside()
}

// castlingMoves returns the king destinations of every castling the flags
// and the board permit. The king must stand on its home square and must not
// currently be in check; that is decided once for both sides.
func castlingMoves(b *board.Board, from core.Square, color core.Color, rights core.SideRights) []core.Square {
	rank := HomeRank(color)
	if from.Rank != rank || from.File != kingHomeFile || rights.KingMoved {
		return nil
	}
	opponent := core.OppositeColor(color)
	if IsSquareAttacked(b, from, opponent) {
		return nil
	}

	var moves []core.Square
	for _, s := range castleSides {
		if !s.allowed(rights) {
			continue
		}
		if !b.PieceAt(core.Square{Rank: rank, File: s.rookFile}).Is(core.Rook, color) {
			continue
		}
		if !filesEmpty(b, rank, s.empty) || filesAttacked(b, rank, s.safe, opponent) {
			continue
		}
		moves = append(moves, core.Square{Rank: rank, File: s.kingTo})
	}
	return moves
}

func filesEmpty(b *board.Board, rank int, files []int) bool {
	for _, f := range files {
		if !b.IsEmpty(core.Square{Rank: rank, File: f}) {
			return false
		}
	}
	return true
}

func filesAttacked(b *board.Board, rank int, files []int, by core.Color) bool {
	for _, f := range files {
		if IsSquareAttacked(b, core.Square{Rank: rank, File: f}, by) {
			return true
		}
	}
	return false
}

// UpdateRights returns rights after committing from->to on b, where b is the
// board before the move. Flags only ever go from false to true.
func UpdateRights(rights core.CastlingRights, b *board.Board, from, to core.Square) core.CastlingRights {
	mover := b.PieceAt(from)
	if mover.IsEmpty() {
		return rights
	}

	side := rights.For(mover.Color)
	switch mover.Type {
	case core.King:
		side.KingMoved = true
		switch ClassifyMove(b, from, to) {
		case core.MoveKingsideCastle:
			side.RookKingsideMoved = true
		case core.MoveQueensideCastle:
			side.RookQueensideMoved = true
		}
	case core.Rook:
		markRookHome(&side, mover.Color, from)
	}
	rights = rights.With(mover.Color, side)

	// A rook captured on its home square can no longer castle either
	if captured := b.PieceAt(to); captured.Is(core.Rook, core.OppositeColor(mover.Color)) {
		theirs := rights.For(captured.Color)
		markRookHome(&theirs, captured.Color, to)
		rights = rights.With(captured.Color, theirs)
	}
	return rights
}

func markRookHome(r *core.SideRights, color core.Color, sq core.Square) {
	if sq.Rank != HomeRank(color) {
		return
	}
	switch sq.File {
	case kingsideRookFile:
		r.RookKingsideMoved = true
	case queensideRookFile:
		r.RookQueensideMoved = true
	}
}
