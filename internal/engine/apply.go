package engine

import (
	"chessrules/internal/board"
	"chessrules/internal/core"
)

// ClassifyMove derives the kind of from->to from the piece type and file
// delta on b, the board before the move.
func ClassifyMove(b *board.Board, from, to core.Square) core.MoveKind {
	mover := b.PieceAt(from)
	if mover.Type == core.King && from.Rank == to.Rank {
		switch to.File - from.File {
		case 2:
			return core.MoveKingsideCastle
		case -2:
			return core.MoveQueensideCastle
		}
	}
	if target := b.PieceAt(to); !target.IsEmpty() && target.Color != mover.Color {
		return core.MoveCapture
	}
	return core.MoveNormal
}

// PromotionHook may replace the piece that just landed on to. It is the
// extension point for pawn promotion and is not installed by default.
type PromotionHook func(moved core.Piece, to core.Square) core.Piece

type applyConfig struct {
	promote PromotionHook
}

type ApplyOption func(*applyConfig)

// WithPromotion installs a post-move piece override
func WithPromotion(hook PromotionHook) ApplyOption {
	return func(c *applyConfig) {
		c.promote = hook
	}
}

// ApplyMove commits from->to on a copy of b and returns it together with the
// updated castling rights. Castling moves the rook in the same step. The move
// is not re-validated; use LegalMoves or ValidateMove first.
func ApplyMove(b board.Board, from, to core.Square, rights core.CastlingRights, opts ...ApplyOption) (board.Board, core.CastlingRights) {
	var cfg applyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	newRights := UpdateRights(rights, &b, from, to)
	relocate(&b, from, to)

	if cfg.promote != nil {
		if moved := b.PieceAt(to); !moved.IsEmpty() {
			b.Set(to, cfg.promote(moved, to))
		}
	}
	return b, newRights
}

// relocate performs the piece movement in place, king and rook together
// for castling.
func relocate(b *board.Board, from, to core.Square) {
	if side, ok := sideFor(ClassifyMove(b, from, to)); ok {
		b.Move(core.Square{Rank: from.Rank, File: side.rookFile}, core.Square{Rank: from.Rank, File: side.rookTo})
	}
	b.Move(from, to)
}

// PlayMove advances a whole position by an already-verified move: board and
// rights via ApplyMove, then the turn and the FEN move counters.
func PlayMove(pos board.Position, move core.Move, opts ...ApplyOption) board.Position {
	moverType := pos.Board.PieceAt(move.From).Type
	kind := ClassifyMove(&pos.Board, move.From, move.To)

	pos.Board, pos.Rights = ApplyMove(pos.Board, move.From, move.To, pos.Rights, opts...)

	if moverType == core.Pawn || kind == core.MoveCapture {
		pos.Halfmove = 0
	} else {
		pos.Halfmove++
	}
	if pos.Turn == core.ColorBlack {
		pos.Fullmove++
	}
	pos.Turn = core.OppositeColor(pos.Turn)
	return pos
}
