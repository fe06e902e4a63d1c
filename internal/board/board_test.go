package board

import (
	"testing"

	"chessrules/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartingPosition(t *testing.T) {
	b := StartingPosition()

	assert.Equal(t, core.Piece{Type: core.Rook, Color: core.ColorBlack}, b.PieceAt(core.MustSquare("a8")))
	assert.Equal(t, core.Piece{Type: core.King, Color: core.ColorWhite}, b.PieceAt(core.MustSquare("e1")))
	assert.Equal(t, core.Piece{Type: core.Pawn, Color: core.ColorWhite}, b.PieceAt(core.MustSquare("e2")))
	assert.True(t, b.IsEmpty(core.MustSquare("e4")))
	assert.Equal(t, 16, b.Count(core.ColorWhite))
	assert.Equal(t, 16, b.Count(core.ColorBlack))
}

func TestPieceAtOutOfBounds(t *testing.T) {
	b := StartingPosition()
	assert.True(t, b.PieceAt(core.Square{Rank: -1, File: 0}).IsEmpty())
	assert.True(t, b.PieceAt(core.Square{Rank: 0, File: 8}).IsEmpty())
	assert.False(t, InBounds(core.Square{Rank: 8, File: 0}))
	assert.True(t, InBounds(core.Square{Rank: 7, File: 7}))
}

func TestFindKing(t *testing.T) {
	b := StartingPosition()

	sq, ok := b.FindKing(core.ColorWhite)
	require.True(t, ok)
	assert.Equal(t, "e1", sq.String())

	sq, ok = b.FindKing(core.ColorBlack)
	require.True(t, ok)
	assert.Equal(t, "e8", sq.String())

	b.Clear(core.MustSquare("e8"))
	_, ok = b.FindKing(core.ColorBlack)
	assert.False(t, ok)
}

func TestBoardIsValueCopy(t *testing.T) {
	b := StartingPosition()
	scratch := b
	scratch.Move(core.MustSquare("e2"), core.MustSquare("e4"))

	assert.False(t, b.IsEmpty(core.MustSquare("e2")))
	assert.True(t, b.IsEmpty(core.MustSquare("e4")))
	assert.True(t, scratch.IsEmpty(core.MustSquare("e2")))
}

func TestParseFENRoundTrip(t *testing.T) {
	fens := []string{
		StartingFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/8/R3K2R b Q - 3 40",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, pos.FEN())
	}
}

func TestParseFENCastlingRights(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w Kq - 0 1")
	require.NoError(t, err)

	assert.False(t, pos.Rights.White.RookKingsideMoved)
	assert.True(t, pos.Rights.White.RookQueensideMoved)
	assert.True(t, pos.Rights.Black.RookKingsideMoved)
	assert.False(t, pos.Rights.Black.RookQueensideMoved)
	assert.False(t, pos.Rights.White.KingMoved)
	assert.False(t, pos.Rights.Black.KingMoved)
}

func TestParseFENNoCastlingMarksKingsMoved(t *testing.T) {
	tests := []struct {
		fen        string
		whiteMoved bool
		blackMoved bool
	}{
		{"r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1", true, true},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQ - 0 1", false, true},
		{"r3k2r/8/8/8/8/8/8/R3K2R w q - 0 1", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.fen, func(t *testing.T) {
			pos, err := ParseFEN(tt.fen)
			require.NoError(t, err)
			assert.Equal(t, tt.whiteMoved, pos.Rights.White.KingMoved)
			assert.Equal(t, tt.blackMoved, pos.Rights.Black.KingMoved)
			assert.Equal(t, tt.fen, pos.FEN())
		})
	}
}

func TestParseFENIgnoresEnPassantTarget(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2")
	require.NoError(t, err)
	assert.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2", pos.FEN())
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w - -"},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"short rank", "7/8/8/8/8/8/8/8 w - - 0 1"},
		{"long rank", "ppppppppp/8/8/8/8/8/8/8 w - - 0 1"},
		{"unknown piece", "x7/8/8/8/8/8/8/8 w - - 0 1"},
		{"bad turn", "8/8/8/8/8/8/8/8 x - - 0 1"},
		{"bad castling", "8/8/8/8/8/8/8/8 w KX - 0 1"},
		{"bad en passant", "8/8/8/8/8/8/8/8 w - z9 0 1"},
		{"bad halfmove", "8/8/8/8/8/8/8/8 w - - x 1"},
		{"zero fullmove", "8/8/8/8/8/8/8/8 w - - 0 0"},
		{"two white kings", "4k3/8/8/8/8/8/8/K6K w - - 0 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFEN(tt.fen)
			assert.Error(t, err)
		})
	}
}

func TestASCII(t *testing.T) {
	b := StartingPosition()
	ascii := b.ASCII()
	assert.Contains(t, ascii, "8 r n b q k b n r  8")
	assert.Contains(t, ascii, "4 . . . . . . . .  4")
	assert.Contains(t, ascii, "1 R N B Q K B N R  1")
}
