package board

import (
	"fmt"
	"strconv"
	"strings"

	"chessrules/internal/core"
)

// Position is a board plus the session state a FEN record carries.
type Position struct {
	Board    Board
	Turn     core.Color
	Rights   core.CastlingRights
	Halfmove int
	Fullmove int
}

// NewPosition returns the standard game start
func NewPosition() *Position {
	return &Position{
		Board:    StartingPosition(),
		Turn:     core.ColorWhite,
		Fullmove: 1,
	}
}

func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid FEN: expected 6 parts, got %d", len(parts))
	}

	p := &Position{}

	// Parse board
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("invalid FEN: expected 8 ranks")
	}

	kings := map[core.Color]int{}
	for r := 0; r < 8; r++ {
		file := 0
		for i := 0; i < len(ranks[r]); i++ {
			ch := ranks[r][i]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			if file >= 8 {
				return nil, fmt.Errorf("invalid FEN: too many pieces in rank %d", 8-r)
			}
			piece, ok := core.PieceFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("invalid FEN: unknown piece %q in rank %d", ch, 8-r)
			}
			if piece.Type == core.King {
				kings[piece.Color]++
			}
			p.Board.squares[r][file] = piece
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("invalid FEN: rank %d has %d files", 8-r, file)
		}
	}
	if kings[core.ColorWhite] > 1 || kings[core.ColorBlack] > 1 {
		return nil, fmt.Errorf("invalid FEN: more than one king of a color")
	}

	turn, ok := core.ParseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid FEN: turn must be 'w' or 'b'")
	}
	p.Turn = turn

	rights, err := parseCastling(parts[2])
	if err != nil {
		return nil, err
	}
	p.Rights = rights

	// En passant target is accepted for compatibility but never used
	if parts[3] != "-" {
		if _, err := core.ParseSquare(parts[3]); err != nil {
			return nil, fmt.Errorf("invalid FEN: en passant square %q", parts[3])
		}
	}

	if p.Halfmove, err = strconv.Atoi(parts[4]); err != nil || p.Halfmove < 0 {
		return nil, fmt.Errorf("invalid FEN: halfmove counter")
	}
	if p.Fullmove, err = strconv.Atoi(parts[5]); err != nil || p.Fullmove < 1 {
		return nil, fmt.Errorf("invalid FEN: fullmove counter")
	}

	return p, nil
}

// parseCastling maps the availability field onto moved-flags. A missing
// letter can only be represented as "that rook has moved".
func parseCastling(field string) (core.CastlingRights, error) {
	none := core.SideRights{KingMoved: true, RookKingsideMoved: true, RookQueensideMoved: true}
	rights := core.CastlingRights{White: none, Black: none}
	if field == "-" {
		return rights, nil
	}
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case 'K':
			rights.White.RookKingsideMoved = false
		case 'Q':
			rights.White.RookQueensideMoved = false
		case 'k':
			rights.Black.RookKingsideMoved = false
		case 'q':
			rights.Black.RookQueensideMoved = false
		default:
			return rights, fmt.Errorf("invalid FEN: castling field %q", field)
		}
	}
	// a color with no castling letter is marked as having moved its king
	for _, side := range []*core.SideRights{&rights.White, &rights.Black} {
		side.KingMoved = side.RookKingsideMoved && side.RookQueensideMoved
	}
	return rights, nil
}

// FEN encodes the position. Castling letters are written from the flags only.
func (p *Position) FEN() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for f := 0; f < 8; f++ {
			piece := p.Board.squares[r][f]
			if piece.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(piece.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}

	castling := ""
	if p.Rights.White.CanCastleKingside() {
		castling += "K"
	}
	if p.Rights.White.CanCastleQueenside() {
		castling += "Q"
	}
	if p.Rights.Black.CanCastleKingside() {
		castling += "k"
	}
	if p.Rights.Black.CanCastleQueenside() {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}

	return fmt.Sprintf("%s %s %s - %d %d", sb.String(), p.Turn, castling, p.Halfmove, p.Fullmove)
}
