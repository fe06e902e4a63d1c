package core

import "fmt"

type PieceType byte

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [...]byte{0, 'p', 'n', 'b', 'r', 'q', 'k'}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Piece is a value type; the zero value is an empty cell.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Is reports whether p is a piece of the given type and color
func (p Piece) Is(t PieceType, c Color) bool {
	return p.Type == t && p.Color == c
}

// Letter returns the FEN letter, uppercase for white, 0 for empty.
func (p Piece) Letter() byte {
	if p.IsEmpty() || int(p.Type) >= len(pieceLetters) {
		return 0
	}
	l := pieceLetters[p.Type]
	if p.Color == ColorWhite {
		l -= 'a' - 'A'
	}
	return l
}

// PieceFromLetter parses a FEN piece letter.
func PieceFromLetter(ch byte) (Piece, bool) {
	color := ColorBlack
	if ch >= 'A' && ch <= 'Z' {
		color = ColorWhite
		ch += 'a' - 'A'
	}
	for t, l := range pieceLetters {
		if t != 0 && l == ch {
			return Piece{Type: PieceType(t), Color: color}, true
		}
	}
	return NoPiece, false
}

// Square addresses a board cell. Rank 0 is the eighth rank, file 0 is the a-file.
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func (s Square) InBounds() bool {
	return s.Rank >= 0 && s.Rank < 8 && s.File >= 0 && s.File < 8
}

// Offset returns the square displaced by the given rank and file deltas
func (s Square) Offset(dr, df int) Square {
	return Square{Rank: s.Rank + dr, File: s.File + df}
}

// String returns algebraic notation, e.g. "e2"
func (s Square) String() string {
	if !s.InBounds() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+s.File, '8'-s.Rank)
}

// ParseSquare converts algebraic notation into a Square
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("invalid square: %q", s)
	}
	return Square{Rank: int('8' - s[1]), File: int(s[0] - 'a')}, nil
}

// MustSquare is ParseSquare for constant inputs
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

type MoveKind int

const (
	MoveNormal MoveKind = iota
	MoveCapture
	MoveKingsideCastle
	MoveQueensideCastle
)

func (k MoveKind) String() string {
	switch k {
	case MoveCapture:
		return "capture"
	case MoveKingsideCastle:
		return "kingside-castle"
	case MoveQueensideCastle:
		return "queenside-castle"
	default:
		return "normal"
	}
}

type Move struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// UCI returns the move in coordinate notation, e.g. "e2e4"
func (m Move) UCI() string {
	return m.From.String() + m.To.String()
}

func (m Move) String() string {
	return m.UCI()
}

// ParseMove parses a coordinate move such as "e2e4".
// A fifth promotion character is rejected since promotion is not supported.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 {
		return Move{}, fmt.Errorf("invalid move: %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[2:])
	if err != nil {
		return Move{}, err
	}
	return Move{From: from, To: to}, nil
}

// SideRights holds the moved-flags of one color.
type SideRights struct {
	KingMoved          bool `json:"kingMoved"`
	RookKingsideMoved  bool `json:"rookKingsideMoved"`
	RookQueensideMoved bool `json:"rookQueensideMoved"`
}

// CanCastleKingside reports whether the flags still permit kingside castling
func (r SideRights) CanCastleKingside() bool {
	return !r.KingMoved && !r.RookKingsideMoved
}

// CanCastleQueenside reports whether the flags still permit queenside castling
func (r SideRights) CanCastleQueenside() bool {
	return !r.KingMoved && !r.RookQueensideMoved
}

// CastlingRights records, per color, whether the king or either rook has moved.
// The zero value is the game-start state.
type CastlingRights struct {
	White SideRights `json:"white"`
	Black SideRights `json:"black"`
}

func (c CastlingRights) For(color Color) SideRights {
	if color == ColorBlack {
		return c.Black
	}
	return c.White
}

// With returns a copy with the rights of color replaced
func (c CastlingRights) With(color Color, r SideRights) CastlingRights {
	if color == ColorBlack {
		c.Black = r
	} else {
		c.White = r
	}
	return c
}
