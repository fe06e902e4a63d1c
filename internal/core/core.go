package core

type State int

const (
	StateOngoing State = iota
	StatePending       // Computer is choosing a move
	StateStuck         // Computer move failed or timed out
	StateWhiteWins
	StateBlackWins
	StateStalemate
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateStuck:
		return "stuck"
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateStalemate:
		return "stalemate"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether no further moves may be played.
func (s State) IsOver() bool {
	return s == StateWhiteWins || s == StateBlackWins || s == StateStalemate
}

// Outcome is the rules classification of a single position for the side to move.
// It is recomputed after every committed move and never cached.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeCheck
	OutcomeCheckmate
	OutcomeStalemate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCheck:
		return "check"
	case OutcomeCheckmate:
		return "checkmate"
	case OutcomeStalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// IsTerminal reports whether the side to move has no legal move.
func (o Outcome) IsTerminal() bool {
	return o == OutcomeCheckmate || o == OutcomeStalemate
}

type Color byte

const (
	ColorWhite Color = iota + 1
	ColorBlack
)

func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	} else if c == ColorBlack {
		return "b"
	} else {
		return "-"
	}
}

// Name returns the capitalized color name for display
func (c Color) Name() string {
	switch c {
	case ColorWhite:
		return "White"
	case ColorBlack:
		return "Black"
	default:
		return "None"
	}
}

func OppositeColor(c Color) Color {
	if c == ColorWhite {
		return ColorBlack
	}
	return ColorWhite
}

// ParseColor accepts "w" or "b"
func ParseColor(s string) (Color, bool) {
	switch s {
	case "w":
		return ColorWhite, true
	case "b":
		return ColorBlack, true
	default:
		return 0, false
	}
}
