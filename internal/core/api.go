package core

// Request types

type CreateGameRequest struct {
	White PlayerConfig `json:"white" validate:"required"`
	Black PlayerConfig `json:"black" validate:"required"`
	FEN   string       `json:"fen,omitempty" validate:"omitempty,max=100"`
}

type ConfigurePlayersRequest struct {
	White PlayerConfig `json:"white" validate:"required"`
	Black PlayerConfig `json:"black" validate:"required"`
}

type MoveRequest struct {
	Move string `json:"move" validate:"required,len=4"` // "cccc" for computer move, otherwise e2e4 style
}

type UndoRequest struct {
	Count int `json:"count" validate:"required,min=1,max=300"`
}

// Response types

type GameResponse struct {
	GameID     string          `json:"gameId"`
	FEN        string          `json:"fen"`
	InitialFEN string          `json:"initialFen"`
	Turn       string          `json:"turn"`    // "w" or "b"
	State      string          `json:"state"`   // "ongoing", "white wins", etc
	Outcome    string          `json:"outcome"` // rules classification for the side to move
	InCheck    bool            `json:"inCheck"`
	Moves      []string        `json:"moves"`
	Castling   CastlingRights  `json:"castling"`
	Players    PlayersResponse `json:"players"`
	LastMove   *MoveInfo       `json:"lastMove,omitempty"`
}

type MoveInfo struct {
	Move        string `json:"move"`
	Kind        string `json:"kind,omitempty"`
	PlayerColor string `json:"playerColor"` // "w" or "b"
}

type LegalMovesResponse struct {
	FEN   string              `json:"fen"`
	Turn  string              `json:"turn"`
	From  string              `json:"from,omitempty"`
	Moves map[string][]string `json:"moves"` // origin square -> legal destinations
	Count int                 `json:"count"`
}

type BoardResponse struct {
	FEN   string `json:"fen"`
	Board string `json:"board,omitempty"` // ASCII representation
	SVG   string `json:"svg,omitempty"`
}

// BoardSVGOptions are the query options of the rendered board
type BoardSVGOptions struct {
	Mark            string // square whose legal destinations are highlighted
	Perspective     string // "b" draws Black at the bottom
	SquareSize      int    // pixels per square, server default when zero
	HideCoordinates bool
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
