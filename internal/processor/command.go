package processor

import (
	"chessrules/internal/core"
)

// CommandType defines the type of command being executed
type CommandType int

const (
	CmdCreateGame CommandType = iota
	CmdConfigurePlayers
	CmdGetGame
	CmdDeleteGame
	CmdMakeMove
	CmdUndoMove
	CmdGetBoard
	CmdLegalMoves
)

// BoardFormat selects the rendering returned by CmdGetBoard
type BoardFormat int

const (
	FormatASCII BoardFormat = iota
	FormatSVG
)

// BoardArgs parameterizes CmdGetBoard
type BoardArgs struct {
	Format      BoardFormat
	Mark        string     // optional origin square whose legal destinations are highlighted
	Perspective core.Color // side drawn at the bottom of an SVG, white if unset
	SquareSize  int        // SVG pixels per square, renderer default if zero
	HideCoords  bool
}

// Command is a unified structure for all processor operations
type Command struct {
	Type   CommandType
	GameID string // For game-specific commands
	Args   any    // Command-specific arguments
}

// ProcessorResponse wraps the response with metadata
type ProcessorResponse struct {
	Success bool                `json:"success"`
	Pending bool                `json:"pending,omitempty"` // For async operations
	Data    any                 `json:"data,omitempty"`
	Error   *core.ErrorResponse `json:"error,omitempty"`
}

func NewCreateGameCommand(req core.CreateGameRequest) Command {
	return Command{
		Type: CmdCreateGame,
		Args: req,
	}
}

func NewConfigurePlayersCommand(gameID string, req core.ConfigurePlayersRequest) Command {
	return Command{
		Type:   CmdConfigurePlayers,
		GameID: gameID,
		Args:   req,
	}
}

func NewGetGameCommand(gameID string) Command {
	return Command{
		Type:   CmdGetGame,
		GameID: gameID,
	}
}

func NewMakeMoveCommand(gameID string, req core.MoveRequest) Command {
	return Command{
		Type:   CmdMakeMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewUndoMoveCommand(gameID string, req core.UndoRequest) Command {
	return Command{
		Type:   CmdUndoMove,
		GameID: gameID,
		Args:   req,
	}
}

func NewDeleteGameCommand(gameID string) Command {
	return Command{
		Type:   CmdDeleteGame,
		GameID: gameID,
	}
}

func NewGetBoardCommand(gameID string, args BoardArgs) Command {
	return Command{
		Type:   CmdGetBoard,
		GameID: gameID,
		Args:   args,
	}
}

// NewLegalMovesCommand lists legal moves from one square, or for every piece
// of the side to move when from is empty
func NewLegalMovesCommand(gameID, from string) Command {
	return Command{
		Type:   CmdLegalMoves,
		GameID: gameID,
		Args:   from,
	}
}
