// Package transport holds the contracts shared by the interactive front ends.
package transport

import (
	"context"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

// View abstracts display/output operations
type View interface {
	DisplayBoard(b *board.Board, marked ...core.Square)
	ShowMessage(msg string)
	ShowError(err error)
	ShowGameHistory(g core.GameResponse)
	ShowMove(info *core.MoveInfo, computer bool)
	ShowStatus(g core.GameResponse)
	ShowGameOver(state string)
	ReadLine(prompt string) string
}

// Backend is the game API a front end plays against: the in-process
// processor or a remote server. Failed requests return *core.RequestError.
type Backend interface {
	CreateGame(req core.CreateGameRequest) (*core.GameResponse, error)
	GetGame(gameID string) (*core.GameResponse, error)
	// WaitGame blocks until the game moves past moveCount or changes state,
	// then returns it
	WaitGame(ctx context.Context, gameID string, moveCount int) (*core.GameResponse, error)
	MakeMove(gameID, move string) (*core.GameResponse, error)
	LegalMoves(gameID, from string) (*core.LegalMovesResponse, error)
	UndoMoves(gameID string, count int) (*core.GameResponse, error)
	DeleteGame(gameID string) error
	ConfigurePlayers(gameID string, req core.ConfigurePlayersRequest) (*core.GameResponse, error)
	GetBoard(gameID string) (*core.BoardResponse, error)
	BoardSVG(gameID string, opts core.BoardSVGOptions) ([]byte, error)
}
