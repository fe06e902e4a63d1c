package transport

import (
	"context"

	"chessrules/internal/core"
	"chessrules/internal/processor"
)

// Local serves Backend from an in-process processor
type Local struct {
	proc *processor.Processor
}

var _ Backend = (*Local)(nil)

func NewLocal(proc *processor.Processor) *Local {
	return &Local{proc: proc}
}

func (l *Local) execute(cmd processor.Command) (processor.ProcessorResponse, error) {
	resp := l.proc.Execute(cmd)
	if !resp.Success {
		reqErr := &core.RequestError{Response: core.ErrorResponse{Error: "request failed", Code: core.ErrInternalError}}
		if resp.Error != nil {
			reqErr.Response = *resp.Error
		}
		return resp, reqErr
	}
	return resp, nil
}

func (l *Local) game(cmd processor.Command) (*core.GameResponse, error) {
	resp, err := l.execute(cmd)
	if err != nil {
		return nil, err
	}
	g := resp.Data.(core.GameResponse)
	return &g, nil
}

func (l *Local) CreateGame(req core.CreateGameRequest) (*core.GameResponse, error) {
	return l.game(processor.NewCreateGameCommand(req))
}

func (l *Local) GetGame(gameID string) (*core.GameResponse, error) {
	return l.game(processor.NewGetGameCommand(gameID))
}

func (l *Local) WaitGame(ctx context.Context, gameID string, moveCount int) (*core.GameResponse, error) {
	if err := l.proc.Wait(ctx, gameID, moveCount); err != nil && ctx.Err() == nil {
		return nil, &core.RequestError{Response: core.ErrorResponse{
			Error: "game not found",
			Code:  core.ErrGameNotFound,
		}}
	}
	return l.GetGame(gameID)
}

func (l *Local) MakeMove(gameID, move string) (*core.GameResponse, error) {
	return l.game(processor.NewMakeMoveCommand(gameID, core.MoveRequest{Move: move}))
}

func (l *Local) LegalMoves(gameID, from string) (*core.LegalMovesResponse, error) {
	resp, err := l.execute(processor.NewLegalMovesCommand(gameID, from))
	if err != nil {
		return nil, err
	}
	legal := resp.Data.(core.LegalMovesResponse)
	return &legal, nil
}

func (l *Local) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	return l.game(processor.NewUndoMoveCommand(gameID, core.UndoRequest{Count: count}))
}

func (l *Local) DeleteGame(gameID string) error {
	_, err := l.execute(processor.NewDeleteGameCommand(gameID))
	return err
}

func (l *Local) ConfigurePlayers(gameID string, req core.ConfigurePlayersRequest) (*core.GameResponse, error) {
	return l.game(processor.NewConfigurePlayersCommand(gameID, req))
}

func (l *Local) GetBoard(gameID string) (*core.BoardResponse, error) {
	return l.board(gameID, processor.BoardArgs{Format: processor.FormatASCII})
}

func (l *Local) BoardSVG(gameID string, opts core.BoardSVGOptions) ([]byte, error) {
	args := processor.BoardArgs{
		Format:     processor.FormatSVG,
		Mark:       opts.Mark,
		SquareSize: opts.SquareSize,
		HideCoords: opts.HideCoordinates,
	}
	if opts.Perspective == "b" {
		args.Perspective = core.ColorBlack
	}
	b, err := l.board(gameID, args)
	if err != nil {
		return nil, err
	}
	return []byte(b.SVG), nil
}

func (l *Local) board(gameID string, args processor.BoardArgs) (*core.BoardResponse, error) {
	resp, err := l.execute(processor.NewGetBoardCommand(gameID, args))
	if err != nil {
		return nil, err
	}
	b := resp.Data.(core.BoardResponse)
	return &b, nil
}
