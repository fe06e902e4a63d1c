package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/core"
	"chessrules/internal/engine"
	"chessrules/internal/game"
	"chessrules/internal/render"
	"chessrules/internal/service"
)

// ComputerMove is the move string that asks the computer to play
const ComputerMove = "cccc"

const (
	maxPiecesPerSide = 16
	minSquareSize    = 10
	maxSquareSize    = 200
)

// Processor handles command execution and coordinates between the service
// and the rules engine
type Processor struct {
	svc   *service.Service
	queue *MoveQueue
}

// New creates a processor backed by a pool of move-selection workers
func New(svc *service.Service, workers int) (*Processor, error) {
	if svc == nil {
		return nil, fmt.Errorf("processor requires a service")
	}
	return &Processor{
		svc:   svc,
		queue: NewMoveQueue(workers),
	}, nil
}

func (p *Processor) Execute(cmd Command) ProcessorResponse {
	switch cmd.Type {
	case CmdCreateGame:
		return p.handleCreateGame(cmd)
	case CmdConfigurePlayers:
		return p.handleConfigurePlayers(cmd)
	case CmdGetGame:
		return p.handleGetGame(cmd)
	case CmdMakeMove:
		return p.handleMakeMove(cmd)
	case CmdUndoMove:
		return p.handleUndoMove(cmd)
	case CmdDeleteGame:
		return p.handleDeleteGame(cmd)
	case CmdGetBoard:
		return p.handleGetBoard(cmd)
	case CmdLegalMoves:
		return p.handleLegalMoves(cmd)
	default:
		return p.errorResponse("unknown command", core.ErrInvalidRequest)
	}
}

// Wait blocks until the game changes from the given move count, the wait
// times out, or ctx ends
func (p *Processor) Wait(ctx context.Context, gameID string, moveCount int) error {
	ch, err := p.svc.RegisterWait(ctx, gameID, moveCount)
	if err != nil {
		return err
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StorageHealth reports the persistence status for health checks
func (p *Processor) StorageHealth() string {
	return p.svc.GetStorageHealth()
}

// validateStartPosition rejects positions the rules engine cannot classify:
// a missing king, more than sixteen men a side, or the side that just moved
// left in check
func validateStartPosition(pos *board.Position) error {
	for _, c := range []core.Color{core.ColorWhite, core.ColorBlack} {
		if _, ok := pos.Board.FindKing(c); !ok {
			return fmt.Errorf("no %s king on the board", strings.ToLower(c.Name()))
		}
		if n := pos.Board.Count(c); n > maxPiecesPerSide {
			return fmt.Errorf("%d %s pieces on the board", n, strings.ToLower(c.Name()))
		}
	}
	if engine.IsInCheck(&pos.Board, core.OppositeColor(pos.Turn)) {
		return fmt.Errorf("side not to move is in check")
	}
	return nil
}

// handleCreateGame creates a new game from the standard start or a FEN
func (p *Processor) handleCreateGame(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.CreateGameRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	pos := board.NewPosition()
	if fen := strings.TrimSpace(args.FEN); fen != "" {
		parsed, err := board.ParseFEN(fen)
		if err != nil {
			return p.errorResponseDetails("invalid FEN", core.ErrInvalidFEN, err.Error())
		}
		if err := validateStartPosition(parsed); err != nil {
			return p.errorResponseDetails("invalid position", core.ErrInvalidFEN, err.Error())
		}
		pos = parsed
	}

	gameID := p.svc.GenerateGameID()
	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)
	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)

	if err := p.svc.CreateGame(gameID, whitePlayer, blackPlayer, *pos); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to create game: %v", err), core.ErrInternalError)
	}

	// The initial position may already be decided
	p.checkGameEnd(gameID, *pos)

	g, err := p.svc.GetGame(gameID)
	if err != nil {
		return p.errorResponse("game creation failed", core.ErrInternalError)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(gameID, g),
	}
}

// handleConfigurePlayers updates player configuration mid-game
func (p *Processor) handleConfigurePlayers(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.ConfigurePlayersRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if g.State() == core.StatePending {
		return p.errorResponse("cannot change players while computer is choosing a move", core.ErrInvalidRequest)
	}

	whitePlayer := core.NewPlayer(args.White, core.ColorWhite)
	blackPlayer := core.NewPlayer(args.Black, core.ColorBlack)

	if err = p.svc.UpdatePlayers(cmd.GameID, whitePlayer, blackPlayer); err != nil {
		return p.errorResponse(fmt.Sprintf("failed to update players: %v", err), core.ErrInternalError)
	}

	g, err = p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

func (p *Processor) handleGetGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Pending: g.State() == core.StatePending,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// checkPlayable rejects moves in games that are not accepting them
func (p *Processor) checkPlayable(g *game.Game) *ProcessorResponse {
	var resp ProcessorResponse
	switch s := g.State(); {
	case s == core.StatePending:
		resp = p.errorResponse("computer move in progress", core.ErrInvalidRequest)
	case s == core.StateStuck:
		resp = p.errorResponse("game is stuck after a failed computer move", core.ErrGameOver)
	case s.IsOver():
		resp = p.errorResponse(fmt.Sprintf("game is over: %s", s), core.ErrGameOver)
	case s == core.StateOngoing:
		return nil
	default:
		resp = p.errorResponse("game is in invalid state", core.ErrInvalidRequest)
	}
	return &resp
}

// handleMakeMove processes human moves and computer move requests
func (p *Processor) handleMakeMove(cmd Command) ProcessorResponse {
	args, ok := cmd.Args.(core.MoveRequest)
	if !ok {
		return p.errorResponse("invalid arguments", core.ErrInvalidRequest)
	}

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if resp := p.checkPlayable(g); resp != nil {
		return *resp
	}

	moveStr := strings.ToLower(strings.TrimSpace(args.Move))

	if moveStr == ComputerMove {
		if g.NextPlayer().Type != core.PlayerComputer {
			return p.errorResponse("not computer player's turn", core.ErrNotHumanTurn)
		}

		color := g.NextTurnColor()
		if err := p.triggerComputerMove(cmd.GameID, g); err != nil {
			return p.errorResponse(fmt.Sprintf("cannot schedule computer move: %v", err), core.ErrInternalError)
		}

		// The worker may already have finished; report the request, not its result
		if latest, err := p.svc.GetGame(cmd.GameID); err == nil {
			g = latest
		}
		response := p.buildGameResponse(cmd.GameID, g)
		response.LastMove = &core.MoveInfo{
			PlayerColor: color.String(),
		}

		return ProcessorResponse{
			Success: true,
			Pending: true,
			Data:    response,
		}
	}

	if g.NextPlayer().Type != core.PlayerHuman {
		return p.errorResponse("not human player's turn", core.ErrNotHumanTurn)
	}

	move, err := core.ParseMove(moveStr)
	if err != nil {
		return p.errorResponseDetails("invalid move format", core.ErrInvalidMove, err.Error())
	}

	pos := g.CurrentPosition()
	if err := engine.ValidateMove(&pos.Board, move, pos.Rights, pos.Turn); err != nil {
		return p.errorResponseDetails("illegal move", core.ErrInvalidMove, err.Error())
	}

	if err := p.commitMove(cmd.GameID, g.MoveCount(), pos, move); err != nil {
		return p.commitErrorResponse(err)
	}

	g, err = p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

// commitMove plays a verified move on pos and records it together with the
// classification of the resulting position
func (p *Processor) commitMove(gameID string, moveCount int, pos board.Position, move core.Move) error {
	kind := engine.ClassifyMove(&pos.Board, move.From, move.To)
	next := engine.PlayMove(pos, move)

	outcome := engine.Classify(&next.Board, next.Turn, next.Rights)
	result := &game.MoveResult{
		Move:        move.UCI(),
		Kind:        kind,
		PlayerColor: pos.Turn,
		GameState:   stateFor(outcome, pos.Turn),
		Outcome:     outcome,
	}

	return p.svc.ApplyMove(gameID, moveCount, move, next, result)
}

// commitErrorResponse maps a failed commit onto the API error codes
func (p *Processor) commitErrorResponse(err error) ProcessorResponse {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return p.errorResponse("game not found", core.ErrGameNotFound)
	case errors.Is(err, service.ErrStaleMove):
		return p.errorResponse("game changed while the move was being made, retry", core.ErrInvalidRequest)
	default:
		return p.errorResponse(fmt.Sprintf("failed to apply move: %v", err), core.ErrInternalError)
	}
}

func (p *Processor) handleUndoMove(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	switch g.State() {
	case core.StatePending:
		return p.errorResponse("cannot undo while computer move is in progress", core.ErrInvalidRequest)
	case core.StateStuck:
		return p.errorResponse("cannot undo in stuck game", core.ErrInvalidRequest)
	}

	args := core.UndoRequest{Count: 1}
	if req, ok := cmd.Args.(core.UndoRequest); ok && req.Count > 0 {
		args = req
	}

	if err = p.svc.UndoMoves(cmd.GameID, args.Count); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			return p.errorResponse("game not found", core.ErrGameNotFound)
		}
		return p.errorResponse(err.Error(), core.ErrInvalidRequest)
	}

	p.svc.UpdateGameState(cmd.GameID, core.StateOngoing)

	g, err = p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
		Data:    p.buildGameResponse(cmd.GameID, g),
	}
}

func (p *Processor) handleDeleteGame(cmd Command) ProcessorResponse {
	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	if g.State() == core.StatePending {
		return p.errorResponse("cannot delete game while computer move is in progress", core.ErrInvalidRequest)
	}

	if err = p.svc.DeleteGame(cmd.GameID); err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	return ProcessorResponse{
		Success: true,
	}
}

// handleGetBoard returns the board as ASCII or SVG
func (p *Processor) handleGetBoard(cmd Command) ProcessorResponse {
	args, _ := cmd.Args.(BoardArgs)

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	pos := g.CurrentPosition()
	resp := core.BoardResponse{FEN: pos.FEN()}

	switch args.Format {
	case FormatSVG:
		opts := []render.Option{}
		if args.Perspective == core.ColorBlack {
			opts = append(opts, render.Perspective(core.ColorBlack))
		}
		if args.SquareSize != 0 {
			if args.SquareSize < minSquareSize || args.SquareSize > maxSquareSize {
				return p.errorResponseDetails("invalid square size", core.ErrInvalidRequest,
					fmt.Sprintf("size must be between %d and %d", minSquareSize, maxSquareSize))
			}
			opts = append(opts, render.SquareSize(args.SquareSize))
		}
		if args.HideCoords {
			opts = append(opts, render.Coordinates(false))
		}
		if args.Mark != "" {
			from, err := core.ParseSquare(args.Mark)
			if err != nil {
				return p.errorResponseDetails("invalid square", core.ErrInvalidSquare, err.Error())
			}
			opts = append(opts, render.MarkSquares(engine.LegalMoves(&pos.Board, from, pos.Rights, pos.Turn)...))
		}
		if engine.IsInCheck(&pos.Board, pos.Turn) {
			if king, ok := pos.Board.FindKing(pos.Turn); ok {
				opts = append(opts, render.MarkCheck(king))
			}
		}

		var buf bytes.Buffer
		if err := render.SVG(&buf, &pos.Board, opts...); err != nil {
			return p.errorResponse("failed to render board", core.ErrInternalError)
		}
		resp.SVG = buf.String()
	default:
		resp.Board = pos.Board.ASCII()
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// handleLegalMoves lists legal destinations for one square or for every
// piece of the side to move
func (p *Processor) handleLegalMoves(cmd Command) ProcessorResponse {
	from, _ := cmd.Args.(string)
	from = strings.ToLower(strings.TrimSpace(from))

	g, err := p.svc.GetGame(cmd.GameID)
	if err != nil {
		return p.errorResponse("game not found", core.ErrGameNotFound)
	}

	pos := g.CurrentPosition()
	resp := core.LegalMovesResponse{
		FEN:   pos.FEN(),
		Turn:  pos.Turn.String(),
		From:  from,
		Moves: make(map[string][]string),
	}

	add := func(origin core.Square, dests []core.Square) {
		if len(dests) == 0 {
			return
		}
		names := make([]string, len(dests))
		for i, d := range dests {
			names[i] = d.String()
		}
		resp.Moves[origin.String()] = names
		resp.Count += len(names)
	}

	if from != "" {
		sq, err := core.ParseSquare(from)
		if err != nil {
			return p.errorResponseDetails("invalid square", core.ErrInvalidSquare, err.Error())
		}
		add(sq, engine.LegalMoves(&pos.Board, sq, pos.Rights, pos.Turn))
	} else if !g.State().IsOver() {
		pos.Board.Squares(pos.Turn, func(sq core.Square, _ core.Piece) bool {
			add(sq, engine.LegalMoves(&pos.Board, sq, pos.Rights, pos.Turn))
			return true
		})
	}

	return ProcessorResponse{
		Success: true,
		Data:    resp,
	}
}

// triggerComputerMove marks the game pending and hands the position to the
// worker pool. The callback commits the chosen move if the game is still
// waiting for it.
func (p *Processor) triggerComputerMove(gameID string, g *game.Game) error {
	pos := g.CurrentPosition()
	moveCount := g.MoveCount()
	player := g.NextPlayer()

	if err := p.svc.UpdateGameState(gameID, core.StatePending); err != nil {
		return err
	}

	err := p.queue.SubmitAsync(gameID, pos, player.Level, func(result MoveSelection) {
		p.finishComputerMove(gameID, moveCount, pos, result)
	})
	if err != nil {
		p.svc.UpdateGameState(gameID, core.StateOngoing)
		return err
	}
	return nil
}

// finishComputerMove commits a worker's selection if the game is still
// waiting for it. moveCount and pos are what the worker was given. A game
// that moved on in the meantime goes back to ongoing so the move can be
// requested again; only a failed selection or commit leaves it stuck.
func (p *Processor) finishComputerMove(gameID string, moveCount int, pos board.Position, result MoveSelection) {
	current, err := p.svc.GetGame(gameID)
	if err != nil {
		return // Game was deleted
	}
	if current.State() != core.StatePending {
		return
	}

	if result.Error != nil {
		log.Printf("Computer move failed for game %s: %v", gameID, result.Error)
		p.svc.UpdateGameState(gameID, core.StateStuck)
		return
	}

	if !result.Found {
		// Terminal positions are normally caught after the previous move
		p.svc.UpdateGameState(gameID, core.StateOngoing)
		p.checkGameEnd(gameID, pos)
		return
	}

	err = p.commitMove(gameID, moveCount, pos, result.Move)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrStaleMove):
		log.Printf("Computer move %s dropped for game %s: %v", result.Move, gameID, err)
		p.svc.UpdateGameState(gameID, core.StateOngoing)
	case errors.Is(err, service.ErrGameNotFound):
	default:
		log.Printf("Computer move %s rejected for game %s: %v", result.Move, gameID, err)
		p.svc.UpdateGameState(gameID, core.StateStuck)
	}
}

// stateFor maps the classification of the position after mover's move onto
// the game lifecycle
func stateFor(outcome core.Outcome, mover core.Color) core.State {
	switch outcome {
	case core.OutcomeCheckmate:
		if mover == core.ColorWhite {
			return core.StateWhiteWins
		}
		return core.StateBlackWins
	case core.OutcomeStalemate:
		return core.StateStalemate
	default:
		return core.StateOngoing
	}
}

// checkGameEnd records a checkmate or stalemate for the side to move in pos
func (p *Processor) checkGameEnd(gameID string, pos board.Position) {
	outcome := engine.Classify(&pos.Board, pos.Turn, pos.Rights)
	if state := stateFor(outcome, core.OppositeColor(pos.Turn)); state != core.StateOngoing {
		p.svc.UpdateGameState(gameID, state)
	}
}

// buildGameResponse constructs standard game response
func (p *Processor) buildGameResponse(gameID string, g *game.Game) core.GameResponse {
	pos := g.CurrentPosition()
	outcome := engine.Classify(&pos.Board, pos.Turn, pos.Rights)

	resp := core.GameResponse{
		GameID:     gameID,
		FEN:        g.CurrentFEN(),
		InitialFEN: g.InitialFEN(),
		Turn:       pos.Turn.String(),
		State:      g.State().String(),
		Outcome:    outcome.String(),
		InCheck:    outcome == core.OutcomeCheck || outcome == core.OutcomeCheckmate,
		Moves:      g.Moves(),
		Castling:   pos.Rights,
		Players: core.PlayersResponse{
			White: g.GetPlayer(core.ColorWhite),
			Black: g.GetPlayer(core.ColorBlack),
		},
	}

	if result := g.LastResult(); result != nil {
		resp.LastMove = &core.MoveInfo{
			Move:        result.Move,
			Kind:        result.Kind.String(),
			PlayerColor: result.PlayerColor.String(),
		}
	}

	return resp
}

func (p *Processor) errorResponse(message, code string) ProcessorResponse {
	return p.errorResponseDetails(message, code, "")
}

func (p *Processor) errorResponseDetails(message, code, details string) ProcessorResponse {
	return ProcessorResponse{
		Success: false,
		Error: &core.ErrorResponse{
			Error:   message,
			Code:    code,
			Details: details,
		},
	}
}

// Close stops the worker pool
func (p *Processor) Close() error {
	return p.queue.Shutdown(5 * time.Second)
}
