package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"chessrules/internal/board"
	"chessrules/internal/cli"
	"chessrules/internal/core"
	"chessrules/internal/processor"
	"chessrules/internal/transport"
)

// computerMoveTimeout bounds how long the terminal waits for a computer move
const computerMoveTimeout = 10 * time.Second

type CLIHandler struct {
	backend transport.Backend
	view    *cli.CLI
	gameID  string
}

var _ transport.View = (*cli.CLI)(nil)

func New(backend transport.Backend, view *cli.CLI) *CLIHandler {
	return &CLIHandler{
		backend: backend,
		view:    view,
	}
}

// Run is the main loop; it returns on quit or end of input
func (h *CLIHandler) Run() {
	for {
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			break
		}

		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// current fetches the active game, nil when there is none
func (h *CLIHandler) current() *core.GameResponse {
	if h.gameID == "" {
		return nil
	}
	g, err := h.backend.GetGame(h.gameID)
	if err != nil {
		return nil
	}
	return g
}

func nextPlayer(g *core.GameResponse) *core.Player {
	if g.Turn == core.ColorBlack.String() {
		return g.Players.Black
	}
	return g.Players.White
}

func computerToMove(g *core.GameResponse) bool {
	p := nextPlayer(g)
	return g.State == core.StateOngoing.String() && p != nil && p.Type == core.PlayerComputer
}

func (h *CLIHandler) getPrompt() string {
	prompt := "> "
	if g := h.current(); g != nil && g.State == core.StateOngoing.String() {
		prompt = fmt.Sprintf("[%s]> ", g.Turn)
		if computerToMove(g) {
			prompt = "ENTER to execute computer move\n" + prompt
		}
	}
	return prompt
}

// ProcessCommand handles one command and returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdQuit:
		return false

	case cli.CmdNone:
		// Empty line plays the computer's move when it is its turn
		if g := h.current(); g != nil && computerToMove(g) {
			h.executeComputerMove()
		}

	case cli.CmdNew:
		h.handleNewGame("")

	case cli.CmdResume:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: resume <FEN string>")
			return true
		}
		h.handleNewGame(strings.Join(cmd.Args, " "))

	case cli.CmdJoin:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: join <game id>")
			return true
		}
		h.handleJoin(cmd.Args[0])

	case cli.CmdMove:
		h.handleMove(cmd.Args[0])

	case cli.CmdMoves:
		h.handleLegalMoves(cmd.Args)

	case cli.CmdUndo:
		h.handleUndo(cmd.Args)

	case cli.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", theme))
		if g := h.current(); g != nil {
			h.showBoard(g.FEN)
		}

	case cli.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case cli.CmdHistory:
		g := h.current()
		if g == nil {
			h.view.ShowMessage("No active game.")
			return true
		}
		if h.view.IsVerbose() {
			h.view.ShowMessage(fmt.Sprintf("Game ID: %s", g.GameID))
		}
		h.view.ShowGameHistory(*g)

	case cli.CmdPlayers:
		h.handlePlayers()

	case cli.CmdBoard:
		h.handleBoard()

	case cli.CmdSVG:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: svg <file> [square]")
			return true
		}
		h.handleSVG(cmd.Args)

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handleMove(move string) {
	g := h.current()
	if g == nil {
		h.view.ShowMessage("No active game. Use 'new' or 'resume <FEN>'.")
		return
	}
	if p := nextPlayer(g); p != nil && p.Type != core.PlayerHuman {
		h.view.ShowMessage("It's not a human player's turn. Press ENTER to execute computer move.")
		return
	}

	after, err := h.backend.MakeMove(h.gameID, move)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.afterMove(*after, false)
}

func (h *CLIHandler) handleLegalMoves(args []string) {
	if h.gameID == "" {
		h.view.ShowMessage("No active game.")
		return
	}

	from := ""
	if len(args) > 0 {
		from = args[0]
	}

	legal, err := h.backend.LegalMoves(h.gameID, from)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	if from != "" {
		var marks []core.Square
		for _, dest := range legal.Moves[legal.From] {
			if sq, err := core.ParseSquare(dest); err == nil {
				marks = append(marks, sq)
			}
		}
		h.showBoard(legal.FEN, marks...)
		if len(marks) == 0 {
			h.view.ShowMessage(fmt.Sprintf("No legal moves from %s", legal.From))
		}
		return
	}

	if legal.Count == 0 {
		h.view.ShowMessage("No legal moves")
		return
	}
	origins := make([]string, 0, len(legal.Moves))
	for origin := range legal.Moves {
		origins = append(origins, origin)
	}
	slices.Sort(origins)
	for _, origin := range origins {
		h.view.ShowMessage(fmt.Sprintf("%s: %s", origin, strings.Join(legal.Moves[origin], " ")))
	}
	h.view.ShowMessage(fmt.Sprintf("%d legal moves", legal.Count))
}

func (h *CLIHandler) handleUndo(args []string) {
	if h.gameID == "" {
		h.view.ShowMessage("No active game.")
		return
	}

	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
			return
		}
		count = n
	}

	g, err := h.backend.UndoMoves(h.gameID, count)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	if count == 1 {
		h.view.ShowMessage("Move undone")
	} else {
		h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
	}
	h.showBoard(g.FEN)
}

// executeComputerMove asks for a computer move and blocks until it lands
func (h *CLIHandler) executeComputerMove() {
	g, err := h.backend.MakeMove(h.gameID, processor.ComputerMove)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), computerMoveTimeout)
	defer cancel()

	for g.State == core.StatePending.String() {
		g, err = h.backend.WaitGame(ctx, h.gameID, len(g.Moves))
		if err != nil {
			var reqErr *core.RequestError
			if errors.As(err, &reqErr) && reqErr.Response.Code == core.ErrGameNotFound {
				h.view.ShowMessage("Game no longer exists.")
				h.gameID = ""
				return
			}
			h.view.ShowError(fmt.Errorf("waiting for computer move: %w", err))
			return
		}
		if ctx.Err() != nil && g.State == core.StatePending.String() {
			h.view.ShowError(fmt.Errorf("computer move timed out"))
			return
		}
	}

	// A move that lands before the request returns is reported without it
	if g.LastMove == nil || g.LastMove.Move == "" {
		if fresh := h.current(); fresh != nil {
			g = fresh
		}
	}

	if g.State == core.StateStuck.String() {
		h.view.ShowError(fmt.Errorf("computer failed to move"))
		h.gameID = ""
		return
	}
	h.afterMove(*g, true)
}

// afterMove shows the move, the board and any end-of-game banner
func (h *CLIHandler) afterMove(g core.GameResponse, computer bool) {
	h.view.ShowMove(g.LastMove, computer)
	h.showBoard(g.FEN)

	if g.State != core.StateOngoing.String() {
		h.view.ShowGameOver(g.State)
		h.gameID = ""
		return
	}
	h.view.ShowStatus(g)
}

func (h *CLIHandler) showBoard(fen string, marks ...core.Square) {
	pos, err := board.ParseFEN(fen)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.DisplayBoard(&pos.Board, marks...)
}

// askPlayer reads h, c, or c<level>; anything else is a human
func (h *CLIHandler) askPlayer(color string) core.PlayerConfig {
	input := strings.ToLower(h.view.ReadLine(fmt.Sprintf("Select %s player (h/c/c0/c1): ", color)))
	if !strings.HasPrefix(input, "c") {
		return core.PlayerConfig{Type: core.PlayerHuman}
	}

	level := core.LevelGreedy
	if strings.HasSuffix(input, "0") {
		level = core.LevelRandom
	}
	return core.PlayerConfig{Type: core.PlayerComputer, Level: level}
}

func (h *CLIHandler) handleNewGame(fen string) {
	white := h.askPlayer("White")
	black := h.askPlayer("Black")

	g, err := h.backend.CreateGame(core.CreateGameRequest{
		White: white,
		Black: black,
		FEN:   fen,
	})
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.gameID = g.GameID
	h.view.ShowMessage("Game started.")
	h.showGame(*g)
}

// handleJoin attaches to a game that already exists on the backend
func (h *CLIHandler) handleJoin(gameID string) {
	g, err := h.backend.GetGame(gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.gameID = g.GameID
	h.view.ShowMessage(fmt.Sprintf("Joined game %s after %d moves.", g.GameID, len(g.Moves)))
	h.showGame(*g)
}

// handlePlayers reassigns both seats of the current game
func (h *CLIHandler) handlePlayers() {
	if h.gameID == "" {
		h.view.ShowMessage("No active game.")
		return
	}

	g, err := h.backend.ConfigurePlayers(h.gameID, core.ConfigurePlayersRequest{
		White: h.askPlayer("White"),
		Black: h.askPlayer("Black"),
	})
	if err != nil {
		h.view.ShowError(err)
		return
	}

	h.view.ShowMessage(fmt.Sprintf("Players: white %s, black %s",
		describePlayer(g.Players.White), describePlayer(g.Players.Black)))
	h.view.ShowStatus(*g)
}

func describePlayer(p *core.Player) string {
	if p == nil {
		return "none"
	}
	if p.Type == core.PlayerComputer {
		return fmt.Sprintf("computer (level %d)", p.Level)
	}
	return "human"
}

// handleBoard prints the backend's own rendering of the board
func (h *CLIHandler) handleBoard() {
	if h.gameID == "" {
		h.view.ShowMessage("No active game.")
		return
	}

	b, err := h.backend.GetBoard(h.gameID)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	h.view.ShowMessage(b.Board)
	h.view.ShowMessage(b.FEN)
}

// handleSVG writes the rendered board to a file. The board is drawn from
// Black's side when only Black is human.
func (h *CLIHandler) handleSVG(args []string) {
	g := h.current()
	if g == nil {
		h.view.ShowMessage("No active game.")
		return
	}

	opts := core.BoardSVGOptions{}
	if len(args) > 1 {
		opts.Mark = strings.ToLower(args[1])
	}
	white, black := g.Players.White, g.Players.Black
	if white != nil && black != nil && white.Type == core.PlayerComputer && black.Type == core.PlayerHuman {
		opts.Perspective = core.ColorBlack.String()
	}

	data, err := h.backend.BoardSVG(h.gameID, opts)
	if err != nil {
		h.view.ShowError(err)
		return
	}
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		h.view.ShowError(fmt.Errorf("writing %s: %w", args[0], err))
		return
	}
	h.view.ShowMessage(fmt.Sprintf("Board saved to %s", args[0]))
}

func (h *CLIHandler) showGame(g core.GameResponse) {
	h.showBoard(g.FEN)

	switch g.State {
	case core.StateOngoing.String(), core.StatePending.String():
		h.view.ShowStatus(g)
	default:
		h.view.ShowGameOver(g.State)
		h.gameID = ""
	}
}
