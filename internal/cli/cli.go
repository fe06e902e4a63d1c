package cli

import (
	"fmt"
	"io"
	"strings"

	"chessrules/internal/board"
	"chessrules/internal/core"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdResume
	CmdJoin
	CmdMove
	CmdMoves
	CmdUndo
	CmdColor
	CmdVerbose
	CmdHistory
	CmdPlayers
	CmdBoard
	CmdSVG
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// LineReader is the line editor the CLI reads from. *readline.Instance
// satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

type themeColors struct {
	lightBg string
	darkBg  string
	markBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		markBg:  "\033[48;5;185m", // Yellow
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m",
		darkBg:  "\033[48;5;22m",
		markBg:  "\033[48;5;185m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m",
		darkBg:  "\033[48;5;240m",
		markBg:  "\033[48;5;185m",
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

func New(input LineReader, output io.Writer) *CLI {
	return &CLI{
		input:  input,
		output: output,
		theme:  ThemeOff,
	}
}

// GetCommand shows prompt and reads one command. End of input reads as quit.
func (c *CLI) GetCommand(prompt string) (*Command, error) {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	if err == io.EOF {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(line)
	if input == "" {
		return &Command{Type: CmdNone}, nil
	}

	return c.parseCommand(input), nil
}

func (c *CLI) parseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "new":
		return &Command{Type: CmdNew, Args: args}
	case "resume":
		return &Command{Type: CmdResume, Args: args, Raw: input}
	case "join":
		return &Command{Type: CmdJoin, Args: args}
	case "moves":
		return &Command{Type: CmdMoves, Args: args}
	case "undo":
		return &Command{Type: CmdUndo, Args: args}
	case "color":
		return &Command{Type: CmdColor, Args: args}
	case "verbose":
		return &Command{Type: CmdVerbose}
	case "history":
		return &Command{Type: CmdHistory}
	case "players":
		return &Command{Type: CmdPlayers}
	case "board":
		return &Command{Type: CmdBoard}
	case "svg":
		return &Command{Type: CmdSVG, Args: args}
	case "help", "?":
		return &Command{Type: CmdHelp}
	case "quit", "exit":
		return &Command{Type: CmdQuit}
	default:
		// Anything else is taken as a move
		return &Command{Type: CmdMove, Args: []string{cmd}}
	}
}

// ReadLine prompts for a single answer
func (c *CLI) ReadLine(prompt string) string {
	c.input.SetPrompt(prompt)
	line, err := c.input.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("invalid theme: %s (use: off, brown, green, gray)", theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

func (c *CLI) ShowError(err error) {
	c.ShowMessage(fmt.Sprintf("Error: %v", err))
}

// DisplayBoard prints b with rank 8 on top. Marked squares are the legal
// destinations of a selected piece.
func (c *CLI) DisplayBoard(b *board.Board, marked ...core.Square) {
	theme := themes[c.theme]
	marks := make(map[core.Square]bool, len(marked))
	for _, sq := range marked {
		marks[sq] = true
	}

	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")

	for r := 0; r < 8; r++ {
		fmt.Fprintf(&sb, "%d ", 8-r)
		for f := 0; f < 8; f++ {
			sq := core.Square{Rank: r, File: f}
			piece := b.PieceAt(sq)

			if c.theme == ThemeOff {
				sb.WriteString(plainCell(piece, marks[sq]))
				continue
			}

			bg := theme.darkBg
			if (r+f)%2 == 0 {
				bg = theme.lightBg
			}
			if marks[sq] {
				bg = theme.markBg
			}

			if piece.IsEmpty() {
				fmt.Fprintf(&sb, "%s  %s", bg, theme.reset)
			} else {
				fg := theme.black
				if piece.Color == core.ColorWhite {
					fg = theme.white
				}
				fmt.Fprintf(&sb, "%s%s%c %s", bg, fg, piece.Letter(), theme.reset)
			}
		}
		fmt.Fprintf(&sb, " %d\n", 8-r)
	}
	sb.WriteString("  a b c d e f g h\n")

	c.ShowMessage(sb.String())
}

func plainCell(p core.Piece, marked bool) string {
	switch {
	case p.IsEmpty() && marked:
		return "* "
	case p.IsEmpty():
		return ". "
	case marked:
		return string(p.Letter()) + "*"
	default:
		return string(p.Letter()) + " "
	}
}

func (c *CLI) ShowHelp() {
	help := `Commands:
  new              - Start a new game with player type selection
  resume <FEN>     - Resume from a specific board position
  join <game id>   - Continue an existing game
  <move>           - Make a move (e.g., e2e4, g1f3, e1g1 to castle)
  moves [square]   - Show legal moves, for one piece or the side to move
  undo [count]     - Undo last move(s), default 1
  color <theme>    - Set board color theme (off|brown|green|gray)
  verbose          - Toggle detailed move information
  history          - Show game move history and positions
  players          - Reassign human/computer players
  board            - Print the board as the server renders it
  svg <file> [sq]  - Save the board as SVG, optionally marking a piece's moves
  quit/exit        - Exit the program
  help/?           - Show this help message

During any game:
  Press ENTER      - Execute computer move (when it's computer's turn)`

	c.ShowMessage(help)
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Welcome to Chess!")
	c.ShowMessage("Commands: new, resume <FEN>, <move>, moves, undo, quit/exit, verbose, history, help/?")
	c.ShowMessage("Example: 'resume 4k3/8/8/8/8/8/8/4K2R w K - 0 1' to start from a puzzle.")
	c.ShowMessage("Press ENTER to execute computer moves when it's computer's turn.")
	c.ShowMessage("")
}

func (c *CLI) ShowGameHistory(g core.GameResponse) {
	for i := 0; i < len(g.Moves); i += 2 {
		moveNum := i/2 + 1
		if i+1 < len(g.Moves) {
			c.ShowMessage(fmt.Sprintf("%d. %s | %s", moveNum, g.Moves[i], g.Moves[i+1]))
		} else {
			c.ShowMessage(fmt.Sprintf("%d. %s | ...", moveNum, g.Moves[i]))
		}
	}
	if g.InitialFEN != "" && g.InitialFEN != board.StartingFEN {
		c.ShowMessage(fmt.Sprintf("Start FEN: %s", g.InitialFEN))
	}
	c.ShowMessage(fmt.Sprintf("Current FEN: %s", g.FEN))
	c.ShowMessage(fmt.Sprintf("Game state: %s", g.State))
	if c.verbose {
		w, b := g.Castling.White, g.Castling.Black
		c.ShowMessage(fmt.Sprintf("Castling: white O-O %t O-O-O %t, black O-O %t O-O-O %t",
			w.CanCastleKingside(), w.CanCastleQueenside(), b.CanCastleKingside(), b.CanCastleQueenside()))
	}
}

func (c *CLI) ShowMove(info *core.MoveInfo, computer bool) {
	if info == nil || info.Move == "" {
		return
	}
	who := "Your move"
	if computer {
		who = fmt.Sprintf("Computer (%s)", info.PlayerColor)
	} else if !c.verbose {
		return
	}
	if c.verbose && info.Kind != "" {
		c.ShowMessage(fmt.Sprintf("%s: %s (%s)", who, info.Move, info.Kind))
		return
	}
	c.ShowMessage(fmt.Sprintf("%s: %s", who, info.Move))
}

// ShowStatus prints the turn banner or the check warning
func (c *CLI) ShowStatus(g core.GameResponse) {
	turn := "White"
	if g.Turn == core.ColorBlack.String() {
		turn = "Black"
	}
	if g.InCheck && g.Outcome != core.OutcomeCheckmate.String() {
		c.ShowMessage(fmt.Sprintf("%s to move - check!", turn))
		return
	}
	if c.verbose {
		c.ShowMessage(fmt.Sprintf("%s to move", turn))
	}
}

func (c *CLI) ShowGameOver(state string) {
	c.ShowMessage(fmt.Sprintf("\nGame Over: %s\n", state))
	c.ShowMessage("Start a new game with 'new' or 'resume'.")
}
