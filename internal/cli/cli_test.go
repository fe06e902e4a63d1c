package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"chessrules/internal/board"
	"chessrules/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptReader struct {
	lines   []string
	prompts []string
}

func (s *scriptReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptReader) SetPrompt(prompt string) {
	s.prompts = append(s.prompts, prompt)
}

func TestParseCommand(t *testing.T) {
	c := New(&scriptReader{}, io.Discard)

	tests := []struct {
		input string
		want  CommandType
		args  []string
	}{
		{"new", CmdNew, []string{}},
		{"resume 8/8/8/8/8/8/8/8 w - - 0 1", CmdResume, []string{"8/8/8/8/8/8/8/8", "w", "-", "-", "0", "1"}},
		{"join 1f0e", CmdJoin, []string{"1f0e"}},
		{"moves e2", CmdMoves, []string{"e2"}},
		{"undo 2", CmdUndo, []string{"2"}},
		{"color brown", CmdColor, []string{"brown"}},
		{"verbose", CmdVerbose, nil},
		{"history", CmdHistory, nil},
		{"players", CmdPlayers, nil},
		{"board", CmdBoard, nil},
		{"svg Out.svg e2", CmdSVG, []string{"Out.svg", "e2"}},
		{"?", CmdHelp, nil},
		{"EXIT", CmdQuit, nil},
		{"E2E4", CmdMove, []string{"e2e4"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd := c.parseCommand(tt.input)
			assert.Equal(t, tt.want, cmd.Type)
			if tt.args != nil {
				assert.Equal(t, tt.args, cmd.Args)
			}
		})
	}
}

func TestGetCommand(t *testing.T) {
	in := &scriptReader{lines: []string{"  ", "e2e4"}}
	c := New(in, io.Discard)

	cmd, err := c.GetCommand("> ")
	require.NoError(t, err)
	assert.Equal(t, CmdNone, cmd.Type)

	cmd, err = c.GetCommand("[w]> ")
	require.NoError(t, err)
	assert.Equal(t, CmdMove, cmd.Type)
	assert.Equal(t, []string{"> ", "[w]> "}, in.prompts)

	// End of input quits
	cmd, err = c.GetCommand("> ")
	require.NoError(t, err)
	assert.Equal(t, CmdQuit, cmd.Type)
}

func TestDisplayBoardPlain(t *testing.T) {
	var out bytes.Buffer
	c := New(&scriptReader{}, &out)

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	require.NoError(t, err)

	c.DisplayBoard(&pos.Board, core.MustSquare("f1"), core.MustSquare("h1"), core.MustSquare("a3"))

	lines := strings.Split(out.String(), "\n")
	assert.Contains(t, lines, "8 . . . . k . . .  8")
	assert.Contains(t, lines, "3 * . . . . . . .  3")
	assert.Contains(t, lines, "1 . . . . K * . R* 1")
	assert.Contains(t, lines, "  a b c d e f g h")
}

func TestSetTheme(t *testing.T) {
	var out bytes.Buffer
	c := New(&scriptReader{}, &out)

	require.Error(t, c.SetTheme("purple"))
	require.NoError(t, c.SetTheme(ThemeGreen))

	c.DisplayBoard(&board.NewPosition().Board)
	assert.Contains(t, out.String(), "\033[48;5;157m")
}

func TestShowStatusCheck(t *testing.T) {
	var out bytes.Buffer
	c := New(&scriptReader{}, &out)

	c.ShowStatus(core.GameResponse{Turn: "b", InCheck: true, Outcome: core.OutcomeCheck.String()})
	assert.Contains(t, out.String(), "Black to move - check!")

	out.Reset()
	c.ShowStatus(core.GameResponse{Turn: "w"})
	assert.Empty(t, out.String())
}

func TestShowGameHistory(t *testing.T) {
	var out bytes.Buffer
	c := New(&scriptReader{}, &out)

	c.ShowGameHistory(core.GameResponse{
		Moves: []string{"e2e4", "e7e5", "g1f3"},
		FEN:   "fen",
		State: "ongoing",
	})

	assert.Contains(t, out.String(), "1. e2e4 | e7e5")
	assert.Contains(t, out.String(), "2. g1f3 | ...")
	assert.Contains(t, out.String(), "Game state: ongoing")
	assert.NotContains(t, out.String(), "Start FEN")

	out.Reset()
	c.ShowGameHistory(core.GameResponse{InitialFEN: "4k3/8/8/8/8/8/8/4K3 w - - 0 1", FEN: "fen"})
	assert.Contains(t, out.String(), "Start FEN: 4k3/8/8/8/8/8/8/4K3 w - - 0 1")
}
