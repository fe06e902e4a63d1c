package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chessrules/internal/cli"
	"chessrules/internal/processor"
	"chessrules/internal/service"
	"chessrules/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptReader struct {
	lines []string
}

func (s *scriptReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptReader) SetPrompt(string) {}

// runScript feeds lines to a fresh handler and returns everything it printed
func runScript(t *testing.T, lines ...string) (*CLIHandler, string) {
	t.Helper()

	svc, err := service.New(nil)
	require.NoError(t, err)
	proc, err := processor.New(svc, 1)
	require.NoError(t, err)
	t.Cleanup(func() { proc.Close() })

	var out bytes.Buffer
	view := cli.New(&scriptReader{lines: lines}, &out)
	h := New(transport.NewLocal(proc), view)
	h.Run()

	return h, out.String()
}

func TestHumanGameHistory(t *testing.T) {
	_, out := runScript(t, "new", "h", "h", "e2e4", "e7e5", "history", "quit")

	assert.Contains(t, out, "Game started.")
	assert.Contains(t, out, "1. e2e4 | e7e5")
	assert.Contains(t, out, "Game state: ongoing")
}

func TestFoolsMateEndsGame(t *testing.T) {
	h, out := runScript(t, "new", "h", "h", "f2f3", "e7e5", "g2g4", "d8h4")

	assert.Contains(t, out, "Game Over: black wins")
	assert.Empty(t, h.gameID)
}

func TestIllegalMoveReported(t *testing.T) {
	h, out := runScript(t, "new", "h", "h", "e2e5", "e1e2")

	assert.Contains(t, out, "Error: illegal move")
	assert.NotEmpty(t, h.gameID)
}

func TestMoveWithoutGame(t *testing.T) {
	_, out := runScript(t, "e2e4")
	assert.Contains(t, out, "No active game")
}

func TestResumeAndHighlight(t *testing.T) {
	_, out := runScript(t, "resume 4k3/8/8/8/8/8/8/4K2R w K - 0 1", "h", "h", "moves e1")

	lines := strings.Split(out, "\n")
	assert.Contains(t, lines, "1 . . . * K * * R  1")
	assert.Contains(t, lines, "2 . . . * * * . .  2")
}

func TestResumeRejectsBadFEN(t *testing.T) {
	h, out := runScript(t, "resume not a fen", "h", "h")

	assert.Contains(t, out, "Error: invalid FEN")
	assert.Empty(t, h.gameID)
}

func TestUndo(t *testing.T) {
	_, out := runScript(t, "new", "h", "h", "e2e4", "e7e5", "undo 2", "history")

	assert.Contains(t, out, "2 moves undone")
	assert.Contains(t, out, "Current FEN: rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
}

func TestComputerReplies(t *testing.T) {
	h, out := runScript(t, "new", "h", "c0", "e2e4", "", "history")

	assert.Contains(t, out, "Computer (b): ")
	require.NotEmpty(t, h.gameID)

	g := h.current()
	require.NotNil(t, g)
	assert.Len(t, g.Moves, 2)
	assert.Equal(t, "w", g.Turn)
}

func TestColorTheme(t *testing.T) {
	_, out := runScript(t, "color purple", "color gray")

	assert.Contains(t, out, "Error: invalid theme: purple")
	assert.Contains(t, out, "Color theme set to: gray")
}

func TestJoinExistingGame(t *testing.T) {
	h, _ := runScript(t, "new", "h", "h", "e2e4")
	id := h.gameID
	require.NotEmpty(t, id)

	var out bytes.Buffer
	view := cli.New(&scriptReader{lines: []string{"join " + id, "e7e5", "history"}}, &out)
	joined := New(h.backend, view)
	joined.Run()

	assert.Contains(t, out.String(), "Joined game "+id+" after 1 moves.")
	assert.Contains(t, out.String(), "1. e2e4 | e7e5")
}

func TestJoinUnknownGame(t *testing.T) {
	_, out := runScript(t, "join 00000000-0000-0000-0000-000000000000")
	assert.Contains(t, out, "Error: game not found")
}

func TestPlayersHandsBlackToComputer(t *testing.T) {
	h, out := runScript(t, "new", "h", "h", "players", "h", "c0", "e2e4", "")

	assert.Contains(t, out, "Players: white human, black computer (level 0)")
	assert.Contains(t, out, "Computer (b): ")
	g := h.current()
	require.NotNil(t, g)
	assert.Len(t, g.Moves, 2)
}

func TestPlayersWithoutGame(t *testing.T) {
	_, out := runScript(t, "players")
	assert.Contains(t, out, "No active game.")
}

func TestBoardPrintsBackendRendering(t *testing.T) {
	_, out := runScript(t, "new", "h", "h", "e2e4", "board")

	assert.Contains(t, out, "4 . . . . P . . .  4")
	assert.Contains(t, out, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
}

func TestSVGWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Board.svg")
	_, out := runScript(t, "new", "h", "h", "svg "+path+" E2", "svg "+path+"x z9")

	assert.Contains(t, out, "Board saved to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	assert.Contains(t, out, "Error: invalid square")
	_, err = os.Stat(path + "x")
	assert.True(t, os.IsNotExist(err))
}

func TestResumeHistoryShowsStart(t *testing.T) {
	start := "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1"
	_, out := runScript(t, "resume "+start, "h", "h", "e2e4", "history")

	assert.Contains(t, out, "Start FEN: "+start)
}
