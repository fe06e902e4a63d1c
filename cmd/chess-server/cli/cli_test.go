package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chessrules/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(args, strings.NewReader(""), &out)
	return out.String(), err
}

func seed(t *testing.T, path string) {
	t.Helper()
	store, err := storage.NewStore(path, false)
	require.NoError(t, err)

	store.RecordNewGame(storage.GameRecord{
		GameID:        "game-0001-abcdef",
		InitialFEN:    "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		WhitePlayerID: "white-player-id",
		WhiteType:     1,
		BlackPlayerID: "black-player-id",
		BlackType:     2,
		StartTimeUTC:  time.Now().UTC(),
	})
	store.RecordMove(storage.MoveRecord{
		GameID:       "game-0001-abcdef",
		MoveNumber:   1,
		MoveUCI:      "e2e4",
		MoveKind:     "normal",
		FENAfterMove: "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
		PlayerColor:  "w",
		MoveTimeUTC:  time.Now().UTC(),
	})
	require.NoError(t, store.Close())
}

func TestSubcommandErrors(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "user", "add")
	assert.ErrorContains(t, err, "unknown subcommand")

	_, err = execute(t, "init")
	assert.ErrorContains(t, err, "database path required")
}

func TestInitQueryMoves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")

	out, err := execute(t, "init", "-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized at: "+path)

	out, err = execute(t, "query", "-path", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No games found")

	seed(t, path)

	out, err = execute(t, "query", "-path", path, "-playerId", "black-player-id")
	require.NoError(t, err)
	assert.Contains(t, out, "game-0001-abcdef")
	assert.Contains(t, out, "white-pl (T1)")
	assert.Contains(t, out, "Found 1 game(s)")

	out, err = execute(t, "moves", "-path", path, "-gameId", "game-0001-abcdef")
	require.NoError(t, err)
	assert.Contains(t, out, "e2e4")
	assert.Contains(t, out, "normal")

	_, err = execute(t, "moves", "-path", path)
	assert.ErrorContains(t, err, "game ID required")
}

func TestDeleteRequiresForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	_, err := execute(t, "init", "-path", path)
	require.NoError(t, err)

	_, err = execute(t, "delete", "-path", path)
	assert.ErrorContains(t, err, "without -force")
	assert.FileExists(t, path)

	out, err := execute(t, "delete", "-path", path, "-force")
	require.NoError(t, err)
	assert.Contains(t, out, "Database deleted")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
