package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame queues the insert of a new game
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (
			game_id, initial_fen,
			white_player_id, white_type, white_level,
			black_player_id, black_type, black_level,
			start_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.InitialFEN,
			record.WhitePlayerID, record.WhiteType, record.WhiteLevel,
			record.BlackPlayerID, record.BlackType, record.BlackLevel,
			record.StartTimeUTC,
		)
		return err
	})
}

// RecordMove queues the insert of a committed move
func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move record", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO moves (
			game_id, move_number, move_uci, move_kind, fen_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.GameID, record.MoveNumber, record.MoveUCI, record.MoveKind,
			record.FENAfterMove, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// RecordGameEnd queues the final state of a finished game
func (s *Store) RecordGameEnd(gameID, state string) {
	s.enqueue("game end", func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE games SET final_state = ? WHERE game_id = ?`, state, gameID)
		return err
	})
}

// DeleteUndoneMoves queues removal of moves taken back by an undo. Undo also
// reopens the game, so the final state is cleared.
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo", func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber); err != nil {
			return err
		}
		_, err := tx.Exec(`UPDATE games SET final_state = '' WHERE game_id = ?`, gameID)
		return err
	})
}

// QueryGames retrieves games, optionally filtered by game or player id.
// An empty filter or "*" matches everything.
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT
		game_id, initial_fen,
		white_player_id, white_type, white_level,
		black_player_id, black_type, black_level,
		final_state, start_time_utc
	FROM games WHERE 1=1`

	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}

	if playerID != "" && playerID != "*" {
		query += " AND (white_player_id = ? OR black_player_id = ?)"
		args = append(args, playerID, playerID)
	}

	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(
			&g.GameID, &g.InitialFEN,
			&g.WhitePlayerID, &g.WhiteType, &g.WhiteLevel,
			&g.BlackPlayerID, &g.BlackType, &g.BlackLevel,
			&g.FinalState, &g.StartTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return games, nil
}

// QueryMoves returns the recorded moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT
		move_id, game_id, move_number, move_uci, move_kind,
		fen_after_move, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		if err := rows.Scan(
			&m.MoveID, &m.GameID, &m.MoveNumber, &m.MoveUCI, &m.MoveKind,
			&m.FENAfterMove, &m.PlayerColor, &m.MoveTimeUTC,
		); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return moves, nil
}
