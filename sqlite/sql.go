package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/linkedlist-snake/structs"
)

// MemoryDSN keeps the round log for the lifetime of the process only.
const MemoryDSN = "file:rounds?mode=memory&cache=shared"

const createRoundsTableSQL = `
CREATE TABLE IF NOT EXISTS Rounds (
    ID TEXT PRIMARY KEY,
    Score INTEGER,
    Length INTEGER,
    Level INTEGER,
    Cause TEXT,
    StartedAt TIMESTAMP,
    EndedAt TIMESTAMP
);
`

const createRoundsIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_round_score ON Rounds (Score DESC);
`

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("executing %q: %w", sqlStatement, err)
	}
	return nil
}

// Open opens the round log and creates its tables.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// 内存库在最后一个连接关闭时消失，固定为单连接
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(0)

	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func InitializeDatabase(db *sql.DB) error {
	if err := executeSQL(db, createRoundsTableSQL); err != nil {
		return err
	}
	return executeSQL(db, createRoundsIndexSQL)
}

// InsertRound records a finished round.
func InsertRound(db *sql.DB, round structs.Round) error {
	// 开启事务
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO Rounds (ID, Score, Length, Level, Cause, StartedAt, EndedAt) VALUES (?, ?, ?, ?, ?, ?, ?)",
		round.ID, round.Score, round.Length, round.Level, round.Cause, round.StartedAt.UTC(), round.EndedAt.UTC())
	if err != nil {
		tx.Rollback()
		return err
	}

	// 提交事务
	return tx.Commit()
}

// TopRounds returns up to limit rounds, highest score first, most recent
// first among equal scores.
func TopRounds(db *sql.DB, limit int) ([]structs.Round, error) {
	rows, err := db.Query("SELECT ID, Score, Length, Level, Cause, StartedAt, EndedAt FROM Rounds ORDER BY Score DESC, EndedAt DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := []structs.Round{}
	for rows.Next() {
		var r structs.Round
		if err := rows.Scan(&r.ID, &r.Score, &r.Length, &r.Level, &r.Cause, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// RoundRecorder adapts InsertRound to the session round hook.
func RoundRecorder(db *sql.DB) func(structs.Round) {
	return func(round structs.Round) {
		if err := InsertRound(db, round); err != nil {
			log.Error().Err(err).Str("round", round.ID).Msg("failed to record round")
		}
	}
}
