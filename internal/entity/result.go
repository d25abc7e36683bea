package entity

import "time"

// Result is a finished game as recorded in the results ledger.
type Result struct {
	SessionID  string    `db:"session_id" json:"session_id"`
	Round      uint64    `db:"round" json:"round"`
	Mode       Mode      `db:"mode" json:"mode"`
	Winner     Mark      `db:"winner" json:"winner,omitempty"`
	Board      string    `db:"board" json:"board"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
}

type Stats struct {
	XWins int `db:"x_wins" json:"x_wins"`
	OWins int `db:"o_wins" json:"o_wins"`
	Ties  int `db:"ties" json:"ties"`
	Total int `db:"total" json:"total"`
}

// NewResult builds a ledger entry from a finished snapshot. Round numbers the games played
// within one session.
func NewResult(sessionID string, round uint64, snapshot Snapshot, finishedAt time.Time) *Result {
	return &Result{
		SessionID:  sessionID,
		Round:      round,
		Mode:       snapshot.Mode,
		Winner:     snapshot.Winner,
		Board:      snapshot.Board.String(),
		FinishedAt: finishedAt,
	}
}
