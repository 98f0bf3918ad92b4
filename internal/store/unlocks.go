package store

import (
	"fmt"
	"time"
)

// RecordBonusUnlock stores the first time visitorID revealed every bonus.
// It reports whether this call created the record.
func (s *Store) RecordBonusUnlock(visitorID string, at time.Time) (bool, error) {
	result, err := s.DB.Exec(
		`INSERT OR IGNORE INTO bonus_unlocks (visitor_id, unlocked_at) VALUES (?, ?)`,
		visitorID, at.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to record bonus unlock: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

// CountBonusUnlocks returns how many visitors revealed every bonus
func (s *Store) CountBonusUnlocks() (int, error) {
	var n int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM bonus_unlocks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count bonus unlocks: %w", err)
	}
	return n, nil
}
