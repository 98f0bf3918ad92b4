package store

import (
	"fmt"

	"manual-estoico-landing/internal/core"
)

// CreateClick appends a checkout click to the ledger
func (s *Store) CreateClick(click *core.Click) error {
	query := `
		INSERT INTO cta_clicks (id, visitor_id, cta, locale, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.DB.Exec(query, click.ID, click.VisitorID, click.CTA, click.Locale, click.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to create click: %w", err)
	}
	return nil
}

// GetClickCountsByCTA returns the number of clicks per CTA, busiest first
func (s *Store) GetClickCountsByCTA() ([]core.CTAStat, error) {
	query := `
		SELECT cta, COUNT(*) AS clicks
		FROM cta_clicks
		GROUP BY cta
		ORDER BY clicks DESC, cta ASC
	`

	rows, err := s.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query click counts: %w", err)
	}
	defer rows.Close()

	var stats []core.CTAStat
	for rows.Next() {
		var st core.CTAStat
		if err := rows.Scan(&st.CTA, &st.Clicks); err != nil {
			return nil, fmt.Errorf("failed to scan click count: %w", err)
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating click counts: %w", err)
	}

	return stats, nil
}

// GetRecentClicks returns the latest clicks, newest first
func (s *Store) GetRecentClicks(limit int) ([]*core.Click, error) {
	query := `
		SELECT id, visitor_id, cta, locale, created_at
		FROM cta_clicks
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent clicks: %w", err)
	}
	defer rows.Close()

	var clicks []*core.Click
	for rows.Next() {
		var c core.Click
		if err := rows.Scan(&c.ID, &c.VisitorID, &c.CTA, &c.Locale, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan click: %w", err)
		}
		clicks = append(clicks, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clicks: %w", err)
	}

	return clicks, nil
}
