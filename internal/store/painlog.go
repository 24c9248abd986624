package store

import (
	"database/sql"
	"fmt"
	"time"
)

// PainLog represents one pain check-in on the 0-10 visual analog scale.
type PainLog struct {
	ID        string
	Score     int
	Note      string
	CreatedAt time.Time
}

// PainLogRepository provides persistence for pain check-ins.
type PainLogRepository struct {
	db *sql.DB
}

// PainLogs returns the pain log repository for this store.
func (s *Store) PainLogs() *PainLogRepository {
	return &PainLogRepository{db: s.db}
}

// Create inserts a new pain check-in.
func (r *PainLogRepository) Create(p *PainLog) error {
	if p.Score < 0 || p.Score > 10 {
		return fmt.Errorf("pain score %d outside VAS range 0-10", p.Score)
	}

	p.CreatedAt = time.Now()
	_, err := r.db.Exec(
		`INSERT INTO pain_logs (id, score, note, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Score, p.Note, p.CreatedAt,
	)
	return err
}

// List retrieves pain check-ins, most recent first.
func (r *PainLogRepository) List() ([]*PainLog, error) {
	rows, err := r.db.Query(
		`SELECT id, score, note, created_at FROM pain_logs ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*PainLog
	for rows.Next() {
		p := &PainLog{}
		if err := rows.Scan(&p.ID, &p.Score, &p.Note, &p.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}
