package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session represents a completed coaching session summary.
type Session struct {
	ID           string
	ExerciseID   string
	ExerciseName string
	Mode         string
	StartedAt    time.Time
	EndedAt      time.Time
	Reps         int
	Score        int
	Faults       int
}

// SessionRepository provides persistence for session summaries.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a completed session summary.
func (r *SessionRepository) Create(sess *Session) error {
	var exerciseID any
	if sess.ExerciseID != "" {
		exerciseID = sess.ExerciseID
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, exercise_id, exercise_name, mode, started_at, ended_at, reps, score, faults)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, exerciseID, sess.ExerciseName, sess.Mode, sess.StartedAt, sess.EndedAt, sess.Reps, sess.Score, sess.Faults,
	)
	return err
}

// GetByID retrieves a session summary by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var exerciseID sql.NullString

	err := r.db.QueryRow(
		`SELECT id, exercise_id, exercise_name, mode, started_at, ended_at, reps, score, faults
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &exerciseID, &sess.ExerciseName, &sess.Mode, &sess.StartedAt, &sess.EndedAt, &sess.Reps, &sess.Score, &sess.Faults)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess.ExerciseID = exerciseID.String
	return sess, nil
}

// List retrieves session summaries, most recent first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, exercise_id, exercise_name, mode, started_at, ended_at, reps, score, faults
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var exerciseID sql.NullString

		err := rows.Scan(&sess.ID, &exerciseID, &sess.ExerciseName, &sess.Mode, &sess.StartedAt, &sess.EndedAt, &sess.Reps, &sess.Score, &sess.Faults)
		if err != nil {
			return nil, err
		}

		sess.ExerciseID = exerciseID.String
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
