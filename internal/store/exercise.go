package store

import (
	"database/sql"
	"errors"
	"time"
)

// Exercise represents one prescribed exercise in the patient's program.
type Exercise struct {
	ID          string
	Name        string
	Category    string
	Description string
	Sets        int
	Reps        int
	HoldSeconds int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExerciseRepository provides CRUD operations for the exercise catalog.
type ExerciseRepository struct {
	db *sql.DB
}

// Exercises returns the exercise repository for this store.
func (s *Store) Exercises() *ExerciseRepository {
	return &ExerciseRepository{db: s.db}
}

// Create inserts a new exercise into the catalog.
func (r *ExerciseRepository) Create(e *Exercise) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO exercises (id, name, category, description, sets, reps, hold_seconds, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, e.Category, e.Description, e.Sets, e.Reps, e.HoldSeconds, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

// GetByID retrieves an exercise by its ID.
func (r *ExerciseRepository) GetByID(id string) (*Exercise, error) {
	e := &Exercise{}

	err := r.db.QueryRow(
		`SELECT id, name, category, description, sets, reps, hold_seconds, created_at, updated_at
		 FROM exercises WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.Sets, &e.Reps, &e.HoldSeconds, &e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// List retrieves the whole catalog ordered by name.
func (r *ExerciseRepository) List() ([]*Exercise, error) {
	rows, err := r.db.Query(
		`SELECT id, name, category, description, sets, reps, hold_seconds, created_at, updated_at
		 FROM exercises ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []*Exercise
	for rows.Next() {
		e := &Exercise{}
		err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.Description, &e.Sets, &e.Reps, &e.HoldSeconds, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// Update updates an existing exercise in the catalog.
func (r *ExerciseRepository) Update(e *Exercise) error {
	e.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE exercises SET name = ?, category = ?, description = ?, sets = ?, reps = ?, hold_seconds = ?, updated_at = ?
		 WHERE id = ?`,
		e.Name, e.Category, e.Description, e.Sets, e.Reps, e.HoldSeconds, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes an exercise from the catalog by its ID.
func (r *ExerciseRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
