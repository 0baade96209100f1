package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is one entry of the action log: a camera action, a sensitivity
// change or a settings update.
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRepository records and lists events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts e, assigning an ID and timestamp when they are empty.
func (r *EventRepository) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, kind, message, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Kind, e.Message, e.CreatedAt,
	)
	return err
}

// List returns up to limit events, newest first. A limit of zero or less
// returns all of them.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, kind, message, created_at
		 FROM events ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Kind, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Clear deletes all events and returns how many there were.
func (r *EventRepository) Clear() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
