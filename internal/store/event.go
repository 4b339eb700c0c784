package store

import (
	"database/sql"
	"time"
)

// Event represents a single emitted intent, recorded for the event log.
type Event struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Intent     string    `json:"intent"`
	Gesture    string    `json:"gesture"`
	Confidence float64   `json:"confidence"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Z          float64   `json:"z"`
	Direction  string    `json:"direction,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EventRepository provides operations for the intent event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a single event into the log.
func (r *EventRepository) Create(e *Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, intent, gesture, confidence, x, y, z, direction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Intent, e.Gesture, e.Confidence, e.X, e.Y, e.Z, e.Direction, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	e.ID = id
	return nil
}

// CreateBatch inserts multiple events in a single transaction.
func (r *EventRepository) CreateBatch(events []Event) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO events (session_id, intent, gesture, confidence, x, y, z, direction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		if _, err := stmt.Exec(
			e.SessionID, e.Intent, e.Gesture, e.Confidence, e.X, e.Y, e.Z, e.Direction, e.CreatedAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListBySession retrieves all events for a given session in chronological order.
func (r *EventRepository) ListBySession(sessionID string) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, intent, gesture, confidence, x, y, z, direction, created_at
		 FROM events
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent retrieves the most recent events across all sessions,
// newest first, up to the given limit.
func (r *EventRepository) ListRecent(limit int) ([]Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, intent, gesture, confidence, x, y, z, direction, created_at
		 FROM events
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Sessions retrieves all known session IDs, most recent first.
func (r *EventRepository) Sessions() ([]string, error) {
	rows, err := r.db.Query(
		`SELECT session_id, MAX(id) AS last
		 FROM events
		 GROUP BY session_id
		 ORDER BY last DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var id string
		var last int64
		if err := rows.Scan(&id, &last); err != nil {
			return nil, err
		}
		sessions = append(sessions, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// DeleteBefore removes all events older than the given cutoff.
// It returns the number of events removed.
func (r *EventRepository) DeleteBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Intent, &e.Gesture, &e.Confidence,
			&e.X, &e.Y, &e.Z, &e.Direction, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
