package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// Action represents an intent-to-plugin binding stored in the database.
type Action struct {
	ID         string
	IntentType string
	PluginName string
	ActionName string
	Config     json.RawMessage
	Enabled    bool
	CreatedAt  time.Time
}

// ActionRepository provides CRUD operations for action bindings.
type ActionRepository struct {
	db *sql.DB
}

// Actions returns the action repository for this store.
func (s *Store) Actions() *ActionRepository {
	return &ActionRepository{db: s.db}
}

const actionColumns = `id, intent_type, plugin_name, action_name, config, enabled, created_at`

// scanAction decodes one actions row. The scan argument is satisfied by
// both sql.Row.Scan and sql.Rows.Scan.
func scanAction(scan func(...any) error) (*Action, error) {
	a := &Action{}
	var config string
	var enabled int

	if err := scan(&a.ID, &a.IntentType, &a.PluginName, &a.ActionName,
		&config, &enabled, &a.CreatedAt); err != nil {
		return nil, err
	}

	a.Config = json.RawMessage(config)
	a.Enabled = enabled != 0
	return a, nil
}

// Create inserts a new action binding.
func (r *ActionRepository) Create(a *Action) error {
	a.CreatedAt = time.Now()

	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	_, err := r.db.Exec(
		`INSERT INTO actions (`+actionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.IntentType, a.PluginName, a.ActionName, string(config), boolToInt(a.Enabled), a.CreatedAt,
	)
	return err
}

// GetByID retrieves an action by its ID.
func (r *ActionRepository) GetByID(id string) (*Action, error) {
	row := r.db.QueryRow(`SELECT `+actionColumns+` FROM actions WHERE id = ?`, id)

	a, err := scanAction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// GetByIntentType retrieves the action bound to an intent type. An
// unbound intent returns nil, nil so dispatch can skip it quietly. The
// API layer keeps bindings one-per-intent; if a hand-edited database
// holds several, the newest wins.
func (r *ActionRepository) GetByIntentType(intentType string) (*Action, error) {
	row := r.db.QueryRow(`SELECT `+actionColumns+` FROM actions WHERE intent_type = ? ORDER BY created_at DESC LIMIT 1`, intentType)

	a, err := scanAction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// List retrieves all action bindings, newest first.
func (r *ActionRepository) List() ([]*Action, error) {
	rows, err := r.db.Query(`SELECT ` + actionColumns + ` FROM actions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*Action
	for rows.Next() {
		a, err := scanAction(rows.Scan)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// Update rewrites an existing action binding.
func (r *ActionRepository) Update(a *Action) error {
	config := a.Config
	if config == nil {
		config = json.RawMessage("{}")
	}

	result, err := r.db.Exec(
		`UPDATE actions SET intent_type = ?, plugin_name = ?, action_name = ?, config = ?, enabled = ?
		 WHERE id = ?`,
		a.IntentType, a.PluginName, a.ActionName, string(config), boolToInt(a.Enabled), a.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// Delete removes an action binding by its ID.
func (r *ActionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM actions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// requireRow turns a zero-row write into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
