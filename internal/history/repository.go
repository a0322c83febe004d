// Package history stores explicit snapshots of a weekly meal plan. Snapshots
// are only written on request and never loaded back into a live session.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"recipe-planner/internal/session"
	"recipe-planner/internal/week"
)

// DefaultOwner is used for snapshots saved without a signed-in user.
const DefaultOwner = "local"

// Entry is one weekday slot of a stored plan.
type Entry struct {
	Day    string `json:"day"`
	Recipe string `json:"recipe"`
}

// Snapshot represents a stored meal plan.
type Snapshot struct {
	ID        string
	Owner     string
	Label     string
	Entries   []Entry
	CreatedAt time.Time
}

// Recipe returns the recipe stored for day, or "".
func (s Snapshot) Recipe(day week.Day) string {
	for _, e := range s.Entries {
		if e.Day == day.String() {
			return e.Recipe
		}
	}
	return ""
}

// Repository is a database-backed repository for plan snapshots.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Save inserts a snapshot of the given assignments and returns it.
func (r *Repository) Save(ctx context.Context, owner, label string, assignments []session.Assignment) (*Snapshot, error) {
	if owner == "" {
		owner = DefaultOwner
	}

	entries := make([]Entry, 0, len(assignments))
	for _, a := range assignments {
		entries = append(entries, Entry{Day: a.Day.String(), Recipe: a.Recipe})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate snapshot id: %w", err)
	}

	snap := &Snapshot{
		ID:        id.String(),
		Owner:     owner,
		Label:     label,
		Entries:   entries,
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO plan_snapshots (id, owner, label, plan_data, created_at) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Owner, snap.Label, string(data), snap.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save plan snapshot: %w", err)
	}
	return snap, nil
}

// ListRecent retrieves the N most recent snapshots for a given owner.
func (r *Repository) ListRecent(ctx context.Context, owner string, limit int) ([]Snapshot, error) {
	if owner == "" {
		owner = DefaultOwner
	}
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner, label, plan_data, created_at
		   FROM plan_snapshots
		  WHERE owner = ?
		  ORDER BY created_at DESC, id DESC
		  LIMIT ?`,
		owner, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent plans for %s: %w", owner, err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var (
			s       Snapshot
			data    string
			created int64
		)
		if err := rows.Scan(&s.ID, &s.Owner, &s.Label, &data, &created); err != nil {
			return nil, fmt.Errorf("failed to scan plan snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &s.Entries); err != nil {
			return nil, fmt.Errorf("failed to decode plan snapshot %s: %w", s.ID, err)
		}
		s.CreatedAt = time.UnixMilli(created).UTC()
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plan snapshots: %w", err)
	}
	return snaps, nil
}
