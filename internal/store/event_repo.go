package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// eventRepo implements EventRepo on the events table. The autoincrement
// sequence column orders events within and across sessions.
type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) AppendEvent(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	q, args := entsql.Dialect(dialect.SQLite).
		Insert("events").
		Columns("id", "session_id", "username", "kind", "detail", "created_at").
		Values(ev.ID, ev.SessionID, ev.Username, string(ev.Kind), ev.Detail, ev.CreatedAt.UnixMilli()).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("append %s event: %w", ev.Kind, err)
	}
	return nil
}

func (r *eventRepo) RecentEvents(ctx context.Context, username string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 20
	}
	q, args := entsql.Dialect(dialect.SQLite).
		Select("sequence", "id", "session_id", "username", "kind", "detail", "created_at").
		From(entsql.Table("events")).
		Where(entsql.EQ("username", username)).
		OrderBy(entsql.Desc("sequence")).
		Limit(limit).
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev      Event
			kind    string
			created int64
		)
		if err := rows.Scan(&ev.Sequence, &ev.ID, &ev.SessionID, &ev.Username, &kind, &ev.Detail, &created); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = EventKind(kind)
		ev.CreatedAt = time.UnixMilli(created)
		events = append(events, ev)
	}
	return events, rows.Err()
}
