package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/todomon/internal/tasks"
)

// sqlUserRepo stores saves in the users and tasks tables.
type sqlUserRepo struct {
	drv *entsql.Driver
}

func (r *sqlUserRepo) Save(ctx context.Context, username string, save UserSave) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := save.Validate(); err != nil {
		return fmt.Errorf("refusing to save %s: %w", username, err)
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return &IOError{Op: "begin", Path: username, Err: err}
	}
	if err := writeUser(ctx, tx, username, save); err != nil {
		tx.Rollback()
		return &IOError{Op: "save", Path: username, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &IOError{Op: "commit", Path: username, Err: err}
	}
	return nil
}

func writeUser(ctx context.Context, tx dialect.Tx, username string, save UserSave) error {
	b := entsql.Dialect(dialect.SQLite)

	q, args := b.Insert("users").
		Columns("username", "xp", "level", "current_pokemon_id", "updated_at").
		Values(username, save.XP, save.Level, save.CurrentPokemonID, time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("username"), entsql.ResolveWithNewValues()).
		Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	q, args = b.Delete("tasks").Where(entsql.EQ("username", username)).Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}

	if len(save.Tasks) == 0 {
		return nil
	}
	ins := b.Insert("tasks").Columns("username", "position", "name", "completed", "recurring", "due_date")
	for i, t := range save.Tasks {
		var due any
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		ins.Values(username, i, t.Name, t.Completed, t.Recurring, due)
	}
	q, args = ins.Query()
	if err := tx.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("insert tasks: %w", err)
	}
	return nil
}

func (r *sqlUserRepo) Load(ctx context.Context, username string) (*UserSave, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	b := entsql.Dialect(dialect.SQLite)

	q, args := b.Select("xp", "level", "current_pokemon_id").
		From(entsql.Table("users")).
		Where(entsql.EQ("username", username)).
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, &IOError{Op: "query", Path: username, Err: err}
	}
	var save UserSave
	found := false
	for rows.Next() {
		if err := rows.Scan(&save.XP, &save.Level, &save.CurrentPokemonID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("load %s: %w: %v", username, ErrCorrupt, err)
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, &IOError{Op: "query", Path: username, Err: err}
	}
	rows.Close()
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, username)
	}

	list, err := r.loadTasks(ctx, username)
	if err != nil {
		return nil, err
	}
	save.Tasks = list
	if err := save.Validate(); err != nil {
		return nil, fmt.Errorf("load %s: %w: %v", username, ErrCorrupt, err)
	}
	return &save, nil
}

func (r *sqlUserRepo) loadTasks(ctx context.Context, username string) ([]tasks.Task, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select("name", "completed", "recurring", "due_date").
		From(entsql.Table("tasks")).
		Where(entsql.EQ("username", username)).
		OrderBy("position").
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, &IOError{Op: "query tasks", Path: username, Err: err}
	}
	defer rows.Close()

	out := []tasks.Task{}
	for rows.Next() {
		var (
			t   tasks.Task
			due sql.NullString
		)
		if err := rows.Scan(&t.Name, &t.Completed, &t.Recurring, &due); err != nil {
			return nil, fmt.Errorf("load %s: %w: %v", username, ErrCorrupt, err)
		}
		if due.Valid {
			d, err := tasks.ParseDate(due.String)
			if err != nil {
				return nil, fmt.Errorf("load %s: %w: %v", username, ErrCorrupt, err)
			}
			t.DueDate = &d
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "query tasks", Path: username, Err: err}
	}
	return out, nil
}
