package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/studybuddy/internal/api"
)

const (
	profilesTable = "profiles"
	sessionsTable = "study_sessions"
	plansTable    = "study_plans"
)

type profileRepo struct {
	drv dialect.Driver
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*api.UserProfile, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(profilesTable)).
		Where(entsql.EQ("user_id", userID))

	var p api.UserProfile
	found, err := selectJSON(ctx, r.drv, q, &p)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

func (r *profileRepo) Put(ctx context.Context, userID string, p api.UserProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	q := entsql.Dialect(dialect.SQLite).
		Insert(profilesTable).
		Columns("user_id", "data", "updated_at").
		Values(userID, string(raw), time.Now().Unix()).
		OnConflict(entsql.ConflictColumns("user_id"), entsql.ResolveWithNewValues())
	if _, err := execQuery(ctx, r.drv, q); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

type sessionRepo struct {
	drv dialect.Driver
}

func (r *sessionRepo) Save(ctx context.Context, s api.StudySession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	q := entsql.Dialect(dialect.SQLite).
		Insert(sessionsTable).
		Columns("id", "user_id", "started_at", "data").
		Values(s.ID, s.UserID, s.StartTime.UnixMilli(), string(raw)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWith(func(u *entsql.UpdateSet) {
			u.SetExcluded("data")
		}))
	if _, err := execQuery(ctx, r.drv, q); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*api.StudySession, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ("id", id))

	var s api.StudySession
	found, err := selectJSON(ctx, r.drv, q, &s)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &s, nil
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID string) ([]api.StudySession, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("started_at", "id")
	out, err := selectAllJSON[api.StudySession](ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return out, nil
}

type planRepo struct {
	drv dialect.Driver
}

func (r *planRepo) Save(ctx context.Context, p api.StudyPlan) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	q := entsql.Dialect(dialect.SQLite).
		Insert(plansTable).
		Columns("id", "user_id", "created_at", "data").
		Values(p.ID, p.UserID, p.CreatedAt.UnixMilli(), string(raw)).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWith(func(u *entsql.UpdateSet) {
			u.SetExcluded("data")
		}))
	if _, err := execQuery(ctx, r.drv, q); err != nil {
		return fmt.Errorf("save plan %s: %w", p.ID, err)
	}
	return nil
}

func (r *planRepo) ListByUser(ctx context.Context, userID string) ([]api.StudyPlan, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select("data").
		From(entsql.Table(plansTable)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("created_at", "id")
	out, err := selectAllJSON[api.StudyPlan](ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return out, nil
}

func (r *planRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	q := entsql.Dialect(dialect.SQLite).
		Delete(plansTable).
		Where(entsql.And(entsql.EQ("id", id), entsql.EQ("user_id", userID)))
	res, err := execQuery(ctx, r.drv, q)
	if err != nil {
		return false, fmt.Errorf("delete plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete plan %s: %w", id, err)
	}
	return n > 0, nil
}

// selectJSON decodes the single JSON column of the first row into dst.
func selectJSON(ctx context.Context, drv dialect.ExecQuerier, q querier, dst any) (bool, error) {
	var raw string
	found, err := selectOne(ctx, drv, q, &raw)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode row: %w", err)
	}
	return true, nil
}

// selectAllJSON decodes the single JSON column of every row.
func selectAllJSON[T any](ctx context.Context, drv dialect.ExecQuerier, q querier) ([]T, error) {
	rows, err := selectRows(ctx, drv, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
