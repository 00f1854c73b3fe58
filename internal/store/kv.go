package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const kvTable = "kv"

type kvRepo struct {
	drv dialect.Driver
}

func (r *kvRepo) Get(ctx context.Context, key string, dst any) (bool, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key))

	var raw string
	found, err := selectOne(ctx, r.drv, q, &raw)
	if err != nil {
		return false, fmt.Errorf("get %q: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

func (r *kvRepo) Put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	q := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, string(raw), time.Now().Unix()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues())
	if _, err := execQuery(ctx, r.drv, q); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	q := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.EQ("key", key))
	if _, err := execQuery(ctx, r.drv, q); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
