package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const llmEventsTable = "llm_request_events"

var llmEventColumns = []string{
	"id", "timestamp", "provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

// eventRepo implements EventRepo on the llm_request_events table.
type eventRepo struct {
	drv dialect.Driver
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	q := entsql.Dialect(dialect.SQLite).
		Insert(llmEventsTable).
		Columns(llmEventColumns[1:]...).
		Values(time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody)
	if _, err := execQuery(ctx, r.drv, q); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select(llmEventColumns...).
		From(entsql.Table(llmEventsTable)).
		OrderBy(entsql.Desc("id"))
	if opts.Purpose != "" {
		q.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Before > 0 {
		q.Where(entsql.LT("id", opts.Before))
	}
	if opts.Limit > 0 {
		q.Limit(opts.Limit)
	}

	rows, err := selectRows(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select(llmEventColumns...).
		From(entsql.Table(llmEventsTable)).
		Where(entsql.EQ("id", id))

	rows, err := selectRows(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanLLMEvent(rows)
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, "model")
}

// usage groups events by column, which must be "purpose" or "model".
func (r *eventRepo) usage(ctx context.Context, column string) ([]LLMUsage, error) {
	q := entsql.Dialect(dialect.SQLite).
		Select(
			column,
			entsql.Count("*"),
			"COALESCE(SUM(`input_tokens`), 0)",
			"COALESCE(SUM(`output_tokens`), 0)",
			"CAST(COALESCE(AVG(`latency_ms`), 0) AS INTEGER)",
			"COALESCE(SUM(CASE WHEN `success` THEN 0 ELSE 1 END), 0)",
		).
		From(entsql.Table(llmEventsTable)).
		GroupBy(column).
		OrderBy(entsql.Desc(entsql.Count("*")), column)

	rows, err := selectRows(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u   LLMUsage
			key string
		)
		if err := rows.Scan(&key, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs, &u.Failures); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		if column == "model" {
			u.Model = key
		} else {
			u.Purpose = key
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanLLMEvent(rows *entsql.Rows) (*LLMRequestEvent, error) {
	var (
		e  LLMRequestEvent
		ts int64
	)
	err := rows.Scan(&e.ID, &ts, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens,
		&e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	e.Timestamp = time.UnixMilli(ts)
	return &e, nil
}
