package trace

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Record is one row of a run's trace, wake or event.
type Record struct {
	Seq       int64  `json:"seq"`
	Kind      string `json:"kind"` // "wake" or "event"
	EventName string `json:"event_name,omitempty"`
	TagNS     int64  `json:"tag_ns"`
	Microstep uint32 `json:"microstep,omitempty"` // events only
	Status    string `json:"status,omitempty"`    // wakes only: "completed" or "interrupted"
	ActualNS  int64  `json:"actual_ns,omitempty"` // wakes only
}

// ListRuns returns all run tokens, oldest first. UUIDv7 tokens sort by
// creation time, so lexical order is chronological order.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id FROM runs ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run's records in sequence order.
func (s *Store) ReadRun(ctx context.Context, runID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, event_name, tag_ns, microstep, status, actual_ns
		FROM records
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec    Record
			name   sql.NullString
			status sql.NullString
			actual sql.NullInt64
		)
		if err := rows.Scan(&rec.Seq, &rec.Kind, &name, &rec.TagNS, &rec.Microstep, &status, &actual); err != nil {
			return nil, fmt.Errorf("read run %s: %w", runID, err)
		}
		rec.EventName = name.String
		rec.Status = status.String
		rec.ActualNS = actual.Int64
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read run %s: %w", runID, err)
	}
	return records, nil
}

// FormatRecords renders records as stable key=value lines, one per record.
// The output is deterministic for identical input and is what the trace
// CLI prints and the golden tests compare against.
func FormatRecords(records []Record) string {
	var b strings.Builder
	for _, rec := range records {
		switch rec.Kind {
		case "wake":
			fmt.Fprintf(&b, "seq=%d kind=wake tag_ns=%d status=%s actual_ns=%d\n",
				rec.Seq, rec.TagNS, rec.Status, rec.ActualNS)
		default:
			fmt.Fprintf(&b, "seq=%d kind=event name=%s tag_ns=%d microstep=%d\n",
				rec.Seq, rec.EventName, rec.TagNS, rec.Microstep)
		}
	}
	return b.String()
}
