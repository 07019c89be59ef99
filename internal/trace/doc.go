// Package trace provides durable storage for scheduler run traces.
//
// Each run writes one row per wake (a completed or interrupted wait) and
// one row per processed event, stamped with the run's token and a
// monotonic sequence number. SQLite keeps the format queryable after the
// fact: wake latency, interruption rates, and event ordering can all be
// inspected with plain SQL or through the trace CLI command.
//
// The store follows the runtime's single-writer model: one connection, WAL
// mode for concurrent readers.
package trace
