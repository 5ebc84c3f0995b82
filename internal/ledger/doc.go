// Package ledger provides SQLite-backed storage for simulated days.
//
// The ledger is an append-only log with one row per item per day:
//   - Day 0 holds the stock as it was added, before any tick
//   - Day N holds the stock after the Nth tick
//
// The warehouse itself stays in memory; the ledger only records what it
// held at the end of each day so runs can be inspected afterwards.
//
// # Ordering
//
// All queries include ORDER BY day ASC, position ASC, where position is the
// item's index in the warehouse on that day. Results are therefore
// identical across re-reads.
//
// # Idempotency
//
// UNIQUE(day, item_id) with ON CONFLICT DO NOTHING: recording the same day
// twice leaves the first write untouched.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Open(":memory:") gives a private, throwaway ledger; the harness uses one
// per scenario.
package ledger
