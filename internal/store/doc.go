// Package store provides a SQLite-backed archive of decoded transmissions.
//
// Each row records the input, the canonical tree JSON and its hash, and the
// derived version sum and value.
//
// # Invariants
//
// Idempotency by tree:
//   - UNIQUE(tree_hash); archiving the same tree twice returns the first record
//   - Transmissions that differ only in padding or redundant literal groups
//     share a tree hash
//
// Logical ordering:
//   - seq is assigned at insert time and never reused
//   - All queries include ORDER BY seq ASC, id COLLATE BINARY ASC
//
// Evaluation outcome:
//   - Exactly one of value and eval_error is set
//   - value is decimal text because uint64 exceeds SQLite INTEGER
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
