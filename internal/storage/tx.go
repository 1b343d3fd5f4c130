package storage

import (
	"context"

	"github.com/uptrace/bun"

	"verfs/internal/util"
)

// TxFunc is one transactional unit of work. The closure may run more than
// once: each retry attempt gets a fresh transaction, so any identifiers
// generated inside must be regenerated per attempt and never reused outside.
type TxFunc func(ctx context.Context, tx bun.IDB) error

// readTx runs fn inside a read-only unit of work. SQLite in WAL mode gives
// the transaction a consistent snapshot for its whole lifetime; fn must not
// write. Transient store failures restart fn on a fresh transaction, bounded
// by the retry attempt count; every other error surfaces immediately.
func (s *Store) readTx(ctx context.Context, fn TxFunc) error {
	return util.Retry(ctx, func() error {
		return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return fn(ctx, tx)
		})
	}, util.TxRetryOptions(ctx)...)
}

// writeTx runs fn inside a serializable read-write transaction, committed
// only when fn returns nil; an error discards the transaction. Retried like
// readTx on transient failures.
func (s *Store) writeTx(ctx context.Context, fn TxFunc) error {
	return util.Retry(ctx, func() error {
		return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			return fn(ctx, tx)
		})
	}, util.TxRetryOptions(ctx)...)
}
