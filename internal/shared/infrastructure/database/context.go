package database

import "context"

type txKey struct{}

// TxInfo is the transaction carried by a context. Owned is false for scopes
// that joined a transaction opened further out.
type TxInfo struct {
	Tx    Transaction
	Owned bool
}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, TxInfo{Tx: tx, Owned: owned})
}

// TxInfoFromContext returns the transaction carried by ctx.
func TxInfoFromContext(ctx context.Context) (TxInfo, bool) {
	info, ok := ctx.Value(txKey{}).(TxInfo)
	return info, ok && info.Tx != nil
}

// ExecutorFor returns the transaction carried by ctx, or conn outside one.
func ExecutorFor(ctx context.Context, conn Connection) Executor {
	if info, ok := TxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return conn
}

// InTx runs fn on the transaction carried by ctx. Without one it opens a
// transaction on conn, commits it when fn succeeds and rolls it back otherwise.
func InTx(ctx context.Context, conn Connection, fn func(exec Executor) error) (err error) {
	if info, ok := TxInfoFromContext(ctx); ok {
		return fn(info.Tx)
	}

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
