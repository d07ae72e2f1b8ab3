package memory

import "context"

// TxManager serializes access to the backing store for the span of one
// transaction. The write methods of the repos do not lock themselves;
// they must only be called inside RunInTx. The list methods take the
// read lock and must not be called from within a transaction.
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return fn(ctx)
}
