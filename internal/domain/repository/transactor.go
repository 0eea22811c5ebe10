package repository

import "context"

// Transactor runs fn inside a single datastore transaction. Repositories called
// with the context passed to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
