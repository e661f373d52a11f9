package ports

import "context"

// TxManager runs fn inside one unit of work. Repository calls made with the
// ctx handed to fn join that unit; any error returned by fn rolls it back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
