package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxManager runs units of work inside MongoDB multi-document transactions.
type TxManager struct {
	client *mongo.Client
}

func NewTxManager(client *mongo.Client) *TxManager {
	return &TxManager{client: client}
}

// WithinTransaction commits when fn returns nil and aborts otherwise. The
// driver retries fn on transient transaction errors, so fn must be safe to
// run more than once. Calls made while a transaction is already open join it.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
