package postgres

import (
	"context"
	"database/sql"
)

// Querier - общее подмножество *sql.DB и *sql.Tx
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// querier возвращает транзакцию из контекста, если она открыта через WithinTx,
// иначе пул соединений.
func (p *PostgresStorage) querier(ctx context.Context) Querier {
	if tx, ok := ctx.Value(keyTxValue).(*sql.Tx); ok {
		return tx
	}
	return p.db
}

// rowScanner - *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}
