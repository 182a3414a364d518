package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

type txKey struct{}

// TxManager runs a unit of work in one database transaction. Repositories
// built on the same *gorm.DB pick the transaction up from the context.
type TxManager struct {
	db           *gorm.DB
	serializable bool
}

func NewTxManager(db *gorm.DB, serializable bool) *TxManager {
	return &TxManager{db: db, serializable: serializable}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	var opts []*sql.TxOptions
	if m.serializable {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	}, opts...)

	if isSerializationFailure(err) {
		return httperr.ErrConflict("booking_conflict")
	}
	return err
}

func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// isSerializationFailure detects Postgres SQLSTATE 40001, raised when two
// serializable bookings race for the same slot.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}
