package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

type txKey struct{}

// withTx stores an open transaction in ctx for repositories to pick up.
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// storageError marks a database failure as unavailable so callers can tell
// it apart from a business rejection.
func storageError(op string, err error) error {
	return domain.NewUnavailableError("failed to "+op, err)
}

// GormTransactor serializes booking attempts per package with a row lock.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor.
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinPackageLock opens a transaction, takes SELECT ... FOR UPDATE on the
// package row and runs fn with the transaction in its context. Concurrent
// callers for the same package wait on the lock until this one commits or
// rolls back. A missing package is not an error here; fn reports it.
func (t *GormTransactor) WithinPackageLock(ctx context.Context, packageID uuid.UUID, fn func(ctx context.Context) error) error {
	var fnErr error
	err := conn(ctx, t.db).Transaction(func(tx *gorm.DB) error {
		var locked PackageModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", packageID).
			Take(&locked).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			fnErr = storageError("lock package", err)
			return fnErr
		}

		fnErr = fn(withTx(ctx, tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return storageError("commit booking transaction", err)
	}
	return nil
}
