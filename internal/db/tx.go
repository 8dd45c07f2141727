package db

import (
	"context"
	"errors"
	"reflect"

	"github.com/fundloop/fundloop/internal/apierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithTx runs fn inside a transaction bound to ctx. The transaction is
// rolled back when fn returns an error or ctx is cancelled.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// LockForUpdate loads the row matching conds into dest and holds a row lock
// on it until the transaction ends. A missing row yields NotFound for
// resource.
func LockForUpdate(tx *gorm.DB, dest any, resource string, conds ...any) error {
	q := tx
	// SQLite serializes writers and has no row locks.
	if tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Take(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(resource).Wrap(err)
	}
	return err
}

// MutateExisting checks that the parent row identified by conds exists and
// then runs mutate, all in one transaction. If the parent is missing at
// check time, or is found missing after mutate hits a foreign key
// violation, nothing is committed and NotFound is returned. A violation on
// any other reference passes through as InvalidReference, as do
// application errors returned by mutate.
func MutateExisting(ctx context.Context, db *gorm.DB, parent any, resource string, conds []any, mutate func(tx *gorm.DB) error) error {
	return WithTx(ctx, db, func(tx *gorm.DB) error {
		if err := LockForUpdate(tx, parent, resource, conds...); err != nil {
			return err
		}
		err := mutate(tx)
		var appErr *apierr.Error
		if err == nil || errors.As(err, &appErr) {
			return err
		}
		if apierr.Is(err, apierr.KindInvalidRef) && gone(tx, parent, conds) {
			return apierr.NotFound(resource).Wrap(err)
		}
		return err
	})
}

// gone reports whether the row matching conds no longer exists. Postgres
// refuses queries in a transaction that hit a violation; the parent is row
// locked there, so a failed lookup counts as present.
func gone(tx *gorm.DB, parent any, conds []any) bool {
	if len(conds) == 0 {
		return false
	}
	model := reflect.New(reflect.TypeOf(parent).Elem()).Interface()
	var n int64
	if err := tx.Model(model).Where(conds[0], conds[1:]...).Count(&n).Error; err != nil {
		return false
	}
	return n == 0
}
