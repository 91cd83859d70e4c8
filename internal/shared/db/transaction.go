// Package db carries a gorm transaction through a context so repository
// methods compose into one unit of work.
package db

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// InTx runs fn inside a transaction on gdb. When ctx already carries one, fn
// joins it and the outer caller decides commit or rollback.
func InTx(ctx context.Context, gdb *gorm.DB, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction bound to ctx, or gdb scoped to ctx.
func Conn(ctx context.Context, gdb *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return gdb.WithContext(ctx)
}
