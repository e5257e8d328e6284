package shared

import "context"

// Transactor runs fn inside a unit of work. Repositories resolve the active
// transaction from the context they are given, so every write performed with
// the ctx passed to fn commits or rolls back together.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
