package domain

import "context"

// Transactor runs fn in a single all-or-nothing unit of work. Repository calls
// made with the ctx passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
