// Package recorder persists confirmed expenses.
package recorder

import (
	"context"

	"github.com/molvera/gastobot/internal/domain"
)

// Recorder persists a confirmed expense. This abstraction allows for
// different backends (BigQuery, noop for dry runs).
type Recorder interface {
	// RecordExpense writes one confirmed expense.
	RecordExpense(ctx context.Context, rec domain.ExpenseRecord) error

	// Close releases backend resources.
	Close() error
}

// Noop is a Recorder that drops every expense. Used when no backend is
// configured, so the conversation flow still works end to end.
type Noop struct{}

// RecordExpense implements the Recorder interface.
func (Noop) RecordExpense(ctx context.Context, rec domain.ExpenseRecord) error { return nil }

// Close implements the Recorder interface.
func (Noop) Close() error { return nil }

var _ Recorder = Noop{}
