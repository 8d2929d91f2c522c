package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Transaction runs operations in order. When one fails, the compensations of
// the operations that already ran are executed in reverse order.
type Transaction struct {
	operations []Operation
	logger     *zap.Logger
}

type Operation struct {
	Name       string
	Fn         func(context.Context) error
	Compensate *Compensation
}

type Compensation struct {
	Name string
	Fn   func(context.Context) error
}

func NewTransaction(logger *zap.Logger) *Transaction {
	return &Transaction{logger: logger}
}

func (t *Transaction) AddOperation(name string, fn func(context.Context) error) {
	t.operations = append(t.operations, Operation{Name: name, Fn: fn})
}

// AddCompensation attaches an undo step to the most recently added operation.
func (t *Transaction) AddCompensation(name string, fn func(context.Context) error) {
	if len(t.operations) == 0 {
		panic("usecase: compensation added before any operation")
	}
	t.operations[len(t.operations)-1].Compensate = &Compensation{Name: name, Fn: fn}
}

func (t *Transaction) Execute(ctx context.Context) error {
	for i, op := range t.operations {
		if err := op.Fn(ctx); err != nil {
			t.rollback(ctx, i)
			return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
		}
	}
	return nil
}

func (t *Transaction) rollback(ctx context.Context, failedAtIndex int) {
	// The caller's context may already be cancelled; undo steps still need to run.
	ctx = context.WithoutCancel(ctx)

	for i := failedAtIndex - 1; i >= 0; i-- {
		comp := t.operations[i].Compensate
		if comp == nil {
			continue
		}
		if err := comp.Fn(ctx); err != nil {
			t.logger.Error("compensation failed, data may be inconsistent",
				zap.String("compensation", comp.Name),
				zap.String("operation", t.operations[i].Name),
				zap.Error(err),
			)
		}
	}
}
