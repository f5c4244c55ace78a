package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Request describes one charge against an external gateway.
type Request struct {
	UserID    uint
	Amount    decimal.Decimal
	Currency  string
	Gateway   string
	Fee       decimal.Decimal
	Reference string
}

type Result struct {
	Reference string
	Status    string
}

// Provider is the payment-gateway abstraction. ProcessPayment is synchronous:
// success or failure is known before the caller's ledger write proceeds, and
// a failure aborts the whole purchase since no compensation path exists.
type Provider interface {
	ProcessPayment(ctx context.Context, req Request) (*Result, error)
}
