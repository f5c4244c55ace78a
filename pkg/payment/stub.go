package payment

import (
	"context"
	"fmt"
	"time"
)

// StubProvider is a no-op provider for development; replace with Stripe/
// Tinkoff etc.
type StubProvider struct{}

func (s *StubProvider) ProcessPayment(ctx context.Context, req Request) (*Result, error) {
	ref := req.Reference
	if ref == "" {
		ref = fmt.Sprintf("stub_%d_%d", time.Now().UnixNano(), req.UserID)
	}
	return &Result{Reference: ref, Status: "succeeded"}, nil
}
