// Package event carries change notifications out of the core. Writers
// publish after a successful commit; presentation layers subscribe instead of
// watching storage directly.
package event

import (
	"context"
	"sync"
	"time"
)

type Type string

const (
	TypeLoanCreated     Type = "loan.created"
	TypeLoanUpdated     Type = "loan.updated"
	TypeLoanApproved    Type = "loan.approved"
	TypeLoanDenied      Type = "loan.denied"
	TypeLoanReleased    Type = "loan.released"
	TypeLoanFullyPaid   Type = "loan.fully_paid"
	TypeLoanDeleted     Type = "loan.deleted"
	TypePaymentPaid     Type = "payment.paid"
	TypePenaltyWaived   Type = "payment.penalty_waived"
	TypePenaltyDeferred Type = "payment.penalty_deferred"
	TypeScheduleResync  Type = "loan.schedule_resynced"
	TypeSettingsUpdated Type = "settings.updated"
)

type Event struct {
	Type      Type      `json:"type"`
	LoanID    string    `json:"loan_id,omitempty"`
	PaymentID string    `json:"payment_id,omitempty"`
	At        time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, e Event)
}

// InProc fans events out to registered callbacks synchronously. Used in
// tests and as the default when no redis channel is configured.
type InProc struct {
	mu   sync.RWMutex
	subs []func(Event)
}

func NewInProc() *InProc { return &InProc{} }

func (b *InProc) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *InProc) Publish(_ context.Context, e Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(e)
	}
}

// Fanout publishes to every bus in order.
type Fanout []Bus

func (f Fanout) Publish(ctx context.Context, e Event) {
	for _, b := range f {
		b.Publish(ctx, e)
	}
}
