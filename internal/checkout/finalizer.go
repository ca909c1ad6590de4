package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/juju/clock"
	"go.uber.org/zap"

	"github.com/trendmart/storefront/internal/models"
)

// SuccessResponseCode is the gateway's payment-succeeded code carried back on
// the return redirect.
const SuccessResponseCode = "00"

// flagTTL is how long the created flag blocks repeat finalization before it
// self-expires, so a later legitimate order isn't rejected.
const flagTTL = 5 * time.Second

// pendingTTL bounds how long a parked payload waits for the user to come back
// from the gateway. Abandoned and failed payments fall out of the store
// instead of accumulating.
const pendingTTL = 30 * time.Minute

// PendingOrder is the order payload parked while the user is away at the
// external payment page.
type PendingOrder struct {
	Items         []models.CartItem    `json:"items"`
	Delivery      models.DeliveryInfo  `json:"delivery"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	CouponCode    string               `json:"coupon_code,omitempty"`
}

// OrderCreator is the order-creation dependency; implemented by the orders
// service.
type OrderCreator interface {
	CreateFromPending(ctx context.Context, userID string, pending PendingOrder) (*models.Order, error)
}

type Outcome string

const (
	OutcomeCreated          Outcome = "created"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomePaymentFailed    Outcome = "payment_failed"
	OutcomeNothingPending   Outcome = "nothing_pending"
)

type FinalizeResult struct {
	Outcome Outcome       `json:"outcome"`
	Order   *models.Order `json:"order,omitempty"`
}

type parkedOrder struct {
	payload PendingOrder
	gen     uint64
	expire  clock.Timer
}

// Finalizer completes orders after the user returns from the external payment
// redirect. A per-process created flag makes finalization idempotent against
// repeat returns (reloads of the return page); the flag is written after
// creation and self-expires shortly after, so this is a best-effort guard,
// not a transaction. The check-create-flag sequence runs under a per-user
// lock, so one user's in-flight order creation never blocks another's, and
// only a process restart in the window can duplicate.
type Finalizer struct {
	clock   clock.Clock
	log     *zap.Logger
	creator OrderCreator

	mu      sync.Mutex // guards the maps below
	locks   map[string]*sync.Mutex
	pending map[string]parkedOrder
	created map[string]bool
	gen     uint64
}

func NewFinalizer(creator OrderCreator, clk clock.Clock, log *zap.Logger) *Finalizer {
	return &Finalizer{
		clock:   clk,
		log:     log,
		creator: creator,
		locks:   make(map[string]*sync.Mutex),
		pending: make(map[string]parkedOrder),
		created: make(map[string]bool),
	}
}

// Park stores the pending order before redirecting the user to the gateway,
// replacing any earlier parked payload. The entry expires on its own if the
// user never comes back.
func (f *Finalizer) Park(userID string, p PendingOrder) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.removePendingLocked(userID)
	f.gen++
	gen := f.gen
	f.pending[userID] = parkedOrder{
		payload: p,
		gen:     gen,
		expire: f.clock.AfterFunc(pendingTTL, func() {
			f.mu.Lock()
			// Only the generation that armed this timer may be evicted;
			// a re-parked payload has a newer one.
			if cur, ok := f.pending[userID]; ok && cur.gen == gen {
				delete(f.pending, userID)
			}
			f.mu.Unlock()
		}),
	}
}

// Pending reports whether a parked payload exists for the user.
func (f *Finalizer) Pending(userID string) (PendingOrder, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pending[userID]
	return p.payload, ok
}

// Finalize creates the parked order if and only if the gateway reported
// success, a parked payload exists and the created flag is not set.
func (f *Finalizer) Finalize(ctx context.Context, userID, responseCode string) (FinalizeResult, error) {
	lock := f.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if responseCode != SuccessResponseCode {
		f.log.Info("payment return with failure code",
			zap.String("userId", userID), zap.String("code", responseCode))
		return FinalizeResult{Outcome: OutcomePaymentFailed}, nil
	}

	f.mu.Lock()
	alreadyCreated := f.created[userID]
	parked, ok := f.pending[userID]
	f.mu.Unlock()

	if alreadyCreated {
		return FinalizeResult{Outcome: OutcomeAlreadyProcessed}, nil
	}
	if !ok {
		return FinalizeResult{Outcome: OutcomeNothingPending}, nil
	}

	order, err := f.creator.CreateFromPending(ctx, userID, parked.payload)
	if err != nil {
		return FinalizeResult{}, err
	}

	f.mu.Lock()
	f.created[userID] = true
	f.removePendingLocked(userID)
	f.mu.Unlock()
	f.clock.AfterFunc(flagTTL, func() {
		f.mu.Lock()
		delete(f.created, userID)
		f.mu.Unlock()
	})

	f.log.Info("order finalized after payment return",
		zap.String("userId", userID), zap.String("orderId", order.ID))
	return FinalizeResult{Outcome: OutcomeCreated, Order: order}, nil
}

// userLock serializes repeat returns for one user without putting every
// user's finalization behind a single lock held across the database call.
func (f *Finalizer) userLock(userID string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		f.locks[userID] = l
	}
	return l
}

func (f *Finalizer) removePendingLocked(userID string) {
	if cur, ok := f.pending[userID]; ok {
		cur.expire.Stop()
		delete(f.pending, userID)
	}
}
