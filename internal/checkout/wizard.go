// Package checkout drives the three-step checkout flow: delivery info,
// payment method, confirmation. Each advance is gated by synchronous
// validation; going back from the first step abandons the session.
package checkout

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trendmart/storefront/internal/models"
)

type Step int

const (
	StepDelivery Step = iota
	StepPayment
	StepConfirm
)

var (
	ErrNoSession  = errors.New("no active checkout session")
	ErrWrongStep  = errors.New("operation not valid for current step")
	ErrBadPayment = errors.New("unsupported payment method")
	phonePattern  = regexp.MustCompile(`^[0-9]{10,11}$`)
)

// FieldErrors maps a field name to its validation message; empty means valid.
type FieldErrors map[string]string

// ValidateDelivery checks the delivery form. Failures block advancement and
// report per-field messages.
func ValidateDelivery(info models.DeliveryInfo) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(info.FullName) == "" {
		errs["fullName"] = "full name is required"
	}
	if strings.TrimSpace(info.Address) == "" {
		errs["address"] = "address is required"
	}
	phone := strings.TrimSpace(info.Phone)
	if phone == "" {
		errs["phone"] = "phone is required"
	} else if !phonePattern.MatchString(phone) {
		errs["phone"] = "phone must be 10-11 digits"
	}
	return errs
}

// Session is one user's in-progress checkout. It lives until confirmed or
// abandoned and is never persisted.
type Session struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	Step          Step                 `json:"step"`
	Delivery      models.DeliveryInfo  `json:"delivery"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	CouponCode    string               `json:"coupon_code,omitempty"`
	StartedAt     time.Time            `json:"started_at"`
}

type Wizard struct {
	mu       sync.Mutex
	sessions map[string]*Session // user_id -> session
}

func NewWizard() *Wizard {
	return &Wizard{sessions: make(map[string]*Session)}
}

// Start opens a fresh session for the user, replacing any in-progress one.
func (w *Wizard) Start(userID string) Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Step:      StepDelivery,
		StartedAt: time.Now(),
	}
	w.sessions[userID] = s
	return *s
}

func (w *Wizard) Get(userID string) (Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	return *s, nil
}

// SubmitDelivery validates the delivery form and, when clean, stores it and
// advances to the payment step.
func (w *Wizard) SubmitDelivery(userID string, info models.DeliveryInfo) (Session, FieldErrors, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[userID]
	if !ok {
		return Session{}, nil, ErrNoSession
	}
	if s.Step != StepDelivery {
		return Session{}, nil, ErrWrongStep
	}
	if errs := ValidateDelivery(info); len(errs) > 0 {
		return *s, errs, nil
	}
	s.Delivery = info
	s.Step = StepPayment
	return *s, nil, nil
}

// SubmitPayment records the payment method and advances to confirmation.
func (w *Wizard) SubmitPayment(userID string, method models.PaymentMethod, couponCode string) (Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	if s.Step != StepPayment {
		return Session{}, ErrWrongStep
	}
	if method != models.PaymentCOD && method != models.PaymentEpay {
		return Session{}, ErrBadPayment
	}
	s.PaymentMethod = method
	s.CouponCode = couponCode
	s.Step = StepConfirm
	return *s, nil
}

// Back moves one step toward the start. From the delivery step it abandons
// the session entirely and reports exited=true (the caller returns to cart).
func (w *Wizard) Back(userID string) (Session, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[userID]
	if !ok {
		return Session{}, false, ErrNoSession
	}
	if s.Step == StepDelivery {
		delete(w.sessions, userID)
		return Session{}, true, nil
	}
	s.Step--
	return *s, false, nil
}

// Complete closes the session after a confirmed submission.
func (w *Wizard) Complete(userID string) (Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.sessions[userID]
	if !ok {
		return Session{}, ErrNoSession
	}
	if s.Step != StepConfirm {
		return Session{}, ErrWrongStep
	}
	delete(w.sessions, userID)
	return *s, nil
}

// Abandon drops the session unconditionally, e.g. on logout.
func (w *Wizard) Abandon(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.sessions, userID)
}
