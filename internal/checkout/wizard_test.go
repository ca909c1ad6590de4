package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendmart/storefront/internal/models"
)

func validDelivery() models.DeliveryInfo {
	return models.DeliveryInfo{
		FullName: "Jane Doe",
		Phone:    "0912345678",
		Address:  "1 Main St",
	}
}

func TestSubmitDeliveryAdvances(t *testing.T) {
	w := NewWizard()
	w.Start("u1")

	s, fieldErrs, err := w.SubmitDelivery("u1", validDelivery())
	require.NoError(t, err)
	assert.Empty(t, fieldErrs)
	assert.Equal(t, StepPayment, s.Step)
}

func TestSubmitDeliveryMissingName(t *testing.T) {
	w := NewWizard()
	w.Start("u1")

	info := validDelivery()
	info.FullName = "  "
	s, fieldErrs, err := w.SubmitDelivery("u1", info)
	require.NoError(t, err)
	assert.Contains(t, fieldErrs, "fullName")
	assert.Equal(t, StepDelivery, s.Step, "validation failure must block advancement")
}

func TestSubmitDeliveryPhoneValidation(t *testing.T) {
	cases := []struct {
		phone string
		ok    bool
	}{
		{"0912345678", true},   // 10 digits
		{"09123456789", true},  // 11 digits
		{"091234567", false},   // 9 digits
		{"091234567890", false},
		{"09-12345678", false},
		{"", false},
	}
	for _, tc := range cases {
		info := validDelivery()
		info.Phone = tc.phone
		errs := ValidateDelivery(info)
		if tc.ok {
			assert.NotContains(t, errs, "phone", "phone %q should pass", tc.phone)
		} else {
			assert.Contains(t, errs, "phone", "phone %q should fail", tc.phone)
		}
	}
}

func TestSubmitPayment(t *testing.T) {
	w := NewWizard()
	w.Start("u1")
	_, _, err := w.SubmitDelivery("u1", validDelivery())
	require.NoError(t, err)

	s, err := w.SubmitPayment("u1", models.PaymentEpay, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, s.Step)
	assert.Equal(t, models.PaymentEpay, s.PaymentMethod)
	assert.Equal(t, "SAVE10", s.CouponCode)
}

func TestSubmitPaymentRejectsUnknownMethod(t *testing.T) {
	w := NewWizard()
	w.Start("u1")
	_, _, err := w.SubmitDelivery("u1", validDelivery())
	require.NoError(t, err)

	_, err = w.SubmitPayment("u1", "barter", "")
	assert.ErrorIs(t, err, ErrBadPayment)
}

func TestSubmitPaymentBeforeDelivery(t *testing.T) {
	w := NewWizard()
	w.Start("u1")
	_, err := w.SubmitPayment("u1", models.PaymentCOD, "")
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestBackFromFirstStepExits(t *testing.T) {
	w := NewWizard()
	w.Start("u1")

	_, exited, err := w.Back("u1")
	require.NoError(t, err)
	assert.True(t, exited)

	_, err = w.Get("u1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestBackFromLaterStepDecrements(t *testing.T) {
	w := NewWizard()
	w.Start("u1")
	_, _, err := w.SubmitDelivery("u1", validDelivery())
	require.NoError(t, err)

	s, exited, err := w.Back("u1")
	require.NoError(t, err)
	assert.False(t, exited)
	assert.Equal(t, StepDelivery, s.Step)
}

func TestCompleteRequiresConfirmStep(t *testing.T) {
	w := NewWizard()
	w.Start("u1")
	_, err := w.Complete("u1")
	assert.ErrorIs(t, err, ErrWrongStep)

	_, _, err = w.SubmitDelivery("u1", validDelivery())
	require.NoError(t, err)
	_, err = w.SubmitPayment("u1", models.PaymentCOD, "")
	require.NoError(t, err)

	s, err := w.Complete("u1")
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, s.Step)

	_, err = w.Get("u1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStartReplacesExistingSession(t *testing.T) {
	w := NewWizard()
	first := w.Start("u1")
	second := w.Start("u1")
	assert.NotEqual(t, first.ID, second.ID)

	s, err := w.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, s.ID)
	assert.Equal(t, StepDelivery, s.Step)
}
