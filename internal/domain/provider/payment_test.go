package provider

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPayment(t *testing.T) *Payment {
	payment, err := NewPayment("prov-1", "", decimal.NewFromInt(250), PaymentMethodTransfer, time.Time{})
	require.NoError(t, err)
	return payment
}

func TestNewPayment(t *testing.T) {
	payment := createTestPayment(t)

	assert.True(t, payment.ID.IsPending())
	assert.Equal(t, PaymentStatusPending, payment.Status)
	assert.False(t, payment.PaymentDate.IsZero())
	assert.False(t, payment.HasOrderReference())
}

func TestNewPayment_Validation(t *testing.T) {
	_, err := NewPayment("", "", decimal.NewFromInt(1), PaymentMethodCash, time.Now())
	assert.Error(t, err)

	_, err = NewPayment("prov-1", "", decimal.Zero, PaymentMethodCash, time.Now())
	assert.Error(t, err)

	_, err = NewPayment("prov-1", "", decimal.NewFromInt(-5), PaymentMethodCash, time.Now())
	assert.Error(t, err)

	_, err = NewPayment("prov-1", "", decimal.NewFromInt(5), PaymentMethod("crypto"), time.Now())
	assert.Error(t, err)
}

func TestPayment_Complete(t *testing.T) {
	payment := createTestPayment(t)

	require.NoError(t, payment.Complete())
	assert.True(t, payment.IsCompleted())

	// Terminal: neither completing nor cancelling again is allowed
	assert.Error(t, payment.Complete())
	assert.Error(t, payment.Cancel())
}

func TestPayment_Cancel(t *testing.T) {
	payment := createTestPayment(t)

	require.NoError(t, payment.Cancel())
	assert.Equal(t, PaymentStatusCancelled, payment.Status)
	assert.False(t, payment.IsCompleted())

	assert.Error(t, payment.Complete())
}

func TestPayment_OrderReference(t *testing.T) {
	payment, err := NewPayment("prov-1", "o-17", decimal.NewFromInt(100), PaymentMethodCheck, time.Now())
	require.NoError(t, err)
	assert.True(t, payment.HasOrderReference())
	assert.Equal(t, "o-17", payment.OrderID)
}

func TestPayment_AddAttachment(t *testing.T) {
	payment := createTestPayment(t)

	require.NoError(t, payment.AddAttachment("receipt.pdf"))
	assert.Equal(t, []string{"receipt.pdf"}, payment.Attachments)

	assert.Error(t, payment.AddAttachment(""))
}
