package notification

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildConfirmationBody(t *testing.T) {
	body := BuildConfirmationBody(&Event{
		OrderNo:       20240501123,
		RecipientName: "Jane",
		PaymentAmount: decimal.NewFromFloat(15.99),
	})

	assert.Contains(t, body, "Hi Jane,")
	assert.Contains(t, body, "20240501123")
	assert.Contains(t, body, "15.99")
}

func TestBuildConfirmationBodyAnonymousRecipient(t *testing.T) {
	body := BuildConfirmationBody(&Event{OrderNo: 1, PaymentAmount: decimal.NewFromFloat(6.99)})
	assert.Contains(t, body, "Hi Customer,")
}

func TestBuildOpsAlertBody(t *testing.T) {
	body := BuildOpsAlertBody(&Event{
		OrderNo:       20240501123,
		UserID:        7,
		PaymentAmount: decimal.NewFromFloat(250),
		CreatedAt:     time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, body, "20240501123")
	assert.Contains(t, body, "250.00")
	assert.Contains(t, body, "2026-08-31")
}
