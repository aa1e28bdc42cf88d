package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/justbecho/justbecho-backend/pkg/enums"
)

// PaymentAttempt records each verification callback received for an order,
// including failed ones. Failed attempts are the audit trail for manual
// reconciliation when the gateway captured money but the signature check
// did not pass.
type PaymentAttempt struct {
	ID                uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID           uuid.UUID                  `gorm:"column:order_id;type:uuid;not null;index"`
	RazorpayPaymentID string                     `gorm:"column:razorpay_payment_id;not null"`
	Signature         string                     `gorm:"column:signature;not null"`
	Status            enums.PaymentAttemptStatus `gorm:"column:status;not null"`
	FailureReason     *string                    `gorm:"column:failure_reason"`
	CreatedAt         time.Time                  `gorm:"column:created_at;autoCreateTime"`
}

func (p *PaymentAttempt) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
