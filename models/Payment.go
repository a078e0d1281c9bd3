package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is one-to-one with Booking, enforced by the unique index on BookingID.
type Payment struct {
	gorm.Model
	BookingID   uint      `json:"bookingID" gorm:"not null;uniqueIndex"`
	Amount      float64   `json:"amount" gorm:"not null;check:amount >= 0"`
	PaymentDate time.Time `json:"paymentDate"`
	Method      string    `json:"method" gorm:"type:varchar(20);not null;check:chk_payments_method,method IN ('credit_card','paypal','stripe')"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}
