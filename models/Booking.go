package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	gorm.Model
	PropertyID uint      `json:"propertyID" gorm:"not null;index"`
	GuestID    uint      `json:"guestID" gorm:"not null;index"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice float64   `json:"totalPrice" gorm:"check:total_price >= 0"`
	Status     string    `json:"status" gorm:"type:varchar(20);default:'pending';index;check:chk_bookings_status,status IN ('pending','confirmed','canceled')"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Payment  *Payment  `json:"payment,omitempty"`
}
