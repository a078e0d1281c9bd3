package models

import "gorm.io/gorm"

// Message is a direct message between two users. Sender and recipient may be
// the same user (self-notes); both must exist.
type Message struct {
	gorm.Model
	SenderID    uint   `json:"senderID" gorm:"not null;index"`
	RecipientID uint   `json:"recipientID" gorm:"not null;index"`
	Body        string `json:"body" gorm:"type:text;not null"`

	Sender    *User `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
	Recipient *User `json:"recipient,omitempty" gorm:"foreignKey:RecipientID"`
}
