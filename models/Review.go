package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"not null;uniqueIndex:idx_reviews_property_user"`
	UserID     uint   `json:"userID" gorm:"not null;uniqueIndex:idx_reviews_property_user"`
	Rating     int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string `json:"comment" gorm:"type:text"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
