package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" gorm:"uniqueIndex;not null"`
	Password    string `json:"-" gorm:"not null"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role" gorm:"type:varchar(20);default:'guest';index;check:chk_users_role,role IN ('guest','host','admin')"`

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:HostID;references:ID"`
}
