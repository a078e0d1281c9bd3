package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	HostID        uint           `json:"hostID" gorm:"not null;index"`
	Name          string         `json:"name" gorm:"not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Location      string         `json:"location" gorm:"index"`
	PricePerNight float64        `json:"pricePerNight" gorm:"not null;check:price_per_night >= 0"`
	Amenities     datatypes.JSON `json:"amenities"`
	Photos        datatypes.JSON `json:"photos"`
	Rating        float64        `json:"rating"` // denormalized review average

	Host     *User     `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Bookings []Booking `json:"bookings,omitempty"`
	Reviews  []Review  `json:"reviews,omitempty"`
}

// MarshalJSON renders the JSON columns as arrays, never null.
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Amenities []string `json:"amenities"`
		Photos    []string `json:"photos"`
		*Alias
	}{
		Amenities: []string{},
		Photos:    []string{},
		Alias:     (*Alias)(p),
	}

	if p.Amenities != nil {
		var amenities []string
		if err := json.Unmarshal(p.Amenities, &amenities); err == nil {
			aux.Amenities = amenities
		}
	}

	if p.Photos != nil {
		var photos []string
		if err := json.Unmarshal(p.Photos, &photos); err == nil {
			aux.Photos = photos
		}
	}

	return json.Marshal(aux)
}
