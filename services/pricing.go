package services

import (
	"errors"
	"time"
)

// PricingService computes booking totals from a property's nightly price.
type PricingService struct {
	CleaningFeeRate float64
	ServiceFeeRate  float64
}

func NewPricingService() *PricingService {
	return &PricingService{
		CleaningFeeRate: 0.02,
		ServiceFeeRate:  0,
	}
}

type Quote struct {
	Nights      int     `json:"nights"`
	Subtotal    float64 `json:"subtotal"`
	CleaningFee float64 `json:"cleaningFee"`
	ServiceFee  float64 `json:"serviceFee"`
	Total       float64 `json:"total"`
}

var ErrInvalidStay = errors.New("check-out must be after check-in")

// Quote prices a stay. Partial nights round up to a full night, minimum one.
func (s *PricingService) Quote(nightlyPrice float64, checkIn, checkOut time.Time) (Quote, error) {
	if !checkIn.Before(checkOut) {
		return Quote{}, ErrInvalidStay
	}

	hours := checkOut.Sub(checkIn).Hours()
	nights := int(hours / 24)
	if float64(nights)*24 < hours {
		nights++
	}
	if nights < 1 {
		nights = 1
	}

	subtotal := nightlyPrice * float64(nights)
	cleaningFee := nightlyPrice * s.CleaningFeeRate
	serviceFee := subtotal * s.ServiceFeeRate

	return Quote{
		Nights:      nights,
		Subtotal:    subtotal,
		CleaningFee: cleaningFee,
		ServiceFee:  serviceFee,
		Total:       subtotal + cleaningFee + serviceFee,
	}, nil
}
