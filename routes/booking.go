package routes

import (
	"errors"
	"homestays-server/models"
	"homestays-server/services"
	"homestays-server/storage"
	"homestays-server/utils"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var pricing = services.NewPricingService()

// allowedTransitions maps a booking status to the statuses it may move to.
var allowedTransitions = map[string][]string{
	"pending":   {"confirmed", "canceled"},
	"confirmed": {"canceled"},
	"canceled":  {},
}

type CreateBookingInput struct {
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
}

// CreateBooking books the property in the {id} parameter for the
// authenticated guest, priced from the property's nightly rate.
func CreateBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	propertyID := propertyIDFromParams(ctx)

	var input CreateBookingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.StartDate.Before(input.EndDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"startDate must be before endDate", ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	quote, quoteErr := pricing.Quote(property.PricePerNight, input.StartDate, input.EndDate)
	if quoteErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", quoteErr.Error(), ctx)
		return
	}

	booking := models.Booking{
		PropertyID: propertyID,
		GuestID:    claims.ID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		TotalPrice: quote.Total,
		Status:     "pending",
	}

	// Reject stays overlapping a confirmed booking on the same property
	if overlappingConfirmedCount(storage.DB, &booking) > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Property is already booked for those dates.", ctx)
		return
	}

	if createErr := storage.DB.Create(&booking).Error; createErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"booking": booking, "quote": quote})
}

func GetBookingByID(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	params := ctx.Params()
	id := params.Get("id")

	var booking models.Booking
	if err := storage.DB.Preload("Property").Preload("Payment").
		First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if !canAccessBooking(&booking, claims) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	ctx.JSON(booking)
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed canceled"`
}

// UpdateBookingStatus applies a status transition; anything outside
// allowedTransitions is rejected.
func UpdateBookingStatus(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	params := ctx.Params()
	id := params.Get("id")

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Preload("Property").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if !canAccessBooking(&booking, claims) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	// Only the host (or admin) confirms; guests can cancel their own stay
	if input.Status == "confirmed" && claims.Role != "admin" &&
		(booking.Property == nil || booking.Property.HostID != claims.ID) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if !slices.Contains(allowedTransitions[booking.Status], input.Status) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Cannot move booking from "+booking.Status+" to "+input.Status, ctx)
		return
	}

	// Another booking may have been confirmed for the same dates since this
	// one was created; re-check before confirming.
	if input.Status == "confirmed" && overlappingConfirmedCount(storage.DB, &booking) > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Property is already booked for those dates.", ctx)
		return
	}

	if err := storage.DB.Model(&booking).Update("status", input.Status).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(booking)
}

func GetUserBookings(ctx iris.Context) {
	params := ctx.Params()
	userID := params.Get("id")

	var bookings []models.Booking
	if err := storage.DB.Preload("Property").Preload("Payment").
		Where("guest_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// GetHostBookings returns bookings across every property the authenticated
// host owns.
func GetHostBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var bookings []models.Booking
	if err := storage.DB.
		Joins("JOIN properties p ON p.id = bookings.property_id").
		Where("p.host_id = ?", claims.ID).
		Preload("Property").
		Preload("Guest").
		Order("bookings.created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(bookings)
}

// DeleteBooking removes a booking unless a payment already references it.
func DeleteBooking(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	params := ctx.Params()
	id := params.Get("id")

	var booking models.Booking
	if err := storage.DB.Preload("Property").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if !canAccessBooking(&booking, claims) {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var paymentCount int64
	storage.DB.Model(&models.Payment{}).Where("booking_id = ?", booking.ID).Count(&paymentCount)
	if paymentCount > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Booking has a recorded payment; cancel it instead of deleting.", ctx)
		return
	}

	if err := storage.DB.Delete(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// overlappingConfirmedCount counts confirmed bookings on the same property
// whose dates overlap the candidate's, excluding the candidate itself.
func overlappingConfirmedCount(db *gorm.DB, booking *models.Booking) int64 {
	var overlapping int64
	db.Model(&models.Booking{}).
		Where("property_id = ? AND status = ? AND id <> ?",
			booking.PropertyID, "confirmed", booking.ID).
		Where("start_date < ? AND end_date > ?", booking.EndDate, booking.StartDate).
		Count(&overlapping)
	return overlapping
}

func canAccessBooking(booking *models.Booking, claims *utils.AccessToken) bool {
	if claims.Role == "admin" || booking.GuestID == claims.ID {
		return true
	}
	return booking.Property != nil && booking.Property.HostID == claims.ID
}
