package routes

import (
	"errors"
	"homestays-server/models"
	"homestays-server/storage"
	"homestays-server/utils"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreatePaymentInput struct {
	Method string  `json:"method" validate:"required,oneof=credit_card paypal stripe"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// CreateBookingPayment records the payment and confirms the booking in one
// transaction; either both writes land or neither does.
func CreateBookingPayment(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	params := ctx.Params()
	id := params.Get("id")

	var input CreatePaymentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if booking.GuestID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if booking.Status != "pending" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Only pending bookings can be paid.", ctx)
		return
	}

	if input.Amount != booking.TotalPrice {
		utils.CreateError(iris.StatusBadRequest, "Validation Error",
			"Payment amount must match the booking total.", ctx)
		return
	}

	payment := models.Payment{
		BookingID:   booking.ID,
		Amount:      input.Amount,
		PaymentDate: time.Now(),
		Method:      input.Method,
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		// The booking was only checked against confirmed bookings when it was
		// created; another one may have been confirmed since.
		if overlappingConfirmedCount(tx, &booking) > 0 {
			return errors.New("property is already booked for those dates")
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		return tx.Model(&booking).Update("status", "confirmed").Error
	})
	if txErr != nil {
		// Unique index on booking_id: a second payment rolls back fully
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Payment could not be recorded: "+txErr.Error(), ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"payment": payment, "booking": booking})
}

func GetBookingPayment(ctx iris.Context) {
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

	var payment models.Payment
	if err := storage.DB.Where("booking_id = ?", booking.ID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(payment)
}
