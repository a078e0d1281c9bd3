package routes

import (
	"errors"
	"homestays-server/models"
	"homestays-server/storage"
	"homestays-server/utils"
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// CreateReview accepts one review per guest per property, and only after a
// confirmed stay.
func CreateReview(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	propertyID := propertyIDFromParams(ctx)
	if propertyID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid property ID", ctx)
		return
	}

	var input CreateReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var booking models.Booking
	if err := storage.DB.Where("property_id = ? AND guest_id = ? AND status = ?",
		propertyID, claims.ID, "confirmed").
		First(&booking).Error; err != nil {
		utils.CreateError(iris.StatusForbidden, "Forbidden",
			"You can only review properties you have a confirmed booking at.", ctx)
		return
	}

	var existing models.Review
	err := storage.DB.Where("property_id = ? AND user_id = ?", propertyID, claims.ID).
		First(&existing).Error
	if err == nil {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"You have already reviewed this property.", ctx)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CreateInternalServerError(ctx)
		return
	}

	review := models.Review{
		PropertyID: propertyID,
		UserID:     claims.ID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}

	if createErr := storage.DB.Create(&review).Error; createErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	refreshPropertyRating(propertyID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

// ListPropertyReviews returns the property's reviews with the engine-computed
// average and count.
func ListPropertyReviews(ctx iris.Context) {
	propertyID := propertyIDFromParams(ctx)
	if propertyID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid property ID", ctx)
		return
	}

	var reviews []models.Review
	if err := storage.DB.Preload("User").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var stats struct {
		Average float64
		Count   int64
	}
	storage.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("property_id = ?", propertyID).
		Scan(&stats)

	ctx.JSON(iris.Map{
		"data": reviews,
		"meta": iris.Map{
			"averageRating": stats.Average,
			"reviewCount":   stats.Count,
		},
		"links": iris.Map{},
	})
}

// DeleteReview: author or admin only.
func DeleteReview(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	params := ctx.Params()
	id := params.Get("reviewId")

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if review.UserID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if err := storage.DB.Delete(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	refreshPropertyRating(review.PropertyID)

	ctx.StatusCode(iris.StatusNoContent)
}

// refreshPropertyRating recomputes the denormalized average on the property
// row from the reviews table. The cached copy is dropped as well so the next
// read sees the new rating.
func refreshPropertyRating(propertyID uint) {
	var avg float64
	storage.DB.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0)").
		Where("property_id = ?", propertyID).
		Scan(&avg)

	storage.DB.Model(&models.Property{}).
		Where("id = ?", propertyID).
		Update("rating", avg)

	propertyCache.Invalidate(strconv.FormatUint(uint64(propertyID), 10))
}
