package routes

import (
	"encoding/json"
	"errors"
	"homestays-server/models"
	"homestays-server/services"
	"homestays-server/storage"
	"homestays-server/utils"
	"strconv"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var propertyCache = services.NewPropertyCache()

func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	photos := input.Photos
	if photos == nil {
		photos = []string{}
	}
	photosJSON, _ := json.Marshal(photos)

	property := models.Property{
		HostID:        claims.ID,
		Name:          input.Name,
		Description:   input.Description,
		Location:      input.Location,
		PricePerNight: input.PricePerNight,
		Amenities:     datatypes.JSON(amenitiesJSON),
		Photos:        datatypes.JSON(photosJSON),
	}

	if createErr := storage.DB.Create(&property).Error; createErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&property)
}

func GetPropertyByID(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	if cached, ok := propertyCache.Get(id); ok {
		ctx.JSON(cached)
		return
	}

	var property models.Property
	if err := storage.DB.Preload("Host").First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	propertyCache.Set(id, &property)
	ctx.JSON(&property)
}

// SearchProperties filters by location and price range, paginated.
func SearchProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Property{})

	if location := ctx.URLParamDefault("location", ""); location != "" {
		query = query.Where("location = ?", location)
	}
	if ctx.URLParamExists("min_price") {
		query = query.Where("price_per_night >= ?", ctx.URLParamFloat64Default("min_price", 0))
	}
	if ctx.URLParamExists("max_price") {
		query = query.Where("price_per_night <= ?", ctx.URLParamFloat64Default("max_price", 0))
	}

	var total int64
	query.Count(&total)

	var properties []models.Property
	if err := query.Order("price_per_night ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

func GetPropertiesByHostID(ctx iris.Context) {
	params := ctx.Params()
	id := params.Get("id")

	var properties []models.Property
	if err := storage.DB.Preload(clause.Associations).
		Where("host_id = ?", id).
		Find(&properties).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

func UpdateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if property.HostID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Name != "" {
		property.Name = input.Name
	}
	if input.Description != "" {
		property.Description = input.Description
	}
	if input.Location != "" {
		property.Location = input.Location
	}
	if input.PricePerNight != nil {
		if *input.PricePerNight < 0 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"pricePerNight must be non-negative", ctx)
			return
		}
		property.PricePerNight = *input.PricePerNight
	}
	if input.Amenities != nil {
		amenitiesJSON, _ := json.Marshal(input.Amenities)
		property.Amenities = datatypes.JSON(amenitiesJSON)
	}
	if input.Photos != nil {
		photosJSON, _ := json.Marshal(input.Photos)
		property.Photos = datatypes.JSON(photosJSON)
	}

	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	propertyCache.Invalidate(id)
	ctx.JSON(&property)
}

// DeleteProperty refuses while bookings still reference the listing.
func DeleteProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	params := ctx.Params()
	id := params.Get("id")

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if property.HostID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var bookingCount int64
	storage.DB.Model(&models.Booking{}).Where("property_id = ?", property.ID).Count(&bookingCount)
	if bookingCount > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"Property still has bookings; cancel or archive those first.", ctx)
		return
	}

	if err := storage.DB.Delete(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	propertyCache.Invalidate(id)
	ctx.StatusCode(iris.StatusNoContent)
}

func propertyIDFromParams(ctx iris.Context) uint {
	parsedID, _ := strconv.ParseUint(ctx.Params().Get("id"), 10, 64)
	return uint(parsedID)
}

type CreatePropertyInput struct {
	Name          string   `json:"name" validate:"required,max=256"`
	Description   string   `json:"description" validate:"max=5000"`
	Location      string   `json:"location" validate:"required,max=256"`
	PricePerNight float64  `json:"pricePerNight" validate:"gte=0"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
}

type UpdatePropertyInput struct {
	Name          string   `json:"name" validate:"omitempty,max=256"`
	Description   string   `json:"description" validate:"omitempty,max=5000"`
	Location      string   `json:"location" validate:"omitempty,max=256"`
	PricePerNight *float64 `json:"pricePerNight"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
}
