package routes

import (
	"errors"
	"homestays-server/models"
	"homestays-server/storage"
	"homestays-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

type CreateMessageInput struct {
	RecipientID uint   `json:"recipientID" validate:"required"`
	Body        string `json:"body" validate:"required,max=5000"`
}

// CreateMessage sends a message from the authenticated user. Messaging
// yourself is allowed; the recipient just has to exist.
func CreateMessage(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateMessageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var recipient models.User
	if err := storage.DB.First(&recipient, input.RecipientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateError(iris.StatusBadRequest, "Validation Error",
				"Recipient does not exist.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	message := models.Message{
		SenderID:    claims.ID,
		RecipientID: input.RecipientID,
		Body:        input.Body,
	}

	if err := storage.DB.Create(&message).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(message)
}

// GetConversation: GET /api/message/with/{userId}?cursor=...&limit=...
// Returns messages between the authenticated user and the other user,
// newest first, keyset-paginated on message ID.
func GetConversation(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	otherID := ctx.Params().GetUintDefault("userId", 0)
	if otherID == 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid user ID", ctx)
		return
	}

	limit := ctx.URLParamIntDefault("limit", 30)
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	cursor := ctx.URLParamIntDefault("cursor", 0)

	query := storage.DB.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			claims.ID, otherID, otherID, claims.ID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	// Fetch one extra row so a cursor is only handed out when an older
	// message actually exists.
	var messages []models.Message
	if err := query.Order("id DESC").Limit(limit + 1).Find(&messages).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	nextCursor := 0
	if len(messages) > limit {
		messages = messages[:limit]
		nextCursor = int(messages[limit-1].ID)
	}

	ctx.JSON(iris.Map{
		"data":  messages,
		"meta":  iris.Map{"nextCursor": nextCursor},
		"links": iris.Map{},
	})
}
