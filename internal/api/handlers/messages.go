package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/asimsek-dev/quillpad/internal/api/middleware"
	"github.com/asimsek-dev/quillpad/internal/models"
	"github.com/asimsek-dev/quillpad/internal/repositories"
	"github.com/asimsek-dev/quillpad/internal/utils"
	"gorm.io/gorm"
)

// POST /new/message
// SendMessage godoc
// @Summary Send a direct message
// @Tags Messages
// @Accept json
// @Produce json
// @Param x-auth-token header string true "Signed token"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.ErrorEnvelope
// @Router /new/message [post]
func SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	type Input struct {
		Message string `json:"message"`
		// Slug is the receiver's username.
		Slug string `json:"slug"`
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Message == "" || input.Slug == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var receiver models.User
	err := repositories.DB.
		Select("id").
		Where("username = ?", input.Slug).
		First(&receiver).Error
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Not allowed.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	message := models.Message{
		Message:     input.Message,
		Sender:      identity.UserID,
		Receiver:    receiver.ID,
		ReadingTime: utils.ReadingTime(input.Message),
	}
	if err := repositories.DB.Create(&message).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database insert failed")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Message has been sent!",
	})
}

// GET /admin/messages
// Inbox view: latest 50 messages either side of the caller, plus the sender
// ids of unseen incoming ones so the client can badge conversations.
func Inbox(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	type inboxRow struct {
		ID           uint    `json:"id"`
		Sender       string  `json:"sender"`
		SenderSlug   string  `json:"senderSlug" gorm:"column:sender_slug"`
		SenderImg    *string `json:"senderImg" gorm:"column:sender_img"`
		SenderID     uint    `json:"senderId" gorm:"column:sender_id"`
		Receiver     string  `json:"receiver"`
		ReceiverSlug string  `json:"receiverSlug" gorm:"column:receiver_slug"`
		ReceiverImg  *string `json:"receiverImg" gorm:"column:receiver_img"`
		ReceiverID   uint    `json:"receiverId" gorm:"column:receiver_id"`
		IsSeen       bool    `json:"isSeen" gorm:"column:isSeen"`
		ReadingTime  int     `json:"readingTime" gorm:"column:readingTime"`
	}

	var messages []inboxRow
	if err := repositories.DB.Model(&models.Message{}).
		Select(`messages.id,
			sender_user.name AS sender, sender_user.username AS sender_slug, sender_user.image AS sender_img, sender_user.id AS sender_id,
			receiver_user.name AS receiver, receiver_user.username AS receiver_slug, receiver_user.image AS receiver_img, receiver_user.id AS receiver_id,
			messages."isSeen", messages."readingTime"`).
		Joins("INNER JOIN users AS sender_user ON messages.sender = sender_user.id").
		Joins("INNER JOIN users AS receiver_user ON messages.receiver = receiver_user.id").
		Where("messages.receiver = ? OR messages.sender = ?", identity.UserID, identity.UserID).
		Order("messages.sent_at DESC").
		Limit(50).
		Scan(&messages).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	senderIDs := make([]uint, 0)
	for _, msg := range messages {
		if msg.ReceiverID == identity.UserID && !msg.IsSeen {
			senderIDs = append(senderIDs, msg.SenderID)
		}
	}

	utils.JSONData(w, http.StatusOK, map[string]any{
		"messages":  messages,
		"senderIds": senderIDs,
	})
}

// GET /admin/messages/w/{user}
func Conversation(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	type targetUser struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		Image *string `json:"image"`
	}
	var target targetUser
	err := repositories.DB.Model(&models.User{}).
		Select("users.id, users.name, users.image").
		Where("username = ?", r.PathValue("user")).
		Limit(1).
		Scan(&target).Error
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if target.ID == 0 {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	type conversationRow struct {
		ID         uint      `json:"id"`
		SenderID   uint      `json:"senderId" gorm:"column:sender"`
		ReceiverID uint      `json:"receiverId" gorm:"column:receiver"`
		Message    string    `json:"message"`
		SentAt     time.Time `json:"sentAt" gorm:"column:sent_at"`
		IsSeen     bool      `json:"isSeen" gorm:"column:isSeen"`
	}
	var messages []conversationRow
	if err := repositories.DB.Model(&models.Message{}).
		Select(`messages.id, messages.sender, messages.receiver, messages.message, messages.sent_at, messages."isSeen"`).
		Where("(messages.receiver = ? AND messages.sender = ?) OR (messages.receiver = ? AND messages.sender = ?)",
			target.ID, identity.UserID, identity.UserID, target.ID).
		Order("messages.sent_at DESC").
		Limit(50).
		Scan(&messages).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(messages) == 0 {
		utils.JSONError(w, http.StatusNotFound, "No messages found")
		return
	}

	utils.JSONData(w, http.StatusOK, map[string]any{
		"user":     target,
		"messages": messages,
	})
}

// GET /admin/messages/{messageId}
// Reading a message as its receiver flips isSeen; that is the only mutation
// messages ever get.
func GetMessage(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	messageID, err := strconv.ParseUint(r.PathValue("messageId"), 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid message id")
		return
	}

	type messageRow struct {
		ID         uint      `json:"id"`
		Message    string    `json:"message"`
		SentAt     time.Time `json:"sentAt" gorm:"column:sent_at"`
		IsSeen     bool      `json:"isSeen" gorm:"column:isSeen"`
		Sender     string    `json:"sender"`
		Receiver   string    `json:"receiver"`
		SenderID   uint      `json:"senderId" gorm:"column:sender_id"`
		ReceiverID uint      `json:"receiverId" gorm:"column:receiver_id"`
	}
	var message messageRow
	if err := repositories.DB.Model(&models.Message{}).
		Select(`messages.id, messages.message, messages.sent_at, messages."isSeen",
			sender_user.name AS sender, receiver_user.name AS receiver,
			sender_user.id AS sender_id, receiver_user.id AS receiver_id`).
		Joins("INNER JOIN users AS sender_user ON messages.sender = sender_user.id").
		Joins("INNER JOIN users AS receiver_user ON messages.receiver = receiver_user.id").
		Where("messages.id = ? AND (messages.sender = ? OR messages.receiver = ?)",
			messageID, identity.UserID, identity.UserID).
		Limit(1).
		Scan(&message).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if message.ID == 0 {
		utils.JSONError(w, http.StatusNotFound, "Not found.")
		return
	}

	if identity.UserID == message.ReceiverID && !message.IsSeen {
		if err := repositories.DB.Model(&models.Message{}).
			Where("id = ?", message.ID).
			Update("isSeen", true).Error; err != nil {
			utils.JSONError(w, http.StatusInternalServerError, "Database error")
			return
		}
		message.IsSeen = true
	}

	utils.JSONData(w, http.StatusOK, message)
}
