package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asimsek-dev/quillpad/internal/api/middleware"
	"github.com/asimsek-dev/quillpad/internal/models"
	"github.com/asimsek-dev/quillpad/internal/repositories"
	"github.com/asimsek-dev/quillpad/internal/utils"
	"gorm.io/gorm"
)

// POST /follow
// The edge is inserted as-is; the composite primary key is the only guard
// against duplicates, and a self-follow is not rejected.
func Follow(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	var input struct {
		UserID uint `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.UserID == 0 {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	follow := models.Follow{
		FollowerID:  identity.UserID,
		FollowingID: input.UserID,
	}
	if err := repositories.DB.Create(&follow).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database insert failed")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Success!",
	})
}

// POST /mark-as-starred
func Star(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	var input struct {
		PostID uint `json:"postId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.PostID == 0 {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	star := models.Star{
		PostID: input.PostID,
		UserID: identity.UserID,
	}
	if err := repositories.DB.Create(&star).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database insert failed")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Success!",
	})
}

// GET /user/{user}/follows
func ListFollows(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("user")

	var user models.User
	err := repositories.DB.
		Select("id", "username").
		Where("username = ?", username).
		First(&user).Error
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	type followRow struct {
		FollowingName string `json:"followingName" gorm:"column:following_name"`
	}
	var follows []followRow
	if err := repositories.DB.Model(&models.Follow{}).
		Select("users.name AS following_name").
		Joins("INNER JOIN users ON users.id = followers.following_id").
		Where("followers.follower_id = ?", user.ID).
		Scan(&follows).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(follows) == 0 {
		utils.JSONError(w, http.StatusNotFound, "This user has no friends yet.")
		return
	}

	utils.JSONData(w, http.StatusOK, follows)
}

// GET /user/{user}/starreds
func ListStarred(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("user")

	type starredRow struct {
		Header      string `json:"header"`
		ReadingTime int    `json:"readingTime" gorm:"column:readingTime"`
		Author      string `json:"author"`
	}
	var starred []starredRow
	if err := repositories.DB.Model(&models.Star{}).
		Select(`posts.header, posts."readingTime", authors.name AS author`).
		Joins("INNER JOIN posts ON posts.id = stars.post_id").
		Joins("INNER JOIN users ON users.id = stars.user_id").
		Joins("INNER JOIN users AS authors ON authors.id = posts.author_id").
		Where("users.username = ?", username).
		Scan(&starred).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(starred) == 0 {
		utils.JSONError(w, http.StatusNotFound, "There is nothing yet.")
		return
	}

	utils.JSONData(w, http.StatusOK, starred)
}
