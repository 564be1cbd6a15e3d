package handlers

import (
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/asimsek-dev/quillpad/internal/api/middleware"
	"github.com/asimsek-dev/quillpad/internal/config"
	"github.com/asimsek-dev/quillpad/internal/models"
	"github.com/asimsek-dev/quillpad/internal/repositories"
	"github.com/asimsek-dev/quillpad/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// profileUser is the public slice of a user row.
type profileUser struct {
	ID       uint      `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	About    *string   `json:"about"`
	JoinedAt time.Time `json:"joinedAt" gorm:"column:joined_at"`
	Image    *string   `json:"image"`
}

// GET /user
// The landing feed: latest 10 visible posts across all authors.
func GetFeed(w http.ResponseWriter, r *http.Request) {
	type feedRow struct {
		ID          uint      `json:"id"`
		Slug        string    `json:"slug"`
		Header      string    `json:"header"`
		Content     string    `json:"content"`
		ReadingTime int       `json:"readingTime" gorm:"column:readingTime"`
		CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
		UserID      uint      `json:"userId" gorm:"column:user_id"`
		Author      string    `json:"author"`
		Username    string    `json:"username"`
		AuthorImg   *string   `json:"authorImg" gorm:"column:author_img"`
	}

	var posts []feedRow
	if err := repositories.DB.Model(&models.Post{}).
		Select(`posts.id, posts.slug, posts.header, posts.content, posts."readingTime", posts.created_at,
			users.id AS user_id, users.name AS author, users.username, users.image AS author_img`).
		Joins("INNER JOIN users ON posts.author_id = users.id").
		Where("posts.is_hidden = ? AND posts.is_private = ?", false, false).
		Order("posts.id DESC").
		Limit(10).
		Scan(&posts).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONData(w, http.StatusOK, posts)
}

// GET /user/{user}
// GetProfile godoc
// @Summary Public profile with recent posts
// @Tags Users
// @Produce json
// @Param user path string true "Username"
// @Success 200 {object} map[string]any
// @Failure 404 {object} utils.ErrorEnvelope
// @Router /user/{user} [get]
func GetProfile(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("user")
	owner := isOwner(r, username)

	type recentPost struct {
		Slug        string    `json:"slug"`
		Header      string    `json:"header"`
		Content     string    `json:"content"`
		ReadingTime int       `json:"readingTime" gorm:"column:readingTime"`
		CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
		IsHidden    bool      `json:"isHidden" gorm:"column:is_hidden"`
	}

	// The two queries are independent; run them together.
	var (
		user  profileUser
		posts []recentPost
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return repositories.DB.WithContext(ctx).Model(&models.User{}).
			Select("users.id, users.username, users.name, users.about, users.joined_at, users.image").
			Where("username = ?", username).
			Limit(1).
			Scan(&user).Error
	})
	g.Go(func() error {
		q := repositories.DB.WithContext(ctx).Model(&models.Post{}).
			Select(`posts.slug, posts.header, posts.content, posts."readingTime", posts.created_at, posts.is_hidden`).
			Joins("INNER JOIN users ON posts.author_id = users.id").
			Where("users.username = ?", username)
		if !owner {
			q = visibleOnly(q)
		}
		return q.Order("posts.created_at DESC").Limit(3).Scan(&posts).Error
	})
	if err := g.Wait(); err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if user.ID == 0 {
		utils.JSONError(w, http.StatusNotFound, "Not allowed.")
		return
	}

	utils.JSONData(w, http.StatusOK, map[string]any{
		"user":  user,
		"posts": posts,
	})
}

// GET /user/me and GET /admin/user
func Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	var user models.User
	err := repositories.DB.First(&user, identity.UserID).Error
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONData(w, http.StatusOK, user)
}

// PUT /edit/user
// Multipart profile update. A new avatar is uploaded first; the replaced
// object is deleted only after the row records the new URL and key.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	const maxUploadSize = 10 << 20 // 10 MB
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid upload form")
		return
	}

	username := r.FormValue("username")
	name := r.FormValue("name")
	email := r.FormValue("email")
	about := r.FormValue("about")
	if username == "" || name == "" || email == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	err := repositories.DB.First(&user, identity.UserID).Error
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	newImage := user.Image
	newImageKey := user.ImageKey

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()

		key := "avatars/" + uuid.New().String() + filepath.Ext(header.Filename)
		contentType := header.Header.Get("Content-Type")
		if uploadErr := repositories.UploadObject(r.Context(), key, contentType, file, header.Size); uploadErr != nil {
			utils.JSONError(w, http.StatusInternalServerError, "Failed to upload image")
			return
		}
		url := config.Envs.R2.PublicBaseURL + "/" + key
		newImage = &url
		newImageKey = &key
	}

	updates := map[string]any{
		"username":  username,
		"name":      name,
		"email":     email,
		"about":     about,
		"image":     newImage,
		"image_key": newImageKey,
	}
	if err := repositories.DB.Model(&models.User{}).
		Where("id = ?", identity.UserID).
		Updates(updates).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	// The old avatar is gone from the row; removing the object is best-effort.
	if newImageKey != nil && user.ImageKey != nil && *user.ImageKey != *newImageKey {
		if delErr := repositories.DeleteObject(r.Context(), *user.ImageKey); delErr != nil {
			log.Printf("Failed to delete replaced avatar %s: %v", *user.ImageKey, delErr)
		}
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Your profile has been updated!",
	})
}

// DELETE /delete/user
// Removes the caller's categories and posts, then the user row, in one
// transaction. Follows, stars, and messages referencing the user are left
// behind.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	err := repositories.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("post_id IN (?)", tx.Model(&models.Post{}).Select("id").Where("author_id = ?", identity.UserID)).
			Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("category_id IN (?)", tx.Model(&models.Category{}).Select("id").Where("user_id = ?", identity.UserID)).
			Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", identity.UserID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", identity.UserID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, identity.UserID).Error
	})
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User deleted successfuly!",
	})
}
