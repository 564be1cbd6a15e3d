package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/asimsek-dev/quillpad/internal/api/middleware"
	"github.com/asimsek-dev/quillpad/internal/models"
	"github.com/asimsek-dev/quillpad/internal/repositories"
	"github.com/asimsek-dev/quillpad/internal/utils"
	"gorm.io/gorm"
)

// postRow is the joined shape list routes return.
type postRow struct {
	Slug        string    `json:"slug"`
	Header      string    `json:"header"`
	Content     string    `json:"content"`
	ReadingTime int       `json:"readingTime" gorm:"column:readingTime"`
	CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
	IsHidden    bool      `json:"isHidden" gorm:"column:is_hidden"`
	Author      string    `json:"author"`
	AuthorID    uint      `json:"authorId" gorm:"column:author_id"`
}

// isOwner reports whether the attached identity matches the path user.
// Owners see their hidden and private items; everyone else does not.
func isOwner(r *http.Request, username string) bool {
	identity, ok := middleware.IdentityFrom(r.Context())
	return ok && identity.Username == username
}

// visibleOnly restricts a posts query for callers who do not own the rows.
func visibleOnly(q *gorm.DB) *gorm.DB {
	return q.Where("posts.is_hidden = ? AND posts.is_private = ?", false, false)
}

// GET /user/{user}/posts
// ListUserPosts godoc
// @Summary List an author's posts
// @Tags Posts
// @Produce json
// @Param user path string true "Author username"
// @Success 200 {array} handlers.postRow
// @Failure 404 {object} utils.ErrorEnvelope
// @Router /user/{user}/posts [get]
func ListUserPosts(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("user")

	q := repositories.DB.Model(&models.Post{}).
		Select(`posts.slug, posts.header, posts.content, posts."readingTime", posts.created_at, posts.is_hidden, users.name AS author, posts.author_id`).
		Joins("INNER JOIN users ON users.id = posts.author_id").
		Where("users.username = ?", username)
	if !isOwner(r, username) {
		q = visibleOnly(q)
	}

	var posts []postRow
	if err := q.Scan(&posts).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(posts) == 0 {
		utils.JSONError(w, http.StatusNotFound, "There is nothing yet.")
		return
	}

	utils.JSONData(w, http.StatusOK, posts)
}

// GET /user/{user}/posts/{post}
func GetPost(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("user")
	slug := r.PathValue("post")

	type singlePost struct {
		ID          uint       `json:"id"`
		Slug        string     `json:"slug"`
		Header      string     `json:"header"`
		Content     string     `json:"content"`
		ReadingTime int        `json:"readingTime" gorm:"column:readingTime"`
		CreatedAt   time.Time  `json:"createdAt" gorm:"column:created_at"`
		UpdatedAt   time.Time  `json:"updatedAt" gorm:"column:updated_at"`
		IsHidden    bool       `json:"isHidden" gorm:"column:is_hidden"`
		Author      string     `json:"author"`
		AuthorImg   *string    `json:"authorImg" gorm:"column:author_img"`
	}

	q := repositories.DB.Model(&models.Post{}).
		Select(`posts.id, posts.slug, posts.header, posts.content, posts."readingTime", posts.created_at, posts.updated_at, posts.is_hidden, users.name AS author, users.image AS author_img`).
		Joins("INNER JOIN users ON users.id = posts.author_id").
		Where("users.username = ? AND posts.slug ILIKE ?", username, slug)
	if !isOwner(r, username) {
		q = visibleOnly(q)
	}

	var post singlePost
	if err := q.Limit(1).Scan(&post).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if post.ID == 0 {
		utils.JSONError(w, http.StatusNotFound, "Not found.")
		return
	}

	type categoryRow struct {
		ID       uint   `json:"id"`
		Category string `json:"category"`
		Slug     string `json:"slug"`
	}
	var categories []categoryRow
	if err := repositories.DB.Model(&models.Category{}).
		Select("categories.id, categories.category, categories.slug").
		Joins("INNER JOIN post_categories ON categories.id = post_categories.category_id").
		Where("post_categories.post_id = ?", post.ID).
		Scan(&categories).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	response := map[string]any{"post": post}
	if len(categories) > 0 {
		response["categories"] = categories
	}

	utils.JSONData(w, http.StatusOK, response)
}

// POST /new/post
// CreatePost godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param x-auth-token header string true "Signed token"
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.ErrorEnvelope
// @Failure 401 {object} utils.ErrorEnvelope
// @Router /new/post [post]
func CreatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	type Input struct {
		Header     string `json:"header"`
		Content    string `json:"content"`
		Categories []uint `json:"categories"`
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Header == "" || input.Content == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	post := models.Post{
		Header:      input.Header,
		Slug:        utils.MakeSlug(input.Header),
		Content:     input.Content,
		ReadingTime: utils.ReadingTime(input.Content),
		AuthorID:    identity.UserID,
	}

	// Post and its category links commit together or not at all.
	err := repositories.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, categoryID := range input.Categories {
			link := models.PostCategory{PostID: post.ID, CategoryID: categoryID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create post")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Post successfully created",
	})
}

// PUT /edit/{user}/post/{post}
func UpdatePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	type Input struct {
		Header     string `json:"header"`
		Content    string `json:"content"`
		Categories []uint `json:"categories"`
		IsHidden   bool   `json:"isHidden"`
		IsPrivate  bool   `json:"isPrivate"`
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Header == "" || input.Content == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	slug := utils.MakeSlug(input.Header)
	if input.IsPrivate {
		slug = utils.RandomPath(utils.RandomPathLength)
	}

	err := repositories.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.
			Where("slug = ? AND author_id = ?", r.PathValue("post"), identity.UserID).
			First(&post).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"header":      input.Header,
			"slug":        slug,
			"content":     input.Content,
			"readingTime": utils.ReadingTime(input.Content),
			"is_hidden":   input.IsHidden,
			"is_private":  input.IsPrivate,
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
			return err
		}

		if len(input.Categories) > 0 {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostCategory{}).Error; err != nil {
				return err
			}
			for _, categoryID := range input.Categories {
				link := models.PostCategory{PostID: post.ID, CategoryID: categoryID}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Post not found or you are not authorized.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to update post")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Post has been updated!",
	})
}

// DELETE /delete/posts/{post}
func DeletePost(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	err := repositories.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.
			Where("slug = ? AND author_id = ?", r.PathValue("post"), identity.UserID).
			First(&post).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Post not found or you are not authorized.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Post deleted successfuly!",
	})
}

// GET /admin/edit/post/{post}
// Returns the raw post row plus every category of the caller, for the editor view.
func EditPostView(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	var post models.Post
	err := repositories.DB.
		Where("author_id = ? AND slug = ?", identity.UserID, r.PathValue("post")).
		First(&post).Error
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	var categories []models.Category
	if err := repositories.DB.
		Where("user_id = ?", identity.UserID).
		Find(&categories).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONData(w, http.StatusOK, map[string]any{
		"post":       post,
		"categories": categories,
	})
}
