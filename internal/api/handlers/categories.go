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

// GET /user/{user}/categories
func ListUserCategories(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("user")

	var user models.User
	err := repositories.DB.Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "User not found.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	type categoryRow struct {
		ID         uint   `json:"id"`
		Category   string `json:"category"`
		Slug       string `json:"slug"`
		PostsCount int    `json:"postsCount" gorm:"column:posts_count"`
	}

	q := repositories.DB.Model(&models.Category{}).
		Select("categories.id, categories.category, categories.slug, COUNT(posts.id) AS posts_count").
		Joins("INNER JOIN post_categories ON post_categories.category_id = categories.id").
		Joins("INNER JOIN posts ON post_categories.post_id = posts.id").
		Where("posts.author_id = ?", user.ID).
		Group("categories.id")
	if !isOwner(r, username) {
		q = q.Where("categories.is_hidden = ? AND categories.is_private = ?", false, false)
	}

	var categories []categoryRow
	if err := q.Scan(&categories).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(categories) == 0 {
		utils.JSONError(w, http.StatusNotFound, "Not found.")
		return
	}

	utils.JSONData(w, http.StatusOK, categories)
}

// GET /user/{user}/categories/category?id=1&id=2
// Lists posts filed under the given category ids.
func ListPostsByCategory(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("user")

	rawIDs := r.URL.Query()["id"]
	if len(rawIDs) == 0 {
		utils.JSONError(w, http.StatusBadRequest, "Invalid category ID(s).")
		return
	}
	categoryIDs := make([]uint, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "Invalid category ID(s).")
			return
		}
		categoryIDs = append(categoryIDs, uint(id))
	}

	type postByCategory struct {
		Slug        string    `json:"slug"`
		Header      string    `json:"header"`
		ReadingTime int       `json:"readingTime" gorm:"column:readingTime"`
		CreatedAt   time.Time `json:"createdAt" gorm:"column:created_at"`
	}

	q := repositories.DB.Model(&models.Post{}).
		Select(`posts.slug, posts.header, posts."readingTime", posts.created_at`).
		Joins("INNER JOIN post_categories ON post_categories.post_id = posts.id").
		Joins("INNER JOIN categories ON post_categories.category_id = categories.id").
		Joins("INNER JOIN users ON posts.author_id = users.id").
		Where("users.username = ? AND categories.id IN ?", username, categoryIDs)
	if !isOwner(r, username) {
		q = visibleOnly(q)
	}

	var posts []postByCategory
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

// POST /new/category
// No uniqueness check; duplicate slugs are possible.
func CreateCategory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	var input struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Category == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	category := models.Category{
		Category: input.Category,
		Slug:     utils.MakeSlug(input.Category),
		UserID:   identity.UserID,
	}
	if err := repositories.DB.Create(&category).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database insert failed")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Category has been added!",
	})
}

// PUT /edit/{user}/category/{category}
// Marking a category private swaps its slug for a random opaque token and
// pushes the visibility change down to every linked post.
func UpdateCategory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	type Input struct {
		Category  string `json:"category"`
		IsHidden  bool   `json:"isHidden"`
		IsPrivate bool   `json:"isPrivate"`
	}
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Category == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	slug := utils.MakeSlug(input.Category)
	if input.IsPrivate {
		slug = utils.RandomPath(utils.RandomPathLength)
	}

	err := repositories.DB.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.
			Where("slug = ? AND user_id = ?", r.PathValue("category"), identity.UserID).
			First(&category).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Category{}).Where("id = ?", category.ID).Updates(map[string]any{
			"category":   input.Category,
			"slug":       slug,
			"is_hidden":  input.IsHidden,
			"is_private": input.IsPrivate,
		}).Error; err != nil {
			return err
		}

		var links []models.PostCategory
		if err := tx.Where("category_id = ?", category.ID).Find(&links).Error; err != nil {
			return err
		}
		for _, link := range links {
			var post models.Post
			if err := tx.First(&post, link.PostID).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					continue
				}
				return err
			}
			postSlug := utils.MakeSlug(post.Header)
			if input.IsPrivate {
				postSlug = utils.RandomPath(utils.RandomPathLength)
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]any{
				"is_hidden":  input.IsHidden,
				"is_private": input.IsPrivate,
				"slug":       postSlug,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Category not found.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to update category")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Category has been updated!",
	})
}

// DELETE /delete/categories/{category}
// Cascade is performed by the handler: linked posts go first, then the
// links, then the category row, all in one transaction.
func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	err := repositories.DB.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.
			Where("slug = ? AND user_id = ?", r.PathValue("category"), identity.UserID).
			First(&category).Error; err != nil {
			return err
		}

		var links []models.PostCategory
		if err := tx.Where("category_id = ?", category.ID).Find(&links).Error; err != nil {
			return err
		}
		for _, link := range links {
			if err := tx.Delete(&models.Post{}, link.PostID).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, category.ID).Error
	})
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Category not found.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Success!",
	})
}

// GET /admin/categories
func MyCategories(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	type categoryOption struct {
		ID       uint   `json:"id"`
		Category string `json:"category"`
	}
	var categories []categoryOption
	if err := repositories.DB.Model(&models.Category{}).
		Select("categories.id, categories.category").
		Where("user_id = ?", identity.UserID).
		Scan(&categories).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONData(w, http.StatusOK, categories)
}

// GET /admin/edit/category/{category}
func EditCategoryView(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	var category models.Category
	err := repositories.DB.
		Where("user_id = ? AND slug = ?", identity.UserID, r.PathValue("category")).
		First(&category).Error
	if err == gorm.ErrRecordNotFound {
		utils.JSONError(w, http.StatusNotFound, "Not found.")
		return
	}
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONData(w, http.StatusOK, category)
}
