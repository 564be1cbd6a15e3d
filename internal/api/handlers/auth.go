package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/asimsek-dev/quillpad/internal/api/middleware"
	"github.com/asimsek-dev/quillpad/internal/models"
	"github.com/asimsek-dev/quillpad/internal/repositories"
	"github.com/asimsek-dev/quillpad/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// POST /signup
// Signup godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.ErrorEnvelope
// @Failure 409 {object} utils.ErrorEnvelope
// @Router /signup [post]
func Signup(w http.ResponseWriter, r *http.Request) {
	type Input struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" || input.Name == "" || input.Email == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Duplicate check is a pre-query, not a constraint-violation catch.
	var existing models.User
	err := repositories.DB.
		Where("username = ? OR email = ?", input.Username, input.Email).
		First(&existing).Error
	switch err {
	case nil:
		utils.JSONError(w, http.StatusConflict, "This user is already exist!")
		return
	case gorm.ErrRecordNotFound:
		// new user
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Database query failed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		Username: input.Username,
		Password: string(hashed),
		Name:     input.Name,
		Email:    input.Email,
	}
	if err := repositories.DB.Create(&user).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database insert failed")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Success!",
	})
}

// POST /signin
// Signin godoc
// @Summary Exchange credentials for a token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 401 {object} utils.ErrorEnvelope
// @Failure 404 {object} utils.ErrorEnvelope
// @Router /signin [post]
func Signin(w http.ResponseWriter, r *http.Request) {
	type Input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// The username field also accepts the account email.
	var user models.User
	err := repositories.DB.
		Where("username = ? OR email = ?", input.Username, input.Username).
		First(&user).Error
	switch err {
	case nil:
	case gorm.ErrRecordNotFound:
		utils.JSONError(w, http.StatusNotFound, "User not found.")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid password.")
		return
	}

	token, err := utils.CreateToken(user.ID, user.Username)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to create token")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Login successful",
		Data: map[string]any{
			"token": token,
		},
	})
}

// PUT /edit/change-password
// Re-hashes and overwrites; there is no current-password check.
func ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Invalid user.")
		return
	}

	var input struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	if err := repositories.DB.Model(&models.User{}).
		Where("id = ?", identity.UserID).
		Update("password", string(hashed)).Error; err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Database error")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Your password changed!",
	})
}
