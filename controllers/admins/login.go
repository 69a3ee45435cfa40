package admins

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/middleware"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"

	"gorm.io/gorm"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,pwdmin"`
}

func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var admin models.Admin
	err := database.DB.Where("username = ? AND is_active = ?", strings.TrimSpace(req.Username), true).First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Wrong username or password"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if !admin.ValidatePassword(req.Password) {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Wrong username or password"})
		return
	}

	// admin sessions are short-lived
	token, err := utils.GenerateAccessTokenWithExpiry(uint(admin.ID), "admin", 6*time.Hour)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Login failed"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"admin": map[string]interface{}{
				"id":       admin.ID,
				"username": admin.Username,
				"name":     admin.Name,
			},
			"access_token": token,
		},
	})
}
