package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/models"
	"github.com/Ragib100/LocalFix/utils"
)

// LogoutHandler revokes the access token's jti and every refresh token of
// the authenticated user.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	authz := r.Header.Get("Authorization")
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	if _, claims, err := utils.ValidateAccessToken(tokenStr); err == nil {
		if jti, ok := claims["jti"].(string); ok && jti != "" {
			if err := utils.RevokeJTI(jti, 24*time.Hour); err != nil {
				// revocation store outage is not fatal to logout
				_ = err
			}
		}
	}

	if err := database.DB.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", uid, false).
		Update("revoked", true).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
