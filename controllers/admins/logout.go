package admins

import (
	"net/http"
	"strings"
	"time"

	"github.com/Ragib100/LocalFix/utils"
)

// Logout revokes the admin access token's jti so the remaining lifetime of
// the token cannot be replayed.
func Logout(w http.ResponseWriter, r *http.Request) {
	authz := r.Header.Get("Authorization")
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	if _, claims, err := utils.ValidateAccessToken(tokenStr); err == nil {
		if jti, ok := claims["jti"].(string); ok && jti != "" {
			if err := utils.RevokeJTI(jti, 6*time.Hour); err != nil {
				// revocation store outage is not fatal to logout
				_ = err
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Logged out"})
}
