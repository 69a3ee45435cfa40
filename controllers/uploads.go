package controllers

import (
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/Ragib100/LocalFix/utils"
)

var allowedPhotoExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// UploadPhotoHandler accepts a multipart photo, stores it in the
// S3-compatible bucket and returns the opaque URL the workflow consumes.
func UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Missing photo file"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(path.Ext(header.Filename))
	if !allowedPhotoExt[ext] {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported file type"})
		return
	}

	objectName := fmt.Sprintf("photos/%d/%d%s", uid, time.Now().UnixNano(), ext)
	if err := utils.UploadPhoto(r.Context(), objectName, file); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Photo uploaded",
		Data:    map[string]interface{}{"photo_url": utils.PublicURL(objectName)},
	})
}

// HealthHandler reports service liveness for container health checks.
func HealthHandler(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","timestamp":%d,"service":%q}`, time.Now().Unix(), service)
	}
}
