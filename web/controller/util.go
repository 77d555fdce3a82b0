package controller

import (
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	"taskman/logger"
	"taskman/util/images"
	"taskman/web/service"

	"github.com/gin-gonic/gin"
)

// maxUploadSize bounds avatar and task image uploads.
const maxUploadSize = 1000000

// getRemoteIp extracts the real client IP from proxy headers or the remote
// address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonError sends a JSON error body with the given status.
func jsonError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, gin.H{"error": msg})
}

// readImageUpload pulls the multipart file out of the request, enforces the
// size and extension limits and normalizes it to a 350×350 PNG. On failure
// it writes the 400 response itself and reports false.
func readImageUpload(c *gin.Context, field string) ([]byte, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Please upload an image file!")
		return nil, false
	}
	if file.Size > maxUploadSize {
		jsonError(c, http.StatusBadRequest, "Image must be smaller than 1MB")
		return nil, false
	}

	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".png", ".jpg", ".jpeg":
	default:
		jsonError(c, http.StatusBadRequest, "Please upload an image file!")
		return nil, false
	}

	f, err := file.Open()
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Please upload an image file!")
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil || len(data) > maxUploadSize {
		jsonError(c, http.StatusBadRequest, "Image must be smaller than 1MB")
		return nil, false
	}

	normalized, err := images.Normalize(data)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Please upload an image file!")
		return nil, false
	}
	return normalized, true
}

// serviceError maps a service-layer error to its HTTP response. Not-found
// responses carry no body, matching the deliberate silence about whether
// the resource exists at all.
func serviceError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		jsonError(c, http.StatusBadRequest, err.Error())
	case err == service.ErrInvalidCredentials:
		jsonError(c, http.StatusBadRequest, err.Error())
	case err == service.ErrNotFound:
		c.Status(http.StatusNotFound)
	default:
		logger.Error("request failed:", err)
		c.Status(http.StatusInternalServerError)
	}
}
