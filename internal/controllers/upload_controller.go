package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploadDir string
}

func NewUploadController(uploadDir string) *UploadController {
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &UploadController{uploadDir: uploadDir}
}

// UploadImage stores a submitted image on local disk and returns the URL the
// analyze endpoint expects as imageUrl.
func (uc *UploadController) UploadImage(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPG, PNG, and WEBP images are supported"})
		return
	}

	if err := os.MkdirAll(uc.uploadDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload directory"})
		return
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(file.Filename))
	destination := filepath.Join(uc.uploadDir, filename)

	if err := c.SaveUploadedFile(file, destination); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://localhost:" + port
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Image uploaded successfully",
		"imageUrl": fmt.Sprintf("%s/uploads/%s", baseURL, filename),
		"publicId": filename,
	})
}
