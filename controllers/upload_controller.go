package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siravitrin-eng/the-pos-67079349/services"
)

type UploadController struct {
	uploader services.ImageUploader
}

func NewUploadController(uploader services.ImageUploader) *UploadController {
	return &UploadController{uploader: uploader}
}

// Upload sends a raw image file to the image host and returns its
// durable URL for use in product forms.
func (uc *UploadController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File upload required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open file"})
		return
	}
	defer file.Close()

	url, svcErr := uc.uploader.Upload(c.Request.Context(), file)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"secure_url": url})
}
