package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gin-gonic/gin"
)

// UploadImage accepts a multipart image and returns the hosted URL, used
// by clients to fill in a post's featuredImage before creating it.
func UploadImage(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		respondError(c, http.StatusBadRequest, "Failed to parse form data")
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Image hosting is not configured")
		return
	}

	result, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         "mindful-haven/featured",
		PublicID:       time.Now().Format("20060102150405"),
		Transformation: "c_limit,w_1600,h_900,q_auto",
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	respondOK(c, gin.H{"url": result.SecureURL})
}
