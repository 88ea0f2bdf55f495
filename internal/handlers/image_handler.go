package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/imaging"
	"github.com/BruksfildServices01/venue-booking/internal/storage"
)

const maxImagesPerUpload = 10

// ImageHandler converts uploaded venue photos to WebP and stores them.
type ImageHandler struct {
	db       *gorm.DB
	uploader storage.Uploader
	maxBytes int64
	audit    *audit.Dispatcher
}

func NewImageHandler(db *gorm.DB, uploader storage.Uploader, maxBytes int64, audit *audit.Dispatcher) *ImageHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &ImageHandler{db: db, uploader: uploader, maxBytes: maxBytes, audit: audit}
}

func (h *ImageHandler) UploadVenueImages(c *gin.Context) {
	if h.uploader == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_not_configured", "image storage is not configured")
		return
	}

	files, err := uploadedImages(c, h.maxBytes)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	venue, err := findVenue(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		body, err := webpOf(fh)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		key := fmt.Sprintf("venues/%s/%s.webp", venue.ID, uuid.NewString())
		url, err := h.uploader.Put(c.Request.Context(), key, "image/webp", body)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		urls = append(urls, url)
	}

	images, err := appendImages(venue.Images, urls)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.db.WithContext(c.Request.Context()).
		Model(venue).
		Update("images", images).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "venue_images_uploaded",
		Entity:   "venue",
		EntityID: audit.Ref(venue.ID),
		Metadata: map[string]any{"urls": urls},
	})

	httpresp.Created(c, "Images uploaded successfully", gin.H{"images": images, "uploaded": urls})
}

// uploadedImages reads the "images" (or single "image") multipart fields.
func uploadedImages(c *gin.Context, maxBytes int64) ([]*multipart.FileHeader, error) {
	// Room for every file plus the multipart framing.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes*maxImagesPerUpload+1<<20)

	form, err := c.MultipartForm()
	if err != nil {
		return nil, httperr.Validation("invalid_upload", "expected a multipart form with images")
	}

	files := append(form.File["images"], form.File["image"]...)
	switch {
	case len(files) == 0:
		return nil, httperr.Validation("no_images", "no images uploaded")
	case len(files) > maxImagesPerUpload:
		return nil, httperr.Validation("too_many_images", fmt.Sprintf("at most %d images per upload", maxImagesPerUpload))
	}

	for _, fh := range files {
		if fh.Size > maxBytes {
			return nil, httperr.Validation("image_too_large", fmt.Sprintf("%s exceeds the upload limit", fh.Filename))
		}
	}
	return files, nil
}

func webpOf(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out, err := imaging.ToWebP(f, imaging.DefaultMaxWidth, imaging.DefaultQuality)
	if errors.Is(err, imaging.ErrUnsupported) {
		return nil, httperr.Validation("unsupported_image", fmt.Sprintf("%s is not a supported image", fh.Filename))
	}
	return out, err
}

// appendImages adds urls to a JSON array column. An empty or null column
// counts as no images.
func appendImages(current datatypes.JSON, urls []string) (datatypes.JSON, error) {
	var images []string
	if len(current) > 0 && string(current) != "null" {
		if err := json.Unmarshal(current, &images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	images = append(images, urls...)

	out, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(out), nil
}
