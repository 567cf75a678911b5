package services

import (
	"log"
	"path/filepath"
	"strings"

	"skate-challenge-service/apperrors"
	"skate-challenge-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".m4v":  true,
	".webm": true,
}

// MediaService accepts trick videos for attempts and challenges.
type MediaService struct {
	Uploader utils.VideoUploader
	MaxBytes int64
}

func NewMediaService(uploader utils.VideoUploader, maxBytes int64) *MediaService {
	return &MediaService{Uploader: uploader, MaxBytes: maxBytes}
}

// UploadVideo stores the multipart "video" field and returns its URL for use
// as an attempt's or challenge's videoUrl.
func (s *MediaService) UploadVideo(c *fiber.Ctx) error {
	if s.Uploader == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "video uploads are not configured",
			"code":  "UNAVAILABLE",
		})
	}

	video, err := c.FormFile("video")
	if err != nil {
		return respondError(c, apperrors.New(apperrors.CodeValidation, "video file is required"))
	}
	if s.MaxBytes > 0 && video.Size > s.MaxBytes {
		return respondError(c, apperrors.New(apperrors.CodeValidation, "video file is too large"))
	}

	ext := strings.ToLower(filepath.Ext(video.Filename))
	if !videoExtensions[ext] {
		return respondError(c, apperrors.New(apperrors.CodeValidation, "unsupported video format "+ext))
	}

	key := "videos/" + uuid.NewString() + ext
	url, err := s.Uploader.Upload(c.UserContext(), video, key)
	if err != nil {
		log.Printf("[MEDIA] ❌ Upload of %s failed: %v", video.Filename, err)
		return respondError(c, err)
	}

	log.Printf("[MEDIA] 🎥 Stored %s (%d bytes) at %s", video.Filename, video.Size, key)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url, "key": key})
}
