package model

import "errors"

// Upload constraints for profile photos and post thumbnails.
const (
	MaxPhotoSizeBytes     = 5 * 1024 * 1024
	MaxThumbnailSizeBytes = 8 * 1024 * 1024

	PhotoWidth  = 400
	PhotoHeight = 400

	PhotoFolder     = "profile-photos"
	ThumbnailFolder = "post-thumbnails"

	PhotoExt = ".jpg"

	ContentTypeJPEG = "image/jpeg"

	// Photos are keyed by UUID so they never collide; cache forever.
	PhotoCacheControl = "public, max-age=31536000, immutable"
)

// UploadResult is returned after storing an object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignResult is returned for client-side thumbnail uploads: the client
// PUTs to UploadURL, then references PublicURL in the post.
type PresignResult struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
}

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// IsAllowedImageType reports whether the content type may be uploaded.
func IsAllowedImageType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}
