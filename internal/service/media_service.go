package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

// MediaService proxies image management to Cloudinary: uploads, deletions
// and delivery-URL generation.
type MediaService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewMediaService(cloudName string, apiKey string, apiSecret string, folder string) (*MediaService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}

	if folder == "" {
		folder = "not-specified"
	}

	return &MediaService{cld: cld, folder: folder}, nil
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Upload stores a multipart image. When oldImageURL points at a previously
// uploaded asset, that asset is removed first so avatars and similar
// single-slot images do not accumulate.
func (s *MediaService) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string, oldImageURL string) (model.UploadedImage, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return model.UploadedImage{}, apierror.BadRequest("only image files are allowed", contentType)
	}

	if oldImageURL != "" {
		if publicID := ExtractPublicID(oldImageURL); publicID != "" {
			if err := s.Delete(ctx, publicID); err != nil {
				// Keep going: a stale leftover beats a failed upload.
				slog.Warn("could not delete previous image", "public_id", publicID, "error", err)
			}
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return model.UploadedImage{}, fmt.Errorf("open uploaded file: %w", err)
	}
	defer file.Close()

	if folder == "" {
		folder = s.folder
	}

	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return model.UploadedImage{}, apierror.Unavailable("image upload failed")
	}

	return model.UploadedImage{
		URL:          result.SecureURL,
		PublicID:     result.PublicID,
		OptimizedURL: s.optimizedURLOrEmpty(result.PublicID),
	}, nil
}

func (s *MediaService) UploadFromURL(ctx context.Context, imageURL string, publicID string) (model.UploadedImage, error) {
	if strings.TrimSpace(imageURL) == "" {
		return model.UploadedImage{}, apierror.BadRequest("image URL is required", "")
	}

	result, err := s.cld.Upload.Upload(ctx, imageURL, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return model.UploadedImage{}, apierror.Unavailable("image upload failed")
	}

	return model.UploadedImage{
		URL:          result.SecureURL,
		PublicID:     result.PublicID,
		OptimizedURL: s.optimizedURLOrEmpty(result.PublicID),
	}, nil
}

func (s *MediaService) Delete(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return apierror.BadRequest("public ID is required", "")
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return apierror.Unavailable("image deletion failed")
	}
	return nil
}

// OptimizedURL returns a delivery URL with automatic format and quality.
func (s *MediaService) OptimizedURL(publicID string) (string, error) {
	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("build image asset: %w", err)
	}

	img.Transformation = "f_auto/q_auto"
	return img.String()
}

// TransformedURL returns a delivery URL cropped to the given dimensions.
func (s *MediaService) TransformedURL(publicID string, width int, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", apierror.BadRequest("width and height must be positive", "")
	}

	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("build image asset: %w", err)
	}

	img.Transformation = fmt.Sprintf("c_auto,g_auto,w_%d,h_%d", width, height)
	return img.String()
}

func (s *MediaService) optimizedURLOrEmpty(publicID string) string {
	url, err := s.OptimizedURL(publicID)
	if err != nil {
		return ""
	}
	return url
}

var publicIDPattern = regexp.MustCompile(`/upload/(?:v\d+/)?(.+?)(?:\.[^./]+)?$`)

// ExtractPublicID pulls the public ID out of a Cloudinary delivery URL.
// Returns "" when the URL is not a Cloudinary one.
func ExtractPublicID(url string) string {
	if url == "" || !strings.Contains(url, "cloudinary.com") {
		return ""
	}

	match := publicIDPattern.FindStringSubmatch(url)
	if len(match) < 2 {
		return ""
	}
	return match[1]
}
