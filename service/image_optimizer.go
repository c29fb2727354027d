package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"sheet-storefront/repository"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	maxSourceImageBytes = 10 << 20
)

// ErrImageNotAllowed is returned for URLs not referenced by any loaded catalog or theme
var ErrImageNotAllowed = errors.New("image is not part of a loaded catalog")

// ImageServiceInterface defines the contract for the catalog image proxy
type ImageServiceInterface interface {
	GetOptimized(ctx context.Context, imageURL string, size string) ([]byte, error)
}

// ImageService downloads catalog images, shrinks them and caches the result on disk
type ImageService struct {
	cacheDir string
	store    repository.CatalogStoreInterface
	client   *http.Client
}

// NewImageService creates a new ImageService. A nil client gets a 15s timeout client.
func NewImageService(cacheDir string, store repository.CatalogStoreInterface, client *http.Client) *ImageService {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ImageService{cacheDir: cacheDir, store: store, client: client}
}

// Ensure ImageService implements ImageServiceInterface
var _ ImageServiceInterface = (*ImageService)(nil)

// normalizeImageSize maps unknown sizes to "medium"
func normalizeImageSize(size string) string {
	switch size {
	case "thumb", "medium":
		return size
	default:
		if size != "" {
			log.Printf("⚠️  Unknown size '%s', defaulting to medium", size)
		}
		return "medium"
	}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (s *ImageService) EnsureCacheDir() error {
	if err := os.MkdirAll(s.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for an image URL and size
func (s *ImageService) CachePath(imageURL string, size string) string {
	sum := sha256.Sum256([]byte(imageURL))
	filename := fmt.Sprintf("%s_%s.jpg", hex.EncodeToString(sum[:12]), size)
	return filepath.Join(s.cacheDir, filename)
}

// GetOptimized returns the optimized JPEG of a catalog image, from cache when possible
func (s *ImageService) GetOptimized(ctx context.Context, imageURL string, size string) ([]byte, error) {
	if !s.store.HasImage(imageURL) {
		return nil, ErrImageNotAllowed
	}
	size = normalizeImageSize(size)

	cachePath := s.CachePath(imageURL, size)
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	original, err := s.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(original, size)
	if err != nil {
		return nil, err
	}

	if err := saveToCache(cachePath, optimized); err != nil {
		// Serving still works without the cache
		log.Printf("⚠️  GetOptimized: %v", err)
	}
	return optimized, nil
}

func (s *ImageService) download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	log.Printf("📥 Image downloaded: %s (%d bytes)", imageURL, len(data))
	return data, nil
}

// saveToCache saves an image to the cache
func saveToCache(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Image cached: %s", cachePath)
	return nil
}

// OptimizeImage converts an image to JPEG, shrinking it so its longest side
// fits the size ("thumb" or "medium"). Smaller images are never upscaled.
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if normalizeImageSize(size) == "thumb" {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxDim || height > maxDim {
		// imaging.Fit keeps the aspect ratio
		log.Printf("🔄 Resizing %s image: %dx%d to fit %d", format, width, height, maxDim)
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
