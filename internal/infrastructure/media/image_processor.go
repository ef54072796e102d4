// Package media provides image processing utilities
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Thumbnail widths generated for every product image.
var thumbnailWidths = []int{800, 400, 200}

// ImageProcessor handles product image processing operations.
type ImageProcessor struct {
	basePath string
	quality  float32
}

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(basePath string, quality float32) *ImageProcessor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &ImageProcessor{
		basePath: basePath,
		quality:  quality,
	}
}

// ProcessProductImage handles a base64 product image upload. The original is
// saved under images/products/ and WebP thumbnails are generated under
// images/thumbs/. Returns the relative URL of the original and thumbnails.
func (p *ImageProcessor) ProcessProductImage(data, productID string) (string, []string, error) {
	if data == "" {
		return "", nil, fmt.Errorf("empty base64 data")
	}

	ext := extractExtension(data)
	if ext == "" {
		return "", nil, fmt.Errorf("unsupported image format")
	}

	timestamp := time.Now().UnixMilli()
	filename := fmt.Sprintf("%s-%d.%s", productID, timestamp, ext)

	productDir := filepath.Join(p.basePath, "images", "products")
	thumbsDir := filepath.Join(p.basePath, "images", "thumbs")
	if err := os.MkdirAll(productDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create products directory: %w", err)
	}
	if err := os.MkdirAll(thumbsDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create thumbs directory: %w", err)
	}

	originalPath, err := writeBinaryImage(data, filename, productDir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to save original image: %w", err)
	}

	thumbnailPaths, err := p.generateWebPThumbnails(originalPath, productID, timestamp, thumbsDir)
	if err != nil {
		os.Remove(originalPath)
		return "", nil, fmt.Errorf("failed to generate thumbnails: %w", err)
	}

	relativeOriginal := fmt.Sprintf("/media/images/products/%s", filename)
	relativeThumbnails := make([]string, len(thumbnailPaths))
	for i, thumbPath := range thumbnailPaths {
		relativeThumbnails[i] = fmt.Sprintf("/media/images/thumbs/%s", filepath.Base(thumbPath))
	}
	return relativeOriginal, relativeThumbnails, nil
}

// DeleteProductImage removes a product image and its thumbnails.
func (p *ImageProcessor) DeleteProductImage(imagePath string) error {
	if imagePath == "" {
		return fmt.Errorf("empty image path")
	}

	filename := filepath.Base(imagePath)
	basename := filename
	if dotIndex := strings.LastIndex(filename, "."); dotIndex != -1 {
		basename = filename[:dotIndex]
	}

	originalPath := filepath.Join(p.basePath, strings.TrimPrefix(imagePath, "/media/"))
	if err := os.Remove(originalPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove original image: %w", err)
	}

	thumbsDir := filepath.Join(p.basePath, "images", "thumbs")
	for _, width := range thumbnailWidths {
		thumbPath := filepath.Join(thumbsDir, fmt.Sprintf("%s_%dpx.webp", basename, width))
		// Best effort; a missing thumbnail is not an error.
		os.Remove(thumbPath)
	}
	return nil
}

// generateWebPThumbnails resizes the original into WebP thumbnails, one per
// configured width, preserving aspect ratio.
func (p *ImageProcessor) generateWebPThumbnails(originalPath, productID string, timestamp int64, thumbsDir string) ([]string, error) {
	originalFile, err := os.Open(originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open original file: %w", err)
	}
	defer originalFile.Close()

	img, err := imaging.Decode(originalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	basename := fmt.Sprintf("%s-%d", productID, timestamp)
	thumbnailPaths := make([]string, len(thumbnailWidths))

	for i, width := range thumbnailWidths {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)
		thumbFilename := fmt.Sprintf("%s_%dpx.webp", basename, width)
		thumbPath := filepath.Join(thumbsDir, thumbFilename)

		if err := webp.Save(thumbPath, resized, &webp.Options{Quality: p.quality}); err != nil {
			for j := 0; j < i; j++ {
				os.Remove(thumbnailPaths[j])
			}
			return nil, fmt.Errorf("failed to save WebP thumbnail %s: %w", thumbFilename, err)
		}
		thumbnailPaths[i] = thumbPath
	}
	return thumbnailPaths, nil
}

// extractExtension auto-detects file extension from MIME type
func extractExtension(data string) string {
	switch {
	case strings.Contains(data, "data:image/png"):
		return "png"
	case strings.Contains(data, "data:image/jpeg"), strings.Contains(data, "data:image/jpg"):
		return "jpg"
	case strings.Contains(data, "data:image/webp"):
		return "webp"
	}
	return ""
}

// writeBinaryImage decodes a base64 data URL and writes it to disk.
func writeBinaryImage(data, filename, targetDir string) (string, error) {
	binaryPattern := regexp.MustCompile(`^data:image/\w+;base64,`)
	if !binaryPattern.MatchString(data) {
		return "", fmt.Errorf("invalid binary image base64 format")
	}

	decoded, err := base64.StdEncoding.DecodeString(binaryPattern.ReplaceAllString(data, ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write binary file: %w", err)
	}
	return fullPath, nil
}
