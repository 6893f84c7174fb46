// Core image types: validation and the shared holder used by the viewer
package core

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"
)

// maxDimension bounds accepted images to keep per-pixel loops reasonable.
const maxDimension = 16384

// ImageData holds the loaded image and the latest enhancement result.
// Safe for use from fyne callbacks and processing goroutines at once.
type ImageData struct {
	mu        sync.RWMutex
	original  gocv.Mat
	processed gocv.Mat
	hasImage  bool
	source    string
	operation string
	metadata  ImageMetadata
}

// ImageMetadata describes the loaded image
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Type     gocv.MatType
	Format   string
}

func NewImageData() *ImageData {
	return &ImageData{
		original:  gocv.NewMat(),
		processed: gocv.NewMat(),
	}
}

// SetOriginal replaces the loaded image. The processed image is reset to a
// copy of the original.
func (img *ImageData) SetOriginal(mat gocv.Mat, source string) error {
	if err := ValidateImage(mat); err != nil {
		return err
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.processed.Close()

	img.original = mat.Clone()
	img.processed = mat.Clone()
	img.hasImage = true
	img.source = source
	img.operation = ""
	img.metadata = ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Type:     mat.Type(),
		Format:   formatFromPath(source),
	}

	return nil
}

// SetProcessed stores the output of operation.
func (img *ImageData) SetProcessed(mat gocv.Mat, operation string) error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if !img.hasImage {
		return fmt.Errorf("no original image loaded")
	}
	if mat.Empty() {
		return fmt.Errorf("cannot set empty processed image")
	}

	img.processed.Close()
	img.processed = mat.Clone()
	img.operation = operation
	return nil
}

// GetOriginal returns a copy of the original image
func (img *ImageData) GetOriginal() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if !img.hasImage {
		return gocv.NewMat()
	}
	return img.original.Clone()
}

// GetProcessed returns a copy of the processed image
func (img *ImageData) GetProcessed() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()

	if !img.hasImage {
		return gocv.NewMat()
	}
	return img.processed.Clone()
}

func (img *ImageData) HasImage() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.hasImage
}

func (img *ImageData) GetMetadata() ImageMetadata {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.metadata
}

func (img *ImageData) GetSource() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.source
}

// GetOperation returns the name of the routine that produced the processed
// image, or "" when it is still a copy of the original.
func (img *ImageData) GetOperation() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.operation
}

// ResetToOriginal discards the processed image
func (img *ImageData) ResetToOriginal() error {
	img.mu.Lock()
	defer img.mu.Unlock()

	if !img.hasImage {
		return fmt.Errorf("no original image available")
	}

	img.processed.Close()
	img.processed = img.original.Clone()
	img.operation = ""
	return nil
}

// Close releases both images
func (img *ImageData) Close() {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.original.Close()
	img.processed.Close()
	img.original = gocv.NewMat()
	img.processed = gocv.NewMat()
	img.hasImage = false
	img.source = ""
	img.operation = ""
	img.metadata = ImageMetadata{}
}

func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}

// ValidateImage checks that mat is a non-empty 8-bit image with 1, 3 or 4
// channels. Failures wrap ErrInvalidParameter.
func ValidateImage(mat gocv.Mat) error {
	if mat.Ptr() == nil || mat.Empty() {
		return fmt.Errorf("%w: image is empty", ErrInvalidParameter)
	}

	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrInvalidParameter, mat.Cols(), mat.Rows())
	}

	if mat.Cols() > maxDimension || mat.Rows() > maxDimension {
		return fmt.Errorf("%w: image too large %dx%d (max %d)", ErrInvalidParameter, mat.Cols(), mat.Rows(), maxDimension)
	}

	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return fmt.Errorf("%w: unsupported mat type %v (want 8-bit, 1/3/4 channels)", ErrInvalidParameter, mat.Type())
	}

	return nil
}
