// Package vision sends an image and a question to a generative vision model.
package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// DefaultInstruction frames the model as a resume analyst
const DefaultInstruction = "You are an expert in analyzing CVs. " +
	"You will receive an image of a resume and extract details about the person."

var (
	// ErrNoImage is returned when the upload carries no image bytes.
	ErrNoImage = errors.New("please upload an image")
	// ErrUnsupportedType is returned for MIME types outside SupportedTypes.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("model returned no text")
)

// SupportedTypes lists accepted image MIME types and their file extensions
var SupportedTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

// Image is the inline payload sent alongside the prompt
type Image struct {
	MimeType string
	Data     []byte
}

// NewImage validates an uploaded image
func NewImage(mimeType string, data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrNoImage
	}
	mimeType = NormalizeMimeType(mimeType)
	if _, ok := SupportedTypes[mimeType]; !ok {
		return Image{}, fmt.Errorf("%w: %q", ErrUnsupportedType, mimeType)
	}
	return Image{MimeType: mimeType, Data: data}, nil
}

// NormalizeMimeType lowercases and drops parameters, mapping image/jpg to image/jpeg
func NormalizeMimeType(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "image/jpg" {
		return "image/jpeg"
	}
	return mimeType
}

// Extension returns the file extension for a supported MIME type
func Extension(mimeType string) string {
	if ext, ok := SupportedTypes[NormalizeMimeType(mimeType)]; ok {
		return ext
	}
	return ".img"
}

// Client generates a text answer for an instruction, an image and a user query
type Client interface {
	Generate(ctx context.Context, instruction string, img Image, query string) (string, error)
	Model() string
}
