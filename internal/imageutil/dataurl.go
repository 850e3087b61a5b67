// Package imageutil prepares uploaded signature images for embedding in documents.
package imageutil

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrNotDataURL is returned for payloads that are not base64 data URLs
var ErrNotDataURL = errors.New("payload is not a base64 data URL")

// DecodeDataURL splits a "data:<mime>;base64,<data>" payload into its media
// type and raw bytes
func DecodeDataURL(payload string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(payload), "data:")
	if !ok {
		return "", nil, ErrNotDataURL
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrNotDataURL
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URL: %w", err)
	}
	return strings.TrimSuffix(meta, ";base64"), raw, nil
}

// EncodeDataURL is the inverse of DecodeDataURL
func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SignaturePNG turns a signature payload into a bounded PNG ready for a PDF
func SignaturePNG(payload string) ([]byte, error) {
	_, raw, err := DecodeDataURL(payload)
	if err != nil {
		return nil, err
	}
	return Normalize(raw, DefaultConfig())
}
