// lrigschat/utils/images/images.go
package images

import (
	"encoding/base64"
	"fmt"
	"net/http"
)

// mimeTypes maps the accepted upload types to the MIME type that goes
// into the data URI.
var mimeTypes = map[string]string{
	"image/jpeg": "image/jpeg",
	"image/png":  "image/png",
}

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid image: " + e.Reason
}

// Validate checks an uploaded image against the size cap and the
// accepted types. The type is sniffed from the bytes, not trusted from
// the client headers.
func Validate(data []byte, maxSizeMB int) error {
	if len(data) == 0 {
		return &ValidationError{Reason: "empty file"}
	}
	if maxSizeMB > 0 && len(data) > maxSizeMB*1024*1024 {
		return &ValidationError{Reason: fmt.Sprintf("file exceeds %dMB limit", maxSizeMB)}
	}
	contentType := http.DetectContentType(data)
	if _, ok := mimeTypes[contentType]; !ok {
		return &ValidationError{Reason: fmt.Sprintf("unsupported type %s, only jpeg and png are accepted", contentType)}
	}
	return nil
}

// DataURI encodes image bytes as a base64 data URI for the multimodal
// request payload. Validate first; the MIME type is sniffed again here.
func DataURI(data []byte) string {
	contentType := http.DetectContentType(data)
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
}
