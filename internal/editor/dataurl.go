package editor

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// EncodeDataURL renders image bytes as a base64 data URL, the form in which
// variations are stored and served.
func EncodeDataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURL parses a base64 data URL back into an Image. The Ref field
// keeps the original URL so the image round-trips unchanged.
func DecodeDataURL(url string) (Image, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return Image{}, fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, fmt.Errorf("malformed data URL")
	}
	mimeType, encoded := strings.CutSuffix(meta, ";base64")
	if !encoded {
		return Image{}, fmt.Errorf("data URL is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("decode data URL payload: %w", err)
	}
	return Image{Data: data, MIMEType: mimeType, Ref: url}, nil
}
