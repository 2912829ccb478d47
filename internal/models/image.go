package models

import (
	"fmt"
	"path"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ImageKind tells which variant an Image holds.
type ImageKind int

const (
	ImageAbsent ImageKind = iota
	ImageRemote
	ImageLocal
)

// LocalImage references a file picked on the device that has not been uploaded yet.
type LocalImage struct {
	URI  string `json:"uri"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// Image is absent, an uploaded remote URL, or a local device reference.
// Only the local variant is ever transmitted.
type Image struct {
	kind  ImageKind
	url   string
	local LocalImage
}

// NoImage returns the absent image.
func NoImage() Image { return Image{} }

// RemoteImage wraps an already uploaded URL.
func RemoteImage(url string) Image {
	if url == "" {
		return Image{}
	}
	return Image{kind: ImageRemote, url: url}
}

// NewLocalImage builds a device reference. A URI that already points at http(s)
// is treated as a remote URL so it is never uploaded twice.
func NewLocalImage(uri, name, mimeType string) Image {
	if uri == "" {
		return Image{}
	}
	if isRemoteURI(uri) {
		return RemoteImage(uri)
	}
	if name == "" {
		name = path.Base(uri)
		if name == "." || name == "/" {
			name = "photo.jpg"
		}
	}
	return Image{kind: ImageLocal, local: LocalImage{URI: uri, Name: name, Type: mimeType}}
}

// isRemoteURI reports whether uri carries an http or https scheme.
func isRemoteURI(uri string) bool {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return false
	}
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

func (i Image) Kind() ImageKind { return i.kind }
func (i Image) IsAbsent() bool  { return i.kind == ImageAbsent }
func (i Image) IsRemote() bool  { return i.kind == ImageRemote }
func (i Image) IsLocal() bool   { return i.kind == ImageLocal }

// URL returns the remote URL, empty for other variants.
func (i Image) URL() string { return i.url }

// Local returns the device reference when present.
func (i Image) Local() (LocalImage, bool) {
	return i.local, i.kind == ImageLocal
}

func (i Image) String() string {
	switch i.kind {
	case ImageRemote:
		return i.url
	case ImageLocal:
		return i.local.URI
	}
	return ""
}

// ParseImage converts a decoded wire value into an Image. Strings coming from the
// server are always remote; objects follow the uri prefix rule.
func ParseImage(v any) (Image, error) {
	switch t := v.(type) {
	case nil:
		return NoImage(), nil
	case Image:
		return t, nil
	case string:
		return RemoteImage(t), nil
	case map[string]any:
		uri, _ := t["uri"].(string)
		name, _ := t["name"].(string)
		typ, _ := t["type"].(string)
		return NewLocalImage(uri, name, typ), nil
	case LocalImage:
		return NewLocalImage(t.URI, t.Name, t.Type), nil
	}
	return Image{}, fmt.Errorf("unsupported image value %T", v)
}

func (i Image) MarshalJSON() ([]byte, error) {
	switch i.kind {
	case ImageRemote:
		return json.Marshal(i.url)
	case ImageLocal:
		return json.Marshal(i.local)
	}
	return []byte("null"), nil
}

func (i *Image) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	img, err := ParseImage(raw)
	if err != nil {
		return err
	}
	*i = img
	return nil
}
