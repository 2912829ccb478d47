package codec

import (
	"mime"
	"path"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultImageType is used when nothing better can be inferred.
const DefaultImageType = "image/jpeg"

// ParseDecimal parses user input with "." as the only decimal separator,
// whatever the device locale.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("empty number")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse %q", s)
	}
	return d, nil
}

// ParseQuantity parses a base-10 integer.
func ParseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", s)
	}
	return n, nil
}

// MIMEFromFilename infers an image type from the extension. Unknown extensions
// fall back to sniffing content, then to DefaultImageType.
func MIMEFromFilename(name string, content []byte) string {
	if ext := strings.ToLower(path.Ext(name)); ext != "" {
		if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "image/") {
			if mt, _, err := mime.ParseMediaType(t); err == nil {
				return mt
			}
			return t
		}
	}
	if len(content) > 0 {
		if m := mimetype.Detect(content); strings.HasPrefix(m.String(), "image/") {
			return m.String()
		}
	}
	return DefaultImageType
}
