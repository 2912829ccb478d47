// Package codec converts between the wire form of catalog entities and their
// canonical local form. It is the only place that knows about the `_id` field.
package codec

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"inventory-catalog/internal/models"
)

// JSON is the encoder used for every wire body. Numbers decode as json.Number so
// prices keep their exact decimal text.
var JSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// Document is one decoded wire object.
type Document map[string]any

const (
	canonicalID = "id"
	wireID      = "_id"
)

// NormalizeDocument returns a copy of doc whose identifier lives only in "id".
// A server assigned "_id" wins over a client "id". Applying it twice changes nothing.
func NormalizeDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if k == wireID {
			continue
		}
		out[k] = v
	}
	id := identifierString(doc[wireID])
	if id == "" {
		id = identifierString(doc[canonicalID])
	}
	if id == "" {
		delete(out, canonicalID)
	} else {
		out[canonicalID] = id
	}
	return out
}

func identifierString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case map[string]any:
		// extended JSON: {"$oid": "..."}
		return identifierString(t["$oid"])
	case interface{ Hex() string }:
		return t.Hex()
	case fmt.Stringer:
		return t.String()
	}
	return cast.ToString(v)
}

// Normalize decodes a wire document into an entity of type T.
func Normalize[T any](doc Document) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			imageHook,
			timeHook,
		),
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(map[string]any(NormalizeDocument(doc))); err != nil {
		return out, errors.Wrapf(err, "decode %T", out)
	}
	return out, nil
}

// ToDocument renders an entity in its canonical document form.
func ToDocument(v any) (Document, error) {
	b, err := JSON.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := JSON.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DecodeList accepts a raw array or an envelope carrying "products" or "data".
// An empty body or an envelope with neither key is an error, so a caller never
// mistakes a malformed response for an empty collection. A present null key
// decodes as empty.
func DecodeList(body []byte) ([]Document, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("decode list body: empty response")
	}
	var raw any
	if err := JSON.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "decode list body")
	}
	if env, ok := raw.(map[string]any); ok {
		var found bool
		for _, key := range []string{"products", "data"} {
			if v, present := env[key]; present {
				raw, found = v, true
				break
			}
		}
		if !found {
			return nil, errors.New("decode list body: envelope has no products or data")
		}
		if raw == nil {
			return []Document{}, nil
		}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("decode list body: unexpected %T", raw)
	}
	docs := make([]Document, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("decode list body: element %d is %T", i, item)
		}
		docs = append(docs, Document(m))
	}
	return docs, nil
}

// DecodeOne accepts a bare entity or one wrapped in "product" or "data".
func DecodeOne(body []byte) (Document, error) {
	var m map[string]any
	if err := JSON.Unmarshal(bytes.TrimSpace(body), &m); err != nil {
		return nil, errors.Wrap(err, "decode entity body")
	}
	for _, key := range []string{"product", "data"} {
		if inner, ok := m[key].(map[string]any); ok {
			return Document(inner), nil
		}
	}
	return Document(m), nil
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	imageType   = reflect.TypeOf(models.Image{})
	timeType    = reflect.TypeOf(time.Time{})
)

func decimalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		return ParseDecimal(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case fmt.Stringer:
		return ParseDecimal(v.String())
	}
	return ParseDecimal(cast.ToString(data))
}

func imageHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != imageType {
		return data, nil
	}
	return models.ParseImage(data)
}

func timeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t, nil
		}
		return dateparse.ParseAny(v)
	}
	return data, nil
}
