package codec

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/models"
)

// Format names a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ContentType returns the MIME type used when serving f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatMsgpack:
		return "application/msgpack"
	default:
		return "application/json"
	}
}

// ParseFormat accepts a format name; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", apperr.ErrValidation, s)
}

// Marshal encodes meetings as a list of records.
func Marshal(f Format, meetings []models.Meeting) ([]byte, error) {
	records := make([]map[string]any, 0, len(meetings))
	for _, m := range meetings {
		records = append(records, Encode(m))
	}

	var (
		data []byte
		err  error
	)
	switch f {
	case FormatJSON:
		data, err = json.Marshal(records)
	case FormatYAML:
		data, err = yaml.Marshal(records)
	case FormatMsgpack:
		data, err = msgpack.Marshal(records)
	default:
		return nil, fmt.Errorf("codec: unknown format %q", f)
	}
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %s: %w", f, err)
	}
	return data, nil
}

// Unmarshal decodes a list of records and then each record into a Meeting.
// Malformed documents and invalid records both yield errors matching
// apperr.ErrDecode.
func Unmarshal(f Format, data []byte) ([]models.Meeting, error) {
	var (
		raw []map[string]any
		err error
	)
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("codec: unknown format %q", f)
	}
	if err != nil {
		return nil, apperr.NewDecodeError("", fmt.Sprintf("malformed %s document: %v", f, err))
	}

	records := make([]Record, len(raw))
	for i, r := range raw {
		records[i] = Record(r)
	}
	return DecodeAll(records)
}
