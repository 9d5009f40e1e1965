// Package codec converts meetings to and from structured records, and records
// to and from JSON, YAML and MessagePack documents.
package codec

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/models"
)

// Record keys.
const (
	KeyID          = "id"
	KeyName        = "name"
	KeyCompany     = "company"
	KeyPosition    = "position"
	KeyPhoneNumber = "phoneNumber"
	KeyDate        = "date"
	KeyPurpose     = "purpose"
	KeyNotes       = "notes"
)

// Record is the structured form of a Meeting.
type Record map[string]any

// Encode converts m into a Record. The date is written as RFC 3339 with
// nanoseconds and the purpose as its label.
func Encode(m models.Meeting) Record {
	return Record{
		KeyID:          m.ID.String(),
		KeyName:        m.Name,
		KeyCompany:     m.Company,
		KeyPosition:    m.Position,
		KeyPhoneNumber: m.PhoneNumber,
		KeyDate:        m.Date.Format(time.RFC3339Nano),
		KeyPurpose:     m.Purpose.String(),
		KeyNotes:       m.Notes,
	}
}

// Decode converts r back into a Meeting. Every key is required.
func Decode(r Record) (models.Meeting, error) {
	var m models.Meeting

	id, err := stringField(r, KeyID)
	if err != nil {
		return m, err
	}
	if m.ID, err = uuid.Parse(id); err != nil {
		return m, apperr.NewDecodeError(KeyID, "not a UUID")
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyName, &m.Name},
		{KeyCompany, &m.Company},
		{KeyPosition, &m.Position},
		{KeyPhoneNumber, &m.PhoneNumber},
		{KeyNotes, &m.Notes},
	} {
		if *f.dst, err = stringField(r, f.key); err != nil {
			return m, err
		}
	}

	if m.Date, err = dateField(r); err != nil {
		return m, err
	}

	label, err := stringField(r, KeyPurpose)
	if err != nil {
		return m, err
	}
	if m.Purpose, err = models.ParsePurpose(label); err != nil {
		return m, err
	}

	return m, nil
}

// DecodeAll decodes every record, stopping at the first failure. The error
// names the index of the offending record.
func DecodeAll(records []Record) ([]models.Meeting, error) {
	out := make([]models.Meeting, 0, len(records))
	for i, r := range records {
		m, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func stringField(r Record, key string) (string, error) {
	v, ok := r[key]
	if !ok {
		return "", apperr.NewDecodeError(key, "missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", apperr.NewDecodeError(key, fmt.Sprintf("want string, got %T", v))
	}
	return s, nil
}

func dateField(r Record) (time.Time, error) {
	v, ok := r[KeyDate]
	if !ok {
		return time.Time{}, apperr.NewDecodeError(KeyDate, "missing")
	}
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		t, err := time.Parse(time.RFC3339Nano, d)
		if err != nil {
			return time.Time{}, apperr.NewDecodeError(KeyDate, "not an RFC 3339 timestamp")
		}
		return t, nil
	default:
		return time.Time{}, apperr.NewDecodeError(KeyDate, fmt.Sprintf("want timestamp, got %T", v))
	}
}
