package models

import (
	"fmt"

	"github.com/starford/tracker/internal/apperr"
)

// Purpose is the categorical reason for a meeting.
type Purpose int

// Purpose values. The zero value is not a valid purpose.
const (
	PurposeNetworking Purpose = iota + 1
	PurposeJobInquiry
	PurposeAdvice
	PurposeCollaboration
	PurposeOther
)

var purposeLabels = [...]string{
	PurposeNetworking:    "Networking",
	PurposeJobInquiry:    "Job Inquiry",
	PurposeAdvice:        "Advice",
	PurposeCollaboration: "Collaboration",
	PurposeOther:         "Other",
}

var purposeByLabel = map[string]Purpose{
	"Networking":    PurposeNetworking,
	"Job Inquiry":   PurposeJobInquiry,
	"Advice":        PurposeAdvice,
	"Collaboration": PurposeCollaboration,
	"Other":         PurposeOther,
}

// Purposes returns every purpose in declaration order.
func Purposes() []Purpose {
	return []Purpose{
		PurposeNetworking,
		PurposeJobInquiry,
		PurposeAdvice,
		PurposeCollaboration,
		PurposeOther,
	}
}

// PurposeLabels returns the labels of Purposes, in the same order.
func PurposeLabels() []string {
	out := make([]string, 0, len(purposeByLabel))
	for _, p := range Purposes() {
		out = append(out, p.String())
	}
	return out
}

// ParsePurpose maps a label back to its purpose. Labels are matched exactly.
func ParsePurpose(label string) (Purpose, error) {
	p, ok := purposeByLabel[label]
	if !ok {
		return 0, apperr.NewDecodeError("purpose", fmt.Sprintf("unknown label %q", label))
	}
	return p, nil
}

// Valid reports whether p is one of the declared purposes.
func (p Purpose) Valid() bool {
	return p >= PurposeNetworking && p <= PurposeOther
}

// String returns the display label.
func (p Purpose) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Purpose(%d)", int(p))
	}
	return purposeLabels[p]
}

// MarshalText encodes the purpose as its label.
func (p Purpose) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("models: invalid purpose %d", int(p))
	}
	return []byte(purposeLabels[p]), nil
}

// UnmarshalText decodes a label.
func (p *Purpose) UnmarshalText(text []byte) error {
	parsed, err := ParsePurpose(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
