package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/starford/tracker/internal/apperr"
	"github.com/starford/tracker/internal/models"
)

func TestMarshalUnmarshalAllFormats(t *testing.T) {
	meetings := []models.Meeting{
		sample(),
		models.New("Bob Johnson", "TechCorp", "Product Manager", "14344343434",
			time.Date(2025, 2, 2, 9, 0, 0, 0, time.UTC), models.PurposeJobInquiry,
			"Discussed upcoming opportunities."),
	}
	for _, f := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		t.Run(string(f), func(t *testing.T) {
			data, err := Marshal(f, meetings)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			got, err := Unmarshal(f, data)
			if err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if len(got) != len(meetings) {
				t.Fatalf("got %d meetings", len(got))
			}
			for i := range meetings {
				if !got[i].Equal(meetings[i]) {
					t.Errorf("[%d] = %+v, want %+v", i, got[i], meetings[i])
				}
			}
		})
	}
}

func TestUnmarshalRejectsUnknownPurpose(t *testing.T) {
	doc := []byte(`[{"id":"0f8fad5b-d9cb-469f-a165-70867728950e","name":"a","company":"b",
		"position":"c","phoneNumber":"1","date":"2025-02-03T00:00:00Z",
		"purpose":"NotARealPurpose","notes":""}]`)
	if _, err := Unmarshal(FormatJSON, doc); !errors.Is(err, apperr.ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestUnmarshalYAMLDocument(t *testing.T) {
	doc := []byte(`
- id: 0f8fad5b-d9cb-469f-a165-70867728950e
  name: Carol
  company: Initech
  position: CTO
  phoneNumber: "555 123 4567"
  date: "2025-03-01T12:00:00Z"
  purpose: Advice
  notes: ""
`)
	got, err := Unmarshal(FormatYAML, doc)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Purpose != models.PurposeAdvice || got[0].Name != "Carol" {
		t.Errorf("got %+v", got)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	if _, err := Unmarshal(FormatJSON, []byte(`{"not":"a list"}`)); !errors.Is(err, apperr.ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatJSON, "json": FormatJSON, "yml": FormatYAML, "msgpack": FormatMsgpack}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml should be rejected")
	}
}
