package meetingservice_test

import (
	"encoding/json"

	"github.com/starford/tracker/internal/codec"
)

func codecJSON(records []codec.Record) ([]byte, error) {
	return json.Marshal(records)
}
