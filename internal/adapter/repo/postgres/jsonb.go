package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

func newID() string { return uuid.New().String() }

func encodeList(s []string) ([]byte, error) {
	if s == nil {
		s = []string{}
	}
	return json.Marshal(s)
}

// decodeJSON unmarshals a JSONB column, treating NULL as an empty value.
func decodeJSON[T any](b []byte, dst *[]T) error {
	if len(b) == 0 {
		*dst = []T{}
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode jsonb: %w", err)
	}
	if *dst == nil {
		*dst = []T{}
	}
	return nil
}
