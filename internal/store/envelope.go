package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
)

// FormatVersion is the semantic version written into every record envelope.
// Records whose major version differs are ignored on load.
const FormatVersion = "v1.0.0"

// ErrUnsupportedVersion is returned when a stored record was written by an
// incompatible format version.
var ErrUnsupportedVersion = errors.New("unsupported record version")

type envelope struct {
	Version string          `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// EncodeRecord wraps v in a versioned JSON envelope.
func EncodeRecord(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return json.Marshal(envelope{Version: FormatVersion, Data: data})
}

// DecodeRecord unwraps an envelope produced by EncodeRecord into dst.
func DecodeRecord(raw []byte, dst any) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("unmarshal envelope: %w", err)
	}
	if !semver.IsValid(env.Version) || semver.Major(env.Version) != semver.Major(FormatVersion) {
		return fmt.Errorf("%w: %q", ErrUnsupportedVersion, env.Version)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	return nil
}
