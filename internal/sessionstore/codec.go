package sessionstore

import (
	"encoding/json"
	"fmt"

	"golang.org/x/mod/semver"
)

// FormatVersion is written into every snapshot. Readers accept any
// snapshot with the same major version.
const FormatVersion = "v1.0.0"

type snapshot struct {
	Format  string          `json:"format"`
	Session json.RawMessage `json:"session"`
}

// Encode serializes s with the current format version.
func Encode(s *Session) ([]byte, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	return json.Marshal(snapshot{Format: FormatVersion, Session: body})
}

// Decode restores a session written by Encode. Snapshots from another
// major version, or whose state fails validation, yield ErrIncompatible.
func Decode(data []byte) (*Session, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	if !semver.IsValid(snap.Format) {
		return nil, fmt.Errorf("%w: invalid format %q", ErrIncompatible, snap.Format)
	}
	if semver.Major(snap.Format) != semver.Major(FormatVersion) {
		return nil, fmt.Errorf("%w: format %s, want %s.x", ErrIncompatible, snap.Format, semver.Major(FormatVersion))
	}

	var s Session
	if err := json.Unmarshal(snap.Session, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	return &s, nil
}
