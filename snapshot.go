package appstate

import "encoding/json"

// SnapshotJSON serialises the typed properties into a pretty-printed flat
// JSON object keyed by declared property name. Every value serialises in its
// canonical string form regardless of native kind, so the scripting boundary
// observes a single textual representation.
func (s *AppState) SnapshotJSON() (string, error) {
	registry, err := s.properties()
	if err != nil {
		return "", err
	}
	payload := map[string]string{}
	for _, property := range registry.declared() {
		payload[property.Name] = property.get().String()
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// ParseSnapshot rejects deserialisation; snapshots are a one-way export.
func ParseSnapshot(payload []byte) (*AppState, error) {
	return nil, ErrNotSupported
}
