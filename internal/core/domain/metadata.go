package domain

import (
	"encoding/json"
	"math"
)

// metadata is persisted as a single JSON object with page and source at
// the top level, so rows written by earlier versions of the schema (and
// by other tooling) round-trip without a nested envelope.

// MarshalJSON flattens Extra into the top-level object alongside page
// and source. The typed fields win on key collision.
func (m ChunkMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["page"] = m.Page
	out["source"] = m.Source
	return json.Marshal(out)
}

// UnmarshalJSON extracts page and source and collects every other key
// into Extra.
func (m *ChunkMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = ChunkMetadata{}
	for k, v := range raw {
		switch k {
		case "page":
			if f, ok := v.(float64); ok {
				m.Page = int(math.Round(f))
			}
		case "source":
			if s, ok := v.(string); ok {
				m.Source = s
			}
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[k] = v
		}
	}
	return nil
}
