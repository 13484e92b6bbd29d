package domain

import "encoding/json"

// IngestEvent is one progress report from an ingestion run. The
// producer emits one event per persisted chunk, then exactly one
// terminal event (success or failure) before closing the channel.
//
// Events are delivered unbuffered: each one is handed to the consumer
// as soon as it is produced so incremental progress can be rendered.
type IngestEvent struct {
	// Progress is the integer completion percentage, 0-100,
	// monotonically non-decreasing within one run.
	Progress int `json:"progress"`

	// CurrentPage is the 1-based index of the unit just processed.
	// The counter runs over deduplicated chunks, not source pages;
	// the field keeps its historical wire name.
	CurrentPage int `json:"currentPage"`

	// TotalPages is the total number of units in this run.
	TotalPages int `json:"totalPages"`

	// Status is a human-readable progress message.
	Status string `json:"status,omitempty"`

	// Success is set on the terminal event of a completed run.
	Success bool `json:"success,omitempty"`

	// Message is the terminal success message.
	Message string `json:"message,omitempty"`

	// Err carries the failure on a terminal failure event.
	Err error `json:"-"`
}

// Terminal reports whether this event ends the stream.
func (e IngestEvent) Terminal() bool {
	return e.Success || e.Err != nil
}

// MarshalJSON adds the failure message under the "error" key, keeping
// the streamed wire format self-describing.
func (e IngestEvent) MarshalJSON() ([]byte, error) {
	type alias IngestEvent
	out := struct {
		alias
		Error string `json:"error,omitempty"`
	}{alias: alias(e)}
	if e.Err != nil {
		out.Error = e.Err.Error()
	}
	return json.Marshal(out)
}
