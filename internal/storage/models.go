package storage

import (
	"encoding/json"
	"strings"
)

// Screenshot is one captured frame. Timestamp carries whatever encoding the
// capture agent wrote (integer epoch seconds or an ISO-8601 string);
// timeutil.Parse normalizes it at the points of use.
type Screenshot struct {
	ID          string `json:"id"`
	Timestamp   any    `json:"timestamp"`
	AppName     string `json:"app_name,omitempty"`
	WindowTitle string `json:"window_title,omitempty"`
}

// Session is a contiguous period of measured active use, independent of
// screenshot sampling. A missing duration means zero, never an error.
type Session struct {
	ID              string `json:"id,omitempty"`
	StartTime       any    `json:"start_time,omitempty"`
	EndTime         any    `json:"end_time,omitempty"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
}

// Summary is a previously generated narrative description of a block of
// activity. Project is the context label inferred upstream; empty means the
// classifier could not place it.
type Summary struct {
	ID            string `json:"id,omitempty"`
	Project       string `json:"project,omitempty"`
	Summary       string `json:"summary,omitempty"`
	StartTime     any    `json:"start_time,omitempty"`
	EndTime       any    `json:"end_time,omitempty"`
	ScreenshotIDs IDList `json:"screenshot_ids,omitempty"`
}

// IDList is a list of screenshot ids. Upstream sources deliver it either as a
// native JSON array or as a string containing a serialized array; both decode
// to the same native form here so nothing past the store boundary has to care.
type IDList []string

func (l *IDList) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		*l = ids
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return err
	}
	return l.decode(encoded)
}

// decode parses a serialized id list. Blank input yields an empty list.
func (l *IDList) decode(encoded string) error {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		*l = nil
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(encoded), &ids); err != nil {
		return err
	}
	*l = ids
	return nil
}
