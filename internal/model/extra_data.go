package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeOfDayLayouts are tried in order when a value is not a full date-time.
var timeOfDayLayouts = []string{"15:04:05.999999999", "15:04:05", "15:04"}

const timeOfDayOutput = "15:04:05.999999999"

// maxDurationSeconds bounds a number of seconds to what time.Duration holds.
const maxDurationSeconds = float64(math.MaxInt64) / float64(time.Second)

// Timestamp is either a full date-time or a time of day.
//
// Time-of-day values are anchored to the zero date and serialize back
// without a date part.
type Timestamp struct {
	time.Time
	TimeOfDay bool
}

// ParseTimestamp accepts RFC 3339 date-times and HH:MM[:SS[.fff]] times of day.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t}, nil
	}
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, TimeOfDay: true}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("%q is neither an RFC 3339 date-time nor a time of day", s)
}

// Add returns t shifted by d, keeping its kind.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return Timestamp{Time: t.Time.Add(d), TimeOfDay: t.TimeOfDay}
}

// String formats t the way it serializes.
func (t Timestamp) String() string {
	if t.TimeOfDay {
		return t.Time.Format(timeOfDayOutput)
	}
	return t.Time.Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Duration serializes as Go duration text ("1h30m0s").
type Duration time.Duration

// ParseDuration accepts a JSON number of seconds or a JSON string holding
// either a number of seconds or Go duration text.
func ParseDuration(raw json.RawMessage) (Duration, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("duration is empty")
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, err
		}
	}

	if seconds, err := strconv.ParseFloat(text, 64); err == nil {
		if math.IsNaN(seconds) || math.Abs(seconds) >= maxDurationSeconds {
			return 0, fmt.Errorf("%q seconds is out of range for a duration", text)
		}
		return Duration(seconds * float64(time.Second)), nil
	}

	d, err := time.ParseDuration(text)
	if err != nil {
		return 0, fmt.Errorf("%q is neither a number of seconds nor a duration", text)
	}
	return Duration(d), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// ExtraData is the coerced extra data types payload.
type ExtraData struct {
	StartTime   Timestamp `json:"start_time"`
	EndTime     Timestamp `json:"end_time"`
	RepeatEvery Duration  `json:"repeat_every"`
	ProcessID   uuid.UUID `json:"process_id"`
}

// ExtraDataResult echoes ExtraData with its derived values.
type ExtraDataResult struct {
	ExtraData

	// Duration is EndTime minus StartTime.
	Duration Duration `json:"duration"`

	// NextStart is StartTime plus RepeatEvery.
	NextStart Timestamp `json:"next_start"`
}
