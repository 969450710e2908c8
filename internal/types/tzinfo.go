package types

import (
	"encoding/json"
	"time"
)

// TZInfo is the user's timezone. Older accounts serialize it as a bare IANA
// string; newer ones as an object with offset components. Both shapes are
// accepted on decode.
type TZInfo struct {
	Timezone  string `json:"timezone"`
	GMTString string `json:"gmt_string,omitempty"`
	Hours     int    `json:"hours,omitempty"`
	Minutes   int    `json:"minutes,omitempty"`
	IsDST     int    `json:"is_dst,omitempty"`

	// narrow marks the legacy bare-string wire form so it round-trips.
	narrow bool
}

func (tz *TZInfo) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*tz = TZInfo{Timezone: s, narrow: true}
		return nil
	}
	type wide TZInfo
	var w wide
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*tz = TZInfo(w)
	return nil
}

func (tz TZInfo) MarshalJSON() ([]byte, error) {
	if tz.narrow {
		return json.Marshal(tz.Timezone)
	}
	type wide TZInfo
	return json.Marshal(wide(tz))
}

// Location resolves the IANA zone name, falling back to UTC when the name
// is absent or unknown.
func (tz *TZInfo) Location() *time.Location {
	if tz == nil || tz.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
