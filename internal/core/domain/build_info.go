package domain

import "time"

// BuildInfo records the outcome of the last compilation of a stylesheet.
type BuildInfo struct {
	Stylesheet string    `json:"stylesheet,omitzero"`
	Source     string    `json:"source,omitzero"`
	Output     string    `json:"output,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Monitored  []string  `json:"monitored,omitzero"`
	ScannedAt  time.Time `json:"scanned_at,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}
