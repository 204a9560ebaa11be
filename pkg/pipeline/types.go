package pipeline

import "time"

// ProcessingTimeLayout is the ISO-8601 layout used for FrameRecord.ProcessingTime.
const ProcessingTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// FrameRecord is the metadata written next to every sampled frame image.
// Downstream annotation fills in Description in place.
type FrameRecord struct {
	FrameID        string `json:"frame_id"`
	Timestamp      string `json:"timestamp"`
	Description    string `json:"description"`
	ProcessingTime string `json:"processing_time"`

	// RawIndex is the decoder frame index the record was taken from.
	RawIndex int `json:"-"`
}

// NewFrameRecord creates a record with an empty description, stamped at now.
func NewFrameRecord(frameID, timestamp string, rawIndex int, now time.Time) FrameRecord {
	return FrameRecord{
		FrameID:        frameID,
		Timestamp:      timestamp,
		Description:    "",
		ProcessingTime: now.Format(ProcessingTimeLayout),
		RawIndex:       rawIndex,
	}
}
