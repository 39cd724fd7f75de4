package journal

// Status is the progress of one playlist item across runs.
type Status string

const (
	StatusPending     Status = "pending"
	StatusDownloading Status = "downloading"
	StatusDownloaded  Status = "downloaded"
	StatusUploading   Status = "uploading"
	StatusUploaded    Status = "uploaded"
	StatusFailed      Status = "failed"
)

// validTransitions lists the allowed "to" statuses for each "from" status.
var validTransitions = map[Status][]Status{
	StatusPending:     {StatusDownloading},
	StatusDownloading: {StatusDownloaded, StatusPending}, // pending: interrupted
	StatusDownloaded:  {StatusUploading},
	StatusUploading:   {StatusUploaded, StatusFailed},
	StatusUploaded:    {}, // terminal
	StatusFailed:      {StatusUploading, StatusPending},
}

// CanTransitionTo returns true if moving from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsDone reports whether the item needs no more work.
func (s Status) IsDone() bool {
	return s == StatusUploaded
}

// HasDownload reports whether the item's files were fully fetched at some
// point and may still be on disk.
func (s Status) HasDownload() bool {
	switch s {
	case StatusDownloaded, StatusUploading, StatusFailed:
		return true
	}
	return false
}

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeRunning     Outcome = "running"
	OutcomeCompleted   Outcome = "completed"
	OutcomeFailed      Outcome = "failed"
	OutcomeInterrupted Outcome = "interrupted"
)
