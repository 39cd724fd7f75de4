package events

// Event types emitted by an archive run.
const (
	EventRunStarted          = "run.started"
	EventPlaylistListed      = "playlist.listed"
	EventItemDownloadStarted = "item.download.started"
	EventItemDownloadRetry   = "item.download.retry"
	EventItemDownloaded      = "item.downloaded"
	EventItemSkipped         = "item.skipped"
	EventFileUploadRetry     = "file.upload.retry"
	EventFileUploaded        = "file.uploaded"
	EventItemCompleted       = "item.completed"
	EventRunCompleted        = "run.completed"
	EventRunAborted          = "run.aborted"
)

// RunStarted is emitted once the staging directory and journal are ready.
type RunStarted struct {
	BaseEvent
	RunUUID     string `json:"run_uuid"`
	PlaylistURL string `json:"playlist_url"`
	Bucket      string `json:"bucket"`
	Prefix      string `json:"prefix"`
	StagingDir  string `json:"staging_dir"`
}

// PlaylistListed is emitted after enumeration succeeds.
type PlaylistListed struct {
	BaseEvent
	Title string `json:"title"`
	Count int    `json:"count"`
}

// ItemDownloadStarted is emitted before the first fetch attempt of an item.
type ItemDownloadStarted struct {
	BaseEvent
	Index int    `json:"index"`
	Title string `json:"title"`
}

// ItemDownloadRetry is emitted for every failed fetch attempt.
type ItemDownloadRetry struct {
	BaseEvent
	Index   int    `json:"index"`
	Attempt int    `json:"attempt"`
	Matches int    `json:"matches"`
	Error   string `json:"error,omitempty"`
}

// ItemDownloaded is emitted when an item's files are staged.
type ItemDownloaded struct {
	BaseEvent
	Index    int      `json:"index"`
	Files    []string `json:"files"`
	Bytes    int64    `json:"bytes"`
	Attempts int      `json:"attempts"`
}

// ItemSkipped is emitted when a resumed run finds an item already uploaded.
type ItemSkipped struct {
	BaseEvent
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// FileUploadRetry is emitted for every failed upload attempt.
type FileUploadRetry struct {
	BaseEvent
	Index   int    `json:"index"`
	Key     string `json:"key"`
	Attempt int    `json:"attempt"`
	Error   string `json:"error"`
}

// FileUploaded is emitted when an object has been written to the store.
type FileUploaded struct {
	BaseEvent
	Index    int    `json:"index"`
	Path     string `json:"path"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Attempts int    `json:"attempts"`
}

// ItemCompleted is emitted when every file of an item is uploaded.
type ItemCompleted struct {
	BaseEvent
	Index int `json:"index"`
	Files int `json:"files"`
}

// RunCompleted is emitted after cleanup of a successful run.
type RunCompleted struct {
	BaseEvent
	Items    int   `json:"items"`
	Skipped  int   `json:"skipped"`
	Uploaded int   `json:"uploaded"`
	Bytes    int64 `json:"bytes"`
}

// RunAborted is emitted when a run stops on a fatal error or interrupt.
type RunAborted struct {
	BaseEvent
	Reason     string `json:"reason"`
	StagingDir string `json:"staging_dir"`
}
