package archive

// State is the orchestrator's position in a run.
type State string

const (
	StateInit          State = "init"
	StateListing       State = "listing"
	StateListingFailed State = "listing_failed"
	StateDownloading   State = "downloading"
	StateUploading     State = "uploading"
	StateCleanup       State = "cleanup"
	StateDone          State = "done"
	StateAborted       State = "aborted"
)

// validTransitions lists the allowed "to" states for each "from" state.
var validTransitions = map[State][]State{
	StateInit:          {StateListing, StateAborted},
	StateListing:       {StateDownloading, StateListingFailed, StateAborted},
	StateDownloading:   {StateUploading, StateDownloading, StateCleanup, StateAborted}, // self: item skipped
	StateUploading:     {StateDownloading, StateCleanup, StateAborted},
	StateCleanup:       {StateDone},
	StateListingFailed: {}, // terminal
	StateDone:          {}, // terminal
	StateAborted:       {}, // terminal
}

// CanTransitionTo returns true if moving from s to target is allowed.
func (s State) CanTransitionTo(target State) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no transitions leave s.
func (s State) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}
