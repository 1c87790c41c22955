package driver

import "time"

// Stage describes what the checker is doing with a file.
type Stage string

const (
	// StageRead covers loading and decoding the file.
	StageRead Stage = "read"
	// StageValidate covers the engine run or the cache lookup.
	StageValidate Stage = "validate"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	// StatusCached marks a result served from the disk cache.
	StatusCached Status = "cached"
	// StatusDone means the diagram is valid.
	StatusDone Status = "done"
	// StatusError means the diagram is invalid or could not be read.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; workers emit from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
