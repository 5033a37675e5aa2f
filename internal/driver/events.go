package driver

import "time"

// Stage is the step of the batch pipeline a file is in.
type Stage uint8

const (
	StageLoad Stage = iota
	StageAnalyze
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageAnalyze:
		return "analyze"
	default:
		return "unknown"
	}
}

// Status is the state of a file within its stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// Event reports progress of one file; UIs consume them from
// DiagnoseOptions.Progress.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// emit не блокирует надолго: получатель обязан читать канал до закрытия.
func emit(ch chan<- Event, ev Event) {
	if ch != nil {
		ch <- ev
	}
}
