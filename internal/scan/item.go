package scan

import "time"

// Category classifies an item found during scanning.
type Category int

const (
	CategoryLargeFile Category = iota
	CategoryCache
	CategoryOldDownload
	CategoryLogFile
	CategoryTrash
)

func (c Category) String() string {
	switch c {
	case CategoryLargeFile:
		return "Large File"
	case CategoryCache:
		return "Cache"
	case CategoryOldDownload:
		return "Old Download"
	case CategoryLogFile:
		return "Log File"
	case CategoryTrash:
		return "Trash"
	default:
		return "Unknown"
	}
}

// Status tracks an item through its lifecycle: Found at discovery,
// Selected externally, then exactly one terminal state.
type Status int

const (
	StatusFound Status = iota
	StatusSelected
	StatusTrashed
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "Found"
	case StatusSelected:
		return "Selected"
	case StatusTrashed:
		return "Trashed"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusTrashed || s == StatusFailed || s == StatusSkipped
}

// Item is a single finding. SizeBytes is captured at discovery and never
// re-measured, so it may go stale before deletion.
type Item struct {
	Path              string
	Category          Category
	SizeBytes         int64
	LastModified      time.Time
	IsSymlink         bool
	IsDirectory       bool
	Status            Status
	FailureReason     string
	RecommendedAction string
}

// Result aggregates one scan invocation. It is created fresh per scan and
// owned by the caller after return.
type Result struct {
	// Items in discovery order.
	Items []*Item

	// TotalSize is the sum of item sizes.
	TotalSize int64

	// Duration of the whole scan.
	Duration time.Duration

	// Errors are non-fatal problems (rejected custom folders, unreadable
	// strategy roots). The scan still completes around them.
	Errors []string

	// WasCancelled is set when the scan stopped at a cancellation
	// checkpoint. Items found up to that point are kept.
	WasCancelled bool
}

// Count returns the number of items found.
func (r *Result) Count() int {
	return len(r.Items)
}
