package callback

// Priority is the dispatch tier a handler runs in. Every Earliest
// invocation for a callback completes before any Latest one starts.
type Priority int

const (
	Earliest Priority = iota
	Latest
)

// priorities is the fixed tier order walked by the dispatcher.
var priorities = [...]Priority{Earliest, Latest}

func (p Priority) String() string {
	switch p {
	case Earliest:
		return "EARLIEST"
	case Latest:
		return "LATEST"
	default:
		return "UNKNOWN"
	}
}
