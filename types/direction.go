package types

// Direction is the temporal relation of a candidate transaction to a reference transaction.
type Direction int

const (
	Before Direction = iota // candidate precedes the reference, i.e. a front-run
	After                   // candidate follows the reference, i.e. a back-run
)

func (d Direction) String() string {
	switch d {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "unknown"
	}
}
