package convert

// State is a step of the conversion state machine.
type State int

const (
	Decoding State = iota
	Transforming
	Encoding
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Decoding:
		return "decoding"
	case Transforming:
		return "transforming"
	case Encoding:
		return "encoding"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
