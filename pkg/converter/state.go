package converter

// ConversionState is the two-step latch deciding where Off lines go.
// A flag line arms the latch and marks it steady in the same step; the
// following line, whatever it contains, fires the insertion and resets it.
//
// The zero value is the idle state. A state must not be shared across files.
type ConversionState struct {
	ready  bool
	steady bool
}

// Step advances the latch for one line and reports whether an Off line
// must be written right after that line.
func (s *ConversionState) Step(isFlag bool) bool {
	if isFlag {
		s.ready = true
	}
	switch {
	case s.ready && !s.steady:
		s.steady = true
	case s.ready && s.steady:
		s.ready, s.steady = false, false
		return true
	}
	return false
}

// Armed reports whether a flag has been seen and the insertion is pending.
func (s *ConversionState) Armed() bool { return s.ready }
