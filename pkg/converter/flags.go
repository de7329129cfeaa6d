package converter

// queueFlags lists the queue discipline names that open a link declaration
// in the legacy format.
var queueFlags = [...]string{"DropTail", "RED", "CBQ", "FQ", "SFQ", "DRR"}

// QueueFlags returns a copy of the recognised queue flag names, in order.
func QueueFlags() []string {
	out := make([]string, len(queueFlags))
	copy(out, queueFlags[:])
	return out
}

// IsQueueFlag reports whether line (already stripped of its terminator)
// is exactly one of the queue flag names. No whitespace is tolerated.
func IsQueueFlag(line string) bool {
	for _, f := range queueFlags {
		if line == f {
			return true
		}
	}
	return false
}
