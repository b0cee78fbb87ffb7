package nats

import "strings"

// Subject hierarchy.
const (
	// SubjectCommandPrefix is the root for inbound commands. The command
	// kind is the final token: lednode.cmd.set_color, lednode.cmd.save_color
	// and so on. Replies carry the shared response envelope.
	SubjectCommandPrefix = "lednode.cmd"

	// SubjectState carries device state broadcasts.
	SubjectState = "lednode.state"

	// SubjectPalette carries palette change broadcasts.
	SubjectPalette = "lednode.palette"

	// SubjectGesture carries button gesture broadcasts.
	SubjectGesture = "lednode.gesture"
)

// SubjectCommand returns the full subject for a command kind.
func SubjectCommand(kind string) string {
	return SubjectCommandPrefix + "." + kind
}

// CommandKind extracts the command kind from an inbound subject.
func CommandKind(subject string) string {
	return strings.TrimPrefix(subject, SubjectCommandPrefix+".")
}
