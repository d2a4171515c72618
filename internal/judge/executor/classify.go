package executor

import (
	"regexp"
	"strings"
)

// Kind is the classified failure mode of one execution.
type Kind int

const (
	KindOK Kind = iota
	KindTimeLimit
	KindRuntime
)

// timeoutExitCode is the conventional exit status of the `timeout` command.
const timeoutExitCode = 124

// timeoutMarker matches the stderr text various toolchains emit when a
// process is cut off. String matching is a pragmatic heuristic; it lives
// here, in one place, so the rules can be extended per language without
// touching the orchestrator.
var timeoutMarker = regexp.MustCompile(`(?i)timed? ?out`)

// Classify maps the raw signals of a settled process to a failure kind:
// killed by the outer deadline, the timeout exit convention, or a timeout
// marker in stderr mean the time limit was exceeded; any other non-zero
// exit or stderr output is a runtime failure.
func Classify(killedByOuter bool, exitCode int, stderr string) Kind {
	if killedByOuter || exitCode == timeoutExitCode || timeoutMarker.MatchString(stderr) {
		return KindTimeLimit
	}
	if exitCode != 0 || strings.TrimSpace(stderr) != "" {
		return KindRuntime
	}
	return KindOK
}
