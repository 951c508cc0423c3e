// Package parser turns one line of the cargo test JSON report into a
// typed test event.
package parser

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the lifecycle transition a test event describes.
type Kind string

const (
	KindStarted Kind = "started"
	KindPassed  Kind = "passed"
	KindFailed  Kind = "failed"
	KindIgnored Kind = "ignored"
	KindTimeout Kind = "timeout"
)

// TestEvent is one parsed test lifecycle event. Name is always non-empty.
// Duration, Stdout and Stderr are optional and independently absent.
type TestEvent struct {
	Kind     Kind
	Name     string
	Duration *float64 // seconds, as reported by the runner
	Stdout   string
	Stderr   string
}

// rawEvent mirrors one line of the libtest JSON report
// (cargo test -- --format json).
type rawEvent struct {
	Type     string   `json:"type"`
	Event    string   `json:"event"`
	Name     string   `json:"name"`
	ExecTime *float64 `json:"exec_time"`
	Stdout   string   `json:"stdout"`
	Stderr   string   `json:"stderr"`
}

// Record types emitted by the runner.
const (
	typeSuite = "suite"
	typeTest  = "test"
)

// Parse parses one report line. It returns (nil, nil) for lines that
// carry no test event: suite records, and test records with an event
// kind this tool does not know. The latter is a deliberate
// forward-compatibility policy so that newer runners emitting new kinds
// do not abort the stream. Structurally invalid lines return an error;
// the caller is expected to log it and continue with the next line.
func Parse(line string) (*TestEvent, error) {
	var raw rawEvent
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("malformed test event: %w", err)
	}

	switch raw.Type {
	case typeSuite:
		// Suite start/end records are never forwarded.
		return nil, nil
	case typeTest:
		if raw.Name == "" {
			return nil, fmt.Errorf("test event has no name")
		}
		switch raw.Event {
		case "started":
			return &TestEvent{Kind: KindStarted, Name: raw.Name}, nil
		case "ok":
			return &TestEvent{Kind: KindPassed, Name: raw.Name, Duration: raw.ExecTime}, nil
		case "failed":
			return &TestEvent{
				Kind:     KindFailed,
				Name:     raw.Name,
				Duration: raw.ExecTime,
				Stdout:   raw.Stdout,
				Stderr:   raw.Stderr,
			}, nil
		case "ignored":
			return &TestEvent{Kind: KindIgnored, Name: raw.Name}, nil
		case "timeout":
			return &TestEvent{Kind: KindTimeout, Name: raw.Name, Duration: raw.ExecTime}, nil
		default:
			// Unknown test event kind from a newer runner: skip, not an error.
			return nil, nil
		}
	default:
		return nil, fmt.Errorf("unrecognized record type %q", raw.Type)
	}
}
