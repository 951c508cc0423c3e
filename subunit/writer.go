package subunit

import (
	"fmt"
	"io"
	"time"

	"github.com/ethereum-optimism/infra/cargo-subunit/parser"
)

// attachmentMimeType is the mime type used for every attachment this tool
// produces. The exact string matters to downstream consumers.
const attachmentMimeType = "text/plain;charset=utf8"

// timeoutReason is the fixed attachment content for timed-out tests.
const timeoutReason = "Test timed out"

// flusher is implemented by buffered sinks (bufio.Writer).
type flusher interface {
	Flush() error
}

// StreamWriter converts test events into subunit v2 packets on a single
// sequential sink. It owns the sink for the lifetime of the run and
// flushes after every packet so a live consumer observes progress in real
// time rather than in batches.
type StreamWriter struct {
	w   io.Writer
	now func() time.Time
}

// NewStreamWriter creates a StreamWriter over w. If w is buffered it is
// flushed after each packet.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w, now: time.Now}
}

// WriteEvent encodes one test event as one packet and flushes the sink.
// Every packet is stamped with the wall-clock time at encode time; the
// runner-reported duration is deliberately not carried into the stream.
func (s *StreamWriter) WriteEvent(event *parser.TestEvent) error {
	pkt := Packet{
		TestID:    event.Name,
		Timestamp: s.now().UTC(),
	}

	switch event.Kind {
	case parser.KindStarted:
		pkt.Status = StatusInProgress
	case parser.KindPassed:
		pkt.Status = StatusSuccess
	case parser.KindFailed:
		pkt.Status = StatusFail
		// The protocol allows exactly one attachment per packet. When a
		// failed test captured both streams, stderr wins over stdout as
		// the more diagnostic one.
		switch {
		case event.Stderr != "":
			pkt.attach("stderr", []byte(event.Stderr))
		case event.Stdout != "":
			pkt.attach("stdout", []byte(event.Stdout))
		}
	case parser.KindIgnored:
		pkt.Status = StatusSkip
	case parser.KindTimeout:
		pkt.Status = StatusFail
		pkt.attach("reason", []byte(timeoutReason))
	default:
		return fmt.Errorf("unknown test event kind %q", event.Kind)
	}

	if err := pkt.Write(s.w); err != nil {
		return fmt.Errorf("failed to write subunit packet for test %q: %w", event.Name, err)
	}
	if f, ok := s.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("failed to flush subunit stream: %w", err)
		}
	}
	return nil
}

func (p *Packet) attach(name string, content []byte) {
	p.FileName = name
	p.FileContent = content
	p.MimeType = attachmentMimeType
}
