// Package sse writes streamed completions to an HTTP response.
//
// The body is the raw concatenation of text fragments, sent with
// event-stream headers so proxies do not buffer it. No SSE framing or
// keep-alive comments are added since they would become part of the text.
package sse

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrStreamingUnsupported is returned when the writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming not supported")

// Writer implements llm.StreamSink over an http.ResponseWriter.
// Headers are committed on the first fragment so that a failure before
// it can still be answered with an error status.
type Writer struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
	closed  bool
}

// NewWriter wraps w for streaming.
func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// WriteFragment writes text and flushes it to the client
func (s *Writer) WriteFragment(text string) error {
	if s.closed {
		return errors.New("write on closed stream")
	}
	if !s.started {
		s.writeHeaders()
	}

	if _, err := s.w.Write([]byte(text)); err != nil {
		return fmt.Errorf("write fragment: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		if errors.Is(err, http.ErrNotSupported) {
			return ErrStreamingUnsupported
		}
		return fmt.Errorf("flush fragment: %w", err)
	}
	return nil
}

// Close ends the response. A stream that produced no fragments still
// answers 200 with the stream headers and an empty body.
func (s *Writer) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if !s.started {
		s.writeHeaders()
	}
	return nil
}

// Started reports whether the response headers were committed.
func (s *Writer) Started() bool {
	return s.started
}

func (s *Writer) writeHeaders() {
	h := s.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // nginx
	s.w.WriteHeader(http.StatusOK)
	s.started = true
}
