// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Writer encodes frames as server-sent events ("data: <json>\n\n") and
// flushes after each one.
type Writer struct {
	w     io.Writer
	flush func() error
	buf   bytes.Buffer
}

// NewWriter wraps w. flush may be nil when w is not a network connection.
func NewWriter(w io.Writer, flush func() error) *Writer {
	if flush == nil {
		flush = func() error { return nil }
	}
	return &Writer{w: w, flush: flush}
}

// WriteFrame writes one frame and flushes it to the client.
func (fw *Writer) WriteFrame(f Frame) error {
	fw.buf.Reset()
	fw.buf.WriteString("data: ")
	if err := json.NewEncoder(&fw.buf).Encode(f); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	// Encode appended one newline; an event ends with a blank line.
	fw.buf.WriteByte('\n')

	if _, err := fw.w.Write(fw.buf.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	if err := fw.flush(); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}
	return nil
}

// PrepareResponse sets the event-stream headers, clears the server write
// deadline for this response and returns a Writer bound to it.
func PrepareResponse(w http.ResponseWriter) (*Writer, error) {
	rc := http.NewResponseController(w)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return nil, fmt.Errorf("clearing write deadline: %w", err)
	}

	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		if errors.Is(err, http.ErrNotSupported) {
			return nil, ErrStreamingUnsupported
		}
		return nil, fmt.Errorf("flushing headers: %w", err)
	}

	return NewWriter(w, rc.Flush), nil
}
