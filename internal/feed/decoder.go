// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package feed

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MalformedFrameError reports an event whose payload could not be used.
// The decoder has already skipped it; callers may keep reading.
type MalformedFrameError struct {
	Payload string
	Err     error
}

func (e *MalformedFrameError) Error() string {
	return fmt.Sprintf("malformed frame: %v", e.Err)
}

func (e *MalformedFrameError) Unwrap() error { return e.Err }

// MaxLineSize bounds one line of the stream. A frame with a longer line is
// drained and reported as malformed with ErrFrameTooLarge.
const MaxLineSize = 1 << 20

// ErrFrameTooLarge marks a frame that exceeded MaxLineSize.
var ErrFrameTooLarge = errors.New("frame exceeds the line size limit")

// Decoder reads frames from a server-sent event stream.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder returns a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 4096)}
}

// readLine returns the next line without its terminator. The rest of a
// line longer than MaxLineSize is consumed and discarded.
func (d *Decoder) readLine() (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, err := d.r.ReadLine()
		if err != nil {
			return "", tooLong, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > MaxLineSize {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// Next returns the next frame. It returns io.EOF when the stream ends and a
// *MalformedFrameError for an event that is not a valid frame.
func (d *Decoder) Next() (Frame, error) {
	var (
		data      []string
		oversized bool
	)
	for {
		line, tooLong, err := d.readLine()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return Frame{}, err
			}
			switch {
			case oversized:
				return Frame{}, &MalformedFrameError{Err: ErrFrameTooLarge}
			case len(data) > 0:
				return parseFrame(strings.Join(data, "\n"))
			}
			return Frame{}, io.EOF
		}
		if tooLong {
			oversized = true
			continue
		}
		if line == "" {
			if oversized {
				return Frame{}, &MalformedFrameError{Err: ErrFrameTooLarge}
			}
			if len(data) == 0 {
				continue
			}
			return parseFrame(strings.Join(data, "\n"))
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		if field == "data" {
			data = append(data, strings.TrimPrefix(value, " "))
		}
	}
}

func parseFrame(payload string) (Frame, error) {
	var f Frame
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return Frame{}, &MalformedFrameError{Payload: payload, Err: err}
	}
	switch f.Type {
	case TypeConnected, TypeHeartbeat:
	case TypeLog:
		if f.Data == nil {
			return Frame{}, &MalformedFrameError{Payload: payload, Err: errors.New("log frame without data")}
		}
	default:
		return Frame{}, &MalformedFrameError{Payload: payload, Err: fmt.Errorf("unknown frame type %q", f.Type)}
	}
	return f, nil
}

// Consume decodes frames from r into b until the stream ends. Malformed
// frames are passed to onMalformed (if set) and skipped. It returns nil on
// a clean end of stream.
func Consume(r io.Reader, b *Backlog, onMalformed func(error)) error {
	dec := NewDecoder(r)
	for {
		f, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var malformed *MalformedFrameError
		if errors.As(err, &malformed) {
			if onMalformed != nil {
				onMalformed(err)
			}
			continue
		}
		if err != nil {
			return err
		}
		b.Apply(f)
	}
}
