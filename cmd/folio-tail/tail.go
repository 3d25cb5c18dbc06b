// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"

	"github.com/olegiv/folio-go/internal/feed"
	"github.com/olegiv/folio-go/internal/model"
)

// errUnauthorized stops reconnecting: retrying a rejected session is futile.
var errUnauthorized = errors.New("session rejected, sign in again and pass a fresh cookie")

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

var (
	levelColors = map[string]*color.Color{
		model.LevelInfo:    color.New(color.FgCyan),
		model.LevelSuccess: color.New(color.FgGreen),
		model.LevelWarning: color.New(color.FgYellow),
		model.LevelDanger:  color.New(color.FgRed, color.Bold),
	}
	systemColor = color.New(color.FgHiBlack)
)

type options struct {
	url        string
	cookieName string
	cookie     string
	retry      time.Duration
	size       int
	screen     bool
	heartbeats bool
}

type tailer struct {
	opts    options
	client  *http.Client
	out     io.Writer
	loc     *time.Location
	backlog *feed.Backlog
}

func newTailer(opts options, out io.Writer) *tailer {
	return &tailer{
		opts: opts,
		client: &http.Client{
			// The gate answers a missing session with a redirect to the login page.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
		out:     out,
		loc:     time.Local,
		backlog: feed.NewBacklog(opts.size),
	}
}

// run streams until ctx is cancelled, reconnecting after failures.
func (t *tailer) run(ctx context.Context) error {
	for {
		err := t.stream(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, errUnauthorized) {
			t.system(err.Error(), model.LevelDanger)
			return err
		}
		if err != nil {
			t.system("Connection lost: "+err.Error(), model.LevelWarning)
		} else {
			t.system("Stream closed by server", model.LevelWarning)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(t.opts.retry):
		}
	}
}

// stream reads one connection until it ends.
func (t *tailer) stream(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.opts.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	if t.opts.cookie != "" {
		req.AddCookie(&http.Cookie{Name: t.opts.cookieName, Value: t.opts.cookie})
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode >= 300 && resp.StatusCode < 400:
		return errUnauthorized
	default:
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	dec := feed.NewDecoder(resp.Body)
	for {
		f, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var malformed *feed.MalformedFrameError
		if errors.As(err, &malformed) {
			t.system("Skipped malformed frame", model.LevelWarning)
			continue
		}
		if err != nil {
			return err
		}

		t.backlog.Apply(f)
		if f.Type == feed.TypeHeartbeat && !t.opts.heartbeats && !t.opts.screen {
			continue
		}
		t.show()
	}
}

func (t *tailer) system(msg, level string) {
	t.backlog.System(msg, level)
	t.show()
}

// show prints the newest line, or redraws the whole view in screen mode.
func (t *tailer) show() {
	lines := t.backlog.Lines()
	if len(lines) == 0 {
		return
	}
	if !t.opts.screen {
		_, _ = fmt.Fprintln(t.out, t.format(lines[len(lines)-1]))
		return
	}
	_, _ = io.WriteString(t.out, clearScreen)
	for _, l := range lines {
		if l.Kind == feed.KindHeartbeat && !t.opts.heartbeats {
			continue
		}
		_, _ = fmt.Fprintln(t.out, t.format(l))
	}
}

func (t *tailer) format(l feed.Line) string {
	ts := l.Timestamp.In(t.loc).Format(time.TimeOnly)
	switch l.Kind {
	case feed.KindLog:
		return fmt.Sprintf("%s %s %s", ts, levelColor(l.Level).Sprintf("%-7s", displayLevel(l.Level)), l.Content)
	case feed.KindHeartbeat:
		return systemColor.Sprintf("%s %s", ts, l.Content)
	default:
		c := systemColor
		if l.Level != "" {
			c = levelColor(l.Level)
		}
		return c.Sprintf("%s *** %s", ts, l.Content)
	}
}

func levelColor(level string) *color.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return systemColor
}

// displayLevel shows DANGER as ERROR.
func displayLevel(level string) string {
	if level == model.LevelDanger {
		return "ERROR"
	}
	return level
}
