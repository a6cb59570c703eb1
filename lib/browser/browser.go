// Package browser wraps headless Chrome behind a small session
// interface so login flows and scrapers can be exercised against a
// scripted fake in tests. The real implementation drives the browser
// through chromedp; nothing outside this package talks to it directly.
package browser

import (
	"context"
	"time"
)

// Session is one isolated browser tab plus the profile backing it.
// Every blocking method observes its context, and every wait is
// bounded. The creator of a session owns it: Close must run on every
// exit path or the external browser process leaks.
type Session interface {
	// Navigate loads a url and blocks until the document is ready.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until an element matching the css selector is
	// visible, or fails once the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Click clicks the first element matching the css selector.
	Click(ctx context.Context, selector string) error
	// ClickText clicks the first anchor or button whose text contains
	// the given fragment. Used for login triggers that carry no stable
	// id or class.
	ClickText(ctx context.Context, text string) error
	// SendKeys types a value into the first element matching the css
	// selector.
	SendKeys(ctx context.Context, selector string, value string) error
	// Location reports the current page url after any redirects.
	Location(ctx context.Context) (string, error)
	// HTML snapshots the rendered document, which callers feed to a
	// DOM query library instead of round-tripping selectors through
	// the browser.
	HTML(ctx context.Context) (string, error)
	Close() error
}

// Factory produces sessions. The chrome implementation lives in this
// package; tests substitute their own.
type Factory interface {
	NewSession(ctx context.Context) (Session, error)
}
