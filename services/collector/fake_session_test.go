package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskboard-backend/lib/browser"

	"github.com/PuerkitoBio/goquery"
)

// fakeSession is a scripted stand-in for a browser session. Navigation
// serves documents from `pages`; clicking a selector (or "text:<t>"
// for ClickText) swaps in the next document queued for it, which is
// how multi-screen login flows are scripted.
type fakeSession struct {
	pages       map[string]string
	transitions map[string][]string

	html        string
	location    string
	typed       map[string]string
	clicked     []string
	navigations []string
	closed      bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		pages:       map[string]string{},
		transitions: map[string][]string{},
		typed:       map[string]string{},
	}
}

func (s *fakeSession) queueTransition(key string, html string) {
	s.transitions[key] = append(s.transitions[key], html)
}

func (s *fakeSession) doc() *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s.html))
	if err != nil {
		panic(err)
	}
	return doc
}

func (s *fakeSession) has(selector string) bool {
	return s.doc().Find(selector).Length() > 0
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.navigations = append(s.navigations, url)
	html, ok := s.pages[url]
	if !ok {
		return fmt.Errorf("no route to %s", url)
	}
	s.html = html
	s.location = url
	return nil
}

func (s *fakeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if s.has(selector) {
		return nil
	}
	return fmt.Errorf("wait for %q: timeout", selector)
}

func (s *fakeSession) apply(key string) bool {
	queue := s.transitions[key]
	if len(queue) == 0 {
		return false
	}
	s.html = queue[0]
	s.transitions[key] = queue[1:]
	return true
}

func (s *fakeSession) Click(ctx context.Context, selector string) error {
	if !s.has(selector) {
		return fmt.Errorf("no element matching %q", selector)
	}
	s.clicked = append(s.clicked, selector)
	s.apply(selector)
	return nil
}

func (s *fakeSession) ClickText(ctx context.Context, text string) error {
	key := "text:" + text
	if !s.apply(key) {
		return fmt.Errorf("no element with text %q", text)
	}
	s.clicked = append(s.clicked, key)
	return nil
}

func (s *fakeSession) SendKeys(ctx context.Context, selector string, value string) error {
	if !s.has(selector) {
		return fmt.Errorf("no element matching %q", selector)
	}
	s.typed[selector] = value
	return nil
}

func (s *fakeSession) Location(ctx context.Context) (string, error) {
	return s.location, nil
}

func (s *fakeSession) HTML(ctx context.Context) (string, error) {
	return s.html, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeFactory struct {
	sessions []*fakeSession
	next     int
	fail     bool
}

func (f *fakeFactory) NewSession(ctx context.Context) (browser.Session, error) {
	if f.fail {
		return nil, fmt.Errorf("browser binary not found")
	}
	if f.next >= len(f.sessions) {
		return nil, fmt.Errorf("no more scripted sessions")
	}
	s := f.sessions[f.next]
	f.next++
	return s, nil
}
