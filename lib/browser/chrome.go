package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Options mirrors the flag set we have found keeps the two portals
// from flagging the session as automated.
type Options struct {
	Headless bool `json:"headless"`
	// BinaryPath pins the chrome/chromium binary. In the container
	// image this is /usr/bin/chromium-browser; when empty (or the file
	// is missing, e.g. on a dev machine) chromedp resolves a local
	// install itself.
	BinaryPath   string `json:"binary_path"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
}

func (o Options) withDefaults() Options {
	if o.WindowWidth == 0 {
		o.WindowWidth = 1920
	}
	if o.WindowHeight == 0 {
		o.WindowHeight = 1080
	}
	return o
}

type ChromeFactory struct {
	opts Options
}

func NewChromeFactory(opts Options) ChromeFactory {
	return ChromeFactory{opts: opts.withDefaults()}
}

// NewSession launches a fresh browser with an isolated profile. It
// either returns a session that is ready to navigate or an error;
// there is no partially constructed state to clean up on failure.
func (f ChromeFactory) NewSession(ctx context.Context) (Session, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.opts.Headless),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.WindowSize(f.opts.WindowWidth, f.opts.WindowHeight),
	)
	if f.opts.BinaryPath != "" {
		if _, err := os.Stat(f.opts.BinaryPath); err == nil {
			allocOpts = append(allocOpts, chromedp.ExecPath(f.opts.BinaryPath))
		}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	// an empty Run starts the browser process, so a missing or broken
	// binary surfaces here instead of on the first navigation.
	err := chromedp.Run(tabCtx)
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	return &chromeSession{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
	}, nil
}

type chromeSession struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// run executes actions on the session's tab while still honoring the
// caller's deadline/cancellation. The actions run on a context that is
// cancelled with the caller's, so a timed-out step stops driving the
// tab instead of racing the next step.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, release := joinContext(ctx, s.ctx)
	defer release()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// joinContext derives a context from the session context that is also
// cancelled when the caller's context ends.
func joinContext(caller, session context.Context) (context.Context, context.CancelFunc) {
	joined, cancel := context.WithCancel(session)
	stop := context.AfterFunc(caller, cancel)
	return joined, func() {
		stop()
		cancel()
	}
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *chromeSession) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	err := s.run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (s *chromeSession) Click(ctx context.Context, selector string) error {
	return s.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (s *chromeSession) ClickText(ctx context.Context, text string) error {
	// BySearch takes the same query DOM.performSearch does, so an
	// xpath over both anchors and buttons works here.
	query := fmt.Sprintf("//a[contains(., '%s')] | //button[contains(., '%s')]", text, text)
	return s.run(ctx, chromedp.Click(query, chromedp.BySearch))
}

func (s *chromeSession) SendKeys(ctx context.Context, selector string, value string) error {
	return s.run(ctx, chromedp.SendKeys(selector, value, chromedp.ByQuery))
}

func (s *chromeSession) Location(ctx context.Context) (string, error) {
	var url string
	err := s.run(ctx, chromedp.Location(&url))
	return url, err
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (s *chromeSession) Close() error {
	err := chromedp.Cancel(s.ctx)
	s.cancelTab()
	s.cancelAlloc()
	return err
}
