package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard-backend/lib/browser"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrLoginFailed = errors.New("failed to authenticate against the portal")

// Authenticator drives a fresh browser session through one platform's
// login flow. Implementations are terminal: they either reach the
// authenticated landing page or fail the whole attempt, and they never
// retry internally — retry policy belongs to the run scheduler.
type Authenticator interface {
	Authenticate(ctx context.Context, session browser.Session, creds Credentials) error
}

// FederatedLogin authenticates through a Microsoft-style federated
// identity flow: the portal redirects to the identity provider, which
// collects the identifier and secret on separate screens and may show
// a "stay signed in" prompt before bouncing back to the portal.
type FederatedLogin struct {
	Portal    string
	Selectors LoginSelectors
}

func (l FederatedLogin) Authenticate(ctx context.Context, session browser.Session, creds Credentials) error {
	ctx, span := tracer.Start(ctx, "FederatedLogin")
	defer span.End()
	span.SetAttributes(attribute.String("portal", l.Portal))

	fail := func(step string, err error) error {
		err = fmt.Errorf("%w: %s: %v", ErrLoginFailed, step, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := session.Navigate(ctx, l.Portal); err != nil {
		return fail("open portal", err)
	}

	// the federated entry link only renders when the portal does not
	// redirect straight to the identity provider, so a miss here is
	// expected and not a failure.
	clickOptionalTrigger(ctx, session, l.Selectors.TriggerText)

	if err := session.WaitVisible(ctx, l.Selectors.Identifier, stepTimeout); err != nil {
		return fail("identifier field", err)
	}
	if err := session.SendKeys(ctx, l.Selectors.Identifier, creds.Username); err != nil {
		return fail("enter identifier", err)
	}
	if err := session.Click(ctx, l.Selectors.IdentifierNext); err != nil {
		return fail("submit identifier", err)
	}

	if err := session.WaitVisible(ctx, l.Selectors.Secret, stepTimeout); err != nil {
		return fail("secret field", err)
	}
	if err := session.SendKeys(ctx, l.Selectors.Secret, creds.Password); err != nil {
		return fail("enter secret", err)
	}
	if err := session.Click(ctx, l.Selectors.SecretNext); err != nil {
		return fail("submit secret", err)
	}

	l.resolveStayPrompt(ctx, session)

	if err := session.WaitVisible(ctx, l.Selectors.Landing, stepTimeout); err != nil {
		return fail("landing page", landingError(ctx, session, err))
	}
	return nil
}

// landingError attaches the url the flow got stuck on, which is the
// one piece of state worth having when the landing marker never shows:
// it distinguishes a rejected login from drifted landing markup.
func landingError(ctx context.Context, session browser.Session, err error) error {
	loc, locErr := session.Location(ctx)
	if locErr != nil || loc == "" {
		return err
	}
	return fmt.Errorf("stuck at %s: %w", loc, err)
}

// resolveStayPrompt dismisses the "stay signed in?" interstitial,
// declining when possible and accepting as a fallback. The prompt not
// appearing at all is fine.
func (l FederatedLogin) resolveStayPrompt(ctx context.Context, session browser.Session) {
	if err := session.WaitVisible(ctx, l.Selectors.StayDecline, time.Second*5); err == nil {
		if err := session.Click(ctx, l.Selectors.StayDecline); err == nil {
			return
		}
	}
	if err := session.WaitVisible(ctx, l.Selectors.StayAccept, time.Second*2); err == nil {
		_ = session.Click(ctx, l.Selectors.StayAccept)
	}
}

func clickOptionalTrigger(ctx context.Context, session browser.Session, text string) {
	if text == "" {
		return
	}
	clickCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	_ = session.ClickText(clickCtx, text)
}
