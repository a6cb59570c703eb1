package collector

import (
	"context"
	"fmt"

	"taskboard-backend/lib/browser"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ConsumerLogin authenticates through a Google-style consumer identity
// flow. Same shape as the federated variant minus the persistence
// prompt: identifier screen, secret screen, redirect to the portal.
type ConsumerLogin struct {
	Portal    string
	Selectors LoginSelectors
}

func (l ConsumerLogin) Authenticate(ctx context.Context, session browser.Session, creds Credentials) error {
	ctx, span := tracer.Start(ctx, "ConsumerLogin")
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

	// some portal versions land directly on the identity provider, in
	// which case there is no sign-in trigger to click.
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

	if err := session.WaitVisible(ctx, l.Selectors.Landing, stepTimeout); err != nil {
		return fail("landing page", landingError(ctx, session, err))
	}
	return nil
}
