package collector

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"taskboard-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// newProbeClient builds the http client used to check that a portal is
// reachable before a browser session is paid for. Browser sessions are
// expensive to spin up and slow to fail, so a dead portal should be
// caught with a plain request first.
func newProbeClient() *resty.Client {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", browserUserAgent)
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "collector/probe")
	return client
}

// probePortal issues a GET against the portal url. Redirects to the
// identity provider are normal, so any response short of a server
// error counts as reachable.
func probePortal(ctx context.Context, client *resty.Client, portalURL string) error {
	res, err := client.R().
		SetContext(ctx).
		Get(portalURL)
	if err != nil {
		return fmt.Errorf("portal unreachable: %w", err)
	}
	if res.StatusCode() >= 500 {
		return fmt.Errorf("portal unhealthy: status %d", res.StatusCode())
	}
	return nil
}
