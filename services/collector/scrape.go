package collector

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"taskboard-backend/lib/browser"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// maxCoursesPerRun caps how many course pages one run visits, bounding
// run duration against runaway course listings.
const maxCoursesPerRun = 10

// RawFragment is the unnormalized result of one assignment element:
// whatever text the element carried, whatever due-date text the
// structural search found (possibly empty), and the course page it
// came from.
type RawFragment struct {
	Title      string
	DueText    string
	CourseLink string
}

// scrapeListings walks an authenticated session through the course
// overview and each course page, collecting assignment fragments.
// Failures below the platform level are contained: a course that fails
// to load or parse yields nothing and the walk continues.
func scrapeListings(ctx context.Context, session browser.Session, platform Platform) ([]RawFragment, error) {
	ctx, span := tracer.Start(ctx, "scrapeListings")
	defer span.End()
	span.SetAttributes(attribute.String("platform", platform.Name))

	html, err := session.HTML(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	links := courseLinks(doc, platform.Scrape.CourseLinks, platform.PortalURL)
	span.SetAttributes(attribute.Int("course_links", len(links)))
	if len(links) > maxCoursesPerRun {
		links = links[:maxCoursesPerRun]
	}

	var fragments []RawFragment
	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return fragments, err
		}

		courseFrags, err := scrapeCoursePage(ctx, session, platform, link)
		if err != nil {
			slog.WarnContext(ctx, "skipping course page",
				"platform", platform.Name,
				"course", link,
				"err", err,
			)
			continue
		}
		fragments = append(fragments, courseFrags...)
	}

	span.SetAttributes(attribute.Int("fragments", len(fragments)))
	return fragments, nil
}

func scrapeCoursePage(ctx context.Context, session browser.Session, platform Platform, link string) ([]RawFragment, error) {
	if err := session.Navigate(ctx, link); err != nil {
		return nil, err
	}
	// wait on the rendered document instead of sleeping; a course with
	// no activities still has a body, so a miss just means empty page.
	_ = session.WaitVisible(ctx, "body", time.Second*5)

	html, err := session.HTML(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	return extractAssignments(doc, platform.Scrape, link), nil
}

// courseLinks resolves the hrefs matched by the course-link chain
// against the portal base, dropping empties and duplicates while
// preserving page order.
func courseLinks(doc *goquery.Document, chain SelectorChain, portalURL string) []string {
	sel := chain.FindFirst(doc)
	if sel == nil {
		return nil
	}
	base, err := url.Parse(portalURL)
	if err != nil {
		base = nil
	}

	seen := map[string]bool{}
	var links []string
	sel.Each(func(_ int, anchor *goquery.Selection) {
		href, ok := anchor.Attr("href")
		if !ok || href == "" {
			return
		}
		if base != nil {
			ref, err := url.Parse(href)
			if err != nil {
				return
			}
			href = base.ResolveReference(ref).String()
		}
		if seen[href] {
			return
		}
		seen[href] = true
		links = append(links, href)
	})
	return links
}

// extractAssignments pulls assignment fragments out of one course
// page. A malformed element is skipped without aborting the rest of
// the page.
func extractAssignments(doc *goquery.Document, selectors ScrapeSelectors, courseLink string) []RawFragment {
	sel := selectors.Assignments.FindFirst(doc)
	if sel == nil {
		return nil
	}

	var fragments []RawFragment
	sel.Each(func(_ int, element *goquery.Selection) {
		fragments = append(fragments, RawFragment{
			Title:      assignmentTitle(element, selectors),
			DueText:    dueText(element, selectors),
			CourseLink: courseLink,
		})
	})
	return fragments
}

// assignmentTitle reads an assignment element's title without the text
// of any date container nested inside it. The activity anchor carries
// the name on both portals; an element with no anchor falls back to
// its own text with the date containers stripped out.
func assignmentTitle(element *goquery.Selection, selectors ScrapeSelectors) string {
	anchor := element.Find("a").First()
	if anchor.Length() > 0 {
		title := strings.TrimSpace(anchor.Text())
		if title != "" {
			return title
		}
	}
	clone := element.Clone()
	for _, selector := range selectors.DueDates {
		clone.Find(selector).Remove()
	}
	return strings.TrimSpace(clone.Text())
}

// dueText looks for a due-date fragment structurally near an
// assignment element: the closest matching ancestor is searched for
// the first date container the chain matches. Absence is fine, the
// normalizer substitutes the ingestion date.
func dueText(element *goquery.Selection, selectors ScrapeSelectors) string {
	scope := element
	if selectors.AssignmentAncestor != "" {
		ancestor := element.Closest(selectors.AssignmentAncestor)
		if ancestor.Length() > 0 {
			scope = ancestor
		}
	}
	for _, selector := range selectors.DueDates {
		dates := scope.Find(selector)
		if dates.Length() > 0 {
			return strings.TrimSpace(dates.First().Text())
		}
	}
	return ""
}
