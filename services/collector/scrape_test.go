package collector

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"taskboard-backend/lib/testutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func testPlatform() Platform {
	return Platform{
		Name:      PlatformCato,
		PortalURL: "https://portal.test/my/courses.php",
		Scrape: ScrapeSelectors{
			CourseLinks: SelectorChain{
				".coursename a, .course_title a",
				".coursebox a",
			},
			Assignments: SelectorChain{
				".activity.assign, .modtype_assign",
				`a[title*='Tarea']`,
			},
			AssignmentAncestor: ".activity",
			DueDates: SelectorChain{
				".activitydates",
				".dates",
			},
		},
	}
}

const coursePage = `<html><body>
	<div class="activity assign">
		<a href="#">Essay 1</a>
		<div class="activitydates">Due: 2 September 2031</div>
	</div>
	<div class="activity assign">
		<a href="#">Quiz 3</a>
	</div>
</body></html>`

func TestScrapeListings(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "services/collector"})
	defer cleanup()

	platform := testPlatform()
	session := newFakeSession()
	session.html = `<html><body>
		<div class="coursename"><a href="/course/view.php?id=101">Course 101</a></div>
		<div class="coursename"><a href="/course/view.php?id=102">Course 102</a></div>
	</body></html>`
	session.pages["https://portal.test/course/view.php?id=101"] = coursePage
	session.pages["https://portal.test/course/view.php?id=102"] = `<html><body></body></html>`

	fragments, err := scrapeListings(context.Background(), session, platform)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	require.Equal(t, "Essay 1", fragments[0].Title)
	require.Equal(t, "Due: 2 September 2031", fragments[0].DueText)
	require.Equal(t, "https://portal.test/course/view.php?id=101", fragments[0].CourseLink)

	require.Equal(t, "Quiz 3", fragments[1].Title)
	require.Empty(t, fragments[1].DueText)
}

func TestScrapeListingsCourseCap(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "services/collector"})
	defer cleanup()

	platform := testPlatform()
	session := newFakeSession()

	var landing strings.Builder
	landing.WriteString("<html><body>")
	for i := 0; i < 15; i++ {
		link := fmt.Sprintf("/course/view.php?id=%d", i)
		fmt.Fprintf(&landing, `<div class="coursename"><a href="%s">Course %d</a></div>`, link, i)
		session.pages[fmt.Sprintf("https://portal.test/course/view.php?id=%d", i)] = `<html><body></body></html>`
	}
	landing.WriteString("</body></html>")
	session.html = landing.String()

	_, err := scrapeListings(context.Background(), session, platform)
	require.NoError(t, err)
	require.Len(t, session.navigations, maxCoursesPerRun)
}

func TestScrapeListingsSkipsBrokenCourse(t *testing.T) {
	_, cleanup := testutil.SetupService(t, testutil.ServiceParams{Name: "services/collector"})
	defer cleanup()

	platform := testPlatform()
	session := newFakeSession()
	session.html = `<html><body>
		<div class="coursename"><a href="/course/view.php?id=500">Broken</a></div>
		<div class="coursename"><a href="/course/view.php?id=101">Fine</a></div>
	</body></html>`
	// id=500 has no route, navigation fails; the run continues.
	session.pages["https://portal.test/course/view.php?id=101"] = coursePage

	fragments, err := scrapeListings(context.Background(), session, platform)
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	for _, frag := range fragments {
		require.Equal(t, "https://portal.test/course/view.php?id=101", frag.CourseLink)
	}
}

func TestExtractAssignmentsTitleExcludesDates(t *testing.T) {
	// the date container sits inside the assignment element on both
	// portals; its text must never leak into the title, or every
	// rendered-date change mints a new record identity.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<div class="activity assign">
			<a href="#">Essay 1</a>
			<div class="activitydates">Due: 2 September 2031</div>
		</div>
		<div class="activity assign">
			<span>Reading response</span>
			<div class="activitydates">Due: 3 September 2031</div>
		</div>
	</body></html>`))
	require.NoError(t, err)

	fragments := extractAssignments(doc, testPlatform().Scrape, "https://portal.test/course/view.php?id=101")
	require.Len(t, fragments, 2)
	require.Equal(t, "Essay 1", fragments[0].Title)
	// no anchor to read, so the element text minus the date container.
	require.Equal(t, "Reading response", fragments[1].Title)
	require.Equal(t, "Due: 2 September 2031", fragments[0].DueText)
	require.Equal(t, "Due: 3 September 2031", fragments[1].DueText)
}

func TestSelectorChainFirstMatchWins(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<div class="coursebox"><a href="/a">A</a></div>
		<div class="coursebox"><a href="/b">B</a></div>
	</body></html>`))
	require.NoError(t, err)

	chain := SelectorChain{
		".coursename a, .course_title a",
		".coursebox a",
	}
	sel := chain.FindFirst(doc)
	require.NotNil(t, sel)
	require.Equal(t, 2, sel.Length())
}

func TestSelectorChainNoMerge(t *testing.T) {
	// once a selector matches, later selectors must not contribute.
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<div class="coursename"><a href="/primary">P</a></div>
		<div class="coursebox"><a href="/fallback">F</a></div>
	</body></html>`))
	require.NoError(t, err)

	links := courseLinks(doc, SelectorChain{
		".coursename a, .course_title a",
		".coursebox a",
	}, "https://portal.test/")
	require.Equal(t, []string{"https://portal.test/primary"}, links)
}

func TestCourseLinksDeduplicates(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<div class="coursename"><a href="/course/1">One</a></div>
		<div class="coursename"><a href="/course/1">One again</a></div>
		<div class="coursename"><a>no href</a></div>
	</body></html>`))
	require.NoError(t, err)

	links := courseLinks(doc, SelectorChain{".coursename a"}, "https://portal.test/")
	require.Equal(t, []string{"https://portal.test/course/1"}, links)
}
