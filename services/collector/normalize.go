package collector

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"taskboard-backend/services/taskstore"
)

const (
	placeholderCourse = "Course"
	placeholderTitle  = "Untitled assignment"
)

// normalize converts a raw fragment into a storable task. It never
// fails: every missing or unparseable field falls back to a default so
// a partially broken page still yields usable records.
func normalize(frag RawFragment, platform string, now time.Time) taskstore.Task {
	title := strings.Join(strings.Fields(frag.Title), " ")
	if title == "" {
		title = placeholderTitle
	}

	return taskstore.Task{
		Platform:  platform,
		Course:    courseLabel(frag.CourseLink),
		Title:     title,
		DueDate:   normalizeDueDate(frag.DueText, now),
		Status:    taskstore.StatusPending,
		ScrapedAt: now,
	}
}

// courseLabel derives a course label from the course page address: the
// last usable path segment, or the query's id parameter when the path
// carries none (moodle's /course/view.php?id=101 shape).
func courseLabel(courseLink string) string {
	parsed, err := url.Parse(courseLink)
	if err != nil {
		return placeholderCourse
	}

	if id := parsed.Query().Get("id"); id != "" {
		return id
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return placeholderCourse
}

var isoDateRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// layouts observed in the portals' date containers. Both portals run
// moodle so the long forms dominate; numeric forms cover themes that
// localize the display.
var dueDateLayouts = []string{
	"Monday, 2 January 2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2/1/2006",
	"02/01/2006",
}

// normalizeDueDate extracts a calendar date from free-form due-date
// text and renders it as ISO. Storing anything other than a validated
// ISO date would silently break the sweep (string comparison), so
// unparseable text is flagged and replaced with the ingestion date.
func normalizeDueDate(text string, now time.Time) string {
	today := now.Format(time.DateOnly)

	cleaned := strings.Join(strings.Fields(text), " ")
	if cleaned == "" {
		return today
	}

	if iso := isoDateRegex.FindString(cleaned); iso != "" {
		if parsed, err := time.Parse(time.DateOnly, iso); err == nil {
			return parsed.Format(time.DateOnly)
		}
	}

	// date containers usually read like "Due: Monday, 2 September
	// 2024" or "Vence: 02/09/2024"; strip the label and try each
	// known layout on the remainder.
	candidate := cleaned
	if idx := strings.IndexAny(cleaned, ":"); idx >= 0 {
		candidate = strings.TrimSpace(cleaned[idx+1:])
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, candidate); err == nil {
			return parsed.Format(time.DateOnly)
		}
	}

	slog.Debug("unparseable due date text, using ingestion date", "text", cleaned)
	return today
}
