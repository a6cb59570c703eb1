package collector

import (
	"testing"
	"time"

	"taskboard-backend/services/taskstore"

	"github.com/stretchr/testify/require"
)

var normalizeNow = time.Date(2031, time.March, 10, 15, 30, 0, 0, time.UTC)

func TestNormalize(t *testing.T) {
	task := normalize(RawFragment{
		Title:      "  Essay   1\n",
		DueText:    "Due: Monday, 2 September 2031",
		CourseLink: "https://portal.test/course/view.php?id=101",
	}, PlatformCato, normalizeNow)

	require.Equal(t, taskstore.Task{
		Platform:  PlatformCato,
		Course:    "101",
		Title:     "Essay 1",
		DueDate:   "2031-09-02",
		Status:    taskstore.StatusPending,
		ScrapedAt: normalizeNow,
	}, task)
}

func TestNormalizeEmptyTitle(t *testing.T) {
	task := normalize(RawFragment{
		Title:      "   ",
		CourseLink: "https://portal.test/course/101",
	}, PlatformUda, normalizeNow)

	require.Equal(t, "Untitled assignment", task.Title)
	require.NotEmpty(t, task.Title)
}

func TestNormalizeEmptyDueDate(t *testing.T) {
	task := normalize(RawFragment{
		Title:      "Essay 1",
		CourseLink: "https://portal.test/course/101",
	}, PlatformCato, normalizeNow)

	require.Equal(t, "2031-03-10", task.DueDate)
}

func TestNormalizeUnparseableDueDate(t *testing.T) {
	task := normalize(RawFragment{
		Title:      "Essay 1",
		DueText:    "whenever you feel like it",
		CourseLink: "https://portal.test/course/101",
	}, PlatformCato, normalizeNow)

	// comparison-unsafe text must never be stored as a due date
	require.Equal(t, "2031-03-10", task.DueDate)
}

func TestNormalizeDueDateForms(t *testing.T) {
	cases := map[string]string{
		"2031-09-02":                      "2031-09-02",
		"Due: 2031-09-02":                 "2031-09-02",
		"Apertura: 2 September 2031":      "2031-09-02",
		"Due: Monday, 2 September 2031":   "2031-09-02",
		"Vence: 02/09/2031":               "2031-09-02",
		"Due:   September   2,   2031":    "2031-09-02",
		"":                                "2031-03-10",
	}
	for text, want := range cases {
		require.Equal(t, want, normalizeDueDate(text, normalizeNow), "text=%q", text)
	}
}

func TestCourseLabel(t *testing.T) {
	require.Equal(t, "101", courseLabel("https://portal.test/course/view.php?id=101"))
	require.Equal(t, "algebra", courseLabel("https://portal.test/course/algebra"))
	require.Equal(t, "algebra", courseLabel("https://portal.test/course/algebra/"))
	require.Equal(t, "Course", courseLabel("https://portal.test/"))
	require.Equal(t, "Course", courseLabel("://not a url"))
}
