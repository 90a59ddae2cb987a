package exchange

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
)

var stamp = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestBuildTaskCalendarICS(t *testing.T) {
	task := sampleState().Tasks[0]
	task.Title = "Report; draft, v2"

	ics, err := BuildTaskCalendarICS(task, stamp)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.Contains(t, ics, "UID:task-t1@taskboard\r\n")
	assert.Contains(t, ics, "DTSTAMP:20250310T120000Z\r\n")
	assert.Contains(t, ics, `SUMMARY:Report\; draft\, v2`+"\r\n")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250312\r\n")
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20250313\r\n")
	assert.Contains(t, ics, "PRIORITY:3\r\n")
	assert.Contains(t, ics, "CATEGORIES:q3,finance\r\n")
	assert.Contains(t, ics, "RRULE:FREQ=WEEKLY;INTERVAL=1\r\n")
	assert.True(t, strings.HasSuffix(ics, "END:VEVENT\r\nEND:VCALENDAR\r\n"))
}

func TestBuildTaskCalendarICS_RequiresDueDate(t *testing.T) {
	_, err := BuildTaskCalendarICS(model.Task{ID: "x", Title: "undated"}, stamp)
	assert.True(t, errors.Is(err, ErrNoDueDate))

	_, err = BuildTaskCalendarICS(model.Task{ID: "x", DueDate: model.Ptr("12/03/2025")}, stamp)
	assert.Error(t, err)
}

func TestBuildCalendarICS_SkipsUndated(t *testing.T) {
	ics := BuildCalendarICS(sampleState().Tasks, stamp)

	assert.Equal(t, 1, strings.Count(ics, "BEGIN:VEVENT"))
	assert.NotContains(t, ics, "Buy milk")

	empty := BuildCalendarICS(nil, stamp)
	assert.Equal(t, 0, strings.Count(empty, "BEGIN:VEVENT"))
	assert.Contains(t, empty, "END:VCALENDAR")
}
