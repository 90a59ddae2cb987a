package exchange

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/clock"
	"taskboard/internal/model"
)

const icsDateLayout = "20060102"

// ErrNoDueDate is returned when a single task without a due date is exported.
var ErrNoDueDate = errors.New("task due date required for calendar export")

// BuildTaskCalendarICS builds a calendar holding one all-day event for t.
func BuildTaskCalendarICS(t model.Task, now time.Time) (string, error) {
	ev, err := taskEvent(t, now)
	if err != nil {
		return "", err
	}
	return wrapCalendar(ev), nil
}

// BuildCalendarICS builds a calendar with an event per dated task. Tasks
// without a due date are skipped.
func BuildCalendarICS(tasks []model.Task, now time.Time) string {
	var events []string
	for _, t := range tasks {
		ev, err := taskEvent(t, now)
		if err != nil {
			continue
		}
		events = append(events, ev...)
	}
	return wrapCalendar(events)
}

func wrapCalendar(events []string) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Taskboard//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	lines = append(lines, events...)
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func taskEvent(t model.Task, now time.Time) ([]string, error) {
	dueRaw := ""
	if t.DueDate != nil {
		dueRaw = strings.TrimSpace(*t.DueDate)
	}
	if dueRaw == "" {
		return nil, ErrNoDueDate
	}
	due, err := time.Parse(clock.DateLayout, dueRaw)
	if err != nil {
		return nil, fmt.Errorf("task due date must be YYYY-MM-DD")
	}
	end := due.AddDate(0, 0, 1)

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Untitled task"
	}

	uid := fmt.Sprintf("task-%s@taskboard", strings.TrimSpace(string(t.ID)))
	if strings.TrimSpace(string(t.ID)) == "" {
		uid = fmt.Sprintf("task-export-%d@taskboard", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(title),
		"DTSTART;VALUE=DATE:" + due.Format(icsDateLayout),
		"DTEND;VALUE=DATE:" + end.Format(icsDateLayout),
		"PRIORITY:" + icsPriority(t.Priority),
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	if len(t.Tags) > 0 {
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = escapeICSText(tag)
		}
		lines = append(lines, "CATEGORIES:"+strings.Join(tags, ","))
	}
	if t.IsCompleted {
		lines = append(lines, "STATUS:COMPLETED")
	}
	if rrule := recurrenceToICSRRULE(t.Recurrence); rrule != "" {
		lines = append(lines, "RRULE:"+rrule)
	}
	lines = append(lines, "END:VEVENT")
	return lines, nil
}

// icsPriority maps onto the RFC 5545 1 (highest) to 9 (lowest) scale.
func icsPriority(p model.Priority) string {
	switch p {
	case model.PriorityUrgent:
		return "1"
	case model.PriorityHigh:
		return "3"
	case model.PriorityLow:
		return "9"
	default:
		return "5"
	}
}

func recurrenceToICSRRULE(rec model.Recurrence) string {
	switch rec {
	case model.RecurrenceDaily:
		return "FREQ=DAILY;INTERVAL=1"
	case model.RecurrenceWeekly:
		return "FREQ=WEEKLY;INTERVAL=1"
	case model.RecurrenceMonthly:
		return "FREQ=MONTHLY;INTERVAL=1"
	case model.RecurrenceYearly:
		return "FREQ=YEARLY;INTERVAL=1"
	default:
		return ""
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
