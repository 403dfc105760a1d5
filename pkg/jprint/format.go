package jprint

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quatton/jarvice/pkg/client"
)

// Placeholder shown when a job carries no machine information.
const Placeholder = "#"

// ShortStatus maps a job status to the two-character code shown in listings.
// Unknown values map to "UN".
func ShortStatus(status string) string {
	switch status {
	case client.StatusCompleted:
		return "CD"
	case client.StatusExempt:
		return "CG"
	case client.StatusCompletedWithError:
		return " F"
	case client.StatusSubmitted, client.StatusSequentiallyQueued:
		return "PD"
	case client.StatusProcessingStarting:
		return " R"
	case client.StatusTerminated, client.StatusCanceled:
		return "ST"
	default:
		return "UN"
	}
}

// StatusCategory groups statuses for styling.
type StatusCategory int

const (
	CategoryOther StatusCategory = iota
	CategoryCompleted
	CategoryFailed
	CategoryQueued
	CategoryStarting
)

// StatusCategoryOf classifies a raw status for coloring.
func StatusCategoryOf(status string) StatusCategory {
	switch status {
	case client.StatusCompleted:
		return CategoryCompleted
	case client.StatusCompletedWithError, client.StatusTerminated, client.StatusCanceled:
		return CategoryFailed
	case client.StatusSubmitted, client.StatusSequentiallyQueued, client.StatusExempt:
		return CategoryQueued
	case client.StatusProcessingStarting:
		return CategoryStarting
	default:
		return CategoryOther
	}
}

// FormatDuration renders seconds as H:MM:SS. Hours are not wrapped into
// days and fractions of a second are dropped.
func FormatDuration(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// ExtractTiming derives the Time, Nodes and Machine type columns of a job.
// Queued jobs report their queue time, every other job its compute time.
func ExtractTiming(entry client.JobEntry) (elapsed, nodes, machineType string) {
	if stats := entry.JobStats; stats != nil {
		if client.IsQueued(entry.JobStatus) {
			if stats.QueueTime != nil {
				elapsed = FormatDuration(*stats.QueueTime)
			}
		} else if stats.ComputeTime != nil {
			elapsed = FormatDuration(*stats.ComputeTime)
		}
	}

	nodes, machineType = Placeholder, Placeholder
	if sub := entry.JobAPISubmission; sub != nil && sub.Machine != nil {
		if sub.Machine.Nodes != nil {
			nodes = strconv.Itoa(*sub.Machine.Nodes)
		}
		if sub.Machine.Type != nil {
			machineType = *sub.Machine.Type
		}
	}
	return elapsed, nodes, machineType
}

// FormatSize fits s into exactly width characters: nil becomes blanks,
// longer strings are cut and end in "...", shorter ones are padded on the right.
func FormatSize(s *string, width int) string {
	if width <= 0 {
		return ""
	}
	if s == nil {
		return strings.Repeat(" ", width)
	}

	n := utf8.RuneCountInString(*s)
	if n > width {
		if width < 3 {
			return "..."[:width]
		}
		return string([]rune(*s)[:width-3]) + "..."
	}
	return *s + strings.Repeat(" ", width-n)
}

// Fit is FormatSize for a value that is always present.
func Fit(s string, width int) string {
	return FormatSize(&s, width)
}

// FormatTime renders epoch seconds in loc.
func FormatTime(epoch int64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Unix(epoch, 0).In(loc).Format("2006-01-02 15:04:05")
}
