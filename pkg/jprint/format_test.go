package jprint

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/quatton/jarvice/pkg/client"
)

func ptr[T any](v T) *T { return &v }

func TestShortStatus(t *testing.T) {
	cases := map[string]string{
		"COMPLETED":            "CD",
		"EXEMPT":               "CG",
		"COMPLETED WITH ERROR": " F",
		"SUBMITTED":            "PD",
		"SEQUENTIALLY QUEUED":  "PD",
		"PROCESSING STARTING":  " R",
		"TERMINATED":           "ST",
		"CANCELED":             "ST",
		"completed":            "UN",
		"":                     "UN",
		"SOMETHING NEW":        "UN",
	}
	for status, want := range cases {
		got := ShortStatus(status)
		if got != want {
			t.Errorf("ShortStatus(%q) = %q, want %q", status, got, want)
		}
		if len(got) != 2 {
			t.Errorf("ShortStatus(%q) is not two characters: %q", status, got)
		}
	}
}

func TestStatusCategoryOf(t *testing.T) {
	cases := map[string]StatusCategory{
		"COMPLETED":            CategoryCompleted,
		"COMPLETED WITH ERROR": CategoryFailed,
		"TERMINATED":           CategoryFailed,
		"CANCELED":             CategoryFailed,
		"SUBMITTED":            CategoryQueued,
		"SEQUENTIALLY QUEUED":  CategoryQueued,
		"EXEMPT":               CategoryQueued,
		"PROCESSING STARTING":  CategoryStarting,
		"HELD":                 CategoryOther,
	}
	for status, want := range cases {
		if got := StatusCategoryOf(status); got != want {
			t.Errorf("StatusCategoryOf(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00:00"},
		{59.9, "0:00:59"},
		{61, "0:01:01"},
		{3661, "1:01:01"},
		{90000, "25:00:00"},
		{-5, "0:00:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.seconds); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in    *string
		width int
		want  string
	}{
		{nil, 4, "    "},
		{ptr("abc"), 5, "abc  "},
		{ptr("abcd"), 4, "abcd"},
		{ptr("averyveryverylongjobname"), 10, "averyve..."},
		{ptr("abcdef"), 3, "..."},
		{ptr("abcdef"), 2, ".."},
		{ptr("abc"), 0, ""},
		{ptr("héllo wörld"), 8, "héllo..."},
	}
	for _, c := range cases {
		got := FormatSize(c.in, c.width)
		if got != c.want {
			t.Errorf("FormatSize(%v, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
		if n := utf8.RuneCountInString(got); n != c.width {
			t.Errorf("FormatSize(%v, %d) has %d characters", c.in, c.width, n)
		}
	}
}

func TestExtractTimingQueuedUsesQueueTime(t *testing.T) {
	entry := client.JobEntry{
		JobStatus: "SUBMITTED",
		JobStats:  &client.JobStats{QueueTime: ptr(75.0), ComputeTime: ptr(10.0)},
	}
	elapsed, nodes, machine := ExtractTiming(entry)
	if elapsed != "0:01:15" {
		t.Errorf("expected queue time 0:01:15, got %q", elapsed)
	}
	if nodes != "#" || machine != "#" {
		t.Errorf("expected placeholders, got %q %q", nodes, machine)
	}
}

func TestExtractTimingRunningUsesComputeTime(t *testing.T) {
	entry := client.JobEntry{
		JobStatus: "PROCESSING STARTING",
		JobStats:  &client.JobStats{QueueTime: ptr(75.0), ComputeTime: ptr(3600.0)},
		JobAPISubmission: &client.JobSubmission{
			Machine: &client.SubmissionMachine{Type: ptr("n3"), Nodes: ptr(2)},
		},
	}
	elapsed, nodes, machine := ExtractTiming(entry)
	if elapsed != "1:00:00" || nodes != "2" || machine != "n3" {
		t.Errorf("unexpected timing %q %q %q", elapsed, nodes, machine)
	}
}

func TestExtractTimingMissingFields(t *testing.T) {
	entry := client.JobEntry{
		JobStatus: "SUBMITTED",
		JobStats:  &client.JobStats{ComputeTime: ptr(5.0)},
		JobAPISubmission: &client.JobSubmission{
			Machine: &client.SubmissionMachine{Type: ptr("n0")},
		},
	}
	elapsed, nodes, machine := ExtractTiming(entry)
	if elapsed != "" {
		t.Errorf("expected empty elapsed without queue time, got %q", elapsed)
	}
	if nodes != "#" || machine != "n0" {
		t.Errorf("nodes and machine type should default independently, got %q %q", nodes, machine)
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(1700000000, time.UTC); got != "2023-11-14 22:13:20" {
		t.Errorf("unexpected time %q", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAuto, "auto": ModeAuto, "plain": ModePlain, "Styled": ModeStyled, "json": ModeJSON} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("yaml"); err == nil || !strings.Contains(err.Error(), "yaml") {
		t.Errorf("expected error naming the bad value, got %v", err)
	}
}

func TestDetectNonTerminal(t *testing.T) {
	var b strings.Builder
	if Detect(&b) != ModePlain {
		t.Error("a non-terminal writer should get plain output")
	}
}
