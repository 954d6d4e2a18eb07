package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatusCanTransition_ForwardOnly(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusScheduled, true},
		{StatusDraft, StatusPosted, true},
		{StatusScheduled, StatusPosted, true},
		{StatusScheduled, StatusDraft, false},
		{StatusPosted, StatusDraft, false},
		{StatusPosted, StatusScheduled, false},
		{StatusDraft, StatusDraft, true}, // idempotent re-write
		{StatusDraft, Status("bogus"), false},
		{Status("bogus"), StatusDraft, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%q -> %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestSourceValid(t *testing.T) {
	for _, s := range []Source{SourceCertificate, SourceGitHub, SourceCustom} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Source("twitter").Valid() {
		t.Error("unknown source should be invalid")
	}
}

func TestSettingsPatch_Apply_MergesOnlySetFields(t *testing.T) {
	base := DefaultSettings()
	base.GroqAPIKey = "gsk_old"
	base.GitHubUsername = "octocat"

	key := "gsk_new"
	auto := true
	out := SettingsPatch{GroqAPIKey: &key, AutoSchedule: &auto}.Apply(base)

	if out.GroqAPIKey != "gsk_new" {
		t.Errorf("GroqAPIKey = %q", out.GroqAPIKey)
	}
	if !out.AutoSchedule {
		t.Error("AutoSchedule not applied")
	}
	if out.GitHubUsername != "octocat" {
		t.Errorf("untouched field changed: %q", out.GitHubUsername)
	}
	if out.DefaultTone != ToneProfessional || out.PostFrequency != "weekly" {
		t.Errorf("defaults lost: %+v", out)
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.DefaultTone != ToneProfessional {
		t.Errorf("DefaultTone = %q", s.DefaultTone)
	}
	if s.PostFrequency != "weekly" {
		t.Errorf("PostFrequency = %q", s.PostFrequency)
	}
	if s.AutoSchedule {
		t.Error("AutoSchedule should default to false")
	}
}

func TestMetadata_JSONOmitsEmptyGroups(t *testing.T) {
	m := Metadata{Topic: "shipping v1", KeyPoints: "tests, docs", Tone: ToneCasual}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	if strings.Contains(s, "certificateTitle") || strings.Contains(s, "repos") {
		t.Errorf("empty variant fields leaked into JSON: %s", s)
	}
	if !strings.Contains(s, `"topic":"shipping v1"`) {
		t.Errorf("missing topic: %s", s)
	}
}
