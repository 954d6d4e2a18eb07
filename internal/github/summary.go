package github

import (
	"time"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// Event is the slice of the GitHub events wire shape the summary fold needs.
type Event struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		Commits []struct {
			Message string `json:"message"`
		} `json:"commits"`
	} `json:"payload"`
}

// SummarizeEvents folds events from the last seven days into an activity
// summary. The boundary is inclusive: an event created exactly seven days
// before now is counted; anything older is excluded. Push events contribute
// their commit messages to the (unbounded) commit list, pull-request and issue
// events increment their counters, and every event's repository lands in the
// deduplicated repo list in first-seen order.
func SummarizeEvents(events []Event, now time.Time) domain.ActivitySummary {
	cutoff := now.AddDate(0, 0, -7)

	summary := domain.ActivitySummary{
		Repos:   []string{},
		Commits: []domain.CommitRef{},
	}
	seen := make(map[string]struct{})

	for _, ev := range events {
		if ev.CreatedAt.Before(cutoff) {
			continue
		}
		summary.TotalEvents++

		if ev.Repo.Name != "" {
			if _, ok := seen[ev.Repo.Name]; !ok {
				seen[ev.Repo.Name] = struct{}{}
				summary.Repos = append(summary.Repos, ev.Repo.Name)
			}
		}

		switch ev.Type {
		case "PushEvent":
			summary.PushEvents++
			for _, c := range ev.Payload.Commits {
				summary.Commits = append(summary.Commits, domain.CommitRef{
					Message: c.Message,
					Repo:    ev.Repo.Name,
					Date:    ev.CreatedAt,
				})
			}
		case "PullRequestEvent":
			summary.PullRequests++
		case "IssuesEvent":
			summary.Issues++
		}
	}
	return summary
}
