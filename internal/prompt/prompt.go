// Package prompt assembles the LLM prompts for each generation source. The
// builders are pure string functions so they can be tested without an API.
package prompt

import (
	"fmt"
	"strings"

	"github.com/postpilot/go-post-backend/internal/domain"
)

// maxCommitLines caps how many recent commit messages an activity prompt
// carries; anything beyond this adds tokens without adding signal.
const maxCommitLines = 10

var certificateTones = map[domain.Tone]string{
	domain.ToneProfessional: "Write in a professional, articulate tone. Focus on the value and impact.",
	domain.ToneCasual:       "Write in a friendly, conversational tone. Be approachable and relatable.",
	domain.ToneStorytelling: "Write as a brief story with a beginning, middle, and end. Include a personal reflection.",
}

var activityTones = map[domain.Tone]string{
	domain.ToneProfessional: "Write in a professional, articulate tone focusing on technical achievements.",
	domain.ToneCasual:       "Write in a friendly, developer-to-developer tone. Be relatable.",
	domain.ToneEnthusiastic: "Write with energy and enthusiasm about the progress made.",
}

var customTones = map[domain.Tone]string{
	domain.ToneProfessional: "Write in a professional, articulate tone.",
	domain.ToneCasual:       "Write in a friendly, conversational tone.",
	domain.ToneStorytelling: "Write as a brief personal story.",
}

// toneLine resolves tone against the builder's allowed set, falling back to
// the professional instruction for anything unknown.
func toneLine(set map[domain.Tone]string, tone domain.Tone) string {
	if line, ok := set[tone]; ok {
		return line
	}
	return set[domain.ToneProfessional]
}

// CertificateInput describes a completed certification or attended event.
type CertificateInput struct {
	Title   string
	Issuer  string
	Skills  string
	Context string
	Tone    domain.Tone
}

// Certificate builds the prompt for a certification or event post.
func Certificate(in CertificateInput) string {
	return fmt.Sprintf(`You are a LinkedIn content expert. Create a compelling LinkedIn post about completing a certification or attending an event.

Details:
- Certificate/Event: %s
- Issuer/Organizer: %s
- Skills Learned: %s
- Additional Context: %s

FORMATTING RULES:
- %s
- DO NOT use markdown like **bold** or *italics* - LinkedIn doesn't render these
- For emphasis, use UPPERCASE for key words
- Keep it concise (150-250 words max)
- Focus on learning and growth, not bragging
- Be authentic and humble
- Include 2-3 relevant hashtags at the end
- Don't use clichés like "excited to announce" or "thrilled to share"
- Use 1-2 emojis max for visual interest
- End with a question or call-to-action to encourage engagement

Write the LinkedIn post now (NO markdown formatting):`,
		in.Title, in.Issuer, in.Skills, in.Context, toneLine(certificateTones, in.Tone))
}

// ActivityInput carries a weekly activity summary plus the repositories the
// author chose to highlight.
type ActivityInput struct {
	Summary domain.ActivitySummary
	Repos   []domain.Repo
	Focus   string
	Tone    domain.Tone
}

// Activity builds the "building in public" prompt from GitHub activity.
func Activity(in ActivityInput) string {
	var repoDetails strings.Builder
	for i, r := range in.Repos {
		if i > 0 {
			repoDetails.WriteByte('\n')
		}
		fmt.Fprintf(&repoDetails, "- %s: %s (%s)", r.Name, r.Description, r.Language)
	}

	commits := in.Summary.Commits
	if len(commits) > maxCommitLines {
		commits = commits[:maxCommitLines]
	}
	var commitSummary strings.Builder
	for i, c := range commits {
		if i > 0 {
			commitSummary.WriteByte('\n')
		}
		fmt.Fprintf(&commitSummary, "- %s", c.Message)
	}

	focus := in.Focus
	if focus == "" {
		focus = "General development progress"
	}

	return fmt.Sprintf(`You are a LinkedIn content expert specializing in "building in public" posts for developers.

Weekly GitHub Activity Summary:
- Total push events: %d
- Pull requests: %d
- Repositories worked on: %d

Selected Projects to Highlight:
%s

Recent Commits:
%s

Focus Area: %s

IMPORTANT FORMATTING RULES:
- %s
- DO NOT use markdown syntax like **bold** or *italics* - LinkedIn does not render these
- For emphasis, use UPPERCASE for key words or phrases
- Use emojis sparingly (1-3 max) for visual interest
- Use line breaks and whitespace for readability
- Use bullet points with dashes (-) or arrows (→) for lists
- Keep it concise (150-250 words max)
- Focus on progress and learning, not perfection
- Be authentic about challenges faced
- Include 2-3 relevant tech hashtags at the end
- Don't use clichés like "excited to announce"
- End with a question to encourage engagement

Write the LinkedIn post now (remember: NO markdown, NO **asterisks** for bold):`,
		in.Summary.PushEvents, in.Summary.PullRequests, len(in.Summary.Repos),
		repoDetails.String(), commitSummary.String(), focus,
		toneLine(activityTones, in.Tone))
}

// CustomInput describes a free-form topic with optional key points.
type CustomInput struct {
	Topic     string
	KeyPoints string
	Tone      domain.Tone
}

// Custom builds the prompt for a free-form topic post.
func Custom(in CustomInput) string {
	return fmt.Sprintf(`You are a LinkedIn content expert. Create a compelling LinkedIn post about the following topic.

Topic: %s
Key Points: %s

Guidelines:
- %s
- Keep it concise (150-250 words max)
- Focus on value and insights
- Be authentic and genuine
- Include 2-3 relevant hashtags
- Don't use clichés or excessive emojis
- End with engagement-driving question

Write the LinkedIn post now:`,
		in.Topic, in.KeyPoints, toneLine(customTones, in.Tone))
}

// Improve builds the prompt that rewrites an existing draft according to the
// author's instructions.
func Improve(content, instructions string) string {
	return fmt.Sprintf(`You are a LinkedIn content expert. Improve the following LinkedIn post based on the instructions.

Current Post:
%s

Improvement Instructions:
%s

Guidelines:
- Maintain the core message
- Keep it concise
- Make it more engaging
- Ensure it sounds natural and authentic

Write the improved LinkedIn post now:`, content, instructions)
}
