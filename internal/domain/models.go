// Package domain defines the data model shared by the repository and service
// layers: drafts awaiting review, the singleton settings record, and the cached
// GitHub snapshot. JSON tags preserve the wire shape used by the browser client
// and by export bundles, so an exported file from an older deployment imports
// verbatim.
package domain

import "time"

// Source identifies what a draft was generated from.
type Source string

const (
	SourceCertificate Source = "certificate"
	SourceGitHub      Source = "github"
	SourceCustom      Source = "custom"
)

// Valid reports whether s is one of the known source kinds.
func (s Source) Valid() bool {
	switch s {
	case SourceCertificate, SourceGitHub, SourceCustom:
		return true
	}
	return false
}

// Status is the lifecycle state of a draft. Transitions move forward only:
// draft → scheduled → posted. There is no defined backward transition.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPosted    Status = "posted"
)

// rank orders statuses for forward-only transition checks.
func (s Status) rank() int {
	switch s {
	case StatusDraft:
		return 0
	case StatusScheduled:
		return 1
	case StatusPosted:
		return 2
	}
	return -1
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool { return s.rank() >= 0 }

// CanTransition reports whether moving from s to next is allowed.
// Same-status writes are permitted (idempotent updates).
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() >= s.rank()
}

// Tone selects a writing-style instruction fragment for prompt construction.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneStorytelling Tone = "storytelling"
	ToneEnthusiastic Tone = "enthusiastic"
)

// Metadata is the per-source context frozen into a draft at creation time.
// It is a closed set of fields rather than an open string map: each source
// kind populates its own group, the rest stay empty and are omitted from JSON,
// so the external shape matches the original free-form object.
type Metadata struct {
	// Certificate posts.
	CertificateTitle string `json:"certificateTitle,omitempty"`
	Issuer           string `json:"issuer,omitempty"`
	Skills           string `json:"skills,omitempty"`

	// GitHub activity posts. Repos is a frozen copy of the repo names selected
	// at generation time; no referential integrity with the snapshot is kept.
	Repos       []string `json:"repos,omitempty"`
	Focus       string   `json:"focus,omitempty"`
	CommitCount int      `json:"commitCount,omitempty"`

	// Custom posts.
	Topic     string `json:"topic,omitempty"`
	KeyPoints string `json:"keyPoints,omitempty"`

	// Common.
	Tone Tone `json:"tone,omitempty"`
}

// Draft is a user-authored or AI-generated post awaiting review, scheduling,
// or publication.
//
// Fields:
//   - ID: opaque unique string assigned at creation (timestamp-derived), immutable.
//   - Title: short display title derived from the content at save time.
//   - Content: post body; edited by the user or overwritten by regeneration.
//   - Source / Metadata: set at creation, never mutated afterwards.
//   - Status: starts at StatusDraft, advances forward only.
//   - CreatedAt: set once. UpdatedAt: set on every mutation.
type Draft struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	Source    Source    `json:"source"`
	Status    Status    `json:"status"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// DraftPatch carries the mutable fields of a draft for merge-on-write updates.
// Nil fields keep their stored value.
type DraftPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Status  *Status `json:"status,omitempty"`
}

// Settings is the singleton per-deployment configuration record: the
// user-supplied Groq API key, GitHub account/token, LinkedIn token plus cached
// identity, and posting preferences. Saving settings merges partial fields
// into the stored record; it never replaces the whole record.
type Settings struct {
	GroqAPIKey      string `json:"groqApiKey"`
	GitHubUsername  string `json:"githubUsername"`
	GitHubToken     string `json:"githubToken,omitempty"`
	LinkedInToken   string `json:"linkedinToken,omitempty"`
	LinkedInName    string `json:"linkedinName,omitempty"`
	LinkedInSub     string `json:"linkedinSub,omitempty"`
	LinkedInPicture string `json:"linkedinPicture,omitempty"`
	DefaultTone     Tone   `json:"defaultTone"`
	AutoSchedule    bool   `json:"autoSchedule"`
	PostFrequency   string `json:"postFrequency"`
}

// DefaultSettings returns the hard-coded defaults merged under stored settings
// on every read, so an unset field never reads as empty-of-meaning.
func DefaultSettings() Settings {
	return Settings{
		DefaultTone:   ToneProfessional,
		PostFrequency: "weekly",
	}
}

// SettingsPatch carries partial settings for merge-on-write. Nil fields retain
// their prior values.
type SettingsPatch struct {
	GroqAPIKey      *string `json:"groqApiKey,omitempty"`
	GitHubUsername  *string `json:"githubUsername,omitempty"`
	GitHubToken     *string `json:"githubToken,omitempty"`
	LinkedInToken   *string `json:"linkedinToken,omitempty"`
	LinkedInName    *string `json:"linkedinName,omitempty"`
	LinkedInSub     *string `json:"linkedinSub,omitempty"`
	LinkedInPicture *string `json:"linkedinPicture,omitempty"`
	DefaultTone     *Tone   `json:"defaultTone,omitempty"`
	AutoSchedule    *bool   `json:"autoSchedule,omitempty"`
	PostFrequency   *string `json:"postFrequency,omitempty"`
}

// Apply merges non-nil patch fields over s and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.GroqAPIKey != nil {
		s.GroqAPIKey = *p.GroqAPIKey
	}
	if p.GitHubUsername != nil {
		s.GitHubUsername = *p.GitHubUsername
	}
	if p.GitHubToken != nil {
		s.GitHubToken = *p.GitHubToken
	}
	if p.LinkedInToken != nil {
		s.LinkedInToken = *p.LinkedInToken
	}
	if p.LinkedInName != nil {
		s.LinkedInName = *p.LinkedInName
	}
	if p.LinkedInSub != nil {
		s.LinkedInSub = *p.LinkedInSub
	}
	if p.LinkedInPicture != nil {
		s.LinkedInPicture = *p.LinkedInPicture
	}
	if p.DefaultTone != nil {
		s.DefaultTone = *p.DefaultTone
	}
	if p.AutoSchedule != nil {
		s.AutoSchedule = *p.AutoSchedule
	}
	if p.PostFrequency != nil {
		s.PostFrequency = *p.PostFrequency
	}
	return s
}

// Profile is the normalized GitHub user profile.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatarUrl"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"publicRepos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	URL         string `json:"url"`
}

// Repo is the fixed normalized repository shape cached in the snapshot.
// Description falls back to a placeholder and Language to "Unknown" so the
// queue and prompt builders never deal with missing fields.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description"`
	Language    string `json:"language"`
	// LanguageColor is the display hex color for Language.
	LanguageColor string    `json:"languageColor"`
	Stars         int       `json:"stars"`
	Forks         int       `json:"forks"`
	Watchers      int       `json:"watchers"`
	OpenIssues    int       `json:"openIssues"`
	IsPrivate     bool      `json:"isPrivate"`
	URL           string    `json:"url"`
	UpdatedAt     time.Time `json:"updatedAt"`
	PushedAt      time.Time `json:"pushedAt"`
	Topics        []string  `json:"topics"`
}

// CommitRef is one commit line inside a weekly activity summary.
type CommitRef struct {
	Message string    `json:"message"`
	Repo    string    `json:"repo"`
	Date    time.Time `json:"date"`
}

// ActivitySummary is the client-side fold over the last seven days of public
// events: counters per event kind, the deduplicated repo name list, and the
// full (unbounded) commit list. Callers slice as needed.
type ActivitySummary struct {
	TotalEvents  int         `json:"totalEvents"`
	PushEvents   int         `json:"pushEvents"`
	PullRequests int         `json:"pullRequests"`
	Issues       int         `json:"issues"`
	Repos        []string    `json:"repos"`
	Commits      []CommitRef `json:"commits"`
}

// Snapshot is the cached copy of the connected GitHub account: profile,
// repository list, and weekly activity, plus the fetch timestamp. Its presence
// is the sole "connected" signal; it carries no TTL and staleness is never
// detected automatically.
type Snapshot struct {
	Profile   Profile         `json:"profile"`
	Repos     []Repo          `json:"repos"`
	Summary   ActivitySummary `json:"summary"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// ExportBundle is the backup document produced by export and accepted by
// import. Absent sections are left untouched on import; the JSON keys match
// the original export format so old backups stay importable.
type ExportBundle struct {
	// Drafts is always emitted, empty queue included; import skips it only
	// when the key is absent entirely.
	Drafts     []Draft   `json:"drafts"`
	Settings   *Settings `json:"settings,omitempty"`
	GitHubData *Snapshot `json:"githubData,omitempty"`
	ExportedAt time.Time `json:"exportedAt"`
}
