package handlers

import (
	"context"
	"time"

	"github.com/postpilot/go-post-backend/internal/domain"
	"github.com/postpilot/go-post-backend/internal/linkedin"
	"github.com/postpilot/go-post-backend/internal/services"
)

// ---------- flexible service stubs ----------

type stubDrafts struct {
	list       func(context.Context) []domain.Draft
	search     func(context.Context, string, int) []domain.Draft
	save       func(context.Context, domain.Draft) (*domain.Draft, error)
	update     func(context.Context, string, domain.DraftPatch) (*domain.Draft, error)
	deleteFn   func(context.Context, string) (bool, error)
	approve    func(context.Context, string) (*domain.Draft, error)
	markPosted func(context.Context, string) (*domain.Draft, error)
	publish    func(context.Context, string, string) (string, error)
}

func (s stubDrafts) List(ctx context.Context) []domain.Draft {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil
}

func (s stubDrafts) Search(ctx context.Context, query string, limit int) []domain.Draft {
	if s.search != nil {
		return s.search(ctx, query, limit)
	}
	return nil
}

func (s stubDrafts) Save(ctx context.Context, d domain.Draft) (*domain.Draft, error) {
	if s.save != nil {
		return s.save(ctx, d)
	}
	d.ID = "d1"
	d.Status = domain.StatusDraft
	return &d, nil
}

func (s stubDrafts) Update(ctx context.Context, id string, p domain.DraftPatch) (*domain.Draft, error) {
	if s.update != nil {
		return s.update(ctx, id, p)
	}
	return &domain.Draft{ID: id}, nil
}

func (s stubDrafts) Delete(ctx context.Context, id string) (bool, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return true, nil
}

func (s stubDrafts) Approve(ctx context.Context, id string) (*domain.Draft, error) {
	if s.approve != nil {
		return s.approve(ctx, id)
	}
	return &domain.Draft{ID: id, Status: domain.StatusScheduled}, nil
}

func (s stubDrafts) MarkPosted(ctx context.Context, id string) (*domain.Draft, error) {
	if s.markPosted != nil {
		return s.markPosted(ctx, id)
	}
	return &domain.Draft{ID: id, Status: domain.StatusPosted}, nil
}

func (s stubDrafts) Publish(ctx context.Context, id, key string) (string, error) {
	if s.publish != nil {
		return s.publish(ctx, id, key)
	}
	return "urn:li:share:1", nil
}

type stubGen struct {
	generate func(context.Context, services.GenerateRequest) (string, error)
	improve  func(context.Context, string, string) (string, error)
	saveGen  func(context.Context, services.GenerateRequest, string) (*domain.Draft, error)
	validate func(context.Context, string) bool
}

func (s stubGen) Generate(ctx context.Context, req services.GenerateRequest) (string, error) {
	if s.generate != nil {
		return s.generate(ctx, req)
	}
	return "generated", nil
}

func (s stubGen) Improve(ctx context.Context, content, instructions string) (string, error) {
	if s.improve != nil {
		return s.improve(ctx, content, instructions)
	}
	return "improved", nil
}

func (s stubGen) SaveGenerated(ctx context.Context, req services.GenerateRequest, content string) (*domain.Draft, error) {
	if s.saveGen != nil {
		return s.saveGen(ctx, req, content)
	}
	return &domain.Draft{ID: "d1", Content: content, Source: req.Source}, nil
}

func (s stubGen) ValidateKey(ctx context.Context, key string) bool {
	if s.validate != nil {
		return s.validate(ctx, key)
	}
	return true
}

type stubSnap struct {
	connect  func(context.Context, string, string) (*domain.Snapshot, error)
	refresh  func(context.Context) (*domain.Snapshot, error)
	snapshot func(context.Context) *domain.Snapshot
	commits  func(context.Context, string) ([]domain.CommitRef, error)

	disconnected bool
}

func (s *stubSnap) Connect(ctx context.Context, u, tok string) (*domain.Snapshot, error) {
	if s.connect != nil {
		return s.connect(ctx, u, tok)
	}
	return &domain.Snapshot{Profile: domain.Profile{Login: u}}, nil
}

func (s *stubSnap) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	if s.refresh != nil {
		return s.refresh(ctx)
	}
	return &domain.Snapshot{}, nil
}

func (s *stubSnap) Disconnect(ctx context.Context) error {
	s.disconnected = true
	return nil
}

func (s *stubSnap) Snapshot(ctx context.Context) *domain.Snapshot {
	if s.snapshot != nil {
		return s.snapshot(ctx)
	}
	return nil
}

func (s *stubSnap) Connected(ctx context.Context) bool {
	return s.Snapshot(ctx) != nil
}

func (s *stubSnap) RepoCommits(ctx context.Context, name string, limit int) ([]domain.CommitRef, error) {
	if s.commits != nil {
		return s.commits(ctx, name)
	}
	return nil, nil
}

type stubSettings struct {
	stored domain.Settings
}

func (s *stubSettings) Get(ctx context.Context) domain.Settings { return s.stored }

func (s *stubSettings) Save(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	s.stored = patch.Apply(s.stored)
	return s.stored, nil
}

type stubBundle struct {
	exported domain.ExportBundle
	imported *domain.ExportBundle
	cleared  bool
}

func (s *stubBundle) Export(ctx context.Context) domain.ExportBundle { return s.exported }

func (s *stubBundle) Import(ctx context.Context, b domain.ExportBundle) error {
	s.imported = &b
	return nil
}

func (s *stubBundle) Clear(ctx context.Context) error {
	s.cleared = true
	return nil
}

type stubReceipts struct {
	stored  map[string]*domain.PublishReceipt
	created int
}

func (s *stubReceipts) Get(ctx context.Context, authorID, key string, now time.Time) (*domain.PublishReceipt, error) {
	if rec, ok := s.stored[authorID+"/"+key]; ok {
		return rec, nil
	}
	return nil, context.Canceled // any error means "no receipt"
}

func (s *stubReceipts) Create(ctx context.Context, authorID, key, postID string, status int, ttl time.Duration) (*domain.PublishReceipt, error) {
	if s.stored == nil {
		s.stored = make(map[string]*domain.PublishReceipt)
	}
	rec := &domain.PublishReceipt{AuthorID: authorID, Key: key, PostID: postID, Status: status}
	s.stored[authorID+"/"+key] = rec
	s.created++
	return rec, nil
}

// ---------- adapter stubs ----------

type stubGitHubExchanger struct {
	calls int
	token string
	err   error
}

func (s *stubGitHubExchanger) ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.token, nil
}

type stubLinkedIn struct {
	exchangeCalls  int
	gotRedirectURI string
	token          *linkedin.Token
	exchangeErr    error

	userInfo    *linkedin.UserInfo
	userInfoErr error

	publishCalls int
	postID       string
	publishErr   error
}

func (s *stubLinkedIn) ExchangeCode(ctx context.Context, code, clientID, clientSecret, redirectURI string) (*linkedin.Token, error) {
	s.exchangeCalls++
	s.gotRedirectURI = redirectURI
	if s.exchangeErr != nil {
		return nil, s.exchangeErr
	}
	return s.token, nil
}

func (s *stubLinkedIn) FetchUserInfo(ctx context.Context, accessToken string) (*linkedin.UserInfo, error) {
	if s.userInfoErr != nil {
		return nil, s.userInfoErr
	}
	return s.userInfo, nil
}

func (s *stubLinkedIn) Publish(ctx context.Context, accessToken, personID, text string) (string, error) {
	s.publishCalls++
	if s.publishErr != nil {
		return "", s.publishErr
	}
	return s.postID, nil
}

// newTestHandlers builds a Handlers with all stubs wired and sane defaults.
func newTestHandlers() (*Handlers, *stubSnap, *stubSettings, *stubBundle) {
	snap := &stubSnap{}
	settings := &stubSettings{stored: domain.DefaultSettings()}
	bundle := &stubBundle{}
	h := New(Deps{
		Drafts:   stubDrafts{},
		Gen:      stubGen{},
		Snap:     snap,
		Settings: settings,
		Bundle:   bundle,
		Receipts: &stubReceipts{},
		GitHub:   &stubGitHubExchanger{token: "gh_tok"},
		LinkedIn: &stubLinkedIn{token: &linkedin.Token{AccessToken: "li"}, userInfo: &linkedin.UserInfo{Sub: "s"}},
	})
	return h, snap, settings, bundle
}
