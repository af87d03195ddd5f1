package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/oauth2"

	"github.com/kova98/redditsentiment.api/data"
	"github.com/kova98/redditsentiment.api/models"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeLister struct {
	values  []string
	err     error
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
	mu      sync.Mutex
	ctxErr  error
}

func (f *fakeLister) List(ctx context.Context) ([]string, error) {
	f.calls.Add(1)
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.ctxErr = ctx.Err()
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.values...), nil
}

type fakeMentions struct {
	mentions   []models.Post
	byID       map[string]models.Post
	err        error
	fetchErr   error
	gotLimit   int
	fetchedIDs [][]string
}

func (f *fakeMentions) FetchMentions(_ context.Context, _, _ []string, limit int) ([]models.Post, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Post(nil), f.mentions...), nil
}

func (f *fakeMentions) FetchPosts(_ context.Context, ids []string) ([]models.Post, error) {
	f.fetchedIDs = append(f.fetchedIDs, ids)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var posts []models.Post
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[int]data.Account
	upserted []data.Account
	statuses map[int]string
	stats    map[int][2]int
	deleted  []int
	err      error
}

func newFakeAccountStore(accounts ...data.Account) *fakeAccountStore {
	s := &fakeAccountStore{
		accounts: make(map[int]data.Account),
		statuses: make(map[int]string),
		stats:    make(map[int][2]int),
	}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *fakeAccountStore) Upsert(_ context.Context, account data.Account) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	s.upserted = append(s.upserted, account)
	return len(s.upserted), nil
}

func (s *fakeAccountStore) List(context.Context) ([]data.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	var res []data.Account
	for _, a := range s.accounts {
		res = append(res, a)
	}
	return res, nil
}

func (s *fakeAccountStore) Get(_ context.Context, id int) (*data.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *fakeAccountStore) UpdateStatus(_ context.Context, id int, status string) error {
	s.statuses[id] = status
	return s.err
}

func (s *fakeAccountStore) UpdateStats(_ context.Context, id, karma, totalPosts int) error {
	s.stats[id] = [2]int{karma, totalPosts}
	return s.err
}

func (s *fakeAccountStore) Delete(_ context.Context, id int) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

type fakeProfile struct {
	identity    models.RedditIdentity
	submissions int
	err         error
	tokens      []string
}

func (p *fakeProfile) Identity(_ context.Context, token string) (models.RedditIdentity, error) {
	p.tokens = append(p.tokens, token)
	if p.err != nil {
		return models.RedditIdentity{}, p.err
	}
	return p.identity, nil
}

func (p *fakeProfile) CountSubmissions(_ context.Context, token, _ string) (int, error) {
	p.tokens = append(p.tokens, token)
	if p.err != nil {
		return 0, p.err
	}
	return p.submissions, nil
}

type fakeOAuth struct {
	token *oauth2.Token
	err   error
	code  string
}

func (f *fakeOAuth) AuthCodeURL(state string, _ ...oauth2.AuthCodeOption) string {
	return "https://www.reddit.com/api/v1/authorize?state=" + state
}

func (f *fakeOAuth) Exchange(_ context.Context, code string, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	f.code = code
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}
