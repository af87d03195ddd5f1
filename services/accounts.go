package services

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/kova98/redditsentiment.api/data"
	"github.com/kova98/redditsentiment.api/enums"
	"github.com/kova98/redditsentiment.api/models"
	"github.com/kova98/redditsentiment.api/sources"
)

const (
	msgInvalidStatus   = "Invalid status"
	msgAccountNotFound = "Account not found"
	msgMissingToken    = "Missing username or access token"
	msgTokenExpired    = "Access token expired, reconnect the account"
	msgTokenRejected   = "Reddit rejected the access token, reconnect the account"
)

type AccountStore interface {
	Upsert(ctx context.Context, account data.Account) (int, error)
	List(ctx context.Context) ([]data.Account, error)
	Get(ctx context.Context, id int) (*data.Account, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	UpdateStats(ctx context.Context, id, karma, totalPosts int) error
	Delete(ctx context.Context, id int) error
}

// RedditProfile reads account details with the account's own token.
type RedditProfile interface {
	Identity(ctx context.Context, token string) (models.RedditIdentity, error)
	CountSubmissions(ctx context.Context, token, username string) (int, error)
}

// OAuthFlow is the authorization code flow; *oauth2.Config implements it.
type OAuthFlow interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

type AccountManager struct {
	logger  *slog.Logger
	store   AccountStore
	profile RedditProfile
	oauth   OAuthFlow
	now     func() time.Time
}

func NewAccountManager(logger *slog.Logger, store AccountStore, profile RedditProfile, oauth OAuthFlow) *AccountManager {
	return &AccountManager{
		logger:  logger,
		store:   store,
		profile: profile,
		oauth:   oauth,
		now:     time.Now,
	}
}

// LoginURL returns the Reddit authorize URL and the state the callback must echo.
// Only temporary grants are requested since refresh tokens are never kept.
func (m *AccountManager) LoginURL() (string, string) {
	state := uuid.NewString()
	url := m.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("duration", "temporary"))
	return url, state
}

// Connect exchanges an authorization code and stores the account it belongs to.
func (m *AccountManager) Connect(ctx context.Context, code string) (models.Account, error) {
	token, err := m.oauth.Exchange(ctx, code)
	if err != nil {
		return models.Account{}, errors.Wrap(err, "exchange authorization code")
	}

	identity, err := m.profile.Identity(ctx, token.AccessToken)
	if err != nil {
		return models.Account{}, errors.Wrap(err, "get reddit identity")
	}

	totalPosts, err := m.profile.CountSubmissions(ctx, token.AccessToken, identity.Name)
	if err != nil {
		return models.Account{}, errors.Wrap(err, "count submissions")
	}

	account := data.Account{
		Username:    identity.Name,
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Status:      string(enums.AccountStatusActive),
		Karma:       identity.TotalKarma,
		TotalPosts:  totalPosts,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		account.Scope = scope
	}
	if !token.Expiry.IsZero() {
		account.ExpiresAt = sql.NullTime{Time: token.Expiry, Valid: true}
		account.ExpiresIn = max(int(token.Expiry.Sub(m.now()).Seconds()), 0)
	}

	id, err := m.store.Upsert(ctx, account)
	if err != nil {
		return models.Account{}, errors.Wrap(err, "store account")
	}
	account.ID = id

	m.logger.Info("reddit account connected", "username", identity.Name, "id", id)
	return toAccountModel(account), nil
}

func (m *AccountManager) List(ctx context.Context) ([]models.Account, error) {
	accounts, err := m.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list accounts")
	}

	res := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		res = append(res, toAccountModel(a))
	}
	return res, nil
}

func (m *AccountManager) Delete(ctx context.Context, id int) error {
	return errors.Wrap(m.store.Delete(ctx, id), "delete account")
}

// UpdateStatus rejects anything outside the fixed status set without touching the store.
func (m *AccountManager) UpdateStatus(ctx context.Context, id int, status string) (models.StatusResponse, error) {
	parsed := enums.ParseAccountStatus(status)
	if parsed == enums.AccountStatusInvalid {
		return models.StatusResponse{Success: false, Error: msgInvalidStatus}, nil
	}

	if err := m.store.UpdateStatus(ctx, id, string(parsed)); err != nil {
		return models.StatusResponse{}, errors.Wrap(err, "update account status")
	}

	return models.StatusResponse{Success: true, Status: parsed}, nil
}

// RefreshStats re-reads karma and submission count with the stored token. It fails
// closed: a missing account, a missing or expired token, or a token Reddit rejects
// all yield success=false.
func (m *AccountManager) RefreshStats(ctx context.Context, id int) (models.RefreshStatsResponse, error) {
	account, err := m.store.Get(ctx, id)
	if err != nil {
		return models.RefreshStatsResponse{}, errors.Wrap(err, "get account")
	}
	if account == nil {
		return models.RefreshStatsResponse{Success: false, Error: msgAccountNotFound}, nil
	}
	if account.Username == "" || account.AccessToken == "" {
		return models.RefreshStatsResponse{Success: false, Error: msgMissingToken}, nil
	}
	if account.Expired(m.now()) {
		return models.RefreshStatsResponse{Success: false, Error: msgTokenExpired}, nil
	}

	identity, err := m.profile.Identity(ctx, account.AccessToken)
	if errors.Is(err, sources.ErrUnauthorized) {
		return models.RefreshStatsResponse{Success: false, Error: msgTokenRejected}, nil
	}
	if err != nil {
		return models.RefreshStatsResponse{}, errors.Wrap(err, "get reddit identity")
	}

	totalPosts, err := m.profile.CountSubmissions(ctx, account.AccessToken, account.Username)
	if errors.Is(err, sources.ErrUnauthorized) {
		return models.RefreshStatsResponse{Success: false, Error: msgTokenRejected}, nil
	}
	if err != nil {
		return models.RefreshStatsResponse{}, errors.Wrap(err, "count submissions")
	}

	if err := m.store.UpdateStats(ctx, id, identity.TotalKarma, totalPosts); err != nil {
		return models.RefreshStatsResponse{}, errors.Wrap(err, "update account stats")
	}

	return models.RefreshStatsResponse{Success: true, Karma: identity.TotalKarma, TotalPosts: totalPosts}, nil
}

func toAccountModel(a data.Account) models.Account {
	res := models.Account{
		ID:         a.ID,
		Username:   a.Username,
		Status:     enums.ParseAccountStatus(a.Status),
		Karma:      a.Karma,
		TotalPosts: a.TotalPosts,
		CreatedAt:  a.CreatedAt,
	}
	if a.LastConnected.Valid {
		t := a.LastConnected.Time
		res.LastConnected = &t
	}
	return res
}
