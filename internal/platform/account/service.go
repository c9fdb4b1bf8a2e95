package account

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kislikjeka/finboard/internal/query"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Service provides cached account views
type Service struct {
	gw Gateway
}

// NewService creates a new account service
func NewService(gw Gateway) *Service {
	return &Service{gw: gw}
}

// ParsePage reads offset/limit query values, clamping them to sane bounds
func ParsePage(offset, limit string) Page {
	p := Page{Limit: DefaultPageLimit}
	if n, err := strconv.Atoi(strings.TrimSpace(offset)); err == nil && n > 0 {
		p.Offset = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(limit)); err == nil && n > 0 {
		p.Limit = min(n, MaxPageLimit)
	}
	return p
}

// List returns every account
func (s *Service) List(ctx context.Context, qc *query.Client) ([]Account, error) {
	accounts, err := query.Fetch(ctx, qc, query.KeyAccounts, s.gw.ListAccounts)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// Get returns one account with a page of its transactions
func (s *Service) Get(ctx context.Context, qc *query.Client, id int64, page Page) (*Detail, error) {
	detail, err := query.Fetch(ctx, qc, query.AccountKey(id, page.Offset, page.Limit), func(ctx context.Context) (*Detail, error) {
		return s.gw.GetAccount(ctx, id, page)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return detail, nil
}

// Find returns the account snapshot from the cached list, used for balance checks
func (s *Service) Find(ctx context.Context, qc *query.Client, id int64) (*Account, error) {
	accounts, err := s.List(ctx, qc)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i], nil
		}
	}
	return nil, ErrAccountNotFound
}
