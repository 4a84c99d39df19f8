// Package memstore is an in-memory datastore.Store for development and tests.
// It runs councild without PostgreSQL and is pre-seeded with a demo investor,
// asset, and market snapshot.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/quorumfin/council/internal/domain"
	"github.com/quorumfin/council/internal/domain/council"
)

// Store holds records in memory. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]council.Profile
	assets   map[string]council.Candidate
	market   *council.Context
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		profiles: make(map[string]council.Profile),
		assets:   make(map[string]council.Candidate),
	}
}

// NewWithFixtures creates a Store pre-seeded with demo records.
func NewWithFixtures() *Store {
	s := New()
	s.PutProfile(council.Profile{
		UserID:          "demo_user",
		MonthlyIncome:   8000,
		MonthlyExpenses: 3500,
		TotalSavings:    250000,
		ExistingInvestments: []council.Holding{
			{Name: "US_STOCKS_INDEX", AllocationPct: 50},
			{Name: "INT_BONDS", AllocationPct: 30},
			{Name: "CASH", AllocationPct: 20},
		},
		RiskTolerance:           council.RiskMedium,
		InvestmentHorizonMonths: 120,
		FinancialGoals:          []string{"WEALTH", "RETIREMENT"},
	})
	s.PutCandidate(council.Candidate{
		AssetID:           "AAPL_2026",
		AssetName:         "Apple Inc.",
		AssetType:         "STOCK",
		Sector:            "TECHNOLOGY",
		Region:            "US",
		LiquidityClass:    "HIGH",
		ExpectedReturnPct: 8.5,
	})
	s.PutContext(council.Context{
		MarketTrend:        council.TrendBull,
		VolatilityIndex:    16.5,
		InterestRateRegime: "STABLE",
		MacroRiskLevel:     council.RiskLow,
	})
	return s
}

// PutProfile stores or replaces a profile.
func (s *Store) PutProfile(p council.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// PutCandidate stores or replaces an asset.
func (s *Store) PutCandidate(c council.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[c.AssetID] = c
}

// PutContext replaces the current market snapshot.
func (s *Store) PutContext(m council.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.market = &m
}

// GetProfile returns the profile for userID.
func (s *Store) GetProfile(_ context.Context, userID string) (council.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return council.Profile{}, fmt.Errorf("get profile %s: %w", userID, domain.ErrNotFound)
	}
	return p, nil
}

// GetCandidate returns the asset for assetID.
func (s *Store) GetCandidate(_ context.Context, assetID string) (council.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.assets[assetID]
	if !ok {
		return council.Candidate{}, fmt.Errorf("get asset %s: %w", assetID, domain.ErrNotFound)
	}
	return c, nil
}

// GetContext returns the current market snapshot.
func (s *Store) GetContext(_ context.Context) (council.Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.market == nil {
		return council.Context{}, fmt.Errorf("get market context: %w", domain.ErrNotFound)
	}
	return *s.market, nil
}
