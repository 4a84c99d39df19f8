package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quorumfin/council/internal/domain"
	"github.com/quorumfin/council/internal/domain/council"
)

// Store implements datastore.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetProfile loads an investor profile by user ID.
func (s *Store) GetProfile(ctx context.Context, userID string) (council.Profile, error) {
	const q = `SELECT user_id, monthly_income, monthly_expenses, total_savings,
		existing_investments, risk_tolerance, investment_horizon_months, financial_goals
		FROM profiles WHERE user_id = $1`

	var (
		p           council.Profile
		investments []byte
		goals       []byte
	)
	err := s.pool.QueryRow(ctx, q, userID).Scan(
		&p.UserID, &p.MonthlyIncome, &p.MonthlyExpenses, &p.TotalSavings,
		&investments, &p.RiskTolerance, &p.InvestmentHorizonMonths, &goals,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return council.Profile{}, fmt.Errorf("get profile %s: %w", userID, domain.ErrNotFound)
		}
		return council.Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}

	if err := json.Unmarshal(investments, &p.ExistingInvestments); err != nil {
		return council.Profile{}, fmt.Errorf("get profile %s: decode investments: %w", userID, err)
	}
	if err := json.Unmarshal(goals, &p.FinancialGoals); err != nil {
		return council.Profile{}, fmt.Errorf("get profile %s: decode goals: %w", userID, err)
	}
	return p, nil
}

// GetCandidate loads an asset by ID.
func (s *Store) GetCandidate(ctx context.Context, assetID string) (council.Candidate, error) {
	const q = `SELECT asset_id, asset_name, asset_type, sector, region, liquidity_class, expected_return_pct
		FROM assets WHERE asset_id = $1`

	var c council.Candidate
	err := s.pool.QueryRow(ctx, q, assetID).Scan(
		&c.AssetID, &c.AssetName, &c.AssetType, &c.Sector,
		&c.Region, &c.LiquidityClass, &c.ExpectedReturnPct,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return council.Candidate{}, fmt.Errorf("get asset %s: %w", assetID, domain.ErrNotFound)
		}
		return council.Candidate{}, fmt.Errorf("get asset %s: %w", assetID, err)
	}
	return c, nil
}

// GetContext loads the most recent market snapshot.
func (s *Store) GetContext(ctx context.Context) (council.Context, error) {
	const q = `SELECT market_trend, volatility_index, interest_rate_regime, macro_risk_level
		FROM market_snapshots ORDER BY captured_at DESC LIMIT 1`

	var mkt council.Context
	err := s.pool.QueryRow(ctx, q).Scan(
		&mkt.MarketTrend, &mkt.VolatilityIndex, &mkt.InterestRateRegime, &mkt.MacroRiskLevel,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return council.Context{}, fmt.Errorf("get market context: %w", domain.ErrNotFound)
		}
		return council.Context{}, fmt.Errorf("get market context: %w", err)
	}
	return mkt, nil
}
