package council

// Profile is the investor profile loaded from the data provider.
// The loop passes it through to evaluator views without interpreting it.
type Profile struct {
	UserID                  string    `json:"user_id"`
	MonthlyIncome           float64   `json:"monthly_income"`
	MonthlyExpenses         float64   `json:"monthly_expenses"`
	TotalSavings            float64   `json:"total_savings"`
	ExistingInvestments     []Holding `json:"existing_investments,omitempty"`
	RiskTolerance           string    `json:"risk_tolerance"`
	InvestmentHorizonMonths int       `json:"investment_horizon_months"`
	FinancialGoals          []string  `json:"financial_goals,omitempty"`
}

// Holding is one entry in an investor's existing portfolio.
type Holding struct {
	Name          string  `json:"name"`
	AllocationPct float64 `json:"allocation_pct"`
}

// Candidate is the asset under evaluation.
type Candidate struct {
	AssetID           string  `json:"asset_id"`
	AssetName         string  `json:"asset_name"`
	AssetType         string  `json:"asset_type"`
	Sector            string  `json:"sector"`
	Region            string  `json:"region"`
	LiquidityClass    string  `json:"liquidity_class"`
	ExpectedReturnPct float64 `json:"expected_return_pct"`
}

// Context is the market snapshot the council debates against.
type Context struct {
	MarketTrend        string  `json:"market_trend"`
	VolatilityIndex    float64 `json:"volatility_index"`
	InterestRateRegime string  `json:"interest_rate_regime"`
	MacroRiskLevel     string  `json:"macro_risk_level"`
}

// Position is the caller-supplied sizing of the proposed investment.
type Position struct {
	ProposedAmount float64 `json:"proposed_investment_amount"`
	PortfolioPct   float64 `json:"percentage_of_portfolio"`
}

// Risk tolerance and market classification values used by the built-in
// evaluators. Records are otherwise free-form strings so external data
// sources are not constrained by the core.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"

	TrendBull     = "BULL"
	TrendBear     = "BEAR"
	TrendSideways = "SIDEWAYS"
)
