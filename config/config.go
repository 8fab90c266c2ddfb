package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/currency"
	"github.com/rustyeddy/capital/report"
)

// Config represents one capital adequacy evaluation on disk
type Config struct {
	Company    CompanyConfig        `json:"company" yaml:"company"`
	Projection ProjectionConfig     `json:"projection" yaml:"projection"`
	Currency   *currency.Conversion `json:"currency,omitempty" yaml:"currency,omitempty"`
	Business   BusinessConfig       `json:"business" yaml:"business"`
	Allocation *report.Allocation   `json:"allocation,omitempty" yaml:"allocation,omitempty"`
	Risk       RiskConfig           `json:"risk" yaml:"risk"`
	Stress     StressConfig         `json:"stress" yaml:"stress"`
	Report     ReportConfig         `json:"report" yaml:"report"`
}

// CompanyConfig is the report header
type CompanyConfig struct {
	Name            string `json:"name" yaml:"name" validate:"required"`
	ServiceType     string `json:"service_type" yaml:"service_type"`
	CalculationDate string `json:"calculation_date,omitempty" yaml:"calculation_date,omitempty" validate:"omitempty,datetime=2006-01-02"` // empty means today
}

// ProjectionConfig selects a plan year to source business figures from.
// Year 0 means all figures come from the business section.
type ProjectionConfig struct {
	Year int `json:"year,omitempty" yaml:"year,omitempty"`
}

// BusinessConfig holds business figures. With a projection selected, any
// value set here overrides the projected one.
type BusinessConfig struct {
	TotalAUC                  *decimal.Decimal `json:"total_auc,omitempty" yaml:"total_auc,omitempty"`
	MonthlyFixedOverheads     *decimal.Decimal `json:"monthly_fixed_overheads,omitempty" yaml:"monthly_fixed_overheads,omitempty"`
	OwnCryptoHoldings         *decimal.Decimal `json:"own_crypto_holdings,omitempty" yaml:"own_crypto_holdings,omitempty"`
	CounterpartyExposure      *decimal.Decimal `json:"counterparty_exposure,omitempty" yaml:"counterparty_exposure,omitempty"`
	ProjectedCashOutflow30Day *decimal.Decimal `json:"projected_cash_outflow_30d,omitempty" yaml:"projected_cash_outflow_30d,omitempty"`
	Tier1Capital              *decimal.Decimal `json:"tier1_capital,omitempty" yaml:"tier1_capital,omitempty"`
	Tier2Capital              *decimal.Decimal `json:"tier2_capital,omitempty" yaml:"tier2_capital,omitempty"`
}

// RiskConfig names a parameter preset and optional per-parameter overrides
type RiskConfig struct {
	Preset                           string           `json:"preset,omitempty" yaml:"preset,omitempty"`
	OperationalRiskWeightOnAUC       *decimal.Decimal `json:"operational_risk_weight_on_auc,omitempty" yaml:"operational_risk_weight_on_auc,omitempty"`
	OperationalRiskFactorOnOverheads *decimal.Decimal `json:"operational_risk_factor_on_overheads,omitempty" yaml:"operational_risk_factor_on_overheads,omitempty"`
	MarketVolatilityFactor           *decimal.Decimal `json:"market_volatility_factor,omitempty" yaml:"market_volatility_factor,omitempty"`
	CounterpartyRiskWeight           *decimal.Decimal `json:"counterparty_risk_weight,omitempty" yaml:"counterparty_risk_weight,omitempty"`
	LiquidityFactor                  *decimal.Decimal `json:"liquidity_factor,omitempty" yaml:"liquidity_factor,omitempty"`
}

// StressConfig lists stress scenarios. UseDefaults prepends the four
// canonical scenarios.
type StressConfig struct {
	UseDefaults bool                     `json:"use_defaults" yaml:"use_defaults"`
	Scenarios   []capital.StressScenario `json:"scenarios,omitempty" yaml:"scenarios,omitempty" validate:"dive"`
}

// ReportConfig contains export parameters
type ReportConfig struct {
	Format string `json:"format" yaml:"format" validate:"oneof=table csv org json"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"` // empty means stdout
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the file's structure and then runs the engine's own
// validation over the request it describes. Structural rules live in the
// validate tags; value ranges belong to the engine.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return structError(err)
	}
	if c.Projection.Year != 0 {
		if _, err := ProjectionFor(c.Projection.Year); err != nil {
			return fmt.Errorf("projection.year: %w", err)
		}
		if c.Currency == nil {
			return fmt.Errorf("currency is required with a projection")
		}
	}
	if c.Allocation != nil {
		if err := c.Allocation.Validate(); err != nil {
			return err
		}
	}

	req, err := c.Request()
	if err != nil {
		return err
	}
	if _, err := capital.Evaluate(req); err != nil {
		return err
	}
	return nil
}

// Request builds the engine request the file describes.
func (c *Config) Request() (capital.Request, error) {
	var in capital.BusinessInputs
	var convertFields []string

	if c.Projection.Year != 0 {
		p, err := ProjectionFor(c.Projection.Year)
		if err != nil {
			return capital.Request{}, err
		}
		in = p.Business()
		convertFields = ProjectionConvertFields
	}

	b := c.Business
	set := func(dst *decimal.Decimal, v *decimal.Decimal) {
		if v != nil {
			*dst = *v
		}
	}
	set(&in.TotalAUC, b.TotalAUC)
	set(&in.MonthlyFixedOverheads, b.MonthlyFixedOverheads)
	set(&in.OwnCryptoHoldings, b.OwnCryptoHoldings)
	set(&in.CounterpartyExposure, b.CounterpartyExposure)
	set(&in.ProjectedCashOutflow30Day, b.ProjectedCashOutflow30Day)
	set(&in.Tier1Capital, b.Tier1Capital)
	set(&in.Tier2Capital, b.Tier2Capital)

	req := capital.Request{
		TotalAUC:                         in.TotalAUC,
		MonthlyFixedOverheads:            in.MonthlyFixedOverheads,
		OwnCryptoHoldings:                in.OwnCryptoHoldings,
		CounterpartyExposure:             in.CounterpartyExposure,
		ProjectedCashOutflow30Day:        in.ProjectedCashOutflow30Day,
		Tier1Capital:                     in.Tier1Capital,
		Tier2Capital:                     in.Tier2Capital,
		Preset:                           c.Risk.Preset,
		OperationalRiskWeightOnAUC:       c.Risk.OperationalRiskWeightOnAUC,
		OperationalRiskFactorOnOverheads: c.Risk.OperationalRiskFactorOnOverheads,
		MarketVolatilityFactor:           c.Risk.MarketVolatilityFactor,
		CounterpartyRiskWeight:           c.Risk.CounterpartyRiskWeight,
		LiquidityFactor:                  c.Risk.LiquidityFactor,
		StressScenarios:                  c.Scenarios(),
	}

	if cur := c.Currency; cur != nil {
		rate := cur.Rate
		req.ExchangeRate = &rate
		req.ExchangeRateBounds = cur.Bounds
		req.SourceCurrency = cur.From
		req.ReportingCurrency = cur.To
		req.ConvertFields = cur.Fields
		if len(req.ConvertFields) == 0 {
			req.ConvertFields = convertFields
		}
	}
	return req, nil
}

// Scenarios returns the configured stress scenarios, defaults first.
func (c *Config) Scenarios() []capital.StressScenario {
	var out []capital.StressScenario
	if c.Stress.UseDefaults {
		out = append(out, capital.DefaultScenarios()...)
	}
	return append(out, c.Stress.Scenarios...)
}

// CalculationDate returns the configured date, or today when unset.
func (c *Config) CalculationDate(now time.Time) time.Time {
	if t, err := time.Parse(time.DateOnly, c.Company.CalculationDate); err == nil {
		return t
	}
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ProjectedRevenue is the projection's custody revenue in reporting
// currency, if a projection is selected.
func (c *Config) ProjectedRevenue() (decimal.Decimal, bool) {
	if c.Projection.Year == 0 {
		return decimal.Zero, false
	}
	p, err := ProjectionFor(c.Projection.Year)
	if err != nil {
		return decimal.Zero, false
	}
	if c.Currency == nil {
		return p.CustodyRevenue, true
	}
	return p.CustodyRevenue.Mul(c.Currency.Rate), true
}

// ProjectionLabel returns the selected plan year's label.
func (c *Config) ProjectionLabel() string {
	p, err := ProjectionFor(c.Projection.Year)
	if err != nil {
		return ""
	}
	return p.Label
}

// ReportMeta is the report header for this file's evaluation.
func (c *Config) ReportMeta(id string, now time.Time) report.Meta {
	m := report.Meta{
		ID:              id,
		Company:         c.Company.Name,
		ServiceType:     c.Company.ServiceType,
		ProjectionYear:  c.ProjectionLabel(),
		CalculationDate: c.CalculationDate(now),
		Currency:        "USD",
		Allocation:      c.Allocation,
	}
	if c.Currency != nil && c.Currency.To != "" {
		m.Currency = c.Currency.To
	}
	if rev, ok := c.ProjectedRevenue(); ok {
		m.ProjectedRevenue = &rev
	}
	return m
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Company: CompanyConfig{
			Name:        "AdmiPlatform Ltd.",
			ServiceType: "Custody Provider",
		},
		Projection: ProjectionConfig{Year: 2025},
		Currency: &currency.Conversion{
			From: "EUR",
			To:   "USD",
			Rate: decimal.RequireFromString("1.08"),
		},
		Allocation: &report.Allocation{
			Bitcoin:  decimal.NewFromInt(40),
			Ethereum: decimal.NewFromInt(35),
		},
		Risk: RiskConfig{
			Preset: capital.DefaultPreset,
		},
		Stress: StressConfig{
			UseDefaults: true,
		},
		Report: ReportConfig{
			Format: "table",
		},
	}
}
