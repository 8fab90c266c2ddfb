package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/currency"
	"github.com/rustyeddy/capital/report"
)

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s got %s", want, got)
}

// manual is a config with every figure given directly, no projection.
func manual() *Config {
	return &Config{
		Company: CompanyConfig{Name: "Test Custody Ltd.", ServiceType: "Custody Provider"},
		Business: BusinessConfig{
			TotalAUC:                  dec("1000000"),
			MonthlyFixedOverheads:     dec("100000"),
			OwnCryptoHoldings:         dec("50000"),
			CounterpartyExposure:      dec("200000"),
			ProjectedCashOutflow30Day: dec("300000"),
			Tier1Capital:              dec("2000000"),
			Tier2Capital:              dec("500000"),
		},
		Risk:   RiskConfig{Preset: "custody"},
		Report: ReportConfig{Format: "csv"},
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "AdmiPlatform Ltd.", cfg.Company.Name)
	assert.Equal(t, 2025, cfg.Projection.Year)
	assert.Equal(t, "EUR", cfg.Currency.From)
	assert.Equal(t, capital.DefaultPreset, cfg.Risk.Preset)
	assert.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Scenarios(), 4)
}

func TestDefault_Request(t *testing.T) {
	req, err := Default().Request()
	require.NoError(t, err)

	resp, err := capital.Evaluate(req)
	require.NoError(t, err)

	assertDec(t, "602078400", resp.Inputs.TotalAUC)
	assertDec(t, "305071.92", resp.Inputs.MonthlyFixedOverheads)
	assertDec(t, "922718.52", resp.Inputs.CounterpartyExposure)
	assertDec(t, "30103920", resp.Inputs.ProjectedCashOutflow30Day)
	assertDec(t, "7355484.72", resp.Inputs.Tier1Capital)
	assertDec(t, "50000", resp.Inputs.OwnCryptoHoldings)
	assertDec(t, "0", resp.Inputs.Tier2Capital)

	assertDec(t, "20054383.0652", resp.TotalRiskBasedCapital)
	assertDec(t, "1830431.52", resp.FixedOverheadsFloor)
	assert.Equal(t, capital.MethodRiskBased, resp.BindingMethod)
	assert.Equal(t, capital.TierNonCompliant, resp.ComplianceTier)
	assert.Len(t, resp.StressResults, 4)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid manual config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing company",
			mutate:  func(c *Config) { c.Company.Name = "" },
			wantErr: true,
			errMsg:  "company.name is required",
		},
		{
			name:    "bad date",
			mutate:  func(c *Config) { c.Company.CalculationDate = "30/06/2025" },
			wantErr: true,
			errMsg:  "company.calculation_date must be YYYY-MM-DD",
		},
		{
			name:    "unknown projection year",
			mutate:  func(c *Config) { c.Projection.Year = 2030 },
			wantErr: true,
			errMsg:  "unknown projection year",
		},
		{
			name:    "projection without currency",
			mutate:  func(c *Config) { c.Projection.Year = 2025 },
			wantErr: true,
			errMsg:  "currency is required with a projection",
		},
		{
			name:    "bad report format",
			mutate:  func(c *Config) { c.Report.Format = "pdf" },
			wantErr: true,
			errMsg:  "report.format must be one of",
		},
		{
			name: "unnamed scenario",
			mutate: func(c *Config) {
				c.Stress.Scenarios = []capital.StressScenario{{Target: capital.FieldTotalAUC}}
			},
			wantErr: true,
			errMsg:  "stress.scenarios[0].name is required",
		},
		{
			name:    "missing report format",
			mutate:  func(c *Config) { c.Report.Format = "" },
			wantErr: true,
			errMsg:  "report.format must be one of table, csv, org, json",
		},
		{
			name: "second scenario unnamed",
			mutate: func(c *Config) {
				c.Stress.Scenarios = []capital.StressScenario{
					{Name: "ok", Target: capital.FieldTotalAUC, Perturbation: capital.Perturbation{Op: capital.OpScale, Value: decimal.NewFromInt(1)}},
					{Target: capital.FieldTotalAUC},
				}
			},
			wantErr: true,
			errMsg:  "stress.scenarios[1].name is required",
		},
		{
			name: "allocation over the whole",
			mutate: func(c *Config) {
				c.Allocation = &report.Allocation{Bitcoin: decimal.NewFromInt(70), Ethereum: decimal.NewFromInt(40)}
			},
			wantErr: true,
			errMsg:  "allocation shares add up to 110%",
		},
		{
			name:    "negative figure",
			mutate:  func(c *Config) { c.Business.Tier2Capital = dec("-1") },
			wantErr: true,
			errMsg:  "tier2Capital must not be negative",
		},
		{
			name:    "parameter out of range",
			mutate:  func(c *Config) { c.Risk.LiquidityFactor = dec("5") },
			wantErr: true,
			errMsg:  "liquidityFactor must be within [10, 40]",
		},
		{
			name: "rate out of band",
			mutate: func(c *Config) {
				c.Currency = &currency.Conversion{From: "EUR", To: "USD", Rate: decimal.RequireFromString("2")}
			},
			wantErr: true,
			errMsg:  "exchangeRate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := manual()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequest_OverridesProjection(t *testing.T) {
	cfg := Default()
	cfg.Business.OwnCryptoHoldings = dec("125000")
	cfg.Risk.MarketVolatilityFactor = dec("50")

	req, err := cfg.Request()
	require.NoError(t, err)
	assertDec(t, "125000", req.OwnCryptoHoldings)
	assertDec(t, "557480000", req.TotalAUC)
	assert.Equal(t, ProjectionConvertFields, req.ConvertFields)

	resp, err := capital.Evaluate(req)
	require.NoError(t, err)
	assertDec(t, "62500", resp.Charges.Market)
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Stress.Scenarios = []capital.StressScenario{{
				Name:         "Counterparty downgrade",
				Target:       capital.FieldCounterpartyRiskWeight,
				Perturbation: capital.Perturbation{Op: capital.OpSet, Value: decimal.NewFromInt(3)},
			}}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Company, loaded.Company)
			assert.Equal(t, cfg.Projection, loaded.Projection)
			assert.True(t, cfg.Currency.Rate.Equal(loaded.Currency.Rate))
			assert.Equal(t, cfg.Risk.Preset, loaded.Risk.Preset)
			require.Len(t, loaded.Stress.Scenarios, 1)
			assert.Equal(t, capital.FieldCounterpartyRiskWeight, loaded.Stress.Scenarios[0].Target)
			assert.True(t, loaded.Stress.Scenarios[0].Perturbation.Value.Equal(decimal.NewFromInt(3)))
		})
	}
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval.yaml")
	doc := `
company:
  name: Example Custody
  service_type: Custody Provider
  calculation_date: "2025-06-30"
business:
  total_auc: 1000000
  monthly_fixed_overheads: 100000
  own_crypto_holdings: 50000
  counterparty_exposure: 200000
  projected_cash_outflow_30d: 300000
  tier1_capital: 2000000
  tier2_capital: 500000
risk:
  preset: custody
stress:
  use_defaults: true
  scenarios:
    - name: Tier 2 haircut
      targetField: tier2Capital
      perturbation: {op: scale, value: 0.5}
report:
  format: org
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Scenarios(), 5)

	date := cfg.CalculationDate(time.Now())
	assert.Equal(t, "2025-06-30", date.Format(time.DateOnly))

	req, err := cfg.Request()
	require.NoError(t, err)
	resp, err := capital.Evaluate(req)
	require.NoError(t, err)
	assertDec(t, "600000", resp.CapitalRequirement)
	assertDec(t, "2250000", resp.StressResults[4].EligibleCapital)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestCalculationDate_DefaultsToToday(t *testing.T) {
	cfg := manual()
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-04", cfg.CalculationDate(now).Format(time.DateOnly))
}

func TestProjections(t *testing.T) {
	ps := Projections()
	require.Len(t, ps, 3)
	assert.Equal(t, []int{2025, 2026, 2027}, []int{ps[0].Year, ps[1].Year, ps[2].Year})

	b := ps[1].Business()
	assertDec(t, "1474200000", b.TotalAUC)
	assertDec(t, "73710000", b.ProjectedCashOutflow30Day)
	assertDec(t, "11286899", b.CounterpartyExposure)
	assertDec(t, "20515638", b.Tier1Capital)

	_, err := ProjectionFor(1999)
	assert.Error(t, err)
}

func TestProjectedRevenue(t *testing.T) {
	cfg := Default()
	rev, ok := cfg.ProjectedRevenue()
	require.True(t, ok)
	assertDec(t, "827745.48", rev)
	assert.Equal(t, "Year 1 (2025)", cfg.ProjectionLabel())

	_, ok = manual().ProjectedRevenue()
	assert.False(t, ok)
}

func TestReportMeta(t *testing.T) {
	now := time.Date(2025, 6, 30, 14, 5, 0, 0, time.UTC)

	m := Default().ReportMeta("01JABCDEF", now)
	assert.Equal(t, "AdmiPlatform Ltd.", m.Company)
	assert.Equal(t, "Custody Provider", m.ServiceType)
	assert.Equal(t, "Year 1 (2025)", m.ProjectionYear)
	assert.Equal(t, "USD", m.Currency)
	assert.Equal(t, "2025-06-30", m.CalculationDate.Format(time.DateOnly))
	require.NotNil(t, m.ProjectedRevenue)
	assertDec(t, "827745.48", *m.ProjectedRevenue)
	require.NotNil(t, m.Allocation)
	assertDec(t, "25", m.Allocation.Other())

	m = manual().ReportMeta("01JABCDEF", now)
	assert.Empty(t, m.ProjectionYear)
	assert.Nil(t, m.ProjectedRevenue)
}
