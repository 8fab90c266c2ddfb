package metrics

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/capital/capital"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(body)
}

func TestObserve_Success(t *testing.T) {
	r := NewRegistry()

	resp, err := capital.Evaluate(capital.Request{
		TotalAUC:              decimal.NewFromInt(1000000),
		MonthlyFixedOverheads: decimal.NewFromInt(100000),
		Tier1Capital:          decimal.NewFromInt(450000),
		Preset:                "custody",
		StressScenarios: []capital.StressScenario{{
			Name:          "overheads x2",
			Target:        capital.FieldMonthlyFixedOverheads,
			Perturbation:  capital.Perturbation{Op: capital.OpScale, Value: decimal.NewFromInt(2)},
			RestressFloor: true,
		}},
	})
	require.NoError(t, err)
	r.Observe(resp, nil, 2*time.Millisecond)

	out := scrape(t, r)
	assert.Contains(t, out, fmt.Sprintf(`capital_evaluations_total{tier="%s"} 1`, resp.ComplianceTier))
	assert.Contains(t, out, `capital_stress_breaches_total{target="monthlyFixedOverheads"} 1`)
	assert.Contains(t, out, "capital_last_adequacy_ratio_percent 75")
	assert.Contains(t, out, `capital_evaluation_duration_seconds_count{result="ok"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestObserve_Errors(t *testing.T) {
	r := NewRegistry()

	_, err := capital.Evaluate(capital.Request{TotalAUC: decimal.NewFromInt(-1), Preset: "custody"})
	require.Error(t, err)
	r.Observe(capital.Response{}, err, time.Millisecond)

	_, err = capital.Evaluate(capital.Request{Preset: "unknown"})
	require.Error(t, err)
	r.Observe(capital.Response{}, err, time.Millisecond)

	out := scrape(t, r)
	assert.Contains(t, out, `capital_evaluation_errors_total{kind="invalid_input"} 1`)
	assert.Contains(t, out, `capital_evaluation_errors_total{kind="configuration_error"} 1`)
	assert.Contains(t, out, `capital_evaluation_duration_seconds_count{result="error"} 2`)
	assert.NotContains(t, out, "capital_evaluations_total{")
}
