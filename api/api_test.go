package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/capital/config"
	"github.com/rustyeddy/capital/metrics"
)

const workedBody = `{
	"totalAUC": 1000000,
	"monthlyFixedOverheads": 100000,
	"ownCryptoHoldings": 50000,
	"counterpartyExposure": 200000,
	"projectedCashOutflow30Day": 300000,
	"tier1Capital": 2000000,
	"tier2Capital": 500000,
	"preset": "custody",
	"stressScenarios": [
		{"name": "AUM -30%", "targetField": "totalAUC", "perturbation": {"op": "scale", "value": 0.7}}
	]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(metrics.NewRegistry()))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, []byte) {
	t.Helper()
	res, err := srv.Client().Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	res, err := srv.Client().Get(srv.URL + path)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	res, body := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCreateEvaluation(t *testing.T) {
	srv := newTestServer(t)
	res, body := post(t, srv, "/api/v1/evaluations", workedBody)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.NotEmpty(t, out["id"])
	assert.Equal(t, "COMPLIANT", out["complianceTier"])
	assert.Equal(t, "fixed_overheads", out["bindingMethod"])
	assert.EqualValues(t, 267000, out["totalRiskBasedCapital"])
	assert.EqualValues(t, 600000, out["capitalRequirement"])
	assert.EqualValues(t, 1900000, out["surplusOrDeficit"])

	stress, ok := out["stressResults"].([]any)
	require.True(t, ok)
	require.Len(t, stress, 1)
	assert.Equal(t, true, stress[0].(map[string]any)["compliant"])
}

func TestCreateEvaluation_NotApplicable(t *testing.T) {
	srv := newTestServer(t)
	res, body := post(t, srv, "/api/v1/evaluations", `{"preset":"custody"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(body))

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "not_applicable", out["adequacyRatio"])
	assert.Equal(t, "NOT_APPLICABLE", out["complianceTier"])
}

func TestCreateEvaluation_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
		fields []string
	}{
		{
			name:   "negative figures",
			body:   `{"totalAUC": -1, "tier1Capital": -5, "preset": "custody"}`,
			status: http.StatusUnprocessableEntity,
			kind:   "invalid_input",
			fields: []string{"totalAUC", "tier1Capital"},
		},
		{
			name:   "missing parameters",
			body:   `{"totalAUC": 1000, "operationalRiskWeightOnAUC": 2}`,
			status: http.StatusUnprocessableEntity,
			kind:   "configuration_error",
			fields: []string{"operationalRiskFactorOnOverheads", "marketVolatilityFactor", "counterpartyRiskWeight", "liquidityFactor"},
		},
		{
			name:   "rate out of bounds",
			body:   `{"totalAUC": 1000, "exchangeRate": 2.5, "sourceCurrency": "EUR", "reportingCurrency": "USD", "preset": "custody"}`,
			status: http.StatusUnprocessableEntity,
			kind:   "invalid_input",
			fields: []string{"exchangeRate"},
		},
		{
			name:   "unknown field",
			body:   `{"totalAum": 1000}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed json",
			body:   `{"totalAUC": `,
			status: http.StatusBadRequest,
		},
	}

	srv := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, body := post(t, srv, "/api/v1/evaluations", tt.body)
			require.Equal(t, tt.status, res.StatusCode, string(body))
			if tt.kind == "" {
				return
			}

			var out struct {
				Error  string `json:"error"`
				Fields []struct {
					Kind  string `json:"kind"`
					Field string `json:"field"`
				} `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, tt.kind, out.Error)

			var got []string
			for _, f := range out.Fields {
				got = append(got, f.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestCreateReport_CSV(t *testing.T) {
	srv := newTestServer(t)
	body := `{
		"company": {"name": "Acme Custody Ltd.", "calculation_date": "2025-03-31"},
		"business": {"total_auc": 1000000, "monthly_fixed_overheads": 100000, "tier1_capital": 2500000},
		"risk": {"preset": "custody"},
		"report": {"format": "table"}
	}`
	res, data := post(t, srv, "/api/v1/reports?format=csv", body)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	assert.Equal(t, "text/csv; charset=utf-8", res.Header.Get("Content-Type"))
	assert.Contains(t, res.Header.Get("Content-Disposition"), "capital_adequacy_report_Acme_Custody_Ltd_2025-03-31.csv")

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Parameter,Value", lines[0])
	assert.Contains(t, string(data), "Company,Acme Custody Ltd.")
	assert.Contains(t, string(data), "Compliance Status,COMPLIANT")
}

func TestCreateReport_Breakdown(t *testing.T) {
	srv := newTestServer(t)
	body := `{
		"company": {"name": "Acme Custody Ltd.", "calculation_date": "2025-03-31"},
		"business": {"total_auc": 1000000, "monthly_fixed_overheads": 100000, "tier1_capital": 2500000},
		"risk": {"preset": "custody"}
	}`
	res, data := post(t, srv, "/api/v1/reports?format=csv&breakdown=true", body)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	assert.Contains(t, res.Header.Get("Content-Disposition"), "capital_adequacy_report_Acme_Custody_Ltd_2025-03-31.breakdown.csv")

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "Component,Calculation,Amount", lines[0])
	assert.Contains(t, string(data), "Final Capital Requirement,\"Max(RBC, Fixed Overheads)\",\"$600,000\"")

	res, _ = post(t, srv, "/api/v1/reports?format=org&breakdown=true", body)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCreateReport_DefaultConfigOrg(t *testing.T) {
	srv := newTestServer(t)

	raw, err := json.Marshal(config.Default())
	require.NoError(t, err)

	res, data := post(t, srv, "/api/v1/reports?format=org", string(raw))
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "** Capital Adequacy: AdmiPlatform Ltd."))
	assert.Contains(t, out, ":PROJECTION: Year 1 (2025)")
	assert.Contains(t, out, ":TIER: NON_COMPLIANT")
	assert.Contains(t, out, "*** Stress")
}

func TestCreateReport_Errors(t *testing.T) {
	srv := newTestServer(t)

	res, _ := post(t, srv, "/api/v1/reports", `{"company": {"name": ""}, "report": {"format": "csv"}}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = post(t, srv, "/api/v1/reports?format=pdf", `{"company": {"name": "Acme"}, "risk": {"preset": "custody"}}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, data := post(t, srv, "/api/v1/reports", `{"company": {"name": "Acme"}, "business": {"total_auc": -1}, "risk": {"preset": "custody"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	assert.Contains(t, string(data), `"field":"totalAUC"`)
}

func TestReferenceData(t *testing.T) {
	srv := newTestServer(t)

	res, body := get(t, srv, "/api/v1/presets")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var presets struct {
		Default string                     `json:"default"`
		Presets map[string]json.RawMessage `json:"presets"`
	}
	require.NoError(t, json.Unmarshal(body, &presets))
	assert.Equal(t, "custody", presets.Default)
	assert.Contains(t, presets.Presets, "custody-trading")

	res, body = get(t, srv, "/api/v1/projections")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `"label":"Year 3 (2027)"`)

	res, body = get(t, srv, "/api/v1/scenarios")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var scenarios struct {
		Scenarios []struct {
			Name   string `json:"name"`
			Target string `json:"targetField"`
		} `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(body, &scenarios))
	require.Len(t, scenarios.Scenarios, 4)
	assert.Equal(t, "totalAUC", scenarios.Scenarios[0].Target)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	post(t, srv, "/api/v1/evaluations", workedBody)
	post(t, srv, "/api/v1/evaluations", `{"totalAUC": -1, "preset": "custody"}`)

	res, body := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), `capital_evaluations_total{tier="COMPLIANT"} 1`)
	assert.Contains(t, string(body), `capital_evaluation_errors_total{kind="invalid_input"} 1`)
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	res, _ := get(t, srv, "/api/v1/nothing")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err := srv.Client().Post(srv.URL+"/api/v1/presets", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}
