package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/config"
	"github.com/rustyeddy/capital/id"
	"github.com/rustyeddy/capital/metrics"
	"github.com/rustyeddy/capital/report"
)

const maxBodyBytes = 1 << 20

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	metrics *metrics.Registry
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeEvalError maps engine errors: field violations are 422 with each
// offending field listed, anything else is a malformed request.
func writeEvalError(w http.ResponseWriter, err error) {
	fields := capital.FieldErrors(err)
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	kind := "invalid_input"
	if !errors.Is(err, capital.ErrInvalidInput) {
		kind = "configuration_error"
	}
	out := make([]map[string]string, 0, len(fields))
	for _, fe := range fields {
		out = append(out, map[string]string{
			"kind":   fe.KindName(),
			"field":  string(fe.Field),
			"value":  fe.Value,
			"reason": fe.Reason,
		})
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  kind,
		"fields": out,
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func (h *Handlers) evaluate(req capital.Request) (capital.Response, error) {
	start := time.Now()
	resp, err := capital.Evaluate(req)
	h.metrics.Observe(resp, err, time.Since(start))
	return resp, err
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- CreateEvaluation ---

// evaluation is a response tagged with the id it was logged under.
type evaluation struct {
	ID string `json:"id"`
	capital.Response
}

func (h *Handlers) CreateEvaluation(w http.ResponseWriter, r *http.Request) {
	var req capital.Request
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.evaluate(req)
	if err != nil {
		log.Warn().Err(err).Msg("evaluation rejected")
		writeEvalError(w, err)
		return
	}

	ev := evaluation{ID: id.New(), Response: resp}
	log.Info().
		Str("evaluation_id", ev.ID).
		Str("tier", string(resp.ComplianceTier)).
		Str("requirement", resp.CapitalRequirement.StringFixed(2)).
		Str("ratio", resp.AdequacyRatio.String()).
		Int("stress_scenarios", len(resp.StressResults)).
		Msg("evaluation completed")

	writeJSON(w, http.StatusCreated, ev)
}

// --- CreateReport ---

var contentTypes = map[string]string{
	"csv":   "text/csv; charset=utf-8",
	"table": "text/plain; charset=utf-8",
	"org":   "text/org; charset=utf-8",
	"json":  "application/json",
}

// CreateReport takes a configuration document and returns the rendered
// report. The format query parameter overrides report.format, and
// breakdown=true returns the charge breakdown csv.
func (h *Handlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := decode(w, r, &cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = cfg.Report.Format
	}
	if format == "" {
		format = "csv"
	}
	cfg.Report.Format = format
	breakdown := r.URL.Query().Get("breakdown") == "true"
	write, ext, err := report.Exporter(format, breakdown)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := cfg.Validate(); err != nil {
		writeEvalError(w, err)
		return
	}
	req, err := cfg.Request()
	if err != nil {
		writeEvalError(w, err)
		return
	}
	resp, err := h.evaluate(req)
	if err != nil {
		writeEvalError(w, err)
		return
	}

	meta := cfg.ReportMeta(id.New(), time.Now())
	rep := report.Build(meta, resp)

	var buf bytes.Buffer
	if err := write(&buf, rep); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().
		Str("report_id", meta.ID).
		Str("company", meta.Company).
		Str("format", format).
		Bool("breakdown", breakdown).
		Str("tier", string(resp.ComplianceTier)).
		Msg("report generated")

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(meta, ext)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("write report")
	}
}

// --- Reference data ---

func (h *Handlers) ListPresets(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]capital.RiskParameters)
	for _, name := range capital.PresetNames() {
		p, err := capital.Preset(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out[name] = p
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"default": capital.DefaultPreset,
		"presets": out,
	})
}

func (h *Handlers) ListProjections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"projections": config.Projections(),
	})
}

func (h *Handlers) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scenarios": capital.DefaultScenarios(),
	})
}
