package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/savika10/AI-Agent-Evaluation-Framework/internal/store"
)

func TestGetConfig_DefaultsWhenUnset(t *testing.T) {
	d := newTestDeps(t)

	rec := d.doRequest(authedRequest(http.MethodGet, "/api/config", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var cfg store.EvalConfig
	decodeBody(t, rec, &cfg)
	if cfg.UserID != testUserID {
		t.Errorf("expected user %s, got %s", testUserID, cfg.UserID)
	}
	if cfg.RunPolicy != store.RunPolicyAlways {
		t.Errorf("expected default run_policy always, got %s", cfg.RunPolicy)
	}
	if cfg.SampleRatePct != 100 || cfg.ObfuscatePII || cfg.MaxEvalPerDay != 1000 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestGetConfig_ReturnsStoredConfig(t *testing.T) {
	d := newTestDeps(t)
	d.configs.configs[testUserID] = &store.EvalConfig{
		UserID:        testUserID,
		RunPolicy:     store.RunPolicySampled,
		SampleRatePct: 25,
		ObfuscatePII:  true,
		MaxEvalPerDay: 500,
	}

	rec := d.doRequest(authedRequest(http.MethodGet, "/api/config", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cfg store.EvalConfig
	decodeBody(t, rec, &cfg)
	if cfg.RunPolicy != store.RunPolicySampled || cfg.SampleRatePct != 25 || !cfg.ObfuscatePII {
		t.Errorf("stored config not returned: %+v", cfg)
	}
}

func TestUpsertConfig_CreatesThenReplaces(t *testing.T) {
	d := newTestDeps(t)

	body := `{"run_policy":"sampled","sample_rate_pct":50,"obfuscate_pii":true,"max_eval_per_day":200}`
	rec := d.doRequest(authedRequest(http.MethodPut, "/api/config", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on first save, got %d: %s", rec.Code, rec.Body.String())
	}

	var saved store.EvalConfig
	decodeBody(t, rec, &saved)
	if saved.UserID != testUserID {
		t.Errorf("config must be keyed to the session user, got %s", saved.UserID)
	}
	if saved.RunPolicy != "sampled" || saved.SampleRatePct != 50 {
		t.Errorf("saved values wrong: %+v", saved)
	}

	// Second save replaces, does not multiply.
	body = `{"run_policy":"always","sample_rate_pct":100,"obfuscate_pii":false,"max_eval_per_day":1000}`
	rec = d.doRequest(authedRequest(http.MethodPut, "/api/config", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replace, got %d", rec.Code)
	}
	if len(d.configs.configs) != 1 {
		t.Errorf("expected exactly 1 stored config, got %d", len(d.configs.configs))
	}
	if d.configs.configs[testUserID].RunPolicy != "always" {
		t.Error("second save did not replace the first")
	}
}

func TestUpsertConfig_Validation(t *testing.T) {
	d := newTestDeps(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "bad run_policy",
			body:    `{"run_policy":"never","sample_rate_pct":50,"max_eval_per_day":100}`,
			wantErr: "run_policy must be 'always' or 'sampled'",
		},
		{
			name:    "sample rate over 100",
			body:    `{"run_policy":"sampled","sample_rate_pct":150,"max_eval_per_day":100}`,
			wantErr: "sample_rate_pct must be between 0 and 100",
		},
		{
			name:    "negative sample rate",
			body:    `{"run_policy":"sampled","sample_rate_pct":-1,"max_eval_per_day":100}`,
			wantErr: "sample_rate_pct must be between 0 and 100",
		},
		{
			name:    "zero daily cap",
			body:    `{"run_policy":"always","sample_rate_pct":100,"max_eval_per_day":0}`,
			wantErr: "max_eval_per_day must be positive",
		},
		{
			name:    "malformed json",
			body:    `{"run_policy": `,
			wantErr: "Invalid JSON payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := d.doRequest(authedRequest(http.MethodPut, "/api/config", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var resp ErrorResp
			decodeBody(t, rec, &resp)
			if resp.Error != tt.wantErr {
				t.Errorf("expected error %q, got %q", tt.wantErr, resp.Error)
			}
		})
	}
	if len(d.configs.configs) != 0 {
		t.Error("rejected configs must not be stored")
	}
}
