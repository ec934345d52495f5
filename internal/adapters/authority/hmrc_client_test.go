package authority_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfolio/self_assessment_app/internal/adapters/authority"
	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
)

// newTestServer runs a fake authority that also issues OAuth2 tokens, so the
// client under test completes its client credentials handshake locally.
func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *authority.HMRCClient) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := authority.NewHMRCClient(authority.Config{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/oauth/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	})
	return srv, client
}

func TestTriggerCalculation_ReturnsCalculationID(t *testing.T) {
	var gotBody map[string]string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/self-assessment/calculations", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"calculationId":"calc-123"}`))
	})

	calcID, err := client.TriggerCalculation(context.Background(), "1234567890", domain.NewTaxYear(2024))

	require.NoError(t, err)
	assert.Equal(t, "calc-123", calcID)
	assert.Equal(t, "1234567890", gotBody["utr"])
	assert.Equal(t, "2024-25", gotBody["taxYear"])
}

func TestTriggerCalculation_ServerErrorIsRetryable(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.TriggerCalculation(context.Background(), "1234567890", domain.NewTaxYear(2024))

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestFetchCalculation_CompletedReturnsBreakdown(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/self-assessment/calculations/calc-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"COMPLETED","breakdown":{"totalLiability":"15199.00"}}`))
	})

	breakdown, err := client.FetchCalculation(context.Background(), "calc-123")

	require.NoError(t, err)
	require.NotNil(t, breakdown)
	assert.True(t, breakdown.TotalLiability.Equal(decimal.RequireFromString("15199.00")))
}

func TestFetchCalculation_StillRunningIsRetryable(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"IN_PROGRESS"}`))
	})

	_, err := client.FetchCalculation(context.Background(), "calc-123")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestSubmitDeclaration_RejectionIsTerminal(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"RULE_SUBMISSION_BLOCKED","message":"declaration blocked by compliance rules"}`))
	})

	_, err := client.SubmitDeclaration(context.Background(), "calc-123", "1234567890")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRejected)
	assert.Contains(t, err.Error(), "RULE_SUBMISSION_BLOCKED")
}

func TestSubmitDeclaration_ReturnsConfirmationRef(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/self-assessment/declarations", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"confirmationRef":"SA-2024-XYZ"}`))
	})

	ref, err := client.SubmitDeclaration(context.Background(), "calc-123", "1234567890")

	require.NoError(t, err)
	assert.Equal(t, "SA-2024-XYZ", ref)
}
