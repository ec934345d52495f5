// Package authority implements the HTTP client for the national tax
// authority's self assessment API.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/taxfolio/self_assessment_app/internal/apperrors"
	"github.com/taxfolio/self_assessment_app/internal/core/domain"
	portssvc "github.com/taxfolio/self_assessment_app/internal/core/ports/services"
)

const defaultTimeout = 30 * time.Second

// Config holds the connection settings for the authority API.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	// Timeout bounds each HTTP call. Zero means defaultTimeout.
	Timeout time.Duration
}

// HMRCClient talks to the authority's calculation and declaration endpoints,
// authenticating with the OAuth2 client credentials grant.
type HMRCClient struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure HMRCClient implements the port
var _ portssvc.TaxAuthorityClient = (*HMRCClient)(nil)

// NewHMRCClient creates an authority client. The returned client caches and
// refreshes its access token transparently.
func NewHMRCClient(cfg Config) *HMRCClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	credsCfg := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := credsCfg.Client(context.Background())
	httpClient.Timeout = timeout

	return &HMRCClient{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

type triggerCalculationRequest struct {
	UTR     string `json:"utr"`
	TaxYear string `json:"taxYear"`
}

type triggerCalculationResponse struct {
	CalculationID string `json:"calculationId"`
}

type calculationResponse struct {
	Status    string                     `json:"status"`
	Breakdown *domain.LiabilityBreakdown `json:"breakdown"`
}

type submitDeclarationRequest struct {
	UTR           string `json:"utr"`
	CalculationID string `json:"calculationId"`
}

type submitDeclarationResponse struct {
	ConfirmationRef string `json:"confirmationRef"`
}

type authorityErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TriggerCalculation starts (or re-joins) a calculation for the year. The
// authority keys calculations by (utr, taxYear), so replaying the call after
// a crash returns the identifier already assigned.
func (c *HMRCClient) TriggerCalculation(ctx context.Context, utr string, taxYear domain.TaxYear) (string, error) {
	body := triggerCalculationRequest{UTR: utr, TaxYear: taxYear.String()}

	var resp triggerCalculationResponse
	err := c.doJSON(ctx, http.MethodPost, "/self-assessment/calculations", body, &resp)
	if err != nil {
		return "", fmt.Errorf("trigger calculation for UTR %s year %s: %w", utr, taxYear.String(), err)
	}
	if resp.CalculationID == "" {
		return "", fmt.Errorf("trigger calculation for UTR %s year %s: %w: response missing calculationId", utr, taxYear.String(), apperrors.ErrUnavailable)
	}
	return resp.CalculationID, nil
}

// FetchCalculation retrieves a calculation result. A calculation the
// authority reports as still running surfaces as retryable so the caller
// polls instead of failing the workflow.
func (c *HMRCClient) FetchCalculation(ctx context.Context, calculationID string) (*domain.LiabilityBreakdown, error) {
	var resp calculationResponse
	err := c.doJSON(ctx, http.MethodGet, "/self-assessment/calculations/"+calculationID, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch calculation %s: %w", calculationID, err)
	}
	if resp.Status != "COMPLETED" || resp.Breakdown == nil {
		return nil, fmt.Errorf("fetch calculation %s: %w: calculation status %q", calculationID, apperrors.ErrUnavailable, resp.Status)
	}
	return resp.Breakdown, nil
}

// SubmitDeclaration files the declaration. The calculation identifier is the
// idempotency key: the authority deduplicates repeated submissions carrying
// the same one.
func (c *HMRCClient) SubmitDeclaration(ctx context.Context, calculationID string, utr string) (string, error) {
	body := submitDeclarationRequest{UTR: utr, CalculationID: calculationID}

	var resp submitDeclarationResponse
	err := c.doJSON(ctx, http.MethodPost, "/self-assessment/declarations", body, &resp)
	if err != nil {
		return "", fmt.Errorf("submit declaration for calculation %s: %w", calculationID, err)
	}
	if resp.ConfirmationRef == "" {
		return "", fmt.Errorf("submit declaration for calculation %s: %w: response missing confirmationRef", calculationID, apperrors.ErrUnavailable)
	}
	return resp.ConfirmationRef, nil
}

// doJSON performs one request and decodes the JSON response into out.
// Transport failures, 5xx responses and undecodable bodies wrap
// ErrUnavailable; a 4xx response wraps ErrRejected since retrying an
// identical request cannot succeed.
func (c *HMRCClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", apperrors.ErrUnavailable, err)
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: rate limited by authority", apperrors.ErrUnavailable)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", apperrors.ErrRejected, readAuthorityError(resp.Body, resp.StatusCode))
	default:
		return fmt.Errorf("%w: authority returned status %d", apperrors.ErrUnavailable, resp.StatusCode)
	}
}

// readAuthorityError extracts the authority's structured error body, falling
// back to the bare status code when the body is not parseable.
func readAuthorityError(body io.Reader, statusCode int) string {
	var e authorityErrorResponse
	if err := json.NewDecoder(body).Decode(&e); err != nil || e.Code == "" {
		return fmt.Sprintf("authority returned status %d", statusCode)
	}
	return fmt.Sprintf("authority rejected request: %s (%s)", e.Message, e.Code)
}
