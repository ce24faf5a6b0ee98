package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// FallbackDescription is returned whenever the text service cannot polish a
// line-item description.
const FallbackDescription = "Professional service delivery."

// describeRequest and emailDraftRequest mirror the collaborator's wire
// contract. Transport and auth details live on the other side.
type describeRequest struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type emailDraftRequest struct {
	Kind          string `json:"kind"`
	InvoiceNumber string `json:"invoiceNumber"`
	TotalAmount   string `json:"totalAmount"`
	DueDate       string `json:"dueDate"`
	Status        string `json:"status"`
	ClientName    string `json:"clientName"`
}

// EmailDraft is a generated send-email suggestion.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DraftInput carries the invoice fields the email draft is built from.
type DraftInput struct {
	InvoiceNumber string
	Total         float64
	DueDate       string
	Status        string
	ClientName    string
	CompanyName   string
}

// Gateway is the boundary adapter to the external text-generation service.
// It is strictly best-effort: every failure is recovered locally with a
// deterministic fallback and logged, never surfaced to the caller. This is
// the only place in the application allowed to swallow errors.
type Gateway struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger

	mu     sync.Mutex
	latest map[string]uint64
}

// New creates a gateway talking to baseURL with the given per-request
// timeout. An empty baseURL disables network calls entirely; every request
// then resolves to its fallback.
func New(baseURL string, timeout time.Duration, log *logrus.Logger) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		latest:  make(map[string]uint64),
		log:     log,
	}
}

// begin records a new request for a target and returns its token.
func (g *Gateway) begin(target string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest[target]++
	return g.latest[target]
}

// isLatest reports whether token is still the newest request for target.
func (g *Gateway) isLatest(target string, token uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[target] == token
}

// Describe asks the service to polish a line-item description. Empty or
// whitespace input is returned unchanged without a network call. The second
// return value is false when a newer request for the same target started
// while this one was in flight; the caller must discard the result.
func (g *Gateway) Describe(ctx context.Context, target, text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return text, true
	}
	token := g.begin(target)

	var resp struct {
		Text string `json:"text"`
	}
	err := g.post(ctx, describeRequest{Kind: "describe", Text: text}, &resp)
	if err != nil || strings.TrimSpace(resp.Text) == "" {
		g.logFailure("describe", err)
		return FallbackDescription, g.isLatest(target, token)
	}
	return resp.Text, g.isLatest(target, token)
}

// EmailDraft asks the service for an invoice email subject and body. On any
// failure it returns a templated draft built from the invoice fields; the
// result is never empty. The second return value follows the same staleness
// contract as Describe.
func (g *Gateway) EmailDraft(ctx context.Context, target string, in DraftInput) (EmailDraft, bool) {
	token := g.begin(target)

	req := emailDraftRequest{
		Kind:          "emailDraft",
		InvoiceNumber: in.InvoiceNumber,
		TotalAmount:   fmt.Sprintf("%.2f", in.Total),
		DueDate:       in.DueDate,
		Status:        in.Status,
		ClientName:    in.ClientName,
	}
	var draft EmailDraft
	err := g.post(ctx, req, &draft)
	if err != nil || draft.Subject == "" || draft.Body == "" {
		g.logFailure("emailDraft", err)
		return fallbackDraft(in), g.isLatest(target, token)
	}
	return draft, g.isLatest(target, token)
}

// fallbackDraft builds the deterministic email used when the service is
// unavailable.
func fallbackDraft(in DraftInput) EmailDraft {
	company := in.CompanyName
	if company == "" {
		company = "our company"
	}
	return EmailDraft{
		Subject: fmt.Sprintf("Invoice %s from %s", in.InvoiceNumber, company),
		Body: fmt.Sprintf(
			"Hi %s,\n\nPlease find your invoice %s attached.\n\nTotal: $%.2f\nDue: %s",
			in.ClientName, in.InvoiceNumber, in.Total, in.DueDate,
		),
	}
}

func (g *Gateway) post(ctx context.Context, payload any, out any) error {
	if g.baseURL == "" {
		return fmt.Errorf("assistant disabled")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("assistant returned %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (g *Gateway) logFailure(kind string, err error) {
	if err == nil {
		err = fmt.Errorf("empty response")
	}
	g.log.WithError(err).WithField("kind", kind).Warn("assistant unavailable, using fallback")
}
