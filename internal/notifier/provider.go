package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Provider is a single mail delivery backend fronted by a breaker.
type Provider interface {
	Name() string
	Ready() bool
	Acquire() bool
	Send(ctx context.Context, recipient, subject, body string) error
	Configured() bool
}

// HTTPProvider delivers through a JSON-over-HTTP mail API
// (mailgun/sendgrid style: bearer key, from/to/subject/text body).
type HTTPProvider struct {
	name     string
	baseURL  string
	sendPath string
	apiKey   string
	from     string
	client   *http.Client
	br       *Breaker
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func NewHTTPProvider(
	name, baseURL, sendPath, apiKey, from string,
	timeoutMs, failThreshold, openForMs int,
) *HTTPProvider {
	if timeoutMs <= 0 {
		timeoutMs = 3000
	}

	if failThreshold <= 0 {
		failThreshold = 3
	}

	if openForMs <= 0 {
		openForMs = 15000
	}

	return &HTTPProvider{
		name:     name,
		baseURL:  baseURL,
		sendPath: sendPath,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		br:       NewBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
}

func (p *HTTPProvider) Name() string  { return p.name }
func (p *HTTPProvider) Ready() bool   { return p.br.Ready() }
func (p *HTTPProvider) Acquire() bool { return p.br.TryAcquire() }

func (p *HTTPProvider) Configured() bool {
	return p.baseURL != "" && p.apiKey != ""
}

func (p *HTTPProvider) Send(ctx context.Context, recipient, subject, body string) error {
	if err := p.post(ctx, recipient, subject, body); err != nil {
		p.br.OnFailure()
		return err
	}

	p.br.OnSuccess()

	return nil
}

func (p *HTTPProvider) post(ctx context.Context, recipient, subject, body string) error {
	b, _ := json.Marshal(sendRequest{
		From:    p.from,
		To:      recipient,
		Subject: subject,
		Text:    body,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+p.sendPath, bytes.NewReader(b))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	res, err := p.client.Do(req)
	if err != nil {
		return err
	}

	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		return fmt.Errorf("provider=%s status=%d", p.name, res.StatusCode)
	}

	return nil
}
