// Package sms holds outbound OTP delivery providers.
package sms

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"librarium/internal/pkg/errs"
)

const kavenegarEndpoint = "https://api.kavenegar.com/v1/%s/sms/send.json"

// KavenegarProvider sends codes through the Kavenegar REST API.
type KavenegarProvider struct {
	apiKey string
	client *http.Client
}

func NewKavenegarProvider(apiKey string) *KavenegarProvider {
	return &KavenegarProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *KavenegarProvider) Send(ctx context.Context, code, recipient string) error {
	endpoint := strings.Replace(kavenegarEndpoint, "%s", url.PathEscape(p.apiKey), 1)

	form := url.Values{}
	form.Set("receptor", recipient)
	form.Set("message", "Your login code: "+code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errs.Wrap(err, "build kavenegar request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return errs.Wrap(err, "send kavenegar request")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.New("kavenegar rejected request: " + resp.Status)
	}
	return nil
}
