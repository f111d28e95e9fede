package dialogue

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wicaksana/tanya/errors"
)

// APIFallback calls the knowledge-authored external answer service. One
// bounded attempt per turn, no retry; any failure degrades to the static
// fallback tier.
type APIFallback struct {
	url    string
	client *http.Client
}

// NewAPIFallback builds a client for the given endpoint with a hard request
// timeout.
func NewAPIFallback(url string, timeout time.Duration) *APIFallback {
	return &APIFallback{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Ask sends the raw utterance as the q parameter and returns the service's
// answer field. An empty answer with a nil error is a valid outcome; the
// caller substitutes the default answer.
func (f *APIFallback) Ask(ctx context.Context, utterance string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to build fallback request")
	}
	q := req.URL.Query()
	q.Set("q", utterance)
	req.URL.RawQuery = q.Encode()

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fallback request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.Wrapf(errors.ErrFallbackUnavailable, "fallback returned status %d", resp.StatusCode)
	}

	var body struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "fallback returned malformed body")
	}
	return body.Answer, nil
}
