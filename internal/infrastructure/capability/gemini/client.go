// Package gemini adapts the external classification capability. It owns
// the request construction, the HTTP transport, and the mapping of
// transport failures onto the domain error taxonomy; response validation
// is delegated to the validate package.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/documind/docrouter/internal/core/domain"
	"github.com/documind/docrouter/internal/core/validate"
	"github.com/documind/docrouter/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	taxonomy   Taxonomy
	httpClient *http.Client
	executor   *resilience.Executor
}

type Options struct {
	Timeout  time.Duration
	Executor *resilience.Executor
}

func New(baseURL, model, apiKey string, tax Taxonomy, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		taxonomy:   tax,
		httpClient: &http.Client{Timeout: timeout},
		executor:   options.Executor,
	}
}

// Classify sends the PDF payload to the capability and returns the
// validated classification. Transport failures (network, timeout,
// retryable HTTP status) surface as ErrUpstreamUnavailable after the
// resilience policy is exhausted; validation failures pass through from
// the validate package untouched.
func (c *Client) Classify(ctx context.Context, fileName string, payload []byte) (domain.Classification, error) {
	request, err := buildClassifyRequest(c.taxonomy, payload)
	if err != nil {
		return domain.Classification{}, err
	}

	var raw string
	call := func(callCtx context.Context) error {
		text, callErr := c.generateContent(callCtx, request)
		if callErr != nil {
			return callErr
		}
		raw = text
		return nil
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "gemini.classify", call, classifyTransportError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.Classification{}, wrapUpstream(fmt.Sprintf("classify %s", fileName), err)
	}

	classification, err := validate.Classification(raw)
	if err != nil {
		return domain.Classification{}, err
	}
	return classification, nil
}
