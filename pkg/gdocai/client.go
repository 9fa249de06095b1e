package gdocai

import (
	"context"
	"fmt"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	gax "github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

// retryCodes are the transient statuses worth another attempt
var retryCodes = []codes.Code{
	codes.Unavailable,
	codes.DeadlineExceeded,
	codes.ResourceExhausted,
}

// ProcessDocument sends PDF bytes to Google Document AI for processing
// and returns the raw Document proto response
func ProcessDocument(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithEndpoint(cfg.endpoint())}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	req := &documentaipb.ProcessRequest{
		Name: cfg.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	resp, err := client.ProcessDocument(ctx, req, gax.WithRetry(func() gax.Retryer {
		return newRetryer(cfg.MaxAttempts)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	return resp.Document, nil
}

// attemptRetryer stops an exponential backoff after a fixed number of attempts
type attemptRetryer struct {
	inner gax.Retryer
	left  int
}

func newRetryer(attempts int) gax.Retryer {
	return &attemptRetryer{
		inner: gax.OnCodes(retryCodes, gax.Backoff{
			Initial:    500 * time.Millisecond,
			Max:        10 * time.Second,
			Multiplier: 2,
		}),
		left: attempts,
	}
}

// Retry reports whether the failed call should run again and after what pause
func (r *attemptRetryer) Retry(err error) (time.Duration, bool) {
	if r.left <= 1 {
		return 0, false
	}
	r.left--
	return r.inner.Retry(err)
}
