// Package telemetry forwards onboarding survey responses to the vendor.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/goinsights/goinsights/internal/config"
)

// FormField is the form field carrying the encoded responses.
const FormField = "response"

// ErrUnexpectedStatus is returned by Post for non-2xx replies.
var ErrUnexpectedStatus = errors.New("unexpected status from survey endpoint")

// ErrTrailingData is returned by Encode when data follows the survey responses.
var ErrTrailingData = errors.New("trailing data after survey responses")

// Client posts survey responses to the telemetry endpoint.
type Client struct {
	url     string
	timeout time.Duration
	enabled bool
}

// NewClient creates a client from the telemetry settings.
func NewClient(cfg config.Telemetry) *Client {
	return &Client{url: cfg.SurveyURL, timeout: cfg.Timeout, enabled: cfg.Enabled}
}

// Submit forwards the responses. Nothing is returned; every failure is logged.
func (c *Client) Submit(ctx context.Context, responses []byte) {
	if !c.enabled {
		log.Debug().Msg("telemetry disabled, survey responses dropped")
		return
	}

	if err := c.Post(ctx, responses); err != nil {
		log.Error().Err(err).Str("url", c.url).Msg("error submitting survey responses")
	}
}

// Post encodes the responses and sends them as the response form field.
func (c *Client) Post(ctx context.Context, responses []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := Encode(responses)
	if err != nil {
		return err
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)

	args.SetBytesV(FormField, encoded)

	agent := fiber.Post(c.url).Form(args)
	if c.timeout > 0 {
		agent = agent.Timeout(c.timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Wrap(errs[0], "post survey responses")
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return errors.Wrapf(ErrUnexpectedStatus, "%d: %s", code, truncate(body))
	}

	log.Info().Int("status", code).Msg("survey responses submitted")

	return nil
}

// Encode decodes a JSON payload and re-encodes it with four-space
// indentation. A payload that decodes to a string is decoded once more, so
// JSON text sent as a string is forwarded as the value it holds.
func Encode(payload []byte) ([]byte, error) {
	v, err := decode(payload)
	if err != nil {
		return nil, err
	}

	if s, ok := v.(string); ok {
		if v, err = decode([]byte(s)); err != nil {
			return nil, err
		}
	}

	out, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode survey responses: %w", err)
	}

	return out, nil
}

// decode reads exactly one JSON value from data.
func decode(data []byte) (any, error) {
	var v any

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode survey responses")
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	return v, nil
}

func truncate(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}

	return string(body)
}
