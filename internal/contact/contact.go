// Package contact handles the storefront contact form: validation of the
// collected fields and submission to the configured endpoint.
package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/redbuilds/storefront/internal/validate"
)

// ErrSubmitFailed means the endpoint rejected the submission or could not be
// reached. The caller keeps the form as-is so the user can retry.
var ErrSubmitFailed = errors.New("contact submission failed")

type Form struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
	Accept  bool
}

// Validate collects every failed field; phone is optional here.
func (f Form) Validate() validate.FieldErrors {
	var errs validate.FieldErrors
	errs.Add("name", validate.Name(f.Name))
	errs.Add("email", validate.Email(f.Email))
	errs.Add("phone", validate.Phone(f.Phone))
	errs.Add("subject", validate.Subject(f.Subject))
	errs.Add("message", validate.Message(f.Message))
	errs.Add("accept", validate.Accepted(f.Accept))
	return errs
}

type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Submit validates the form and posts it as a multipart body. Any 2xx
// response is success.
func (c *Client) Submit(ctx context.Context, f Form) error {
	if errs := f.Validate(); len(errs) > 0 {
		return errs
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"name":    f.Name,
		"email":   f.Email,
		"phone":   f.Phone,
		"subject": f.Subject,
		"message": f.Message,
		"accept":  strconv.FormatBool(f.Accept),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("encode form field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize form body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return fmt.Errorf("build contact request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d", ErrSubmitFailed, resp.StatusCode)
	}
	return nil
}
