package whisperer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Job states reported by the extraction service. Unknown values are treated
// as still-processing so a new provider status does not break polling; the
// attempt cap still bounds the total wait.
const (
	statusProcessing = "processing"
	statusProcessed  = "processed"
	statusSuccess    = "success"
	statusError      = "error"
	statusFailed     = "failed"
)

// whisperResponse is the JSON shape shared by the submit, status and retrieve
// endpoints
type whisperResponse struct {
	Status        string `json:"status"`
	WhisperHash   string `json:"whisper_hash"`
	ExtractedText string `json:"extracted_text"`
	ResultText    string `json:"result_text"`
	Message       string `json:"message"`
}

// text returns the first non-empty inline text field, trimmed
func (r *whisperResponse) text() string {
	if t := strings.TrimSpace(r.ExtractedText); t != "" {
		return t
	}
	return strings.TrimSpace(r.ResultText)
}

// ExtractText submits document bytes to the extraction service and returns
// the extracted text, polling asynchronous jobs to completion. It fails with
// a typed error when unconfigured, on transport or HTTP failure, when the
// remote reports an error, when polling exhausts its attempt cap, or when the
// final text is empty.
func (c *Client) ExtractText(ctx context.Context, document []byte) (string, error) {
	// Check for required configuration before any network call
	if !c.Configured() {
		return "", &WhispererError{
			Op:  "validate_configuration",
			Err: ErrNotConfigured,
		}
	}

	response, err := c.submit(ctx, document)
	if err != nil {
		return "", err
	}

	// Immediate completion: the submit response carried the text inline
	if text := response.text(); text != "" {
		return text, nil
	}

	// Asynchronous completion: a job handle plus a processing status
	if response.WhisperHash == "" {
		return "", &WhispererError{
			Op:  "check_submit_response",
			Err: ErrEmptyResult,
		}
	}

	c.log.Debug().
		Str("whisper_hash", response.WhisperHash).
		Msg("extraction accepted for asynchronous processing")

	return c.pollUntilComplete(ctx, response.WhisperHash)
}

// submit POSTs the raw document bytes under a deadline independent of the
// polling cap
func (c *Client) submit(ctx context.Context, document []byte) (*whisperResponse, error) {
	submitCtx, cancel := context.WithTimeout(ctx, c.submitTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(submitCtx, http.MethodPost, c.baseURL+submitPath, bytes.NewReader(document))
	if err != nil {
		return nil, &WhispererError{
			Op:  "create_submit_request",
			Err: err,
		}
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &WhispererError{
				Op:  "submit_document",
				Err: fmt.Errorf("submit deadline of %s exceeded: %w", c.submitTimeout, err),
			}
		}
		return nil, &WhispererError{
			Op:  "submit_document",
			Err: err,
		}
	}
	defer resp.Body.Close()

	return c.decodeResponse("submit", resp)
}

// pollUntilComplete polls the status endpoint at a fixed interval until the
// job reaches a terminal state or the attempt cap is exhausted
func (c *Client) pollUntilComplete(ctx context.Context, whisperHash string) (string, error) {
	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return "", &WhispererError{
				Op:  "poll_status",
				Err: ctx.Err(),
			}
		case <-time.After(c.pollInterval):
		}

		response, err := c.pollStatus(ctx, whisperHash)
		if err != nil {
			return "", err
		}

		switch strings.ToLower(response.Status) {
		case statusProcessed, statusSuccess:
			if text := response.text(); text != "" {
				return text, nil
			}
			// Status response lacked inline text; one retrieval call before
			// concluding failure
			return c.retrieve(ctx, whisperHash)

		case statusError, statusFailed:
			message := response.Message
			if message == "" {
				message = "no error message reported"
			}
			return "", &RemoteError{
				WhisperHash: whisperHash,
				Message:     message,
			}

		case statusProcessing:
			// Still running, keep polling
		default:
			// Unknown status values are not fatal; the attempt cap bounds
			// how long we tolerate them
			c.log.Debug().
				Str("whisper_hash", whisperHash).
				Str("status", response.Status).
				Int("attempt", attempt).
				Msg("unrecognized job status, continuing to poll")
		}
	}

	return "", &PollTimeoutError{
		WhisperHash: whisperHash,
		Attempts:    c.maxPollAttempts,
	}
}

// pollStatus issues one status call for the given job handle
func (c *Client) pollStatus(ctx context.Context, whisperHash string) (*whisperResponse, error) {
	endpoint := fmt.Sprintf("%s%s?whisper_hash=%s", c.baseURL, statusPath, url.QueryEscape(whisperHash))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &WhispererError{
			Op:  "create_status_request",
			Err: err,
		}
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &WhispererError{
			Op:  "poll_status",
			Err: err,
		}
	}
	defer resp.Body.Close()

	return c.decodeResponse("status", resp)
}

// retrieve fetches the final text for a processed job whose status response
// carried no inline text. The response is JSON or plain text depending on the
// content type.
func (c *Client) retrieve(ctx context.Context, whisperHash string) (string, error) {
	endpoint := fmt.Sprintf("%s%s?whisper_hash=%s", c.baseURL, retrievePath, url.QueryEscape(whisperHash))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", &WhispererError{
			Op:  "create_retrieve_request",
			Err: err,
		}
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &WhispererError{
			Op:  "retrieve_result",
			Err: err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &WhispererError{
			Op:  "read_retrieve_response",
			Err: err,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &HTTPStatusError{
			Op:         "retrieve",
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
		}
	}

	var text string
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		var response whisperResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return "", &WhispererError{
				Op:  "parse_retrieve_response",
				Err: err,
			}
		}
		text = response.text()
	} else {
		text = strings.TrimSpace(string(body))
	}

	if text == "" {
		return "", &WhispererError{
			Op:  "validate_retrieve_response",
			Err: ErrEmptyResult,
		}
	}

	return text, nil
}

// decodeResponse reads a JSON endpoint response, mapping non-success HTTP
// statuses to a typed error
func (c *Client) decodeResponse(op string, resp *http.Response) (*whisperResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &WhispererError{
			Op:  "read_" + op + "_response",
			Err: err,
		}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPStatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
		}
	}

	var response whisperResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &WhispererError{
			Op:  "parse_" + op + "_response",
			Err: err,
		}
	}

	return &response, nil
}

// truncateBody caps error payloads so log lines stay readable
func truncateBody(body []byte) string {
	const maxLen = 512
	s := string(body)
	if len(s) > maxLen {
		return s[:maxLen] + "... (truncated)"
	}
	return s
}
