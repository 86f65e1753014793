package sheetclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"maktub/internal/model"
	"maktub/pkg/circuitbreaker"
	"maktub/pkg/config"
)

// Client talks to the spreadsheet-backed data store: positional sheet reads
// plus the action endpoint for mutations. Mutations use a real
// request/response contract so callers can tell whether the remote write
// actually happened before invalidating any local cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	logger     *zap.Logger
}

func New(cfg config.SheetStoreConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:     logger,
	}
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// FetchLetters reads the Submissions sheet and decodes it.
func (c *Client) FetchLetters(ctx context.Context) ([]model.LetterRecord, error) {
	values, err := c.fetchValues(ctx, SheetSubmissions)
	if err != nil {
		return nil, err
	}
	return DecodeSubmissions(values), nil
}

// FetchWhitelist reads the Whitelist sheet and decodes it.
func (c *Client) FetchWhitelist(ctx context.Context) ([]model.WhitelistEntry, error) {
	values, err := c.fetchValues(ctx, SheetWhitelist)
	if err != nil {
		return nil, err
	}
	return DecodeWhitelist(values), nil
}

// FetchSettings reads the Settings sheet and decodes the dropdown
// vocabularies.
func (c *Client) FetchSettings(ctx context.Context) (model.Settings, error) {
	values, err := c.fetchValues(ctx, SheetSettings)
	if err != nil {
		return model.Settings{}, err
	}
	return DecodeSettings(values), nil
}

func (c *Client) fetchValues(ctx context.Context, sheet string) ([][]string, error) {
	var values [][]string

	err := c.cb.Execute(func() error {
		endpoint := fmt.Sprintf("%s/sheets/%s/values", c.baseURL, sheet)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", sheet, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetch %s: unexpected status %d", sheet, resp.StatusCode)
		}

		var decoded valuesResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("decode %s values: %w", sheet, err)
		}
		values = decoded.Values
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// UpdateReviewStatus updates the review fields of one letter. An optional
// non-empty letterContent replaces the stored content.
func (c *Client) UpdateReviewStatus(ctx context.Context, letterID, status, reviewerName, notes, letterContent string) error {
	form := url.Values{}
	form.Set("action", "updateReviewStatus")
	form.Set("letterId", letterID)
	form.Set("status", status)
	form.Set("reviewerName", reviewerName)
	form.Set("notes", notes)
	if letterContent != "" {
		form.Set("letterContent", letterContent)
	}
	return c.postAction(ctx, form)
}

// DeleteLetter removes one letter row.
func (c *Client) DeleteLetter(ctx context.Context, letterID string) error {
	form := url.Values{}
	form.Set("action", "deleteLetter")
	form.Set("letterId", letterID)
	return c.postAction(ctx, form)
}

func (c *Client) postAction(ctx context.Context, form url.Values) error {
	endpoint := c.baseURL + "/exec"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("action %s: %w", form.Get("action"), err)
	}
	defer resp.Body.Close()

	var decoded actionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode action response: %w", err)
	}

	if !decoded.Success {
		c.logger.Warn("Store action rejected",
			zap.String("action", form.Get("action")),
			zap.String("message", decoded.Message),
		)
		return fmt.Errorf("action %s failed: %s", form.Get("action"), decoded.Message)
	}
	return nil
}
