package desk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tariffdesk/tariffdesk-backend/internal/catalog"
	"github.com/tariffdesk/tariffdesk-backend/internal/expiring"
	"github.com/tariffdesk/tariffdesk-backend/internal/history"
	"github.com/tariffdesk/tariffdesk-backend/internal/increases"
	"github.com/tariffdesk/tariffdesk-backend/internal/rangedtariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	dbtypes "github.com/tariffdesk/tariffdesk-backend/pkg/db/types"
)

const (
	defaultTimeout     = 15 * time.Second
	errorBodyReadLimit = 4096
	actorHeader        = "X-Actor"
	idempotencyHeader  = "Idempotency-Key"
	contentTypeJSON    = "application/json"
)

var errBaseURLRequired = errors.New("tariff service base url is required")

// Client talks to the tariff service over HTTP JSON.
type Client struct {
	httpClient *http.Client
	baseURL    string
	actor      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithActor sets the X-Actor header sent with every request.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = strings.TrimSpace(actor)
	}
}

// NewClient builds a client rooted at baseURL, e.g. http://127.0.0.1:5000/api.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Actor returns the name sent as X-Actor.
func (c *Client) Actor() string { return c.actor }

// TariffPayload is the body of tariff create and update calls.
type TariffPayload struct {
	ClientID     int64            `json:"client_id"`
	ItemID       int64            `json:"item_id"`
	UnitID       int64            `json:"unit_id"`
	Price        decimal.Decimal  `json:"price"`
	Minimum      *decimal.Decimal `json:"minimum,omitempty"`
	IncrementPct decimal.Decimal  `json:"increment_pct"`
	ValidFrom    dbtypes.Date     `json:"valid_from"`
	ValidTo      *dbtypes.Date    `json:"valid_to,omitempty"`
}

// RangedTariffPayload is a tariff payload plus the quantity band it covers.
type RangedTariffPayload struct {
	TariffPayload
	FromQty decimal.Decimal `json:"from_qty"`
	ToQty   decimal.Decimal `json:"to_qty"`
}

type namePayload struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"category_id,omitempty"`
}

// IncreasePayload is the body of the bulk increase call.
type IncreasePayload struct {
	Criterion     string          `json:"criterion"`
	SelectionID   int64           `json:"selection_id"`
	IncludeClient bool            `json:"include_client"`
	ClientID      int64           `json:"client_id,omitempty"`
	DateFrom      *dbtypes.Date   `json:"date_from,omitempty"`
	DateTo        *dbtypes.Date   `json:"date_to,omitempty"`
	Percentage    decimal.Decimal `json:"percentage"`
	User          string          `json:"user"`
}

func (c *Client) ListClients(ctx context.Context) ([]catalog.Entity, error) {
	var out []catalog.Entity
	return out, c.do(ctx, http.MethodGet, "/clients", nil, &out)
}

func (c *Client) ListCategories(ctx context.Context) ([]catalog.Entity, error) {
	var out []catalog.Entity
	return out, c.do(ctx, http.MethodGet, "/categories", nil, &out)
}

func (c *Client) ListUnits(ctx context.Context) ([]catalog.Entity, error) {
	var out []catalog.Entity
	return out, c.do(ctx, http.MethodGet, "/units", nil, &out)
}

func (c *Client) ListItems(ctx context.Context) ([]catalog.ItemView, error) {
	var out []catalog.ItemView
	return out, c.do(ctx, http.MethodGet, "/items", nil, &out)
}

func (c *Client) ListTariffs(ctx context.Context) ([]tariffs.View, error) {
	var out []tariffs.View
	return out, c.do(ctx, http.MethodGet, "/tariffs", nil, &out)
}

func (c *Client) ListRangedTariffs(ctx context.Context) ([]rangedtariffs.View, error) {
	var out []rangedtariffs.View
	return out, c.do(ctx, http.MethodGet, "/ranged_tariffs", nil, &out)
}

func (c *Client) ListExpiring(ctx context.Context) ([]expiring.Client, error) {
	var out []expiring.Client
	return out, c.do(ctx, http.MethodGet, "/expiring_tariffs", nil, &out)
}

// ListHistory fetches movements; query holds already-encoded filters.
func (c *Client) ListHistory(ctx context.Context, query url.Values) ([]history.View, error) {
	path := "/historical_tariffs"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var out []history.View
	return out, c.do(ctx, http.MethodGet, path, nil, &out)
}

func (c *Client) CreateTariff(ctx context.Context, payload TariffPayload) (*tariffs.View, error) {
	var out tariffs.View
	if err := c.do(ctx, http.MethodPost, "/tariffs", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTariff(ctx context.Context, id int64, payload TariffPayload) (*tariffs.View, error) {
	var out tariffs.View
	if err := c.do(ctx, http.MethodPut, "/tariffs/"+strconv.FormatInt(id, 10), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTariff(ctx context.Context, id int64) error {
	return c.DeleteEntity(ctx, "tariffs", id)
}

func (c *Client) CreateRangedTariff(ctx context.Context, payload RangedTariffPayload) (*rangedtariffs.View, error) {
	var out rangedtariffs.View
	if err := c.do(ctx, http.MethodPost, "/ranged_tariffs", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRangedTariff(ctx context.Context, id int64, payload RangedTariffPayload) (*rangedtariffs.View, error) {
	var out rangedtariffs.View
	if err := c.do(ctx, http.MethodPut, "/ranged_tariffs/"+strconv.FormatInt(id, 10), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRangedTariff(ctx context.Context, id int64) error {
	return c.DeleteEntity(ctx, "ranged_tariffs", id)
}

// DeleteEntity removes one row of the collection named by resource.
func (c *Client) DeleteEntity(ctx context.Context, resource string, id int64) error {
	return c.do(ctx, http.MethodDelete, "/"+resource+"/"+strconv.FormatInt(id, 10), nil, nil)
}

// SaveEntity creates (id nil) or renames a client, unit or category. resource
// is the collection path segment.
func (c *Client) SaveEntity(ctx context.Context, resource string, id *int64, name string) (*catalog.Entity, error) {
	var out catalog.Entity
	if err := c.save(ctx, resource, id, namePayload{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveItem(ctx context.Context, id *int64, name string, categoryID int64) (*catalog.ItemView, error) {
	var out catalog.ItemView
	if err := c.save(ctx, "items", id, namePayload{Name: name, CategoryID: categoryID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkIncrease posts one increase submission. Retries of the same submission
// must reuse idempotencyKey so the server applies the percentage once.
func (c *Client) BulkIncrease(ctx context.Context, payload IncreasePayload, idempotencyKey string) (*increases.Result, error) {
	var header http.Header
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		header = http.Header{idempotencyHeader: []string{key}}
	}
	var out increases.Result
	if err := c.doRequest(ctx, http.MethodPost, "/bulk_tariff_update", payload, &out, header); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) save(ctx context.Context, resource string, id *int64, body, out any) error {
	if id == nil {
		return c.do(ctx, http.MethodPost, "/"+resource, body, out)
	}
	return c.do(ctx, http.MethodPut, "/"+resource+"/"+strconv.FormatInt(*id, 10), body, out)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Message string `json:"message"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	return c.doRequest(ctx, method, path, body, out, nil)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, out any, header http.Header) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", contentTypeJSON)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if c.actor != "" {
		req.Header.Set(actorHeader, c.actor)
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	apiErr := &APIError{Status: resp.StatusCode}
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && (env.Error.Code != "" || env.Message != "") {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Message
		if apiErr.Message == "" {
			apiErr.Message = env.Error.Message
		}
		apiErr.Details = env.Error.Details
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(raw))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
