// Package warehouse interfaces with the remote warehouse service. The
// client makes exactly one attempt per call: retrying is the mutation
// queue's job, and each retry must consume exactly one sync credit.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	idempotencyKeyHeader = "Idempotency-Key"
)

// Client interfaces with the warehouse service REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new warehouse service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope is the service's uniform response wrapper: every mutating call
// returns either success=true or a structured failure.
type envelope struct {
	Success      bool            `json:"success"`
	ErrorCode    string          `json:"errorCode,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	Value        json.RawMessage `json:"value,omitempty"`
}

// ItemData represents an item row returned by search and catalog listing
type ItemData struct {
	ProductID       string     `json:"productId"`
	Article         string     `json:"article"`
	Barcode         string     `json:"barcode"`
	Name            string     `json:"name"`
	Quantity        int        `json:"quantity"`
	PlannedQuantity int        `json:"plannedQuantity"`
	UnitTypeID      string     `json:"unitTypeId"`
	Condition       string     `json:"condition"`
	ExpirationDate  *time.Time `json:"expirationDate,omitempty"`
	WarehouseID     string     `json:"warehouseId"`
}

// EmployeeData represents an employee lookup result
type EmployeeData struct {
	BadgeNumber string `json:"badgeNumber"`
	FullName    string `json:"fullName"`
	Role        string `json:"role"`
	WarehouseID string `json:"warehouseId"`
}

// UnitData represents a storage unit attached to an article
type UnitData struct {
	UnitID     string `json:"unitId"`
	UnitTypeID string `json:"unitTypeId"`
	Article    string `json:"article"`
	Quantity   int    `json:"quantity"`
	CellID     string `json:"cellId"`
}

// PlacementRequest creates a placement on the service side
type PlacementRequest struct {
	PlacementID    string     `json:"placementId"`
	Article        string     `json:"article"`
	Barcode        string     `json:"barcode"`
	UnitTypeID     string     `json:"unitTypeId"`
	Quantity       int        `json:"quantity"`
	CellBarcode    string     `json:"cellBarcode"`
	Condition      string     `json:"condition"`
	Reason         string     `json:"reason,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// ConfirmPlacementRequest confirms a previously created placement
type ConfirmPlacementRequest struct {
	PlacementID string `json:"placementId"`
	CellBarcode string `json:"cellBarcode"`
}

// AdjustmentRequest submits an inventory count correction
type AdjustmentRequest struct {
	AdjustmentID     string     `json:"adjustmentId"`
	ProductID        string     `json:"productId"`
	LocationID       string     `json:"locationId"`
	ExpectedQuantity int        `json:"expectedQuantity"`
	ActualQuantity   int        `json:"actualQuantity"`
	Condition        string     `json:"condition"`
	Reason           string     `json:"reason,omitempty"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
}

// PickRequest removes a unit from a cell
type PickRequest struct {
	UnitID   string `json:"unitId"`
	CellID   string `json:"cellId"`
	Quantity int    `json:"quantity"`
}

// MoveRequest relocates a unit between cells
type MoveRequest struct {
	UnitID     string `json:"unitId"`
	FromCellID string `json:"fromCellId"`
	ToCellID   string `json:"toCellId"`
	Quantity   int    `json:"quantity"`
}

// SearchItems queries items and locations matching the query string.
func (c *Client) SearchItems(ctx context.Context, query, warehouseID string) ([]ItemData, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("warehouseId", warehouseID)

	var items []ItemData
	if err := c.get(ctx, "/api/items/search?"+params.Encode(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListCatalog fetches the full catalog page for a warehouse.
func (c *Client) ListCatalog(ctx context.Context, warehouseID string) ([]ItemData, error) {
	params := url.Values{}
	params.Set("warehouseId", warehouseID)

	var items []ItemData
	if err := c.get(ctx, "/api/catalog?"+params.Encode(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetEmployee looks up an employee by badge number.
func (c *Client) GetEmployee(ctx context.Context, badge string) (*EmployeeData, error) {
	var employee EmployeeData
	if err := c.get(ctx, "/api/employees/"+url.PathEscape(badge), &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ListUnits lists storage units attached to an article.
func (c *Client) ListUnits(ctx context.Context, article string) ([]UnitData, error) {
	params := url.Values{}
	params.Set("article", article)

	var units []UnitData
	if err := c.get(ctx, "/api/units?"+params.Encode(), &units); err != nil {
		return nil, err
	}
	return units, nil
}

// CreatePlacement creates a placement. idempotencyKey is the key minted
// when the record was enqueued; the service deduplicates on it, so a retry
// after an ambiguous timeout cannot create a duplicate placement.
func (c *Client) CreatePlacement(ctx context.Context, req PlacementRequest, idempotencyKey string) error {
	return c.post(ctx, "/api/placements", req, idempotencyKey)
}

// ConfirmPlacement confirms a previously created placement.
func (c *Client) ConfirmPlacement(ctx context.Context, req ConfirmPlacementRequest, idempotencyKey string) error {
	return c.post(ctx, "/api/placements/confirm", req, idempotencyKey)
}

// SubmitAdjustment submits an inventory count correction.
func (c *Client) SubmitAdjustment(ctx context.Context, req AdjustmentRequest, idempotencyKey string) error {
	return c.post(ctx, "/api/adjustments", req, idempotencyKey)
}

// PickItem removes a unit from a cell.
func (c *Client) PickItem(ctx context.Context, req PickRequest) error {
	return c.post(ctx, "/api/picks", req, "")
}

// MoveItem relocates a unit between cells.
func (c *Client) MoveItem(ctx context.Context, req MoveRequest) error {
	return c.post(ctx, "/api/moves", req, "")
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, idempotencyKey string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(idempotencyKeyHeader, idempotencyKey)
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 500 {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			Code:    fmt.Sprintf("http_%d", resp.StatusCode),
			Message: string(body),
		}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &TransportError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !env.Success {
		return &APIError{Code: env.ErrorCode, Message: env.ErrorMessage}
	}
	if out != nil {
		if err := json.Unmarshal(env.Value, out); err != nil {
			return &TransportError{Err: fmt.Errorf("failed to decode response value: %w", err)}
		}
	}
	return nil
}
