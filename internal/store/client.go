package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/clearproof/api/logging"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "store"})

// Client provides access to the SmartSuite workspace that acts as the system
// of record for the service.
type Client struct {
	baseURL     string
	apiKey      string
	workspaceID string
	httpClient  *http.Client
}

// NewClient creates a new SmartSuite client.
func NewClient(baseURL, apiKey, workspaceID string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		workspaceID: workspaceID,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Record is a raw SmartSuite record: vendor-assigned column identifiers
// mapped to values. The semantic field translation lives in fields.go.
type Record map[string]interface{}

// listResponse is the envelope SmartSuite returns for record listings.
type listResponse struct {
	Total int      `json:"total"`
	Items []Record `json:"items"`
}

// APIError represents a non-2xx response from the SmartSuite API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("smartsuite api error: %d %s", e.StatusCode, e.Body)
}

// IsTransient determines whether or not an error from the client represents a
// transient store failure. Transport errors and 5xx responses are transient;
// they must surface as request failures rather than being read as an allow or
// deny verdict.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return err != nil
}

// do performs a single request against the SmartSuite API and decodes the
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	wrapMsg := "smartsuite request failed"

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, wrapMsg)
		}
		body = bytes.NewReader(encoded)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Account-Id", c.workspaceID)
	req.Header.Set("Content-Type", "application/json")

	log.WithFields(logrus.Fields{"method": method, "url": url}).Trace("smartsuite request")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, wrapMsg)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Body: string(resBody)}
	}

	if out != nil {
		if err := json.Unmarshal(resBody, out); err != nil {
			return errors.Wrap(err, wrapMsg)
		}
	}

	return nil
}

// tablePath resolves a collection name to the vendor table path.
func tablePath(collection string) (string, error) {
	tableID, ok := tableIDs[collection]
	if !ok {
		return "", fmt.Errorf("unknown collection: %s", collection)
	}
	return "/" + tableID, nil
}

// ListRecords lists all of the records in a collection.
func (c *Client) ListRecords(ctx context.Context, collection string) ([]Record, error) {
	path, err := tablePath(collection)
	if err != nil {
		return nil, err
	}

	// SmartSuite listings are POST requests with filter criteria in the body.
	var res listResponse
	err = c.do(ctx, http.MethodPost, path+"/records/list/", map[string]interface{}{}, &res)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// GetRecord retrieves a single record by ID.
func (c *Client) GetRecord(ctx context.Context, collection, id string) (Record, error) {
	path, err := tablePath(collection)
	if err != nil {
		return nil, err
	}

	var rec Record
	err = c.do(ctx, http.MethodGet, fmt.Sprintf("%s/records/%s/", path, id), nil, &rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateRecord creates a record in a collection and returns the stored
// record, including the vendor-assigned identifier.
func (c *Client) CreateRecord(ctx context.Context, collection string, fields Record) (Record, error) {
	path, err := tablePath(collection)
	if err != nil {
		return nil, err
	}

	var rec Record
	err = c.do(ctx, http.MethodPost, path+"/records/", fields, &rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateRecord applies a partial update to a record.
func (c *Client) UpdateRecord(ctx context.Context, collection, id string, fields Record) (Record, error) {
	path, err := tablePath(collection)
	if err != nil {
		return nil, err
	}

	var rec Record
	err = c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/records/%s/", path, id), fields, &rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteRecord removes a record from a collection.
func (c *Client) DeleteRecord(ctx context.Context, collection, id string) error {
	path, err := tablePath(collection)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/records/%s/", path, id), nil, nil)
}
