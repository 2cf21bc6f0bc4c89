package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sahab-dev/edgeauth/pkg/api"
	"github.com/sahab-dev/edgeauth/pkg/provider"
)

// QueryBuilder assembles a read against the provider's table endpoint
// (From(table).Select(...).Eq(...)). It is not safe for concurrent use;
// build and execute a query within a single goroutine.
type QueryBuilder struct {
	client  *Client
	table   string
	columns string
	filters url.Values
	single  bool
}

// From starts a query against the named table.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client:  c,
		table:   table,
		columns: "*",
		filters: url.Values{},
	}
}

// Select sets the column projection. Defaults to "*".
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	if columns != "" {
		q.columns = columns
	}
	return q
}

// Eq adds an equality filter on the given column.
func (q *QueryBuilder) Eq(column, value string) *QueryBuilder {
	q.filters.Set(column, "eq."+value)
	return q
}

// Single requests exactly one row. The provider returns a bare object
// instead of an array, and responds 406 when no row matches.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.single = true
	return q
}

// Execute runs the query and decodes the response into dest. A Single
// query that matches no row returns provider.ErrNotFound.
func (q *QueryBuilder) Execute(ctx context.Context, dest any) error {
	if q.table == "" {
		return errors.New("supabase: table name is required")
	}

	params := url.Values{}
	params.Set("select", q.columns)
	for column, values := range q.filters {
		for _, v := range values {
			params.Add(column, v)
		}
	}

	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", q.client.baseURL, url.PathEscape(q.table), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}

	req.Header.Set("apikey", q.client.anonKey)
	bearer := q.client.accessToken()
	if bearer == "" {
		bearer = q.client.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := q.client.httpClient.Do(req)
	if err != nil {
		return mapNetworkError(err)
	}
	defer resp.Body.Close()

	// PostgREST answers 406 when a single-object request matches no row.
	if q.single && resp.StatusCode == http.StatusNotAcceptable {
		return provider.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapHTTPError(resp)
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return api.NewServerError(fmt.Sprintf("failed to parse table response: %s", err.Error()))
		}
	}
	return nil
}
