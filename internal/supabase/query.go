package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query builds a PostgREST read. Builders are single use and not safe for
// concurrent mutation.
type Query struct {
	client  *Client
	table   string
	params  url.Values
	orders  []string
	count   bool
	limited bool
}

// Result is a raw PostgREST answer.
type Result struct {
	Body []byte
	// Count is the exact row count when Count() was requested, else -1.
	Count int
}

// From starts a query on table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table, params: url.Values{"select": {"*"}}}
}

// Select sets the column list, including embedded resources.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", compactSelect(columns))
	return q
}

// Eq adds column = value.
func (q *Query) Eq(column string, value any) *Query { return q.filter(column, "eq", value) }

// Gte adds column >= value.
func (q *Query) Gte(column string, value any) *Query { return q.filter(column, "gte", value) }

// Lt adds column < value.
func (q *Query) Lt(column string, value any) *Query { return q.filter(column, "lt", value) }

// Order sorts by column. Multiple calls sort by each column in turn.
func (q *Query) Order(column string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	q.limited = true
	return q
}

// Count asks PostgREST for the exact number of matching rows.
func (q *Query) Count() *Query {
	q.count = true
	return q
}

// Execute runs the query.
func (q *Query) Execute(ctx context.Context) (Result, error) {
	params := cloneValues(q.params)
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	endpoint := q.client.restURL + "/" + url.PathEscape(q.table) + "?" + params.Encode()
	var headers map[string]string
	if q.count {
		headers = map[string]string{"Prefer": "count=exact"}
	}
	resp, err := q.client.do(ctx, "rest", http.MethodGet, endpoint, nil, headers)
	if err != nil {
		return Result{Count: -1}, err
	}
	count := -1
	if q.count {
		count = parseContentRange(resp.header.Get("Content-Range"))
	}
	return Result{Body: resp.body, Count: count}, nil
}

// Into runs the query and decodes the rows into dest.
func (q *Query) Into(ctx context.Context, dest any) (int, error) {
	res, err := q.Execute(ctx)
	if err != nil {
		return res.Count, err
	}
	if err := json.Unmarshal(res.Body, dest); err != nil {
		return res.Count, fmt.Errorf("supabase: decode %s: %w", q.table, err)
	}
	return res.Count, nil
}

// RPC calls a Postgres function and decodes its result into dest when dest is
// not nil.
func (c *Client) RPC(ctx context.Context, fn string, params any, dest any) error {
	if params == nil {
		params = map[string]any{}
	}
	resp, err := c.do(ctx, "rpc", http.MethodPost, c.restURL+"/rpc/"+url.PathEscape(fn), params, nil)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, dest); err != nil {
		return fmt.Errorf("supabase: decode rpc %s: %w", fn, err)
	}
	return nil
}

func (q *Query) filter(column, op string, value any) *Query {
	q.params.Add(column, op+"."+fmt.Sprint(value))
	return q
}

// parseContentRange reads the total from "0-9/42" or "*/0". An unknown total
// ("*") or a malformed header yields -1.
func parseContentRange(header string) int {
	_, total, ok := strings.Cut(strings.TrimSpace(header), "/")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimSpace(total))
	if err != nil {
		return -1
	}
	return n
}

// compactSelect strips whitespace from multi-line select expressions.
func compactSelect(columns string) string {
	return strings.Join(strings.Fields(columns), "")
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
