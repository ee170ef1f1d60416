// Package client talks to the deal notes API and keeps a query cache in
// front of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
	"github.com/SergeyParamoshkin/dealnotes/internal/user"
)

// ErrRequestFailed is wrapped by every non-2xx response.
var ErrRequestFailed = errors.New("request failed")

// StatusError carries the status of a failed request.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return http.StatusText(e.StatusCode) + ": " + e.Message
	}

	return http.StatusText(e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrRequestFailed }

type Client struct {
	http.Client
	Addr string

	// UserID is sent as X-User-ID when set.
	UserID string
}

func New(addr string) *Client {
	return &Client{Addr: addr}
}

func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (c *Client) ListDealNotes(ctx context.Context, dealID string) (*model.ListDealNotesResult, error) {
	var out model.ListDealNotesResult
	if err := c.call(ctx, http.MethodGet, notesPath(dealID), nil, &out); err != nil {
		return nil, errors.Wrap(err, "fetch deal notes")
	}
	if out.Notes == nil {
		out.Notes = []*model.DealNote{}
	}

	return &out, nil
}

func (c *Client) CreateDealNote(ctx context.Context, dealID string, in *model.CreateDealNoteInput) (*model.DealNote, error) {
	var out struct {
		Note *model.DealNote `json:"note"`
	}
	if err := c.call(ctx, http.MethodPost, notesPath(dealID), in, &out); err != nil {
		return nil, errors.Wrap(err, "create deal note")
	}
	if out.Note == nil {
		return nil, errors.New("create deal note: empty response")
	}

	return out.Note, nil
}

func (c *Client) ListDeals(ctx context.Context) ([]*model.Deal, error) {
	var out []*model.Deal
	if err := c.call(ctx, http.MethodGet, "/api/deals", nil, &out); err != nil {
		return nil, errors.Wrap(err, "list deals")
	}

	return out, nil
}

func (c *Client) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	var out model.Deal
	if err := c.call(ctx, http.MethodGet, dealPath(id), nil, &out); err != nil {
		return nil, errors.Wrapf(err, "get deal %s", id)
	}

	return &out, nil
}

func (c *Client) CreateDeal(ctx context.Context, in *model.CreateDealInput) (*model.Deal, error) {
	var out model.Deal
	if err := c.call(ctx, http.MethodPost, "/api/deals", in, &out); err != nil {
		return nil, errors.Wrap(err, "create deal")
	}

	return &out, nil
}

func (c *Client) UpdateDeal(ctx context.Context, id string, in *model.UpdateDealInput) (*model.Deal, error) {
	var out model.Deal
	if err := c.call(ctx, http.MethodPut, dealPath(id), in, &out); err != nil {
		return nil, errors.Wrapf(err, "update deal %s", id)
	}

	return &out, nil
}

func (c *Client) DeleteDeal(ctx context.Context, id string) error {
	return errors.Wrapf(c.call(ctx, http.MethodDelete, dealPath(id), nil, nil), "delete deal %s", id)
}

func (c *Client) call(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserID != "" {
		req.Header.Set(user.Header, c.UserID)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)

		return &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}

	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decode response")
}

func dealPath(id string) string {
	return "/api/deals/" + url.PathEscape(id)
}

func notesPath(dealID string) string {
	return dealPath(dealID) + "/notes"
}
