package deal

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/pkg/errors"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

// CreateRequest is the request payload for a new Deal.
type CreateRequest struct {
	*model.CreateDealInput

	ProtectedID string `json:"id"` // override 'id' json to have more control
}

func (c *CreateRequest) Bind(r *http.Request) error {
	if c.CreateDealInput == nil {
		return errors.New("missing required deal fields")
	}
	c.ProtectedID = ""

	return c.Validate()
}

// UpdateRequest is the request payload for a partial Deal update.
type UpdateRequest struct {
	*model.UpdateDealInput
}

func (u *UpdateRequest) Bind(r *http.Request) error {
	if u.UpdateDealInput == nil {
		return errors.New("missing deal fields to update")
	}

	return u.Validate()
}

type Response struct {
	*model.Deal
}

func NewResponse(d *model.Deal) *Response {
	return &Response{Deal: d}
}

func (rd *Response) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewListResponse(deals []*model.Deal) []render.Renderer {
	list := []render.Renderer{}
	for _, d := range deals {
		list = append(list, NewResponse(d))
	}

	return list
}
