package client

import (
	"context"

	"github.com/SergeyParamoshkin/dealnotes/internal/model"
)

// Deals reads deals through the query cache. Writes invalidate every deal
// query.
type Deals struct {
	api   *Client
	cache *QueryCache
}

func NewDeals(api *Client, cache *QueryCache) *Deals {
	return &Deals{api: api, cache: cache}
}

// List and Get hand out copies so callers cannot edit cached deals.
func (d *Deals) List(ctx context.Context) ([]*model.Deal, error) {
	deals, err := Fetch(ctx, d.cache, DealKeys.Lists(), d.api.ListDeals)
	if err != nil {
		return nil, err
	}

	return cloneDeals(deals), nil
}

func (d *Deals) Get(ctx context.Context, id string) (*model.Deal, error) {
	if id == "" {
		return nil, ErrDealIDRequired
	}

	deal, err := Fetch(ctx, d.cache, DealKeys.Detail(id), func(ctx context.Context) (*model.Deal, error) {
		return d.api.GetDeal(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	return cloneDeal(deal), nil
}

func (d *Deals) Create(ctx context.Context, in *model.CreateDealInput) (*model.Deal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	deal, err := d.api.CreateDeal(ctx, in)
	if err != nil {
		return nil, err
	}
	d.cache.Invalidate(DealKeys.All())

	return deal, nil
}

func (d *Deals) Update(ctx context.Context, id string, in *model.UpdateDealInput) (*model.Deal, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	deal, err := d.api.UpdateDeal(ctx, id, in)
	if err != nil {
		return nil, err
	}
	d.cache.Invalidate(DealKeys.All())
	d.cache.Invalidate(DealKeys.Detail(deal.ID))

	return deal, nil
}

func (d *Deals) Delete(ctx context.Context, id string) error {
	if err := d.api.DeleteDeal(ctx, id); err != nil {
		return err
	}
	d.cache.Invalidate(DealKeys.All())

	return nil
}

func cloneDeal(d *model.Deal) *model.Deal {
	if d == nil {
		return nil
	}
	c := *d

	return &c
}

func cloneDeals(deals []*model.Deal) []*model.Deal {
	out := make([]*model.Deal, 0, len(deals))
	for _, d := range deals {
		out = append(out, cloneDeal(d))
	}

	return out
}
