package dvelop

import (
	"context"

	"github.com/d-velop/dvelop-sdk-go/internal/api"
)

// Business object entities are user-defined, so the read operations are
// generic functions rather than Client methods.

// GetBoEntity reads the entity addressed by params.Key into a T.
func GetBoEntity[T any](ctx context.Context, c *Client, params BoEntityParams) (*T, error) {
	return api.GetBoEntity[T]().Call(ctx, c.do, params)
}

// GetBoEntities reads a whole entity set.
func GetBoEntities[T any](ctx context.Context, c *Client, params BoEntityParams) ([]T, error) {
	return api.GetBoEntities[T]().Call(ctx, c.do, params)
}

// CreateBoEntity adds entity to the set named by params.
func (c *Client) CreateBoEntity(ctx context.Context, params BoEntityParams, entity any) error {
	_, err := api.CreateBoEntity.Call(ctx, c.do, api.BoWrite{Params: params, Entity: entity})
	return err
}

// UpdateBoEntity patches the entity addressed by params.Key.
func (c *Client) UpdateBoEntity(ctx context.Context, params BoEntityParams, patch any) error {
	_, err := api.UpdateBoEntity.Call(ctx, c.do, api.BoWrite{Params: params, Entity: patch})
	return err
}

// DeleteBoEntity removes the entity addressed by params.Key.
func (c *Client) DeleteBoEntity(ctx context.Context, params BoEntityParams) error {
	_, err := api.DeleteBoEntity.Call(ctx, c.do, params)
	return err
}
