package dvelop

import (
	"context"

	"github.com/d-velop/dvelop-sdk-go/internal/api"
)

// --------------------------------------------------------------------
// DMS operations, resolved through the HAL links under /dms
// --------------------------------------------------------------------

// GetRepositories lists the tenant's repositories.
func (c *Client) GetRepositories(ctx context.Context) ([]Repository, error) {
	return api.GetRepositories.Call(ctx, c.do, struct{}{})
}

// GetRepository reads one repository.
func (c *Client) GetRepository(ctx context.Context, repositoryID string) (*Repository, error) {
	return api.GetRepository.Call(ctx, c.do, repositoryID)
}

// GetDmsObject reads a DMS object mapped onto a source.
func (c *Client) GetDmsObject(ctx context.Context, params GetDmsObjectParams) (*DmsObject, error) {
	return api.GetDmsObject.Call(ctx, c.do, params)
}

// GetDmsObjectNotes reads the notes of a DMS object.
func (c *Client) GetDmsObjectNotes(ctx context.Context, params GetDmsObjectParams) ([]Note, error) {
	return api.GetDmsObjectNotes.Call(ctx, c.do, params)
}

// CreateDmsObject stores a DMS object and returns its location.
func (c *Client) CreateDmsObject(ctx context.Context, params CreateDmsObjectParams) (string, error) {
	return api.CreateDmsObject.Call(ctx, c.do, params)
}

// SearchDmsObjects runs a search and returns its first page.
func (c *Client) SearchDmsObjects(ctx context.Context, params SearchDmsObjectsParams) (*Page[DmsObject], error) {
	return api.CallPaged(ctx, c.do, api.SearchDmsObjects, params, api.SearchItems)
}
