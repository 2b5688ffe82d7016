package api

import (
	"net/http"
	"strconv"

	"github.com/d-velop/dvelop-sdk-go/internal/hal"
	"github.com/d-velop/dvelop-sdk-go/internal/transport"
	"github.com/d-velop/dvelop-sdk-go/internal/types"
	"github.com/d-velop/dvelop-sdk-go/internal/uritemplate"
)

const dmsRoot = "/dms"

// HAL relations of the DMS app.
const (
	RelAllRepos             = "allrepos"
	RelRepo                 = "repo"
	RelDmsObjectWithMapping = "dmsobjectwithmapping"
	RelNotes                = "notes"
	RelSearchResultByQuery  = "searchresultbyquery"
)

// GetRepositories lists every repository of the tenant.
var GetRepositories = Endpoint[struct{}, []types.Repository]{
	Build: func(struct{}) (transport.Request, error) {
		return transport.Request{URL: dmsRoot, Follows: []string{RelAllRepos}}, nil
	},
	Transform: func(resp *transport.Response) ([]types.Repository, error) {
		list, err := DecodeJSON[types.RepositoryList](resp)
		if err != nil {
			return nil, err
		}
		return list.Repositories, nil
	},
}

// GetRepository reads one repository.
var GetRepository = Endpoint[string, *types.Repository]{
	Build: func(repositoryID string) (transport.Request, error) {
		if err := types.ValidateIDPresent(repositoryID, "repositoryId"); err != nil {
			return transport.Request{}, err
		}
		return transport.Request{
			URL:       dmsRoot,
			Follows:   []string{RelRepo},
			Templates: uritemplate.Values{"repositoryid": uritemplate.String(repositoryID)},
		}, nil
	},
	Transform: DecodeJSON[types.Repository],
}

// GetDmsObject reads a DMS object with its source mapping.
var GetDmsObject = Endpoint[types.GetDmsObjectParams, *types.DmsObject]{
	Build: func(p types.GetDmsObjectParams) (transport.Request, error) {
		return dmsObjectRequest(p, RelRepo, RelDmsObjectWithMapping)
	},
	Transform: DecodeJSON[types.DmsObject],
}

// GetDmsObjectNotes reads the notes attached to a DMS object.
var GetDmsObjectNotes = Endpoint[types.GetDmsObjectParams, []types.Note]{
	Build: func(p types.GetDmsObjectParams) (transport.Request, error) {
		return dmsObjectRequest(p, RelRepo, RelDmsObjectWithMapping, RelNotes)
	},
	Transform: func(resp *transport.Response) ([]types.Note, error) {
		list, err := DecodeJSON[types.NoteList](resp)
		if err != nil {
			return nil, err
		}
		return list.Notes, nil
	},
}

// CreateDmsObject stores a new DMS object and returns its location.
var CreateDmsObject = Endpoint[types.CreateDmsObjectParams, string]{
	Build: func(p types.CreateDmsObjectParams) (transport.Request, error) {
		if err := p.Validate(); err != nil {
			return transport.Request{}, err
		}
		return transport.Request{
			Method:  http.MethodPost,
			URL:     dmsRoot,
			Body:    p,
			Follows: []string{RelRepo, RelDmsObjectWithMapping},
			Templates: uritemplate.Values{
				"repositoryid": uritemplate.String(p.RepositoryID),
				"sourceid":     uritemplate.String(p.SourceID),
			},
		}, nil
	},
	Transform: Location,
}

// SearchDmsObjects runs a source-mapped search. Use it with CallPaged and
// SearchItems.
var SearchDmsObjects = Endpoint[types.SearchDmsObjectsParams, *types.SearchResult]{
	Build: func(p types.SearchDmsObjectsParams) (transport.Request, error) {
		if err := p.Validate(); err != nil {
			return transport.Request{}, err
		}
		tpl := uritemplate.Values{
			"repositoryid":     uritemplate.String(p.RepositoryID),
			"sourceid":         uritemplate.String(p.SourceID),
			"fulltext":         uritemplate.String(p.Fulltext),
			"sourcecategories": uritemplate.List(p.Categories...),
		}
		if p.PageSize > 0 {
			tpl["pagesize"] = uritemplate.String(strconv.Itoa(p.PageSize))
		}
		if p.Page > 0 {
			tpl["page"] = uritemplate.String(strconv.Itoa(p.Page))
		}
		return transport.Request{
			URL:       dmsRoot,
			Follows:   []string{RelRepo, RelSearchResultByQuery},
			Templates: tpl,
		}, nil
	},
	Transform: DecodeJSON[types.SearchResult],
}

// SearchItems extracts the page content of a search result.
func SearchItems(r *types.SearchResult) ([]types.DmsObject, hal.Links) {
	return r.Items, r.Links
}

func dmsObjectRequest(p types.GetDmsObjectParams, follows ...string) (transport.Request, error) {
	if err := p.Validate(); err != nil {
		return transport.Request{}, err
	}
	return transport.Request{
		URL:     dmsRoot,
		Follows: follows,
		Templates: uritemplate.Values{
			"repositoryid": uritemplate.String(p.RepositoryID),
			"sourceid":     uritemplate.String(p.SourceID),
			"dmsobjectid":  uritemplate.String(p.DmsObjectID),
		},
	}, nil
}
