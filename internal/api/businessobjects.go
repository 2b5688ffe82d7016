package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/d-velop/dvelop-sdk-go/internal/transport"
	"github.com/d-velop/dvelop-sdk-go/internal/types"
	"github.com/d-velop/dvelop-sdk-go/internal/uritemplate"
)

const (
	boEntitySetPath = "/businessobjects/custom/{modelname}/{pluralentityname}"
	boEntityPath    = boEntitySetPath + "('{key}')"
)

// BoWrite carries an entity to create or update.
type BoWrite struct {
	Params types.BoEntityParams
	Entity any
}

// GetBoEntity reads one entity decoded as T.
func GetBoEntity[T any]() Endpoint[types.BoEntityParams, *T] {
	return Endpoint[types.BoEntityParams, *T]{
		Build: func(p types.BoEntityParams) (transport.Request, error) {
			return boRequest(http.MethodGet, p, true, nil)
		},
		Transform: DecodeJSON[T],
	}
}

// GetBoEntities reads a whole entity set decoded as []T.
func GetBoEntities[T any]() Endpoint[types.BoEntityParams, []T] {
	return Endpoint[types.BoEntityParams, []T]{
		Build: func(p types.BoEntityParams) (transport.Request, error) {
			return boRequest(http.MethodGet, p, false, nil)
		},
		Transform: func(resp *transport.Response) ([]T, error) {
			list, err := DecodeJSON[types.ODataList[T]](resp)
			if err != nil {
				return nil, err
			}
			return list.Value, nil
		},
	}
}

// CreateBoEntity adds an entity to a set.
var CreateBoEntity = Endpoint[BoWrite, struct{}]{
	Build: func(w BoWrite) (transport.Request, error) {
		return boRequest(http.MethodPost, w.Params, false, w.Entity)
	},
	Transform: Discard,
}

// UpdateBoEntity patches the entity addressed by Params.Key.
var UpdateBoEntity = Endpoint[BoWrite, struct{}]{
	Build: func(w BoWrite) (transport.Request, error) {
		return boRequest(http.MethodPatch, w.Params, true, w.Entity)
	},
	Transform: Discard,
}

// DeleteBoEntity removes the entity addressed by Key.
var DeleteBoEntity = Endpoint[types.BoEntityParams, struct{}]{
	Build: func(p types.BoEntityParams) (transport.Request, error) {
		return boRequest(http.MethodDelete, p, true, nil)
	},
	Transform: Discard,
}

func boRequest(method string, p types.BoEntityParams, withKey bool, body any) (transport.Request, error) {
	validate, path := p.Validate, boEntitySetPath
	if withKey {
		validate, path = p.ValidateWithKey, boEntityPath
	}
	if err := validate(); err != nil {
		return transport.Request{}, err
	}
	tpl := uritemplate.Values{
		"modelname":        uritemplate.String(url.PathEscape(p.ModelName)),
		"pluralentityname": uritemplate.String(url.PathEscape(p.PluralEntityName)),
	}
	if withKey {
		// OData doubles single quotes inside string keys.
		tpl["key"] = uritemplate.String(url.PathEscape(strings.ReplaceAll(p.Key, "'", "''")))
	}
	return transport.Request{Method: method, URL: path, Body: body, Templates: tpl}, nil
}
