// Package hal models the HAL+JSON link documents the platform APIs use for
// hypermedia navigation.
package hal

import (
	"encoding/json"
	"fmt"
)

// MediaTypes is the Accept header sent when discovering links.
const MediaTypes = "application/hal+json, application/json"

// Document is the part of a HAL resource the SDK navigates: its links.
type Document struct {
	Links Links `json:"_links,omitempty"`
}

// Links maps a relation name to the links published under it.
type Links map[string]LinkSet

// Href returns the href of the first link for rel. It fails with a
// *LinkNotFoundError when rel is missing or its href is empty.
func (l Links) Href(rel string) (string, error) {
	set, ok := l[rel]
	if !ok || len(set) == 0 || set[0].Href == "" {
		return "", &LinkNotFoundError{Rel: rel}
	}
	return set[0].Href, nil
}

// Has reports whether rel is present with a usable href.
func (l Links) Has(rel string) bool {
	_, err := l.Href(rel)
	return err == nil
}

// Add appends links under rel, creating the map when needed.
func (l Links) Add(rel string, links ...Link) Links {
	if l == nil {
		l = make(Links)
	}
	set := l[rel]
	l[rel] = append(set, links...)
	return l
}

// Link is a single HAL link object.
type Link struct {
	// Href is a URI or a URI template (see Templated).
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
	Type      string `json:"type,omitempty"`
	// Deprecation points at information about a link scheduled for removal.
	Deprecation string `json:"deprecation,omitempty"`
	Name        string `json:"name,omitempty"`
	Profile     string `json:"profile,omitempty"`
	Title       string `json:"title,omitempty"`
	HrefLang    string `json:"hreflang,omitempty"`
}

// LinkSet is the set of links under one relation. HAL allows either a single
// link object or an array; both decode into a LinkSet.
type LinkSet []Link

func (l LinkSet) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]Link(l))
}

func (l *LinkSet) UnmarshalJSON(d []byte) error {
	var single Link
	err := json.Unmarshal(d, &single)
	if err == nil {
		*l = LinkSet{single}
		return nil
	}
	if _, ok := err.(*json.UnmarshalTypeError); !ok {
		return err
	}

	var multiple []Link
	if err := json.Unmarshal(d, &multiple); err != nil {
		return err
	}
	*l = multiple
	return nil
}

// LinkNotFoundError reports a relation that a HAL response did not publish.
type LinkNotFoundError struct {
	Rel string
}

func (e *LinkNotFoundError) Error() string {
	return fmt.Sprintf("No hal-json link found for %q.", e.Rel)
}
