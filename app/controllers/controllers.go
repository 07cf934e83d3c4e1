// Package controllers adapts HTTP requests to the services. Handlers use
// the ctx.HandlerFunc signature and are mounted with ctx.Wrap.
package controllers

// listResponse is the shape of every collection listing.
type listResponse[T any] struct {
	Items []T `json:"items"`
}

func items[T any](v []T) listResponse[T] {
	if v == nil {
		v = []T{}
	}
	return listResponse[T]{Items: v}
}

// defaultLimit is the page size when ?limit= is absent.
const defaultLimit = 20
