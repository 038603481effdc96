// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction so handlers read path and query
values the same way everywhere.
*/
package requestutil

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/meeple/pkg/query"
)

/*
Param retrieves a named URL path parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Query returns the named query parameter with surrounding whitespace removed.
*/
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}

/*
QueryList returns every value of a list-valued query parameter.

Both repeated parameters and comma-separated values are accepted.
*/
func QueryList(request *http.Request, name string) []string {
	return query.StringSlice(request.URL.Query()[name])
}
