// Package httputil provides shared HTTP response/request helpers.
//
// Handlers use these instead of writing raw http.ResponseWriter calls so
// that JSON formatting and error envelopes stay consistent across all
// endpoints.
package httputil
