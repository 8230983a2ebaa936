// Package http implements the HTTP transport layer of the account-security
// service.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as bearer authentication, request tracing,
// access logging, and per-source login throttling are handled in this package
// before requests are delegated to the service layer. Error payloads never
// disclose internal state: the mapper in errors_mapper.go is the single place
// where service errors become HTTP statuses.
package http
