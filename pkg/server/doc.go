// Package server exposes the scoring pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz              liveness probe
//	GET  /version              build information
//	POST /v1/score             score a drawing (JSON body, or YAML with ?format=yaml)
//	POST /v1/score/dot         lay out a DOT graph with ?engine= and score it
//	POST /v1/layout            lay out a DOT graph and return the positioned drawing
//
// Score endpoints accept ideal_angle, divisor, clamp and refresh query
// parameters. Unset parameters fall back to the server defaults, which come
// from the config file.
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// whose code field is the [errors.Code] of the failure:
//
//	{"error": {"code": "NOT_FOUND_ENDPOINT", "message": "..."}, "request_id": "..."}
//
// Requests are reported to [observability.HTTP] hooks.
package server
