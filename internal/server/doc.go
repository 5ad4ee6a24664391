// Package server exposes numfmt conversions over HTTP.
//
// Endpoints:
//
//	GET /convert?op=<op>&v=<value>[&v=<value>...]  JSON conversion result
//	GET /health                                    liveness probe
//	GET /metrics                                   Prometheus exposition
//
// Every route is wrapped by SecurityMiddleware and by a metrics middleware
// that tracks request counts and in-flight requests.
package server
