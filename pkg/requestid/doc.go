// Package requestid provides HTTP middleware and context helpers for request
// correlation identifiers, plus a logger extractor that injects the ID into
// structured log records.
package requestid
