// Package http provides the HTTP surface for the document service: a
// chi router under /api/documents, the JSON response envelope, and the
// request-id and logging middleware.
package http
