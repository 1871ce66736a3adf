// Package server exposes the answer pipeline over HTTP with gin.
//
// Routes:
//   - POST /v1/ask      answer a question
//   - POST /v1/filters  show the constraints extracted from a question
//   - GET  /health      liveness and pool size
//   - GET  /metrics     Prometheus exposition
//
// Failures never leak error detail: clients get a fixed message and a
// request ID to correlate with the logs.
package server
