// Package metrics exposes Prometheus collectors for the answer pipeline and
// the HTTP surface.
//
// Collectors are registered on the Metrics registry rather than the global
// default one, so several instances can coexist in one process.
package metrics
