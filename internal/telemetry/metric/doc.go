// Package metric holds the client-side Prometheus metrics.
//
// Metrics counts and times every backend call made by the API client. The
// collected families can be rendered as a plain-text snapshot for the
// metrics command without running an HTTP exporter.
package metric
