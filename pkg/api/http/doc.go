// Package http provides the REST API server for the orchestration
// service. It exposes run triggers, agent catalog and status queries,
// dependency graph inspection, validation, the execution log and
// Prometheus metrics over a Gin router.
package http
