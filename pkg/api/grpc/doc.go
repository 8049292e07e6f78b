// Package grpc exposes the standard gRPC health checking service,
// backed by the orchestrator's system status.
package grpc
