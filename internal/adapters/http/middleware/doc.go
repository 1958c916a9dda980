// Package middleware provides HTTP middleware for the inbound request pipeline.
//
// cmd/server composes the stack in this order:
//
//	Recovery → RequestID → CorrelationID → OpenTelemetry → Logging → Router
//
// Route handlers render their own failures through handlers.Responder, so
// every envelope for a routed request is written there. Recovery renders the
// same failure envelope for anything that panics outside a wrapped handler.
package middleware
