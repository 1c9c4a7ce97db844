// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// Catalog attributes
	CatalogPageKey      = "catalog.page_id"
	CatalogItemsKey     = "catalog.items"
	CatalogZonesKey     = "catalog.zones"
	CatalogPagesKey     = "catalog.continuation_pages"
	CatalogFailedKey    = "catalog.failed_pages"
	ProgramIDKey        = "arte.program_id"
	CollectionIDKey     = "arte.collection_id"
	StreamRuleKey       = "stream.rule"
	StreamCandidatesKey = "stream.candidates"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// CatalogAttributes describes one aggregated catalog page.
func CatalogAttributes(pageID string, zones, items, continuationPages, failedPages int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(CatalogPageKey, pageID),
		attribute.Int(CatalogZonesKey, zones),
		attribute.Int(CatalogItemsKey, items),
		attribute.Int(CatalogPagesKey, continuationPages),
		attribute.Int(CatalogFailedKey, failedPages),
	}
}

// StreamAttributes describes a stream selection.
func StreamAttributes(programID, rule string, candidates int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(ProgramIDKey, programID),
		attribute.String(StreamRuleKey, rule),
		attribute.Int(StreamCandidatesKey, candidates),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(err error, errorType string) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String(ErrorKey, err.Error()),
		attribute.String(ErrorTypeKey, errorType),
	}
}
