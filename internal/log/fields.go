// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService       = "service"
	FieldVersion       = "version"
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldEvent         = "event"

	// Catalog fields
	FieldPageID       = "page_id"
	FieldZone         = "zone"
	FieldPage         = "page"
	FieldProgramID    = "program_id"
	FieldCollectionID = "collection_id"
	FieldCount        = "count"

	// Cache fields
	FieldCacheKey = "cache_key"

	// Upstream fields
	FieldEndpoint = "endpoint"
	FieldURL      = "url"
	FieldStatus   = "status"
	FieldRule     = "rule"
	FieldSelector = "selector"

	// HTTP fields
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
)
