// Package extractors provides implementations of the Extractor interface
// for various document formats. Each extractor knows how to pull plain
// text out of a specific media type.
//
// Extractors are registered with the Registry at startup; the registry
// dispatches on the declared media type, preferring higher-priority
// extractors when several claim the same type.
package extractors
