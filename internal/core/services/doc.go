// Package services implements the core application services.
//
// PipelineService orchestrates the document lifecycle: content storage,
// extraction, chunking, embedding, and the atomic publish of the result.
// SearchService answers similarity queries over published chunks.
//
// Services depend only on the port interfaces in core/ports; adapters are
// injected by the composition root.
package services
