// Package file provides a TOML-backed ConfigStore.
//
// Configuration lives in a single config.toml under the corpus config
// directory. Nested tables are flattened to dot-notation keys, so
// "[chunking] max_size = 500" is read as "chunking.max_size".
package file
