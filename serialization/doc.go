// Package serialization converts states to flat, tagged documents and back.
//
// Every variant is registered under its tag in a closed Registry that is
// verified when the package initializes. Dump writes the tag, the common
// message and result, each variant-specific field through its codec, and a
// __version__ stamp:
//
//	doc, err := serialization.Dump(&state.Retrying{RunCount: 2})
//	// doc: {"type": "Retrying", "run_count": 2, "message": nil, ...}
//
// Load reverses it. Missing optional fields keep their defaults, so a
// tag-only document is enough to reconstruct a variant:
//
//	st, err := serialization.Load(serialization.Document{"type": "Pending"})
//
// Payload fields travel as bounded JSON strings (see package payload) and
// timestamps as UTC RFC 3339 strings (see package timestamp). Success and
// Skipped embed their cached state as a nested document with its own tag.
package serialization
