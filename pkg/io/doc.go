// Package io reads flat record collections and writes built forests.
//
// # Input Formats
//
// Records are accepted as JSON, YAML or TOML. JSON and YAML inputs may be a
// bare array of objects or an object wrapping the array under "records" or
// "nodes" (the shape of a searchGlossary/listGlossaryTree response):
//
//	[
//	  {"nodeUri": "g1", "label": "Finance"},
//	  {"nodeUri": "c1", "parentUri": "g1", "label": "Revenue"}
//	]
//
//	{"nodes": [{"nodeUri": "g1"}, {"nodeUri": "c1", "parentUri": "g1"}]}
//
// TOML inputs use an array of tables:
//
//	[[records]]
//	nodeUri = "g1"
//
//	[[records]]
//	nodeUri = "c1"
//	parentUri = "g1"
//
// Use [ReadRecords] for in-memory data and [ReadRecordsFile] for files;
// [FormatAuto] picks the decoder from the file extension.
//
// JSON numbers are decoded as [encoding/json.Number] so that numeric
// identifiers keep their exact textual form.
//
// # Output Format
//
// [WriteForest] encodes a forest as:
//
//	{
//	  "forest": [{"nodeUri": "g1", "children": [...]}],
//	  "unreachable": []
//	}
//
// The output is re-readable with [ReadForest].
package io
