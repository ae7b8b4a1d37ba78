// Package io reads and writes family tree records.
//
// # Formats
//
// Two encodings of the same [family.Record] shape are supported:
//
//	# YAML
//	name: Anna
//	gender: female
//	spouse: Karl
//	children:
//	  - name: Ida
//	    spouse: { name: Otto }
//	    boxW: 200
//
//	// JSON
//	{"name": "Anna", "gender": "female", "spouse": "Karl",
//	 "children": [{"name": "Ida", "spouse": {"name": "Otto"}, "boxW": 200}]}
//
// # Import
//
// Use [ImportFile] to read a file by extension, or [ReadYAML] / [ReadJSON]
// to read from any io.Reader. Decoding only checks the document shape;
// structural checks (names, cycles) happen when a hierarchy is built.
//
// # Export
//
// [WriteYAML] and [WriteJSON] write records back out. Spouse values are
// always written in their plain string form, so a round trip normalizes
// object spouses.
//
// [family.Record]: github.com/matzehuels/lineage/pkg/family.Record
package io
