// Package docio reads and writes documents as editor-state JSON.
//
// The format nests nodes under "root":
//
//	{
//	  "root": {"type": "root", "children": [
//	    {"type": "paragraph", "children": [
//	      {"type": "text", "text": "Hello", "mode": "normal"},
//	      {"type": "linebreak"},
//	      {"type": "overflow", "children": [{"type": "text", "text": " World", "mode": "normal"}]}
//	    ]}
//	  ]},
//	  "selection": {
//	    "anchor": {"path": [0, 2, 0], "offset": 3, "type": "text"},
//	    "focus":  {"path": [0, 2, 0], "offset": 3, "type": "text"}
//	  }
//	}
//
// Selection points address nodes by their child-index path from the root.
package docio
