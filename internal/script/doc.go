// Package script runs user-supplied Lua length measures.
//
// A script defines a global function strlen(s) returning the length of s as
// a number. Scripts run in a restricted state: only the base, table, string
// and math libraries are opened, and file loading functions are removed.
// The built-in measures are available to scripts as charlimit.utf16,
// charlimit.codepoints, charlimit.graphemes and charlimit.bytes.
//
//	-- whitespace is free
//	function strlen(s)
//	  return charlimit.graphemes((string.gsub(s, "%s", "")))
//	end
package script
