// Package errors provides the coded, structured errors used across vlite.
//
// Every error carries a code (e.g. "E110") registered with a category,
// a short message and an optional longer detail. Compile errors can also
// carry a location inside the template source plus the surrounding lines,
// which Format renders with a caret under the offending column:
//
//	ERROR E110: Malformed markup
//
//	  counter.html:3:9
//
//	       2 │ <div>
//	  →    3 │   <span>
//	         │         ^
//
//	  Hint: close <span> before </div>
//
// Categories let callers test the family of an error without caring about
// the exact code:
//
//	if errors.Is(err, Kind(CategoryCompile)) { ... }
package errors
