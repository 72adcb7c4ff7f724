// Package stream implements the textual formats shared by the set and table
// types:
//
//	{e1,e2,...,en}          ascending, comma separated set elements
//	[k1->v1,k2->v2,...]     key/value pairs of a hash-table backed map
//
// Whitespace is allowed between tokens. Anything else fails with a
// *ParseError that unwraps to ErrMalformed.
package stream
