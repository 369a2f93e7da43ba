// Package lex implements the scanner for equation source text.
//
// The scanner is lossless: it classifies every character of its input, and
// the tokens it produces cover the input with no gaps or overlaps. It is also
// lax. Numbers like "1.2.3" or "0b102" scan as single Number tokens, and
// characters that fit no class become Invalid tokens rather than errors, so
// deciding what is well-formed is left to the parser.
package lex
