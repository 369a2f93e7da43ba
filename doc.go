// Package equation evaluates mathematical expressions with pluggable
// constants and functions.
//
// Evaluation is a pipeline of three stages. Package lex scans text into
// tokens. A Parser turns tokens into nodes in postfix order, deciding
// precedence and grouping once. A Context runs the nodes on a stack,
// asking a Resolver for the values of named constants and the results of
// function calls. Each stage pulls from the one before it, so nothing is
// collected unless the caller asks with Parse.
//
// The syntax is ordinary infix arithmetic: "+ - * / % ^" with the usual
// precedence, "^" binding tightest and grouping to the right. Any of "()",
// "[]", or "{}" group. A name written directly against a bracket, like
// "log2(8)", is a function call with comma-separated arguments; any other
// name is a constant. "=", "!=", ">", and "<" compare, with "=" also
// spelled "==".
//
// Integers stay integers while the results are exact and fit in 64 bits.
// Otherwise arithmetic promotes to arbitrary-precision decimals. Division by
// zero and comparisons with no meaning give Undefined rather than an error.
package equation
