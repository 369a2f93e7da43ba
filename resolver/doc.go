// Package resolver provides tables of constants and functions for evaluating
// expressions with package equation.
package resolver
