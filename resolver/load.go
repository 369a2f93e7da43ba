package resolver

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/zephyrtronium/equation"
)

// file is the document Load reads.
type file struct {
	// Constants maps names to numbers. Quoted numbers are parsed exactly at
	// the table's precision; unquoted ones pass through YAML's own number
	// types first.
	Constants map[string]any `yaml:"constants"`
	// Aliases maps new names to existing constants or functions.
	Aliases map[string]string `yaml:"aliases"`
}

// Load reads constants and aliases from a YAML document into t. The document
// looks like this:
//
//	constants:
//	  g: 9.80665
//	  c: 299792458
//	  hbar: "1.054571817e-34"
//	aliases:
//	  lg: log2
//
// Aliases are applied after constants, in name order.
func Load(t *Table, r io.Reader) error {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("couldn't decode constants: %w", err)
	}
	for name, x := range f.Constants {
		v, err := literal(x, t.prec)
		if err != nil {
			return fmt.Errorf("constant %s: %w", name, err)
		}
		t.Set(name, v)
	}
	names := make([]string, 0, len(f.Aliases))
	for name := range f.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !t.Alias(name, f.Aliases[name]) {
			return fmt.Errorf("alias %s: no constant or function named %s", name, f.Aliases[name])
		}
	}
	return nil
}

// literal converts a decoded YAML scalar to a value.
func literal(x any, prec uint) (equation.Value, error) {
	switch x := x.(type) {
	case int:
		return equation.Int(int64(x)), nil
	case int64:
		return equation.Int(x), nil
	case uint64:
		if x <= 1<<63-1 {
			return equation.Int(int64(x)), nil
		}
		return equation.Decimal(new(big.Float).SetPrec(prec).SetUint64(x)), nil
	case float64:
		// Go through the shortest text so that 9.80665 means 9.80665 at
		// every precision, not the float64 nearest to it.
		return equation.DecimalString(strconv.FormatFloat(x, 'g', -1, 64), prec)
	case string:
		if i, err := strconv.ParseInt(x, 10, 64); err == nil {
			return equation.Int(i), nil
		}
		return equation.DecimalString(x, prec)
	default:
		return equation.Undefined(), fmt.Errorf("%v (%T) is not a number", x, x)
	}
}
