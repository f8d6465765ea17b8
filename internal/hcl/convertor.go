package hcl

import (
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/stanrun/internal/options"
	"github.com/zclconf/go-cty/cty"
)

// optionSetFromExpr converts an option attribute into an option set.
//
// Object constructors are walked syntactically so their fields keep source
// order; evaluating them would sort the keys. Strings become Text, lists
// become List and null means "no options".
func optionSetFromExpr(expr hcl.Expression) (options.Set, error) {
	if expr == nil {
		return nil, nil
	}
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		return recordFromObjectCons(e)
	case *hclsyntax.TupleConsExpr:
		list := make(options.List, 0, len(e.Exprs))
		for _, item := range e.Exprs {
			set, err := optionSetFromExpr(item)
			if err != nil {
				return nil, err
			}
			if set != nil {
				list = append(list, set)
			}
		}
		return list, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return optionSetFromValue(val)
}

// optionSetFromValue handles option values that are not written as literal
// constructors. Object attributes come out in cty's sorted order.
func optionSetFromValue(val cty.Value) (options.Set, error) {
	if val.IsNull() {
		return nil, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("option value is not known")
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return options.Text(val.AsString()), nil
	case ty.IsObjectType() || ty.IsMapType():
		return recordFromValue(val)
	case ty.IsTupleType() || ty.IsListType():
		list := options.List{}
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			set, err := optionSetFromValue(elem)
			if err != nil {
				return nil, err
			}
			if set != nil {
				list = append(list, set)
			}
		}
		return list, nil
	default:
		return nil, fmt.Errorf("options must be a string, an object or a list, got %s", ty.FriendlyName())
	}
}

func recordFromObjectCons(e *hclsyntax.ObjectConsExpr) (options.Record, error) {
	record := make(options.Record, 0, len(e.Items))
	for _, item := range e.Items {
		keyVal, diags := item.KeyExpr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if keyVal.IsNull() || keyVal.Type() != cty.String {
			return nil, fmt.Errorf("option name at %s must be a string", item.KeyExpr.Range())
		}
		key := keyVal.AsString()

		if nested, ok := item.ValueExpr.(*hclsyntax.ObjectConsExpr); ok {
			sub, err := recordFromObjectCons(nested)
			if err != nil {
				return nil, err
			}
			record = append(record, options.F(key, sub))
			continue
		}

		val, diags := item.ValueExpr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		value, err := fieldValue(val)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		record = append(record, options.F(key, value))
	}
	return record, nil
}

func recordFromValue(val cty.Value) (options.Record, error) {
	record := options.Record{}
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		value, err := fieldValue(v)
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", k.AsString(), err)
		}
		record = append(record, options.F(k.AsString(), value))
	}
	return record, nil
}

// fieldValue converts a cty value into a Record field value.
func fieldValue(val cty.Value) (any, error) {
	if val.IsNull() {
		return options.NoValue, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
			return bf.Text('f', 0), nil
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		return recordFromValue(val)
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
