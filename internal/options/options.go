package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Set is an option set. It is implemented by Text, Record and List only.
type Set interface {
	appendTokens(dst []string) []string
}

// Text is a space separated option string. Each non-empty substring becomes
// one token verbatim, so values containing spaces cannot be expressed.
type Text string

// Record is an ordered list of option fields.
type Record []Field

// List concatenates the serialization of its elements.
type List []Set

// Field is a single key/value pair of a Record. Value is NoValue, a nested
// Record, or a scalar rendered with Format.
type Field struct {
	Key   string
	Value any
}

type noValue struct{}

// NoValue marks a field that is emitted as its bare key, e.g. a flag. A nil
// value is treated the same way.
var NoValue = noValue{}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Serialize expands s into command-line tokens. A nil set yields no tokens.
func Serialize(s Set) []string {
	if s == nil {
		return []string{}
	}
	return s.appendTokens([]string{})
}

func (t Text) appendTokens(dst []string) []string {
	for _, tok := range strings.Split(string(t), " ") {
		if tok != "" {
			dst = append(dst, tok)
		}
	}
	return dst
}

func (r Record) appendTokens(dst []string) []string {
	for _, f := range r {
		switch v := f.Value.(type) {
		case noValue, nil:
			dst = append(dst, f.Key)
		case Record:
			dst = append(dst, f.Key)
			dst = v.appendTokens(dst)
		default:
			dst = append(dst, f.Key+"="+Format(v))
		}
	}
	return dst
}

func (l List) appendTokens(dst []string) []string {
	for _, s := range l {
		if s != nil {
			dst = s.appendTokens(dst)
		}
	}
	return dst
}

// Format returns the canonical string form of a scalar option value.
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Concat joins sets into a List, skipping nil entries.
func Concat(sets ...Set) Set {
	out := make(List, 0, len(sets))
	for _, s := range sets {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
