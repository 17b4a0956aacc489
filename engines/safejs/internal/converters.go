package internal

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/dop251/goja"

	"github.com/robbyt/go-seval/platform/data"
)

// maxDepth bounds nesting in both directions, which also stops self-referencing maps.
const maxDepth = 64

// CheckArgs reports the first argument that is not plain data: nil, bool, a number,
// a string, or []any and map[string]any holding the same.
func CheckArgs(args []any) error {
	for i, arg := range args {
		if err := checkValue(arg, 0); err != nil {
			return fmt.Errorf("%w: argument %d: %w", ErrUnsupportedArgument, i, err)
		}
	}
	return nil
}

func checkValue(v any, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("nested deeper than %d levels", maxDepth)
	}

	switch x := v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil
	case []any:
		for i, el := range x {
			if err := checkValue(el, depth+1); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return nil
	case map[string]any:
		for k, el := range x {
			if err := checkValue(el, depth+1); err != nil {
				return fmt.Errorf("[%q]: %w", k, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("type %T", v)
	}
}

// ToValue builds a native value of vm from a checked argument. nil becomes null; lists
// and maps become plain arrays and objects owned by vm, never wrappers around Go values.
func ToValue(vm *goja.Runtime, v any) goja.Value {
	switch x := v.(type) {
	case nil:
		return goja.Null()
	case []any:
		items := make([]any, len(x))
		for i, el := range x {
			items[i] = ToValue(vm, el)
		}
		return vm.NewArray(items...)
	case map[string]any:
		obj := vm.NewObject()
		for _, k := range slices.Sorted(maps.Keys(x)) {
			// a fresh plain object has no setters, so Set cannot fail
			_ = obj.Set(k, ToValue(vm, x[k]))
		}
		return obj
	default:
		return vm.ToValue(number(v))
	}
}

// number widens unsigned and small integer kinds to int64, and float32 to float64.
func number(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return float64(u)
		}
		return int64(u)
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return v
	}
}

// FromValue converts a script result to Go. undefined and null both become nil; the
// returned type tells them apart. Numbers are always float64.
func FromValue(v goja.Value) (any, data.Types, error) {
	return fromValue(v, 0)
}

func fromValue(v goja.Value, depth int) (any, data.Types, error) {
	if depth > maxDepth {
		return nil, data.ERROR, fmt.Errorf("%w: nested deeper than %d levels", ErrUnsupportedResult, maxDepth)
	}
	switch {
	case v == nil || goja.IsUndefined(v):
		return nil, data.UNDEFINED, nil
	case goja.IsNull(v):
		return nil, data.NULL, nil
	}

	if obj, ok := v.(*goja.Object); ok {
		return fromObject(obj, depth)
	}

	switch x := v.Export().(type) {
	case bool:
		return x, data.BOOL, nil
	case int64:
		return float64(x), data.NUMBER, nil
	case float64:
		return x, data.NUMBER, nil
	case string:
		return x, data.STRING, nil
	default:
		return nil, data.ERROR, fmt.Errorf("%w: %s", ErrUnsupportedResult, v.String())
	}
}

func fromObject(obj *goja.Object, depth int) (any, data.Types, error) {
	if _, isFunc := goja.AssertFunction(obj); isFunc {
		return nil, data.FUNCTION, fmt.Errorf("%w: function", ErrUnsupportedResult)
	}

	switch obj.ClassName() {
	case "Array":
		n := int(obj.Get("length").ToInteger())
		out := make([]any, n)
		for i := range n {
			el, _, err := fromValue(obj.Get(strconv.Itoa(i)), depth+1)
			if err != nil {
				return nil, data.ERROR, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = el
		}
		return out, data.LIST, nil
	case "Object":
		out := make(map[string]any)
		for _, k := range obj.Keys() {
			el, _, err := fromValue(obj.Get(k), depth+1)
			if err != nil {
				return nil, data.ERROR, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = el
		}
		return out, data.MAP, nil
	default:
		return nil, data.ERROR, fmt.Errorf("%w: %s object", ErrUnsupportedResult, obj.ClassName())
	}
}
