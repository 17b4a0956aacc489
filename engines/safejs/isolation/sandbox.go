package isolation

import (
	"github.com/dop251/goja"
)

// newSandbox returns the object the body runs `with`. Every name except the declared
// parameters reports as present and reads as undefined, so free identifiers never
// reach the runtime's globals. Writes are dropped.
func newSandbox(vm *goja.Runtime, params []string) goja.Value {
	own := make(map[string]struct{}, len(params))
	for _, p := range params {
		own[p] = struct{}{}
	}

	proxy := vm.NewProxy(vm.CreateObject(nil), &goja.ProxyTrapConfig{
		Has: func(_ *goja.Object, name string) bool {
			_, isParam := own[name]
			return !isParam
		},
		Get: func(_ *goja.Object, _ string, _ goja.Value) goja.Value {
			return goja.Undefined()
		},
		GetIdx: func(_ *goja.Object, _ int, _ goja.Value) goja.Value {
			return goja.Undefined()
		},
		Set: func(_ *goja.Object, _ string, _ goja.Value, _ goja.Value) bool {
			return true
		},
		SetIdx: func(_ *goja.Object, _ int, _ goja.Value, _ goja.Value) bool {
			return true
		},
	})
	return vm.ToValue(proxy)
}
