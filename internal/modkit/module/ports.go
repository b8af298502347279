package module

import "reflect"

// PortsOf finds a T in m's port set: the set itself, or an exported field
// of it when the set is a struct or struct pointer
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	set := m.Ports()
	if t, ok := set.(T); ok {
		return t, true
	}
	v := reflect.ValueOf(set)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range v.NumField() {
		if !v.Type().Field(i).IsExported() {
			continue
		}
		if t, ok := v.Field(i).Interface().(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for bootstrap code; a missing port panics naming
// the module and the type
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic("module: " + m.Name() + " has no port " + reflect.TypeFor[T]().String())
	}
	return t
}
