// Package module is the contract every API module satisfies and the helpers
// used to pull typed ports off one module for another
package module

import (
	"reflect"

	phttp "bluebird/internal/platform/net/http"
)

type Module interface {
	Name() string
	MountRoutes(r phttp.Router)
	// Ports is the module's export bundle, nil when it exports nothing
	Ports() any
}

// PortsOf finds a T in m.Ports(): the bundle itself or one of its exported
// struct fields
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if !rv.IsValid() || rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if f := rv.Field(i); f.CanInterface() {
			if v, ok := f.Interface().(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// MustPortsOf panics when m does not export a T
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module " + m.Name() + " exports no " + reflect.TypeFor[T]().String())
	}
	return v
}
