package intercept

import (
	"reflect"
	"strings"

	"github.com/chief111elf/proxymetrics/internal/reflector"
)

// Contract describes one capability interface of a wrapped target: the
// interface's qualified name plus a stable signature string per method.
// Contracts are immutable once built.
type Contract struct {
	name    string
	typ     reflect.Type
	methods []ContractMethod
}

// ContractMethod is one method of a Contract.
type ContractMethod struct {
	Name      string // bare method name, e.g. "Greet"
	Signature string // stable rendering, e.g. "intercept.Greeter.Greet(string) string"
}

// ContractFor builds the Contract for interface type T. Methods of embedded
// interfaces are included (reflect flattens them). Passing a non-interface
// type yields a Contract that [New] rejects with ErrNotInterface.
func ContractFor[T any]() Contract {
	return contractForType(reflect.TypeFor[T]())
}

func contractForType(t reflect.Type) Contract {
	c := Contract{typ: t}
	if t == nil || t.Kind() != reflect.Interface {
		return c
	}
	c.name = reflector.TypeInfoForType(t).Name
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		c.methods = append(c.methods, ContractMethod{
			Name:      m.Name,
			Signature: renderSignature(c.name, m.Name, m.Type),
		})
	}
	return c
}

// Name returns the contract's fully qualified interface name.
func (c Contract) Name() string { return c.name }

// Methods returns the contract's methods in declaration order.
func (c Contract) Methods() []ContractMethod { return c.methods }

// renderSignature produces the stable signature string used as the identity
// of a method: short owner name, method name, parameter types, result types.
func renderSignature(owner, name string, fn reflect.Type) string {
	var b strings.Builder
	b.WriteString(reflector.PackageShortName(owner))
	b.WriteByte('.')
	b.WriteString(name)
	b.WriteByte('(')
	for i := 0; i < fn.NumIn(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		if fn.IsVariadic() && i == fn.NumIn()-1 {
			b.WriteString("...")
			b.WriteString(reflector.ShortName(fn.In(i).Elem()))
		} else {
			b.WriteString(reflector.ShortName(fn.In(i)))
		}
	}
	b.WriteByte(')')
	switch fn.NumOut() {
	case 0:
	case 1:
		b.WriteByte(' ')
		b.WriteString(reflector.ShortName(fn.Out(0)))
	default:
		b.WriteString(" (")
		for i := 0; i < fn.NumOut(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(reflector.ShortName(fn.Out(i)))
		}
		b.WriteByte(')')
	}
	return b.String()
}
