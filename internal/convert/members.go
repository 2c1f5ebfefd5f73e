package convert

import (
	"fmt"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
	"github.com/emlang-project/webidl-dts-gen/internal/tsast"
)

// body accumulates the bases and members of one interface-like definition.
type body struct {
	container
	jsImplementation bool
	bases            []tsast.Type
	members          []tsast.Member
}

func (b *body) add(m ...tsast.Member) {
	b.members = append(b.members, m...)
}

// methodOptions selects the shape of a synthesized method.
type methodOptions struct {
	declaration bool // class member instead of interface signature
	static      bool
}

// methodShape returns the shape of a method in the current mode. Emscripten
// binds static functions on the prototype, so the modifier is dropped there.
func (l *lowerer) methodShape(static bool) methodOptions {
	return methodOptions{
		declaration: l.opts.Emscripten,
		static:      static && !l.opts.Emscripten,
	}
}

func createMethod(name string, params []*tsast.Param, ret tsast.Type, o methodOptions) *tsast.Method {
	return &tsast.Method{
		Name:        name,
		Static:      o.static,
		Params:      params,
		Return:      ret,
		Declaration: o.declaration,
	}
}

func (l *lowerer) createProperty(name string, t tsast.Type, readonly, optional bool) *tsast.Property {
	return &tsast.Property{
		Name:        name,
		Readonly:    readonly,
		Optional:    optional,
		Type:        t,
		Declaration: l.opts.Emscripten,
	}
}

func (l *lowerer) lowerMember(b *body, m idl.Member) {
	switch n := m.(type) {
	case *idl.Attribute:
		l.lowerAttribute(b, n)

	case *idl.Operation:
		l.lowerOperation(b, n)

	case *idl.Constructor:
		b.add(l.lowerConstructor(n.Parameters))

	case *idl.Field:
		b.add(l.createProperty(n.Name, l.lowerType(n.Type), false, !n.Required))

	case *idl.Const:
		b.add(l.createProperty(n.Name, l.lowerType(n.Type), true, false))

	case *idl.Iterable:
		l.lowerIterable(b, n)

	case *idl.Setlike:
		name := "Set"
		if n.Readonly {
			name = "ReadonlySet"
		}
		b.bases = append(b.bases, tsast.Ref(name, l.lowerType(n.Elem)))

	case *idl.Maplike:
		name := "Map"
		if n.Readonly {
			name = "ReadonlyMap"
		}
		b.bases = append(b.bases, tsast.Ref(name, l.lowerType(n.Key), l.lowerType(n.Value)))

	case *idl.CustomOp:
		if n.Name == "stringifier" {
			b.add(l.toStringMethod())
			return
		}
		l.unsupported(RuleUnsupportedMember, fmt.Sprintf("IDL member %q", n.Kind()), n)

	default:
		l.unsupported(RuleUnsupportedMember, fmt.Sprintf("IDL member %q", m.Kind()), m)
	}
}

func (l *lowerer) lowerAttribute(b *body, n *idl.Attribute) {
	t := n.Type
	var index []*tsast.Param
	if elem, ok := frozenArrayElem(n.Type); ok && l.opts.Emscripten {
		t = elem
		index = []*tsast.Param{{Name: "index", Type: tsast.Number}}
	}

	if l.opts.Emscripten {
		accessor := methodOptions{declaration: true}
		b.add(
			createMethod("get_"+n.Name, index, l.lowerType(t), accessor),
			createMethod("set_"+n.Name, append(index, &tsast.Param{Name: n.Name, Type: l.lowerType(t)}), tsast.Void, accessor),
		)
	}

	b.add(l.createProperty(n.Name, l.lowerType(t), n.Readonly, false))
	if n.Stringifier {
		b.add(l.toStringMethod())
	}
}

// frozenArrayElem returns the element type of a FrozenArray<T>.
func frozenArrayElem(t idl.Type) (idl.Type, bool) {
	g, ok := t.(*idl.GenericType)
	if !ok || g.Name != "FrozenArray" || len(g.Args) != 1 {
		return nil, false
	}
	return g.Args[0], true
}

func (l *lowerer) lowerOperation(b *body, n *idl.Operation) {
	if n.Name == b.name {
		b.add(l.lowerConstructor(n.Parameters))
		return
	}

	if n.Special == "legacycaller" {
		l.unsupported(RuleUnsupportedMember, "legacycaller operation", n)
		return
	}

	if n.Name == "" {
		switch {
		case n.Special == "getter" && len(n.Parameters) == 1:
			key := n.Parameters[0]
			b.add(&tsast.IndexSignature{
				Key:  &tsast.Param{Name: key.Name, Type: l.lowerType(key.Type)},
				Type: l.lowerType(n.Return),
			})
		case n.Special == "stringifier":
			b.add(l.toStringMethod())
		default:
			l.unsupported(RuleUnsupportedMember, fmt.Sprintf("unnamed %s operation", n.Special), n)
		}
		return
	}

	b.add(createMethod(n.Name, l.lowerParams(n.Parameters, b.jsImplementation), l.lowerType(n.Return), l.methodShape(n.Static)))
}

// lowerConstructor emits `new (...)` in plain mode and a `constructor(...)`
// method in Emscripten mode.
func (l *lowerer) lowerConstructor(params []*idl.Parameter) tsast.Member {
	args := l.lowerParams(params, false)
	if l.opts.Emscripten {
		return createMethod("constructor", args, nil, methodOptions{declaration: true})
	}
	return &tsast.ConstructSignature{Params: args}
}

func (l *lowerer) toStringMethod() *tsast.Method {
	return createMethod("toString", nil, tsast.String, l.methodShape(false))
}

// lowerParams converts arguments. Arguments of a JSImplementation interface
// are numeric handles and keep only their nullability.
func (l *lowerer) lowerParams(params []*idl.Parameter, numeric bool) []*tsast.Param {
	out := make([]*tsast.Param, 0, len(params))
	for _, p := range params {
		if numeric {
			out = append(out, &tsast.Param{Name: p.Name, Rest: p.Variadic, Type: restType(nullable(tsast.Number, p.Type), p.Variadic)})
			continue
		}
		out = append(out, &tsast.Param{
			Name:     p.Name,
			Optional: p.Optional && !p.Variadic,
			Rest:     p.Variadic,
			Type:     restType(l.lowerType(p.Type), p.Variadic),
		})
	}
	return out
}

func restType(t tsast.Type, rest bool) tsast.Type {
	if rest {
		return &tsast.ArrayType{Elem: t}
	}
	return t
}

// lowerIterable emits the iteration protocol methods. The key of a value
// iterable comes from the interface's indexed getter.
func (l *lowerer) lowerIterable(b *body, n *idl.Iterable) {
	var keyType idl.Type
	switch len(n.Types) {
	case 1:
		if getter := indexedGetter(b.source); getter != nil {
			keyType = getter.Parameters[0].Type
		}
	case 2:
		keyType = n.Types[0]
	}
	if keyType == nil {
		l.addDiagnostic(RuleIterableMissingKey,
			fmt.Sprintf("iterable on %q has no key type: declare an indexed getter or use iterable<K, V>", b.name), n)
		return
	}

	key := l.lowerType(keyType)
	value := l.lowerType(n.Types[len(n.Types)-1])
	pair := len(n.Types) == 2

	iterator, symbol := "IterableIterator", "[Symbol.iterator]"
	if n.Async {
		iterator, symbol = "AsyncIterableIterator", "[Symbol.asyncIterator]"
	}
	entry := &tsast.TupleType{Elems: []tsast.Type{key, value}}

	first := tsast.Type(value)
	if pair {
		first = entry
	}

	keyName, ownerName := "index", "array"
	var owner tsast.Type = &tsast.ArrayType{Elem: value}
	if pair {
		keyName, ownerName = "key", "iterable"
		owner = tsast.Ref(b.name)
	}

	shape := l.methodShape(false)
	b.add(
		createMethod(symbol, nil, tsast.Ref(iterator, first), shape),
		createMethod("entries", nil, tsast.Ref(iterator, entry), shape),
		createMethod("keys", nil, tsast.Ref(iterator, key), shape),
		createMethod("values", nil, tsast.Ref(iterator, value), shape),
		createMethod("forEach", []*tsast.Param{
			{Name: "callbackfn", Type: &tsast.FunctionType{
				Params: []*tsast.Param{
					{Name: "value", Type: value},
					{Name: keyName, Type: key},
					{Name: ownerName, Type: owner},
				},
				Return: tsast.Void,
			}},
			{Name: "thisArg", Optional: true, Type: tsast.Any},
		}, tsast.Void, shape),
	)
}

// indexedGetter finds `getter T (unsigned long index)`.
func indexedGetter(members []idl.Member) *idl.Operation {
	for _, m := range members {
		op, ok := m.(*idl.Operation)
		if !ok || op.Special != "getter" || len(op.Parameters) == 0 {
			continue
		}
		if t, ok := op.Parameters[0].Type.(*idl.TypeName); ok && t.Name == "unsigned long" {
			return op
		}
	}
	return nil
}
