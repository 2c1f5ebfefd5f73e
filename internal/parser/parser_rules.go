package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
)

// Options customizes parsing.
type Options struct {
	// Preprocess, if set, rewrites the source text before it is tokenized.
	Preprocess func(string) string
}

// Parse reads all of r and parses it as a WebIDL document.
func Parse(r io.Reader, opts Options) (*idl.File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return ParseString(string(raw), opts)
}

// ParseString parses the given WebIDL source into a syntax tree. A malformed
// document yields a *ParseError.
func ParseString(input string, opts Options) (file *idl.File, err error) {
	if opts.Preprocess != nil {
		input = opts.Preprocess(input)
	}

	p := buildParser(input)
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			file, err = nil, p.err
		}
	}()

	return p.consumeTopLevel(), nil
}

// consumeTopLevel consumes the top-level constructs of a WebIDL file.
func (p *sourceParser) consumeTopLevel() *idl.File {
	n := &idl.File{}
	finish := p.node(n)

	// Start at the first token.
	p.consumeToken()

	for !p.isToken(tokenTypeEOF) {
		n.Definitions = append(n.Definitions, p.consumeDefinition())
	}

	finish()
	return n
}

// consumeDefinition consumes a definition, with optional extended attributes.
func (p *sourceParser) consumeDefinition() idl.Definition {
	start := p.currentToken
	ann := p.tryConsumeAnnotations()

	var def idl.Definition
	switch {
	case p.isIdentifier("interface"):
		def = p.consumeInterfaceOrMixin(false, ann)
	case p.isIdentifier("partial"):
		p.consumeToken()
		switch {
		case p.isIdentifier("interface"):
			def = p.consumeInterfaceOrMixin(true, ann)
		case p.isIdentifier("dictionary"):
			def = p.consumeDictionary(true, ann)
		case p.isIdentifier("namespace"):
			def = p.consumeNamespace(true, ann)
		default:
			p.emitError("expected interface, dictionary or namespace after partial, found %v", p.describe())
		}
	case p.isIdentifier("callback"):
		p.consumeToken()
		if p.tryConsumeKeyword("interface") {
			n := p.consumeInterfaceBody(&idl.Interface{Callback: true, Annotations: ann})
			def = n
		} else {
			def = p.consumeCallback(ann)
		}
	case p.isIdentifier("dictionary"):
		def = p.consumeDictionary(false, ann)
	case p.isIdentifier("namespace"):
		def = p.consumeNamespace(false, ann)
	case p.isIdentifier("enum"):
		def = p.consumeEnum(ann)
	case p.isIdentifier("typedef"):
		def = p.consumeTypedef(ann)
	case p.isToken(tokenTypeIdentifier) && len(ann) == 0 &&
		(p.isNextIdentifier("includes") || p.isNextIdentifier("implements")):
		def = p.consumeIncludesOrImplements()
	default:
		p.emitError("unexpected token at root level: %v", p.describe())
	}

	// Position definitions from their leading extended attributes.
	b := def.NodeBase()
	b.Start = int(start.position)
	b.Line, b.Column = p.position(start.position)
	return def
}

func (p *sourceParser) consumeInterfaceOrMixin(partial bool, ann []*idl.Annotation) idl.Definition {
	p.consumeKeyword("interface")
	if p.tryConsumeKeyword("mixin") {
		n := &idl.Mixin{Partial: partial, Annotations: ann}
		finish := p.node(n)
		n.Name = p.consumeIdentifier()
		n.Members = p.consumeMembers(p.consumeInterfaceMember)
		finish()
		return n
	}
	return p.consumeInterfaceBody(&idl.Interface{Partial: partial, Annotations: ann})
}

// consumeInterfaceBody consumes `Name [: Inherits] { members };` after the
// interface keyword.
func (p *sourceParser) consumeInterfaceBody(n *idl.Interface) *idl.Interface {
	finish := p.node(n)
	n.Name = p.consumeIdentifier()
	if _, ok := p.tryConsume(tokenTypeColon); ok {
		n.Inherits = p.consumeIdentifier()
	}
	n.Members = p.consumeMembers(p.consumeInterfaceMember)
	finish()
	return n
}

func (p *sourceParser) consumeDictionary(partial bool, ann []*idl.Annotation) *idl.Dictionary {
	n := &idl.Dictionary{Partial: partial, Annotations: ann}
	finish := p.node(n)
	p.consumeKeyword("dictionary")
	n.Name = p.consumeIdentifier()
	if _, ok := p.tryConsume(tokenTypeColon); ok {
		n.Inherits = p.consumeIdentifier()
	}
	n.Members = p.consumeMembers(p.consumeDictionaryMember)
	finish()
	return n
}

func (p *sourceParser) consumeNamespace(partial bool, ann []*idl.Annotation) *idl.Namespace {
	n := &idl.Namespace{Partial: partial, Annotations: ann}
	finish := p.node(n)
	p.consumeKeyword("namespace")
	n.Name = p.consumeIdentifier()
	n.Members = p.consumeMembers(p.consumeInterfaceMember)
	finish()
	return n
}

// consumeMembers consumes `{ member; member; ... };`.
func (p *sourceParser) consumeMembers(member func() idl.Member) []idl.Member {
	var members []idl.Member

	// {
	p.consume(tokenTypeLeftBrace)
	for !p.isToken(tokenTypeRightBrace) {
		if p.isToken(tokenTypeEOF) {
			p.emitError("unexpected end of input, expected member or '}'")
		}
		members = append(members, member())
		p.consume(tokenTypeSemicolon)
	}

	// };
	p.consume(tokenTypeRightBrace)
	p.consume(tokenTypeSemicolon)
	return members
}

func (p *sourceParser) consumeEnum(ann []*idl.Annotation) *idl.Enum {
	n := &idl.Enum{Annotations: ann}
	finish := p.node(n)
	p.consumeKeyword("enum")
	n.Name = p.consumeIdentifier()

	// {
	p.consume(tokenTypeLeftBrace)
	for !p.isToken(tokenTypeRightBrace) {
		value := p.consume(tokenTypeString)
		n.Values = append(n.Values, unquote(value.value))
		if _, ok := p.tryConsume(tokenTypeComma); !ok {
			break
		}
	}

	// };
	p.consume(tokenTypeRightBrace)
	p.consume(tokenTypeSemicolon)
	finish()
	return n
}

// consumeCallback consumes `Name = Return (params);` after the callback keyword.
func (p *sourceParser) consumeCallback(ann []*idl.Annotation) *idl.Callback {
	n := &idl.Callback{Annotations: ann}
	finish := p.node(n)
	n.Name = p.consumeIdentifier()
	p.consume(tokenTypeEquals)
	n.Return = p.consumeType()
	n.Parameters = p.consumeParameters()
	p.consume(tokenTypeSemicolon)
	finish()
	return n
}

func (p *sourceParser) consumeTypedef(ann []*idl.Annotation) *idl.Typedef {
	n := &idl.Typedef{Annotations: ann}
	finish := p.node(n)
	p.consumeKeyword("typedef")
	n.Type = p.consumeType()
	n.Name = p.consumeIdentifier()
	p.consume(tokenTypeSemicolon)
	finish()
	return n
}

// consumeIncludesOrImplements consumes `A includes B;` or the legacy `A implements B;`.
func (p *sourceParser) consumeIncludesOrImplements() idl.Definition {
	var base idl.Base
	finish := p.node(&base)
	name := p.consumeIdentifier()
	implements := p.isIdentifier("implements")
	p.consumeToken()
	source := p.consumeIdentifier()
	p.consume(tokenTypeSemicolon)
	finish()

	if implements {
		return &idl.Implementation{Base: base, Name: name, Source: source}
	}
	return &idl.Includes{Base: base, Name: name, Source: source}
}

// consumeInterfaceMember consumes a member of an interface, mixin or namespace.
func (p *sourceParser) consumeInterfaceMember() idl.Member {
	start := p.currentToken
	ann := p.tryConsumeAnnotations()

	var m idl.Member
	switch {
	case p.isIdentifier("const"):
		m = p.consumeConst(ann)

	case p.isIdentifier("constructor") && p.isNextToken(tokenTypeLeftParen):
		n := &idl.Constructor{Annotations: ann}
		finish := p.node(n)
		p.consumeToken()
		n.Parameters = p.consumeParameters()
		finish()
		m = n

	case (p.isIdentifier("stringifier") || p.isIdentifier("serializer") || p.isIdentifier("jsonifier")) &&
		p.isNextToken(tokenTypeSemicolon):
		n := &idl.CustomOp{}
		finish := p.node(n)
		n.Name = p.consumeIdentifier()
		finish()
		m = n

	case p.isIdentifier("iterable") || (p.isIdentifier("async") && p.isNextIdentifier("iterable")):
		m = p.consumeIterable(ann)

	case p.isIdentifier("maplike") || p.isIdentifier("setlike") ||
		(p.isIdentifier("readonly") && (p.isNextIdentifier("maplike") || p.isNextIdentifier("setlike"))):
		m = p.consumeMaplikeOrSetlike(ann)

	default:
		m = p.consumeAttributeOrOperation(ann)
	}

	b := m.NodeBase()
	b.Start = int(start.position)
	b.Line, b.Column = p.position(start.position)
	return m
}

func (p *sourceParser) consumeConst(ann []*idl.Annotation) *idl.Const {
	n := &idl.Const{Annotations: ann}
	finish := p.node(n)
	p.consumeKeyword("const")
	n.Type = p.consumeType()
	n.Name = p.consumeIdentifier()
	p.consume(tokenTypeEquals)
	n.Value = p.consumeLiteral()
	finish()
	return n
}

func (p *sourceParser) consumeIterable(ann []*idl.Annotation) *idl.Iterable {
	n := &idl.Iterable{Annotations: ann}
	finish := p.node(n)
	n.Async = p.tryConsumeKeyword("async")
	p.consumeKeyword("iterable")
	p.consume(tokenTypeLeftTri)
	n.Types = append(n.Types, p.consumeType())
	if _, ok := p.tryConsume(tokenTypeComma); ok {
		n.Types = append(n.Types, p.consumeType())
	}
	p.consume(tokenTypeRightTri)
	if n.Async && p.isToken(tokenTypeLeftParen) {
		n.Parameters = p.consumeParameters()
	}
	finish()
	return n
}

func (p *sourceParser) consumeMaplikeOrSetlike(ann []*idl.Annotation) idl.Member {
	var base idl.Base
	finish := p.node(&base)
	readonly := p.tryConsumeKeyword("readonly")

	if p.tryConsumeKeyword("setlike") {
		p.consume(tokenTypeLeftTri)
		elem := p.consumeType()
		p.consume(tokenTypeRightTri)
		finish()
		return &idl.Setlike{Base: base, Readonly: readonly, Elem: elem, Annotations: ann}
	}

	p.consumeKeyword("maplike")
	p.consume(tokenTypeLeftTri)
	key := p.consumeType()
	p.consume(tokenTypeComma)
	value := p.consumeType()
	p.consume(tokenTypeRightTri)
	finish()
	return &idl.Maplike{Base: base, Readonly: readonly, Key: key, Value: value, Annotations: ann}
}

// specialKeywords are the keywords that mark special operations.
var specialKeywords = []string{"getter", "setter", "deleter", "legacycaller"}

func (p *sourceParser) consumeAttributeOrOperation(ann []*idl.Annotation) idl.Member {
	var base idl.Base
	finish := p.node(&base)

	static := p.tryConsumeKeyword("static")
	stringifier := p.tryConsumeKeyword("stringifier")
	inherit := p.tryConsumeKeyword("inherit")
	readonly := p.tryConsumeKeyword("readonly")

	if p.tryConsumeKeyword("attribute") {
		n := &idl.Attribute{
			Annotations: ann,
			Static:      static,
			Stringifier: stringifier,
			Inherit:     inherit,
			Readonly:    readonly,
		}
		n.Type = p.consumeType()
		n.Name = p.consumeIdentifier()
		finish()
		n.Base = base
		return n
	}
	if inherit || readonly {
		p.emitError("expected keyword attribute, found %v", p.describe())
	}

	n := &idl.Operation{Annotations: ann, Static: static}
	if stringifier {
		n.Special = "stringifier"
	}
	for _, special := range specialKeywords {
		if p.isIdentifier(special) && !p.isNextToken(tokenTypeLeftParen) {
			n.Special = p.consumeIdentifier()
			break
		}
	}

	n.Return = p.consumeType()
	n.Name, _ = p.tryConsumeIdentifier()
	n.Parameters = p.consumeParameters()
	finish()
	n.Base = base
	return n
}

// consumeDictionaryMember consumes `[required] Type name [= default]`.
func (p *sourceParser) consumeDictionaryMember() idl.Member {
	n := &idl.Field{}
	finish := p.node(n)
	n.Annotations = p.tryConsumeAnnotations()
	n.Required = p.tryConsumeKeyword("required")
	n.Type = p.consumeType()
	n.Name = p.consumeIdentifier()
	n.Default = p.tryConsumeDefaultValue()
	finish()
	return n
}

// tryConsumeAnnotations consumes any extended attribute lists found on the parent node.
func (p *sourceParser) tryConsumeAnnotations() (out []*idl.Annotation) {
	for {
		// [
		if _, ok := p.tryConsume(tokenTypeLeftBracket); !ok {
			return
		}

		for !p.isToken(tokenTypeRightBracket) {
			// Foo()
			out = append(out, p.consumeAnnotationPart())

			// ,
			if _, ok := p.tryConsume(tokenTypeComma); !ok {
				break
			}
		}

		// ]
		p.consume(tokenTypeRightBracket)
	}
}

// consumeAnnotationPart consumes an extended attribute, as found within a set of brackets `[]`.
func (p *sourceParser) consumeAnnotationPart() *idl.Annotation {
	n := &idl.Annotation{}
	finish := p.node(n)
	defer finish()

	n.Name = p.consumeIdentifier()

	// "="
	if _, ok := p.tryConsume(tokenTypeEquals); ok {
		if list, ok := p.tryConsumeValueList(); ok {
			n.Values = list
			return n
		}
		n.Value = p.consume(tokenTypeIdentifier, tokenTypeString, tokenTypeNumber, tokenTypeAsterisk).value
	}

	// Consume (optional) parameters.
	if p.isToken(tokenTypeLeftParen) {
		n.Parameters = p.consumeParameters()
		n.HasParams = true
	}
	return n
}

// tryConsumeValueList consumes `(a, b, "c")`.
func (p *sourceParser) tryConsumeValueList() ([]string, bool) {
	// "("
	if _, ok := p.tryConsume(tokenTypeLeftParen); !ok {
		return nil, false
	}
	var list []string
	for !p.isToken(tokenTypeRightParen) {
		list = append(list, p.consume(tokenTypeIdentifier, tokenTypeString, tokenTypeNumber).value)
		// ","
		if _, ok := p.tryConsume(tokenTypeComma); !ok {
			break
		}
	}
	// ")"
	p.consume(tokenTypeRightParen)
	return list, true
}

// expandedTypeKeywords defines the keywords that form the prefixes for expanded types:
// multi-identifier type names.
var expandedTypeKeywords = map[string][]string{
	"unsigned":     {"short", "long"},
	"long":         {"long"},
	"unrestricted": {"float", "double"},
}

// consumeType consumes a type reference, including union, generic and
// nullable forms, with optional leading extended attributes.
func (p *sourceParser) consumeType() idl.Type {
	start := p.currentToken
	ann := p.tryConsumeAnnotations()

	var t idl.Type
	if p.isToken(tokenTypeLeftParen) {
		t = p.consumeUnionType(ann)
	} else {
		t = p.consumeNamedType(ann)
	}

	b := t.NodeBase()
	b.Start = int(start.position)
	b.Line, b.Column = p.position(start.position)
	return t
}

func (p *sourceParser) consumeUnionType(ann []*idl.Annotation) idl.Type {
	n := &idl.UnionType{Annotations: ann}
	finish := p.node(n)

	// "("
	p.consume(tokenTypeLeftParen)
	for {
		n.Types = append(n.Types, p.consumeType())
		if !p.tryConsumeKeyword("or") {
			break
		}
	}
	// ")"
	p.consume(tokenTypeRightParen)

	if _, ok := p.tryConsume(tokenTypeQuestionMark); ok {
		n.Nullable = true
	}
	finish()
	return n
}

func (p *sourceParser) consumeNamedType(ann []*idl.Annotation) idl.Type {
	var base idl.Base
	finish := p.node(&base)

	escaped := strings.HasPrefix(p.currentToken.value, "_")
	typeName := p.consumeIdentifier()

	// If the identifier is the beginning of a possible expanded type name, check for the
	// secondary portions, e.g. `unsigned long long`.
	for prefix := typeName; !escaped; {
		secondaries, ok := expandedTypeKeywords[prefix]
		if !ok {
			break
		}
		matched := ""
		for _, secondary := range secondaries {
			if p.isIdentifier(secondary) {
				matched = secondary
				break
			}
		}
		if matched == "" {
			break
		}
		p.consumeToken()
		typeName += " " + matched
		prefix = matched
	}

	if _, ok := p.tryConsume(tokenTypeLeftTri); ok {
		n := &idl.GenericType{Name: typeName, Annotations: ann}
		for {
			n.Args = append(n.Args, p.consumeType())
			if _, ok := p.tryConsume(tokenTypeComma); !ok {
				break
			}
		}
		p.consume(tokenTypeRightTri)
		if _, ok := p.tryConsume(tokenTypeQuestionMark); ok {
			n.Nullable = true
		}
		finish()
		n.Base = base
		return n
	}

	n := &idl.TypeName{Name: typeName, Annotations: ann}
	if _, ok := p.tryConsume(tokenTypeQuestionMark); ok {
		n.Nullable = true
	}
	finish()
	n.Base = base
	return n
}

// consumeParameters consumes a parenthesized parameter list.
func (p *sourceParser) consumeParameters() (out []*idl.Parameter) {
	p.consume(tokenTypeLeftParen)
	if _, ok := p.tryConsume(tokenTypeRightParen); ok {
		return
	}

	for {
		out = append(out, p.consumeParameter())
		if _, ok := p.tryConsume(tokenTypeRightParen); ok {
			return
		}
		p.consume(tokenTypeComma)
	}
}

// consumeParameter consumes a single parameter.
func (p *sourceParser) consumeParameter() *idl.Parameter {
	n := &idl.Parameter{}
	finish := p.node(n)
	defer finish()

	n.Annotations = p.tryConsumeAnnotations()
	n.Optional = p.tryConsumeKeyword("optional")
	n.Type = p.consumeType()
	if _, ok := p.tryConsume(tokenTypeVariadic); ok {
		n.Variadic = true
	}

	// Argument names may be keywords, which are lexed as identifiers anyway.
	n.Name = p.consumeIdentifier()
	n.Default = p.tryConsumeDefaultValue()
	return n
}

func (p *sourceParser) tryConsumeDefaultValue() *idl.Literal {
	if _, ok := p.tryConsume(tokenTypeEquals); ok {
		return p.consumeLiteral()
	}
	return nil
}

// consumeLiteral consumes a constant or default value.
func (p *sourceParser) consumeLiteral() *idl.Literal {
	n := &idl.Literal{}
	finish := p.node(n)
	defer finish()

	switch {
	case p.isToken(tokenTypeString, tokenTypeNumber):
		n.Value = p.currentToken.value
		p.consumeToken()
	case p.isToken(tokenTypeMinus):
		p.consumeToken()
		if !p.isIdentifier("Infinity") {
			p.emitError("expected Infinity after '-', found %v", p.describe())
		}
		n.Value = "-Infinity"
		p.consumeToken()
	case p.isToken(tokenTypeLeftBracket):
		p.consumeToken()
		p.consume(tokenTypeRightBracket)
		n.Value = "[]"
	case p.isToken(tokenTypeLeftBrace):
		p.consumeToken()
		p.consume(tokenTypeRightBrace)
		n.Value = "{}"
	case p.isIdentifier("true"), p.isIdentifier("false"), p.isIdentifier("null"),
		p.isIdentifier("Infinity"), p.isIdentifier("NaN"), p.isIdentifier("undefined"):
		n.Value = p.consumeIdentifier()
	default:
		p.emitError("expected constant value, found %v", p.describe())
	}
	return n
}

func unquote(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`)
}
