// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser translates a supported subset of WebIDL
// (https://webidl.spec.whatwg.org/) into an idl syntax tree.
package parser

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/emlang-project/webidl-dts-gen/internal/idl"
)

// sourceParser holds the state of the parser.
type sourceParser struct {
	input         string
	lineStarts    []int          // byte offset of every line start
	lex           *peekableLexer // a reference to the lexer used for tokenization
	currentToken  lexeme         // the current token
	previousToken lexeme         // the previous token
	err           *ParseError    // the first error encountered
}

// buildParser returns a new sourceParser instance.
func buildParser(input string) *sourceParser {
	starts := []int{0}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	eof := lexeme{tokenTypeEOF, 0, ""}
	return &sourceParser{
		input:         input,
		lineStarts:    starts,
		lex:           peekableLex(lex(input)),
		currentToken:  eof,
		previousToken: eof,
	}
}

// position converts a byte offset into a 1-based line and rune column.
func (p *sourceParser) position(offset bytePosition) (line, column int) {
	off := int(offset)
	if off > len(p.input) {
		off = len(p.input)
	}
	i := sort.Search(len(p.lineStarts), func(i int) bool { return p.lineStarts[i] > off }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, utf8.RuneCountInString(p.input[p.lineStarts[i]:off]) + 1
}

// emitError records a ParseError at the current token and unwinds the parse.
func (p *sourceParser) emitError(format string, args ...interface{}) {
	line, column := p.position(p.currentToken.position)
	p.err = &ParseError{
		Line:    line,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
	if p.currentToken.kind != tokenTypeError {
		p.err.Token = p.currentToken.value
	}
	panic(bailout{})
}

// node decorates n with the current token's position as its start and
// returns a function that decorates its end with the previous token.
func (p *sourceParser) node(n idl.Node) func() {
	b := n.NodeBase()
	b.Start = int(p.currentToken.position)
	b.Line, b.Column = p.position(p.currentToken.position)
	return func() {
		b.End = int(p.previousToken.position) + len(p.previousToken.value)
	}
}

// consumeToken advances the lexer forward, returning the next token.
func (p *sourceParser) consumeToken() lexeme {
	for {
		token := p.lex.nextToken()
		if isIgnoredToken(token.kind) {
			continue
		}

		p.previousToken = p.currentToken
		p.currentToken = token
		if token.kind == tokenTypeError {
			p.emitError("%s", token.value)
		}
		return token
	}
}

// nextToken returns the next significant token without advancing the parser.
func (p *sourceParser) nextToken() lexeme {
	for counter := 1; ; counter++ {
		token := p.lex.peekToken(counter)
		if !isIgnoredToken(token.kind) {
			return token
		}
	}
}

// isToken returns true if the current token matches one of the types given.
func (p *sourceParser) isToken(types ...tokenType) bool {
	for _, kind := range types {
		if p.currentToken.kind == kind {
			return true
		}
	}
	return false
}

// isNextToken returns true if the *next* token matches one of the types given.
func (p *sourceParser) isNextToken(types ...tokenType) bool {
	token := p.nextToken()
	for _, kind := range types {
		if token.kind == kind {
			return true
		}
	}
	return false
}

// isIdentifier returns true if the current token is the given identifier.
// WebIDL keywords are lexed as identifiers.
func (p *sourceParser) isIdentifier(name string) bool {
	return p.isToken(tokenTypeIdentifier) && p.currentToken.value == name
}

// isNextIdentifier returns true if the next token is the given identifier.
func (p *sourceParser) isNextIdentifier(name string) bool {
	token := p.nextToken()
	return token.kind == tokenTypeIdentifier && token.value == name
}

// tryConsumeKeyword attempts to consume an expected keyword token.
func (p *sourceParser) tryConsumeKeyword(keyword string) bool {
	if !p.isIdentifier(keyword) {
		return false
	}
	p.consumeToken()
	return true
}

// consumeKeyword consumes an expected keyword token or fails.
func (p *sourceParser) consumeKeyword(keyword string) {
	if !p.tryConsumeKeyword(keyword) {
		p.emitError("expected keyword %s, found %v", keyword, p.describe())
	}
}

// tryConsumeIdentifier attempts to consume an identifier. A leading
// underscore escapes a keyword and is not part of the name.
func (p *sourceParser) tryConsumeIdentifier() (string, bool) {
	if !p.isToken(tokenTypeIdentifier) {
		return "", false
	}
	value := strings.TrimPrefix(p.currentToken.value, "_")
	p.consumeToken()
	return value, true
}

// consumeIdentifier consumes an expected identifier token or fails.
func (p *sourceParser) consumeIdentifier() string {
	if identifier, ok := p.tryConsumeIdentifier(); ok {
		return identifier
	}
	p.emitError("expected identifier, found %v", p.describe())
	return ""
}

// tryConsume consumes the current token if it matches any of the given types.
func (p *sourceParser) tryConsume(types ...tokenType) (lexeme, bool) {
	if p.isToken(types...) {
		token := p.currentToken
		p.consumeToken()
		return token, true
	}
	return lexeme{tokenTypeError, -1, ""}, false
}

// consume consumes a token of one of the given types or fails.
func (p *sourceParser) consume(types ...tokenType) lexeme {
	token, ok := p.tryConsume(types...)
	if !ok {
		if len(types) == 1 {
			p.emitError("expected %v, found %v", types[0], p.describe())
		}
		p.emitError("expected one of %v, found %v", types, p.describe())
	}
	return token
}

// describe names the current token for error messages.
func (p *sourceParser) describe() string {
	switch p.currentToken.kind {
	case tokenTypeEOF:
		return "end of input"
	case tokenTypeIdentifier, tokenTypeString, tokenTypeNumber:
		return fmt.Sprintf("%v %s", p.currentToken.kind, p.currentToken.value)
	}
	return p.currentToken.kind.String()
}
