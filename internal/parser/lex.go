// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// bytePosition is an offset into the source text.
type bytePosition int

// EOFRUNE is returned by next once the input is exhausted.
const EOFRUNE = -1

// lexeme is a token produced by the lexer.
type lexeme struct {
	kind     tokenType
	position bytePosition // start offset in the input
	value    string
}

// stateFn scans part of the input and returns the next state.
type stateFn func(*lexer) stateFn

// lexer holds the scanning state. Tokens are produced on demand by running
// state functions until at least one token is pending.
type lexer struct {
	input   string
	state   stateFn
	pos     bytePosition // current position
	start   bytePosition // start of the current token
	width   bytePosition // width of the last rune read
	pending []lexeme
}

// buildlex returns a lexer for input that starts in the given state.
func buildlex(input string, start stateFn) *lexer {
	return &lexer{input: input, state: start}
}

// nextToken returns the next token from the input.
func (l *lexer) nextToken() lexeme {
	for len(l.pending) == 0 {
		if l.state == nil {
			return lexeme{tokenTypeEOF, bytePosition(len(l.input)), ""}
		}
		l.state = l.state(l)
	}
	token := l.pending[0]
	l.pending = l.pending[1:]
	return token
}

// next consumes and returns the next rune, or EOFRUNE.
func (l *lexer) next() rune {
	if int(l.pos) >= len(l.input) {
		l.width = 0
		return EOFRUNE
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = bytePosition(w)
	l.pos += l.width
	return r
}

// peek returns the next rune without consuming it.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune. Only valid once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// value returns the text of the current token.
func (l *lexer) value() string {
	return l.input[l.start:l.pos]
}

// emit queues a token of the given kind for the current text.
func (l *lexer) emit(kind tokenType) {
	l.pending = append(l.pending, lexeme{kind, l.start, l.value()})
	l.start = l.pos
}

// accept consumes the next rune if it is in valid.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from valid.
func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

// acceptString consumes s if the input continues with it.
func (l *lexer) acceptString(s string) bool {
	if strings.HasPrefix(l.input[l.pos:], s) {
		l.pos += bytePosition(len(s))
		return true
	}
	return false
}

// errorf emits an error token and terminates the scan.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.pending = append(l.pending, lexeme{tokenTypeError, l.start, fmt.Sprintf(format, args...)})
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isNewline(r rune) bool {
	return r == '\r' || r == '\n'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isAlphaNumeric(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
