// Copyright 2015 The Serulian Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Based on design first introduced in: http://blog.golang.org/two-go-talks-lexical-scanning-in-go-and
// Portions copied and modified from: https://github.com/golang/go/blob/master/src/text/template/parse/lex.go

package parser

// lex creates a new scanner for the input string.
func lex(input string) *lexer {
	return buildlex(input, performLexSource)
}

// tokenType identifies the type of lexer lexemes.
type tokenType int

const (
	tokenTypeError tokenType = iota // error occurred; value is text of error
	tokenTypeEOF
	tokenTypeWhitespace
	tokenTypeComment

	tokenTypeIdentifier // helloworld, interface
	tokenTypeString     // "hello"
	tokenTypeNumber     // 123, -0.5, 0xFF

	tokenTypeLeftBrace    // {
	tokenTypeRightBrace   // }
	tokenTypeLeftParen    // (
	tokenTypeRightParen   // )
	tokenTypeLeftBracket  // [
	tokenTypeRightBracket // ]
	tokenTypeLeftTri      // <
	tokenTypeRightTri     // >

	tokenTypeEquals       // =
	tokenTypeSemicolon    // ;
	tokenTypeComma        // ,
	tokenTypeQuestionMark // ?
	tokenTypeColon        // :
	tokenTypeVariadic     // ...
	tokenTypeMinus        // -
	tokenTypeAsterisk     // *
)

var tokenNames = map[tokenType]string{
	tokenTypeError:        "error",
	tokenTypeEOF:          "end of input",
	tokenTypeWhitespace:   "whitespace",
	tokenTypeComment:      "comment",
	tokenTypeIdentifier:   "identifier",
	tokenTypeString:       "string",
	tokenTypeNumber:       "number",
	tokenTypeLeftBrace:    "'{'",
	tokenTypeRightBrace:   "'}'",
	tokenTypeLeftParen:    "'('",
	tokenTypeRightParen:   "')'",
	tokenTypeLeftBracket:  "'['",
	tokenTypeRightBracket: "']'",
	tokenTypeLeftTri:      "'<'",
	tokenTypeRightTri:     "'>'",
	tokenTypeEquals:       "'='",
	tokenTypeSemicolon:    "';'",
	tokenTypeComma:        "','",
	tokenTypeQuestionMark: "'?'",
	tokenTypeColon:        "':'",
	tokenTypeVariadic:     "'...'",
	tokenTypeMinus:        "'-'",
	tokenTypeAsterisk:     "'*'",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown"
}

func isIgnoredToken(kind tokenType) bool {
	return kind == tokenTypeWhitespace || kind == tokenTypeComment
}

// performLexSource scans until EOFRUNE
func performLexSource(l *lexer) stateFn {
Loop:
	for {
		switch r := l.next(); {
		case r == EOFRUNE:
			break Loop

		case r == '{':
			l.emit(tokenTypeLeftBrace)

		case r == '}':
			l.emit(tokenTypeRightBrace)

		case r == '(':
			l.emit(tokenTypeLeftParen)

		case r == ')':
			l.emit(tokenTypeRightParen)

		case r == '[':
			l.emit(tokenTypeLeftBracket)

		case r == ']':
			l.emit(tokenTypeRightBracket)

		case r == '<':
			l.emit(tokenTypeLeftTri)

		case r == '>':
			l.emit(tokenTypeRightTri)

		case r == ';':
			l.emit(tokenTypeSemicolon)

		case r == ',':
			l.emit(tokenTypeComma)

		case r == '=':
			l.emit(tokenTypeEquals)

		case r == '?':
			l.emit(tokenTypeQuestionMark)

		case r == ':':
			l.emit(tokenTypeColon)

		case r == '*':
			l.emit(tokenTypeAsterisk)

		case r == '.':
			if isDigit(l.peek()) {
				l.backup()
				return lexNumber
			}
			if l.acceptString("..") {
				l.emit(tokenTypeVariadic)
			} else {
				return l.errorf("unrecognized character at this location: %#U", r)
			}

		case r == '-':
			if p := l.peek(); isDigit(p) || p == '.' {
				l.backup()
				return lexNumber
			}
			l.emit(tokenTypeMinus)

		case isSpace(r) || isNewline(r):
			l.emit(tokenTypeWhitespace)

		case r == '"':
			l.backup()
			return lexStringLiteral

		case isDigit(r):
			l.backup()
			return lexNumber

		case isAlphaNumeric(r):
			l.backup()
			return lexIdentifierOrKeyword

		case r == '/':
			switch l.peek() {
			case '/':
				return lexSinglelineComment
			case '*':
				return lexMultilineComment
			}
			return l.errorf("unrecognized character at this location: %#U", r)

		default:
			return l.errorf("unrecognized character at this location: %#U", r)
		}
	}

	l.emit(tokenTypeEOF)
	return nil
}

// lexSinglelineComment scans until newline or EOFRUNE
func lexSinglelineComment(l *lexer) stateFn {
	for {
		r := l.next()
		if r == EOFRUNE || isNewline(r) {
			if r != EOFRUNE {
				l.backup()
			}
			break
		}
	}
	l.emit(tokenTypeComment)
	return performLexSource
}

// lexMultilineComment scans until the closing */.
func lexMultilineComment(l *lexer) stateFn {
	l.next() // '*'
	for {
		if l.acceptString("*/") {
			break
		}
		if l.next() == EOFRUNE {
			return l.errorf("unterminated comment")
		}
	}
	l.emit(tokenTypeComment)
	return performLexSource
}

// lexIdentifierOrKeyword searches for a keyword or literal identifier.
func lexIdentifierOrKeyword(l *lexer) stateFn {
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	l.emit(tokenTypeIdentifier)
	return performLexSource
}

// lexNumber scans decimal, hexadecimal and floating point numbers.
func lexNumber(l *lexer) stateFn {
	l.accept("-")
	digits := "0123456789"
	if l.accept("0") && l.accept("xX") {
		digits = "0123456789abcdefABCDEF"
	}
	l.acceptRun(digits)
	if digits == "0123456789" {
		if l.accept(".") {
			l.acceptRun(digits)
		}
		if l.accept("eE") {
			l.accept("+-")
			l.acceptRun(digits)
		}
	}
	if isAlphaNumeric(l.peek()) {
		l.next()
		return l.errorf("bad number syntax: %q", l.value())
	}
	l.emit(tokenTypeNumber)
	return performLexSource
}

func lexStringLiteral(l *lexer) stateFn {
	l.accept(`"`)
	esc := false
	for {
		c := l.next()
		if c == EOFRUNE {
			return l.errorf("unterminated string")
		}
		if c == '"' && !esc {
			break
		}
		esc = c == '\\' && !esc
	}
	l.emit(tokenTypeString)
	return performLexSource
}
