// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

// lexer walks a private copy of the source text, never mutating the
// caller's buffer (the reference tokenizer NUL-terminates tokens in
// place). A one-token pushback buffer replaces its rollback-by-rewrite
// trick for the ext/arg1 lookahead the parser needs.
type lexer struct {
	src    []byte
	pos    int
	line   int
	col    int
	pushed *Token
}

func newLexer(src []byte) *lexer {
	buf := make([]byte, len(src))
	copy(buf, src)
	return &lexer{src: buf, line: 1, col: 1}
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// isSeparator reports whether c ends a token: whitespace, '.', or EOF.
func isSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '.'
}

// Next returns the next token, skipping whitespace and '#' line
// comments. ok is false at end of input.
func (l *lexer) Next() (Token, bool) {
	if l.pushed != nil {
		tok := *l.pushed
		l.pushed = nil
		return tok, true
	}

	for {
		for l.pos < len(l.src) {
			c := l.peekByte()
			if c == ' ' || c == '\t' || c == '\n' {
				l.advance()
				continue
			}
			break
		}
		if l.pos < len(l.src) && l.peekByte() == '#' {
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
			continue
		}
		break
	}

	if l.pos >= len(l.src) {
		return Token{}, false
	}

	// A lone '.' separator with nothing before it (e.g. two dots in a
	// row) is skipped rather than yielding an empty token.
	if l.peekByte() == '.' {
		l.advance()
		return l.Next()
	}

	pos := Cursor{Line: l.line, Column: l.col}
	start := l.pos
	for l.pos < len(l.src) && !isSeparator(l.peekByte()) {
		l.advance()
	}
	value := string(l.src[start:l.pos])

	if l.pos < len(l.src) && l.peekByte() == '.' {
		l.advance()
	}

	return Token{Value: value, Position: pos}, true
}

// PushBack un-reads a single token, so the next Next() call returns it
// again. Only one token of lookahead is ever needed by the parser.
func (l *lexer) PushBack(t Token) {
	l.pushed = &t
}
