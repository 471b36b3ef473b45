package hlsl

import (
	"errors"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Scanner tokenizes HLSL source code. The parser pulls tokens one at a time
// via Next; the scanner never looks ahead more than two runes.
type Scanner struct {
	src     *SourceCode
	pos     int
	line    int
	column  int
	start   int
	tokPos  SourcePos // position of the token currently being scanned
	lastPos SourcePos // position of the most recently returned token
}

// NewScanner creates a scanner with no source attached.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan attaches a source buffer and resets the scanner state.
func (s *Scanner) Scan(src *SourceCode) error {
	if src == nil {
		return errors.New("no source code to scan")
	}
	s.src = src
	s.pos = 0
	s.line = 1
	s.column = 1
	s.lastPos = SourcePos{File: src.Name, Line: 1, Column: 1}
	return nil
}

// Pos returns the position of the most recently returned token.
func (s *Scanner) Pos() SourcePos {
	return s.lastPos
}

// Next scans and returns the next token. At the end of the source it returns
// TokenEOF indefinitely.
func (s *Scanner) Next() Token {
	s.skipWhitespaceAndComments()

	s.start = s.pos
	s.tokPos = SourcePos{File: s.src.Name, Line: s.line, Column: s.column}

	if s.isAtEnd() {
		return s.makeToken(TokenEOF)
	}

	r := s.advance()

	switch r {
	case '(':
		return s.makeToken(TokenLeftParen)
	case ')':
		return s.makeToken(TokenRightParen)
	case '[':
		return s.makeToken(TokenLeftBracket)
	case ']':
		return s.makeToken(TokenRightBracket)
	case '{':
		return s.makeToken(TokenLeftBrace)
	case '}':
		return s.makeToken(TokenRightBrace)
	case ',':
		return s.makeToken(TokenComma)
	case ';':
		return s.makeToken(TokenSemicolon)
	case ':':
		return s.makeToken(TokenColon)
	case '.':
		return s.makeToken(TokenDot)
	case '?':
		return s.makeToken(TokenTernaryOp)
	case '~':
		return s.makeToken(TokenUnaryOp)
	case '#':
		return s.directive()

	case '+':
		if s.match('+') {
			return s.makeToken(TokenUnaryOp)
		}
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	case '-':
		if s.match('-') {
			return s.makeToken(TokenUnaryOp)
		}
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	case '*':
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	case '/':
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	case '%':
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	case '=':
		if s.match('=') {
			return s.makeToken(TokenBinaryOp)
		}
		return s.makeToken(TokenAssignOp)
	case '!':
		if s.match('=') {
			return s.makeToken(TokenBinaryOp)
		}
		return s.makeToken(TokenUnaryOp)
	case '<':
		if s.match('<') {
			if s.match('=') {
				return s.makeToken(TokenAssignOp)
			}
			return s.makeToken(TokenBinaryOp)
		}
		s.match('=')
		return s.makeToken(TokenBinaryOp)
	case '>':
		if s.match('>') {
			if s.match('=') {
				return s.makeToken(TokenAssignOp)
			}
			return s.makeToken(TokenBinaryOp)
		}
		s.match('=')
		return s.makeToken(TokenBinaryOp)
	case '&':
		if s.match('&') {
			return s.makeToken(TokenBinaryOp)
		}
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	case '|':
		if s.match('|') {
			return s.makeToken(TokenBinaryOp)
		}
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	case '^':
		if s.match('=') {
			return s.makeToken(TokenAssignOp)
		}
		return s.makeToken(TokenBinaryOp)
	}

	if isDigit(r) {
		return s.number()
	}
	if isAlpha(r) || r == '_' {
		return s.identifier()
	}

	return s.makeToken(TokenError)
}

func (s *Scanner) skipWhitespaceAndComments() {
	for !s.isAtEnd() {
		switch s.peek() {
		case ' ', '\t', '\r':
			s.advance()
		case '\n':
			s.advance()
			s.line++
			s.column = 1
		case '/':
			if s.peekNext() == '/' {
				for !s.isAtEnd() && s.peek() != '\n' {
					s.advance()
				}
			} else if s.peekNext() == '*' {
				s.advance()
				s.advance()
				s.blockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) blockComment() {
	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			return
		}
		if s.peek() == '\n' {
			s.advance()
			s.line++
			s.column = 1
		} else {
			s.advance()
		}
	}
}

// directive consumes the rest of the line verbatim, including the leading '#'.
func (s *Scanner) directive() Token {
	for !s.isAtEnd() && s.peek() != '\n' {
		s.advance()
	}
	spell := s.src.Text[s.start:s.pos]
	for len(spell) > 0 && (spell[len(spell)-1] == '\r' || spell[len(spell)-1] == ' ' || spell[len(spell)-1] == '\t') {
		spell = spell[:len(spell)-1]
	}
	tok := Token{Kind: TokenDirective, Spell: spell, Pos: s.tokPos}
	s.lastPos = tok.Pos
	return tok
}

func (s *Scanner) number() Token {
	// Hex literal
	if s.src.Text[s.start] == '0' && (s.peek() == 'x' || s.peek() == 'X') {
		s.advance()
		for isHexDigit(s.peek()) {
			s.advance()
		}
		if s.peek() == 'u' || s.peek() == 'U' {
			s.advance()
		}
		return s.makeToken(TokenIntLiteral)
	}

	for isDigit(s.peek()) {
		s.advance()
	}

	isFloat := false

	// Fractional part. "1.x" is member access on an integer, so the dot only
	// belongs to the number when an identifier does not follow it.
	nextAfterDot := s.peekNext()
	if s.peek() == '.' && !isAlpha(nextAfterDot) && nextAfterDot != '_' {
		isFloat = true
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// Exponent
	if s.peek() == 'e' || s.peek() == 'E' {
		isFloat = true
		s.advance()
		if s.peek() == '+' || s.peek() == '-' {
			s.advance()
		}
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	// Suffixes
	switch s.peek() {
	case 'f', 'F', 'h', 'H':
		isFloat = true
		s.advance()
	case 'u', 'U':
		if !isFloat {
			s.advance()
		}
	}

	if isFloat {
		return s.makeToken(TokenFloatLiteral)
	}
	return s.makeToken(TokenIntLiteral)
}

func (s *Scanner) identifier() Token {
	for isAlphaNumeric(s.peek()) || s.peek() == '_' {
		s.advance()
	}
	text := s.src.Text[s.start:s.pos]
	if kind, ok := keywords[text]; ok {
		return s.makeToken(kind)
	}
	return s.makeToken(TokenIdent)
}

var keywords = map[string]TokenKind{
	"true":  TokenBoolLiteral,
	"false": TokenBoolLiteral,

	"struct":  TokenStruct,
	"for":     TokenFor,
	"while":   TokenWhile,
	"do":      TokenDo,
	"if":      TokenIf,
	"else":    TokenElse,
	"switch":  TokenSwitch,
	"case":    TokenCase,
	"default": TokenDefault,
	"return":  TokenReturn,

	"break":    TokenCtrlTransfer,
	"continue": TokenCtrlTransfer,
	"discard":  TokenCtrlTransfer,

	"void": TokenVoid,

	"cbuffer": TokenUniformBuffer,
	"tbuffer": TokenUniformBuffer,

	"register":   TokenRegister,
	"packoffset": TokenPackOffset,

	"in":      TokenInputModifier,
	"out":     TokenInputModifier,
	"inout":   TokenInputModifier,
	"uniform": TokenInputModifier,

	"const":        TokenTypeModifier,
	"row_major":    TokenTypeModifier,
	"column_major": TokenTypeModifier,

	"extern":          TokenStorageModifier,
	"nointerpolation": TokenStorageModifier,
	"precise":         TokenStorageModifier,
	"shared":          TokenStorageModifier,
	"groupshared":     TokenStorageModifier,
	"static":          TokenStorageModifier,
	"volatile":        TokenStorageModifier,

	"texture":          TokenTexture,
	"Texture1D":        TokenTexture,
	"Texture1DArray":   TokenTexture,
	"Texture2D":        TokenTexture,
	"Texture2DArray":   TokenTexture,
	"Texture2DMS":      TokenTexture,
	"Texture2DMSArray": TokenTexture,
	"Texture3D":        TokenTexture,
	"TextureCube":      TokenTexture,
	"TextureCubeArray": TokenTexture,
	"RWTexture1D":      TokenTexture,
	"RWTexture2D":      TokenTexture,
	"RWTexture3D":      TokenTexture,

	"sampler":                TokenSampler,
	"sampler1D":              TokenSampler,
	"sampler2D":              TokenSampler,
	"sampler3D":              TokenSampler,
	"samplerCUBE":            TokenSampler,
	"sampler_state":          TokenSampler,
	"SamplerState":           TokenSampler,
	"SamplerComparisonState": TokenSampler,
}

func init() {
	// Scalar, vector, and matrix type names: float, float3, float4x4, ...
	for _, base := range []string{"bool", "int", "uint", "half", "float", "double"} {
		keywords[base] = TokenScalarType
		for n := 1; n <= 4; n++ {
			keywords[base+strconv.Itoa(n)] = TokenVectorType
		}
		for n := 2; n <= 4; n++ {
			for m := 2; m <= 4; m++ {
				keywords[base+strconv.Itoa(n)+"x"+strconv.Itoa(m)] = TokenMatrixType
			}
		}
	}
}

func (s *Scanner) makeToken(kind TokenKind) Token {
	tok := Token{
		Kind:  kind,
		Spell: s.src.Text[s.start:s.pos],
		Pos:   s.tokPos,
	}
	s.lastPos = tok.Pos
	return tok
}

func (s *Scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src.Text[s.pos:])
	s.pos += size
	s.column++
	return r
}

func (s *Scanner) peek() rune {
	if s.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src.Text[s.pos:])
	return r
}

func (s *Scanner) peekNext() rune {
	if s.pos >= len(s.src.Text) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(s.src.Text[s.pos:])
	if s.pos+size >= len(s.src.Text) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src.Text[s.pos+size:])
	return r
}

func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(s.src.Text[s.pos:])
	if r != expected {
		return false
	}
	s.pos += size
	s.column++
	return true
}

func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.src.Text)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
