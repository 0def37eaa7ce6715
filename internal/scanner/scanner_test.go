package scanner

import (
	"testing"

	"github.com/xirelogy/golox/internal/token"
)

func TestScannerBasicTokens(t *testing.T) {
	input := `
var a = 1.5; // trailing comment
{
  if (a >= 10 and a != 2) print "hi";
}
`

	tests := []token.Token{
		{Type: token.Var, Lexeme: "var", Line: 2},
		{Type: token.Identifier, Lexeme: "a", Line: 2},
		{Type: token.Equal, Lexeme: "=", Line: 2},
		{Type: token.Number, Lexeme: "1.5", Line: 2},
		{Type: token.Semicolon, Lexeme: ";", Line: 2},
		{Type: token.LeftBrace, Lexeme: "{", Line: 3},
		{Type: token.If, Lexeme: "if", Line: 4},
		{Type: token.LeftParen, Lexeme: "(", Line: 4},
		{Type: token.Identifier, Lexeme: "a", Line: 4},
		{Type: token.GreaterEqual, Lexeme: ">=", Line: 4},
		{Type: token.Number, Lexeme: "10", Line: 4},
		{Type: token.And, Lexeme: "and", Line: 4},
		{Type: token.Identifier, Lexeme: "a", Line: 4},
		{Type: token.BangEqual, Lexeme: "!=", Line: 4},
		{Type: token.Number, Lexeme: "2", Line: 4},
		{Type: token.RightParen, Lexeme: ")", Line: 4},
		{Type: token.Print, Lexeme: "print", Line: 4},
		{Type: token.String, Lexeme: `"hi"`, Line: 4},
		{Type: token.Semicolon, Lexeme: ";", Line: 4},
		{Type: token.RightBrace, Lexeme: "}", Line: 5},
		{Type: token.EOF, Lexeme: "", Line: 6},
	}

	s := New(input)
	for i, expected := range tests {
		tok := s.ScanToken()
		if tok != expected {
			t.Fatalf("token %d: expected %v %q line %d, got %v %q line %d",
				i, expected.Type, expected.Lexeme, expected.Line, tok.Type, tok.Lexeme, tok.Line)
		}
	}
}

func TestScannerOperators(t *testing.T) {
	s := New("( ) { } , . - + ; / * ! != = == > >= < <=")
	want := []token.Type{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Slash, token.Star, token.Bang, token.BangEqual, token.Equal,
		token.EqualEqual, token.Greater, token.GreaterEqual, token.Less,
		token.LessEqual, token.EOF,
	}
	for i, typ := range want {
		if tok := s.ScanToken(); tok.Type != typ {
			t.Fatalf("token %d: expected %v, got %v (%q)", i, typ, tok.Type, tok.Lexeme)
		}
	}
}

func TestScannerKeywordsAndIdentifiers(t *testing.T) {
	cases := []struct {
		src  string
		want token.Type
	}{
		{"and", token.And},
		{"class", token.Class},
		{"else", token.Else},
		{"false", token.False},
		{"for", token.For},
		{"fun", token.Fun},
		{"if", token.If},
		{"nil", token.Nil},
		{"or", token.Or},
		{"print", token.Print},
		{"return", token.Return},
		{"super", token.Super},
		{"this", token.This},
		{"true", token.True},
		{"var", token.Var},
		{"while", token.While},
		{"variable", token.Identifier},
		{"_x9", token.Identifier},
		{"fo", token.Identifier},
	}
	for _, tc := range cases {
		tok := New(tc.src).ScanToken()
		if tok.Type != tc.want || tok.Lexeme != tc.src {
			t.Fatalf("%q: expected %v, got %v %q", tc.src, tc.want, tok.Type, tok.Lexeme)
		}
	}
}

func TestScannerNumbers(t *testing.T) {
	s := New("12 3.25 7.")
	want := []token.Token{
		{Type: token.Number, Lexeme: "12", Line: 1},
		{Type: token.Number, Lexeme: "3.25", Line: 1},
		{Type: token.Number, Lexeme: "7", Line: 1},
		{Type: token.Dot, Lexeme: ".", Line: 1},
		{Type: token.EOF, Lexeme: "", Line: 1},
	}
	for i, expected := range want {
		if tok := s.ScanToken(); tok != expected {
			t.Fatalf("token %d: expected %+v, got %+v", i, expected, tok)
		}
	}
}

func TestScannerMultilineString(t *testing.T) {
	s := New("\"a\nb\" x")
	tok := s.ScanToken()
	if tok.Type != token.String || tok.Lexeme != "\"a\nb\"" {
		t.Fatalf("expected multiline string, got %v %q", tok.Type, tok.Lexeme)
	}
	if tok.Line != 2 {
		t.Fatalf("expected string token to end on line 2, got %d", tok.Line)
	}
	if next := s.ScanToken(); next.Line != 2 {
		t.Fatalf("expected identifier on line 2, got %d", next.Line)
	}
}

func TestScannerErrors(t *testing.T) {
	tok := New(`"never closed`).ScanToken()
	if tok.Type != token.Error || tok.Lexeme != "Unterminated string." {
		t.Fatalf("expected unterminated string error, got %v %q", tok.Type, tok.Lexeme)
	}

	s := New("@ 1")
	tok = s.ScanToken()
	if tok.Type != token.Error || tok.Lexeme != "Unexpected character." {
		t.Fatalf("expected unexpected character error, got %v %q", tok.Type, tok.Lexeme)
	}
	// scanning continues after an error token
	if tok = s.ScanToken(); tok.Type != token.Number {
		t.Fatalf("expected number after error, got %v", tok.Type)
	}
}

func TestScannerEOFIsSticky(t *testing.T) {
	s := New("// only a comment")
	for i := 0; i < 3; i++ {
		if tok := s.ScanToken(); tok.Type != token.EOF {
			t.Fatalf("call %d: expected EOF, got %v", i, tok.Type)
		}
	}
}
