package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		in   string
		want TokenType
	}{
		{"fn", FUNCTION},
		{"let", LET},
		{"if", IF},
		{"else", ELSE},
		{"true", TRUE},
		{"false", FALSE},
		{"return", RETURN},
		{"function", IDENT},
		{"lets", IDENT},
		{"_x", IDENT},
	}
	for _, tt := range tests {
		if got := LookupIdent(tt.in); got != tt.want {
			t.Errorf("LookupIdent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: LET, Literal: "let"}, "LET"},
		{Token{Type: IDENT, Literal: "five"}, `IDENT("five")`},
		{Token{Type: INT, Literal: "5", Int: 5}, "INT(5)"},
		{Token{Type: ASSIGN, Literal: "="}, "="},
		{Token{Type: ILLEGAL, Literal: "@"}, `ILLEGAL("@")`},
		{Token{Type: TokenType(99)}, "TokenType(99)"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
