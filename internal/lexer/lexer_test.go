package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestLexer_KeywordsAndIdents(t *testing.T) {
	toks := collect(t, "func main integer filum vec if else while")
	want := []TokenType{KW_FUNC, IDENT, KW_INTEGER, KW_FILUM, KW_VEC, KW_IF, KW_ELSE, KW_WHILE, EOF}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equalf(t, w, toks[i].Type, "token %d (%q)", i, toks[i].Literal)
	}
}

func TestLexer_Integer(t *testing.T) {
	toks := collect(t, "42")
	require.Equal(t, INT, toks[0].Type)
	require.Equal(t, "42", toks[0].Literal)
}

func TestLexer_Float(t *testing.T) {
	cases := []struct{ in, want string }{
		{"3f", "3.0"},
		{"3.5f", "3.5"},
		{"3.5", "3.5"},
	}
	for _, c := range cases {
		toks := collect(t, c.in)
		require.Equal(t, FLOAT, toks[0].Type)
		require.Equal(t, c.want, toks[0].Literal)
	}
}

func TestLexer_String(t *testing.T) {
	toks := collect(t, `"hi there"`)
	require.Equal(t, STRING, toks[0].Type)
	require.Equal(t, `"hi there"`, toks[0].Literal)
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := New(`"hi`)
	tok := l.NextToken()
	require.Equal(t, STRING, tok.Type)
	require.NotEmpty(t, l.Errors())
}

func TestLexer_Operators(t *testing.T) {
	toks := collect(t, "-> == != <= >= < > = ... && ||")
	want := []TokenType{ARROW, EQ_EQ, NOT_EQ, LT_EQ, GT_EQ, LT, GT, ASSIGN, ELLIPSIS, AND_AND, OR_OR, EOF}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equalf(t, w, toks[i].Type, "token %d (%q)", i, toks[i].Literal)
	}
}

func TestLexer_Punctuation(t *testing.T) {
	toks := collect(t, "[](){}&,:;+-*/%^!")
	want := []TokenType{
		LBRACK, RBRACK, LPAREN, RPAREN, LBRACE, RBRACE, AMP, COMMA, COLON,
		SEMICOLON, PLUS, MINUS, STAR, SLASH, PERCENT, CARET, NOT, EOF,
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equalf(t, w, toks[i].Type, "token %d (%q)", i, toks[i].Literal)
	}
}

func TestLexer_Comments(t *testing.T) {
	toks := collect(t, "1 // a comment\n+ /* block\ncomment */ 2")
	want := []TokenType{INT, PLUS, INT, EOF}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equalf(t, w, toks[i].Type, "token %d", i)
	}
}

func TestLexer_LineTrackingAcrossComment(t *testing.T) {
	l := New("1\n/* x\ny */\n2")
	tok := l.NextToken() // 1
	require.Equal(t, 1, tok.Pos.Line)
	tok = l.NextToken() // 2, after one newline before the comment, one inside it and one after it
	require.Equal(t, 4, tok.Pos.Line)
}

func TestLexer_IllegalCharacter(t *testing.T) {
	l := New("@")
	tok := l.NextToken()
	require.Equal(t, ILLEGAL, tok.Type)
	require.NotEmpty(t, l.Errors())
}

func TestLexer_Peek(t *testing.T) {
	l := New("1 + 2")
	require.Equal(t, INT, l.Peek(0).Type)
	require.Equal(t, PLUS, l.Peek(1).Type)
	require.Equal(t, INT, l.Peek(2).Type)
	// Peek must not consume.
	require.Equal(t, INT, l.NextToken().Type)
	require.Equal(t, PLUS, l.NextToken().Type)
}
