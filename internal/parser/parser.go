// Package parser turns a lexer.Token stream into an exprscript/internal/ast
// tree. It is not part of THE CORE execution engine (spec.md §1); its only
// contract with the evaluator is "produce the AST in spec.md §3".
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"exprscript/internal/ast"
	"exprscript/internal/lexer"
)

// Error reports a structural parse failure at a token's position.
type Error struct {
	Pos lexer.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[Parser Error %s] %s", e.Pos, e.Msg)
}

// Parse lexes and parses a complete ExprScript program, returning a single
// root expression. A trailing token after a complete expression, or an
// empty token stream, is a Parser Error.
func Parse(source string) (ast.Node, error) {
	tokens, err := lexer.Lex(source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens)
}

// ParseTokens parses an already-lexed token stream. Exposed so .strnum can
// re-lex a single literal and re-parse it without round-tripping through a
// fresh source string concatenation.
func ParseTokens(tokens []lexer.Token) (ast.Node, error) {
	p := &parser{tokens: tokens}
	if len(p.tokens) == 0 {
		return nil, &Error{Pos: lexer.Position{Line: 1, Column: 1}, Msg: "incomplete token stream"}
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if len(p.tokens) > 0 {
		return nil, &Error{Pos: p.tokens[0].Pos, Msg: fmt.Sprintf("redundant token stream starting at %q", p.tokens[0].Src)}
	}
	return expr, nil
}

type parser struct {
	tokens []lexer.Token
}

func (p *parser) peek() (lexer.Token, bool) {
	if len(p.tokens) == 0 {
		return lexer.Token{}, false
	}
	return p.tokens[0], true
}

func (p *parser) pop() (lexer.Token, error) {
	if len(p.tokens) == 0 {
		return lexer.Token{}, &Error{Pos: lexer.Position{Line: 1, Column: 1}, Msg: "incomplete token stream"}
	}
	tok := p.tokens[0]
	p.tokens = p.tokens[1:]
	return tok, nil
}

func (p *parser) consume(expected string) (lexer.Token, error) {
	tok, err := p.pop()
	if err != nil {
		return tok, err
	}
	if tok.Src != expected {
		return tok, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected %q, got %q", expected, tok.Src)}
	}
	return tok, nil
}

func isNumberToken(tok lexer.Token) bool {
	return len(tok.Src) > 0 && (isDigit(tok.Src[0]) || tok.Src[0] == '-' || tok.Src[0] == '+')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isStringToken(tok lexer.Token) bool {
	return len(tok.Src) > 0 && tok.Src[0] == '"'
}

func isIntrinsicToken(tok lexer.Token) bool {
	return len(tok.Src) > 0 && tok.Src[0] == '.'
}

func isVariableToken(tok lexer.Token) bool {
	if len(tok.Src) == 0 {
		return false
	}
	for i := 0; i < len(tok.Src); i++ {
		c := tok.Src[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return true
}

func (p *parser) parseExpr() (ast.Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, &Error{Pos: lexer.Position{Line: 1, Column: 1}, Msg: "incomplete token stream"}
	}
	switch {
	case isNumberToken(tok):
		return p.parseNumber()
	case isStringToken(tok):
		return p.parseString()
	case isIntrinsicToken(tok):
		return p.parseIntrinsic()
	case tok.Src == "lambda":
		return p.parseLambda()
	case tok.Src == "letrec":
		return p.parseLetrec()
	case tok.Src == "if":
		return p.parseIf()
	case isVariableToken(tok): // after keyword checks, so keywords aren't misread as vars
		return p.parseVariable()
	case tok.Src == "(":
		return p.parseCall()
	case tok.Src == "[":
		return p.parseSequence()
	case tok.Src == "@":
		return p.parseQuery()
	case tok.Src == "&":
		return p.parseAccess()
	default:
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("unrecognized expression starting with %q", tok.Src)}
	}
}

func (p *parser) parseNumber() (*ast.Number, error) {
	tok, err := p.pop()
	if err != nil {
		return nil, err
	}
	if !isNumberToken(tok) {
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected a number, got %q", tok.Src)}
	}
	s := tok.Src
	sign := int64(1)
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	switch {
	case strings.Contains(s, "/"):
		parts := strings.SplitN(s, "/", 2)
		n, _ := strconv.ParseInt(parts[0], 10, 64)
		d, _ := strconv.ParseInt(parts[1], 10, 64)
		num, den := lowestTerms(sign*n, d)
		return &ast.Number{Loc: tok.Pos, N: num, D: den}, nil
	case strings.Contains(s, "."):
		parts := strings.SplitN(s, ".", 2)
		depth := int64(len(parts[1]))
		whole, _ := strconv.ParseInt(parts[0], 10, 64)
		frac, _ := strconv.ParseInt(parts[1], 10, 64)
		scale := pow10(depth)
		num, den := lowestTerms(sign*(whole*scale+frac), scale)
		return &ast.Number{Loc: tok.Pos, N: num, D: den}, nil
	default:
		v, _ := strconv.ParseInt(s, 10, 64)
		return &ast.Number{Loc: tok.Pos, N: sign * v, D: 1}, nil
	}
}

// lowestTerms divides n and d (d > 0) by their greatest common divisor.
func lowestTerms(n, d int64) (int64, int64) {
	a, b := n, d
	if a < 0 {
		a = -a
	}
	for b != 0 {
		a, b = b, a%b
	}
	return n / a, d / a
}

func pow10(n int64) int64 {
	v := int64(1)
	for ; n > 0; n-- {
		v *= 10
	}
	return v
}

func (p *parser) parseString() (*ast.String, error) {
	tok, err := p.pop()
	if err != nil {
		return nil, err
	}
	if !isStringToken(tok) {
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected a string, got %q", tok.Src)}
	}
	content := []rune(tok.Src[1 : len(tok.Src)-1])
	var b strings.Builder
	for i := 0; i < len(content); i++ {
		c := content[i]
		if c == '\\' {
			if i+1 >= len(content) {
				return nil, &Error{Pos: tok.Pos, Msg: "incomplete escape sequence"}
			}
			i++
			switch content[i] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 't':
				b.WriteByte('\t')
			case 'n':
				b.WriteByte('\n')
			default:
				return nil, &Error{Pos: tok.Pos, Msg: "unsupported escape sequence"}
			}
		} else {
			b.WriteRune(c)
		}
	}
	return &ast.String{Loc: tok.Pos, Value: b.String()}, nil
}

func (p *parser) parseIntrinsic() (*ast.Intrinsic, error) {
	tok, err := p.pop()
	if err != nil {
		return nil, err
	}
	if !isIntrinsicToken(tok) {
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected an intrinsic function, got %q", tok.Src)}
	}
	return &ast.Intrinsic{Loc: tok.Pos, Name: tok.Src}, nil
}

func (p *parser) parseVariable() (*ast.Variable, error) {
	tok, err := p.pop()
	if err != nil {
		return nil, err
	}
	if !isVariableToken(tok) {
		return nil, &Error{Pos: tok.Pos, Msg: fmt.Sprintf("expected a variable, got %q", tok.Src)}
	}
	return &ast.Variable{Loc: tok.Pos, Name: tok.Src}, nil
}

func (p *parser) parseLambda() (*ast.Lambda, error) {
	start, err := p.consume("lambda")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("("); err != nil {
		return nil, err
	}
	var params []*ast.Variable
	for {
		tok, ok := p.peek()
		if !ok || !isVariableToken(tok) {
			break
		}
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		params = append(params, v)
	}
	if _, err := p.consume(")"); err != nil {
		return nil, err
	}
	if _, err := p.consume("{"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("}"); err != nil {
		return nil, err
	}
	return &ast.Lambda{Loc: start.Pos, Params: params, Body: body}, nil
}

func (p *parser) parseLetrec() (*ast.Letrec, error) {
	start, err := p.consume("letrec")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("("); err != nil {
		return nil, err
	}
	var bindings []ast.Binding
	for {
		tok, ok := p.peek()
		if !ok || !isVariableToken(tok) {
			break
		}
		name, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume("="); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, ast.Binding{Name: name, Expr: expr})
	}
	if _, err := p.consume(")"); err != nil {
		return nil, err
	}
	if _, err := p.consume("{"); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("}"); err != nil {
		return nil, err
	}
	return &ast.Letrec{Loc: start.Pos, Bindings: bindings, Body: body}, nil
}

func (p *parser) parseIf() (*ast.If, error) {
	start, err := p.consume("if")
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("then"); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume("else"); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.If{Loc: start.Pos, Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

func (p *parser) parseCall() (*ast.Call, error) {
	start, err := p.consume("(")
	if err != nil {
		return nil, err
	}
	callee, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var args []ast.Node
	for {
		tok, ok := p.peek()
		if !ok || tok.Src == ")" {
			break
		}
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	if _, err := p.consume(")"); err != nil {
		return nil, err
	}
	return &ast.Call{Loc: start.Pos, Callee: callee, Args: args}, nil
}

func (p *parser) parseSequence() (*ast.Sequence, error) {
	start, err := p.consume("[")
	if err != nil {
		return nil, err
	}
	var exprs []ast.Node
	for {
		tok, ok := p.peek()
		if !ok || tok.Src == "]" {
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	if len(exprs) == 0 {
		return nil, &Error{Pos: start.Pos, Msg: "zero-length sequence"}
	}
	if _, err := p.consume("]"); err != nil {
		return nil, err
	}
	return &ast.Sequence{Loc: start.Pos, Exprs: exprs}, nil
}

func (p *parser) parseQuery() (*ast.Query, error) {
	start, err := p.consume("@")
	if err != nil {
		return nil, err
	}
	v, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	if v.IsLexical() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Query{Loc: start.Pos, Var: v, Closure: expr}, nil
	}
	return &ast.Query{Loc: start.Pos, Var: v}, nil
}

func (p *parser) parseAccess() (*ast.Access, error) {
	start, err := p.consume("&")
	if err != nil {
		return nil, err
	}
	v, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Access{Loc: start.Pos, Var: v, Closure: expr}, nil
}
