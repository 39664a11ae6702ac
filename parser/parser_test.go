package parser

import (
	"strings"
	"testing"

	"github.com/oarkflow/monkey/ast"
	"github.com/oarkflow/monkey/lexer"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %q", msg)
	}
	t.FailNow()
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input              string
		expectedIdentifier string
		expectedValue      string
	}{
		{"let x = 5;", "x", "5"},
		{"let y = true;", "y", "true"},
		{"let foobar = y;", "foobar", "y"},
		{"let z = 1 + 2", "z", "(1 + 2)"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("program.Statements does not contain 1 statement. got=%d", len(program.Statements))
		}

		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("stmt not *ast.LetStatement. got=%T", program.Statements[0])
		}
		if stmt.Name.Name != tt.expectedIdentifier {
			t.Errorf("stmt.Name.Name not %q. got=%q", tt.expectedIdentifier, stmt.Name.Name)
		}
		if stmt.Value.String() != tt.expectedValue {
			t.Errorf("stmt.Value not %q. got=%q", tt.expectedValue, stmt.Value.String())
		}
	}
}

func TestReturnStatements(t *testing.T) {
	tests := []struct {
		input         string
		expectedValue string
	}{
		{"return 5;", "5"},
		{"return true;", "true"},
		{"return foobar", "foobar"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("program.Statements does not contain 1 statement. got=%d", len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.ReturnStatement)
		if !ok {
			t.Fatalf("stmt not *ast.ReturnStatement. got=%T", program.Statements[0])
		}
		if stmt.ReturnValue.String() != tt.expectedValue {
			t.Errorf("return value not %q. got=%q", tt.expectedValue, stmt.ReturnValue.String())
		}
	}
}

func TestOptionalSemicolons(t *testing.T) {
	program := parse(t, "let a = 1 let b = 2 a + b; return a")
	if len(program.Statements) != 4 {
		t.Fatalf("expected 4 statements, got %d: %s", len(program.Statements), program.String())
	}
}

func TestLiteralExpressions(t *testing.T) {
	program := parse(t, `foobar; 5; true; false; "hello world";`)
	if len(program.Statements) != 5 {
		t.Fatalf("expected 5 statements, got %d", len(program.Statements))
	}

	exprs := make([]ast.Expression, len(program.Statements))
	for i, s := range program.Statements {
		es, ok := s.(*ast.ExpressionStatement)
		if !ok {
			t.Fatalf("statements[%d] not *ast.ExpressionStatement. got=%T", i, s)
		}
		exprs[i] = es.Expression
	}

	if ident, ok := exprs[0].(*ast.Identifier); !ok || ident.Name != "foobar" {
		t.Errorf("exprs[0] = %#v, want identifier foobar", exprs[0])
	}
	if lit, ok := exprs[1].(*ast.IntegerLiteral); !ok || lit.Value != 5 {
		t.Errorf("exprs[1] = %#v, want integer 5", exprs[1])
	}
	if lit, ok := exprs[2].(*ast.BooleanLiteral); !ok || !lit.Value {
		t.Errorf("exprs[2] = %#v, want true", exprs[2])
	}
	if lit, ok := exprs[3].(*ast.BooleanLiteral); !ok || lit.Value {
		t.Errorf("exprs[3] = %#v, want false", exprs[3])
	}
	if lit, ok := exprs[4].(*ast.StringLiteral); !ok || lit.Value != "hello world" {
		t.Errorf("exprs[4] = %#v, want string", exprs[4])
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"3 + 4; -5 * 5", "(3 + 4)((-5) * 5)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"3 > 5 == false", "((3 > 5) == false)"},
		{"1 + (2 + 3) + 4", "((1 + (2 + 3)) + 4)"},
		{"-(5 + 5)", "(-(5 + 5))"},
		{"!(true == true)", "(!(true == true))"},
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"add(a, b, 1, 2 * 3, 4 + 5, add(6, 7 * 8))", "add(a, b, 1, (2 * 3), (4 + 5), add(6, (7 * 8)))"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)"},
		{"add(a * b[2], b[1], 2 * [1, 2][1])", "add((a * (b[2])), (b[1]), (2 * ([1, 2][1])))"},
		{"f(1)(2)", "f(1)(2)"},
		{"a[0][1]", "((a[0])[1])"},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		if actual := program.String(); actual != tt.expected {
			t.Errorf("%q: expected=%q, got=%q", tt.input, tt.expected, actual)
		}
	}
}

func TestIfExpression(t *testing.T) {
	program := parse(t, `if (x < y) { x }`)
	exp := singleExpression(t, program).(*ast.IfExpression)

	if exp.Condition.String() != "(x < y)" {
		t.Errorf("condition = %q", exp.Condition.String())
	}
	if len(exp.Consequence.Statements) != 1 {
		t.Errorf("consequence has %d statements, want 1", len(exp.Consequence.Statements))
	}
	if exp.Alternative != nil {
		t.Errorf("alternative = %s, want nil", exp.Alternative.String())
	}
}

func TestIfElseExpression(t *testing.T) {
	program := parse(t, `if (x < y) { x } else { y; z }`)
	exp := singleExpression(t, program).(*ast.IfExpression)

	if exp.Alternative == nil {
		t.Fatal("alternative is nil")
	}
	if len(exp.Alternative.Statements) != 2 {
		t.Errorf("alternative has %d statements, want 2", len(exp.Alternative.Statements))
	}
}

func TestFunctionLiteralParsing(t *testing.T) {
	program := parse(t, `fn(x, y) { x + y; }`)
	fn, ok := singleExpression(t, program).(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("expression is not *ast.FunctionLiteral")
	}
	if len(fn.Parameters) != 2 || fn.Parameters[0].Name != "x" || fn.Parameters[1].Name != "y" {
		t.Fatalf("parameters wrong: %v", fn.Parameters)
	}
	if fn.Body.String() != "{ (x + y) }" {
		t.Errorf("body = %q", fn.Body.String())
	}
}

func TestFunctionParameterParsing(t *testing.T) {
	tests := []struct {
		input          string
		expectedParams []string
	}{
		{"fn() {};", []string{}},
		{"fn(x) {};", []string{"x"}},
		{"fn(x, y, z) {};", []string{"x", "y", "z"}},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		fn := singleExpression(t, program).(*ast.FunctionLiteral)
		if len(fn.Parameters) != len(tt.expectedParams) {
			t.Fatalf("length parameters wrong. want %d, got=%d", len(tt.expectedParams), len(fn.Parameters))
		}
		for i, ident := range tt.expectedParams {
			if fn.Parameters[i].Name != ident {
				t.Errorf("parameter %d = %q, want %q", i, fn.Parameters[i].Name, ident)
			}
		}
	}
}

func TestCallExpressionParsing(t *testing.T) {
	program := parse(t, "add(1, 2 * 3, 4 + 5);")
	exp, ok := singleExpression(t, program).(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is not *ast.CallExpression")
	}
	if exp.Function.String() != "add" {
		t.Errorf("function = %q", exp.Function.String())
	}
	want := []string{"1", "(2 * 3)", "(4 + 5)"}
	if len(exp.Arguments) != len(want) {
		t.Fatalf("wrong length of arguments. got=%d", len(exp.Arguments))
	}
	for i, w := range want {
		if exp.Arguments[i].String() != w {
			t.Errorf("argument %d = %q, want %q", i, exp.Arguments[i].String(), w)
		}
	}
}

func TestArrayLiteralParsing(t *testing.T) {
	program := parse(t, "[1, 2 * 2, 3 + 3]")
	array, ok := singleExpression(t, program).(*ast.ArrayLiteral)
	if !ok {
		t.Fatalf("expression is not *ast.ArrayLiteral")
	}
	if len(array.Elements) != 3 {
		t.Fatalf("len(array.Elements) not 3. got=%d", len(array.Elements))
	}

	empty := singleExpression(t, parse(t, "[]")).(*ast.ArrayLiteral)
	if len(empty.Elements) != 0 {
		t.Errorf("empty array has %d elements", len(empty.Elements))
	}
}

func TestIndexExpressionParsing(t *testing.T) {
	program := parse(t, "myArray[1 + 1]")
	exp, ok := singleExpression(t, program).(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expression is not *ast.IndexExpression")
	}
	if exp.Left.String() != "myArray" || exp.Index.String() != "(1 + 1)" {
		t.Errorf("index expression = %s", exp.String())
	}
}

func TestHashLiteralParsing(t *testing.T) {
	tests := []struct {
		input string
		keys  []string
		vals  []string
	}{
		{`{}`, nil, nil},
		{`{"one": 1, "two": 2, "three": 3}`, []string{`"one"`, `"two"`, `"three"`}, []string{"1", "2", "3"}},
		{`{1: true, true: "x"}`, []string{"1", "true"}, []string{"true", `"x"`}},
		{`{"a" + "b": 0 + 1, k: 10 - 8}`, []string{`("a" + "b")`, "k"}, []string{"(0 + 1)", "(10 - 8)"}},
	}

	for _, tt := range tests {
		program := parse(t, tt.input)
		hash, ok := singleExpression(t, program).(*ast.HashLiteral)
		if !ok {
			t.Fatalf("%q: expression is not *ast.HashLiteral", tt.input)
		}
		if len(hash.Pairs) != len(tt.keys) {
			t.Fatalf("%q: got %d pairs, want %d", tt.input, len(hash.Pairs), len(tt.keys))
		}
		for i := range tt.keys {
			if hash.Pairs[i].Key.String() != tt.keys[i] {
				t.Errorf("%q: key %d = %s, want %s", tt.input, i, hash.Pairs[i].Key.String(), tt.keys[i])
			}
			if hash.Pairs[i].Value.String() != tt.vals[i] {
				t.Errorf("%q: value %d = %s, want %s", tt.input, i, hash.Pairs[i].Value.String(), tt.vals[i])
			}
		}
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"let x 5;", "expected next token to be =, got INT(5) instead"},
		{"let = 5;", "expected next token to be IDENT, got = instead"},
		{"@", `no prefix parse function for ILLEGAL("@") found`},
		{"1 + ;", "no prefix parse function for ; found"},
		{"if (x { 1 }", "expected next token to be ), got {"},
		{"if x { 1 }", "expected next token to be (, got IDENT"},
		{"fn(1) { }", "expected next token to be IDENT, got INT(1) instead"},
		{"[1, 2", "expected next token to be ], got EOF instead"},
		{"add(1, 2", "expected next token to be ), got EOF instead"},
		{`{"a" 1}`, "expected next token to be :, got INT(1) instead"},
		{"(1 + 2", "expected next token to be ), got EOF instead"},
		{"if (x) { 1", "expected next token to be }, got EOF instead"},
	}

	for _, tt := range tests {
		p := New(lexer.New(tt.input))
		p.ParseProgram()
		errors := p.Errors()
		if len(errors) == 0 {
			t.Errorf("%q: expected parse errors, got none", tt.input)
			continue
		}
		found := false
		for _, msg := range errors {
			if strings.Contains(msg, tt.want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%q: errors %q do not mention %q", tt.input, errors, tt.want)
		}
	}
}

func TestParserErrorPositions(t *testing.T) {
	_, errors := ParseString("let x = 1;\nlet y 2;")
	if len(errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %q", len(errors), errors)
	}
	if !strings.HasPrefix(errors[0], "line 2, column 7:") {
		t.Errorf("error = %q, want position line 2, column 7", errors[0])
	}
}

func TestParseContinuesAfterError(t *testing.T) {
	program, errors := ParseString("let x 5; let y = 10;")
	if len(errors) == 0 {
		t.Fatal("expected errors")
	}
	var found bool
	for _, s := range program.Statements {
		if let, ok := s.(*ast.LetStatement); ok && let.Name.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Errorf("parser did not recover to parse `let y`: %s", program.String())
	}
}

func singleExpression(t *testing.T, program *ast.Program) ast.Expression {
	t.Helper()
	if len(program.Statements) != 1 {
		t.Fatalf("program has %d statements, want 1: %s", len(program.Statements), program.String())
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is not *ast.ExpressionStatement. got=%T", program.Statements[0])
	}
	return stmt.Expression
}
