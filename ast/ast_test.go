package ast

import "testing"

func TestString(t *testing.T) {
	program := &Program{
		Statements: []Statement{
			&LetStatement{
				Name:  &Identifier{Name: "myVar"},
				Value: &Identifier{Name: "anotherVar"},
			},
		},
	}

	if program.String() != "let myVar = anotherVar;" {
		t.Errorf("program.String() wrong. got=%q", program.String())
	}
}

func TestNodeRendering(t *testing.T) {
	body := &BlockStatement{Statements: []Statement{
		&ExpressionStatement{Expression: &InfixExpression{
			Left:     &Identifier{Name: "x"},
			Operator: "+",
			Right:    &Identifier{Name: "y"},
		}},
	}}

	tests := []struct {
		node Node
		want string
	}{
		{&IntegerLiteral{Value: 5}, "5"},
		{&BooleanLiteral{Value: false}, "false"},
		{&StringLiteral{Value: "hi"}, `"hi"`},
		{&PrefixExpression{Operator: "-", Right: &IntegerLiteral{Value: 1}}, "(-1)"},
		{&ReturnStatement{ReturnValue: &Identifier{Name: "x"}}, "return x;"},
		{&FunctionLiteral{
			Parameters: []*Identifier{{Name: "x"}, {Name: "y"}},
			Body:       body,
		}, "fn(x, y) { (x + y) }"},
		{&CallExpression{
			Function:  &Identifier{Name: "add"},
			Arguments: []Expression{&IntegerLiteral{Value: 1}, &IntegerLiteral{Value: 2}},
		}, "add(1, 2)"},
		{&ArrayLiteral{Elements: []Expression{&IntegerLiteral{Value: 1}}}, "[1]"},
		{&IndexExpression{Left: &Identifier{Name: "a"}, Index: &IntegerLiteral{Value: 0}}, "(a[0])"},
		{&HashLiteral{Pairs: []HashPair{
			{Key: &StringLiteral{Value: "b"}, Value: &IntegerLiteral{Value: 2}},
			{Key: &StringLiteral{Value: "a"}, Value: &IntegerLiteral{Value: 1}},
		}}, `{"b":2, "a":1}`},
		{&IfExpression{Condition: &Identifier{Name: "c"}, Consequence: body}, "if c { (x + y) }"},
		{&IfExpression{Condition: &Identifier{Name: "c"}, Consequence: body, Alternative: &BlockStatement{}},
			"if c { (x + y) } else { }"},
		{&ExpressionStatement{}, "<missing>"},
	}

	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
