// Package ast defines the syntax tree produced by the parser.
//
// Statement and Expression are closed sets: only the types in this package
// implement them, and the evaluator switches over them exhaustively.
package ast

import (
	"fmt"
	"strings"
)

type Node interface {
	String() string
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root of every parsed source unit.
type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// Statements

type LetStatement struct {
	Name  *Identifier
	Value Expression
}

func (ls *LetStatement) statementNode() {}
func (ls *LetStatement) String() string {
	return fmt.Sprintf("let %s = %s;", ls.Name.String(), nodeString(ls.Value))
}

type ReturnStatement struct {
	ReturnValue Expression
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) String() string {
	return fmt.Sprintf("return %s;", nodeString(rs.ReturnValue))
}

type ExpressionStatement struct {
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) String() string {
	return nodeString(es.Expression)
}

type BlockStatement struct {
	Statements []Statement
}

func (bs *BlockStatement) statementNode() {}
func (bs *BlockStatement) String() string {
	var out strings.Builder
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// Expressions

type Identifier struct {
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Name }

type IntegerLiteral struct {
	Value int64
}

func (il *IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) String() string  { return fmt.Sprintf("%d", il.Value) }

type BooleanLiteral struct {
	Value bool
}

func (bl *BooleanLiteral) expressionNode() {}
func (bl *BooleanLiteral) String() string  { return fmt.Sprintf("%t", bl.Value) }

type StringLiteral struct {
	Value string
}

func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) String() string  { return fmt.Sprintf("%q", sl.Value) }

type PrefixExpression struct {
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode() {}
func (pe *PrefixExpression) String() string {
	return fmt.Sprintf("(%s%s)", pe.Operator, nodeString(pe.Right))
}

type InfixExpression struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode() {}
func (ie *InfixExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", nodeString(ie.Left), ie.Operator, nodeString(ie.Right))
}

type IfExpression struct {
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement // nil when there is no else branch
}

func (ie *IfExpression) expressionNode() {}
func (ie *IfExpression) String() string {
	s := fmt.Sprintf("if %s %s", nodeString(ie.Condition), ie.Consequence.String())
	if ie.Alternative != nil {
		s += " else " + ie.Alternative.String()
	}
	return s
}

type FunctionLiteral struct {
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode() {}
func (fl *FunctionLiteral) String() string {
	params := make([]string, len(fl.Parameters))
	for i, p := range fl.Parameters {
		params[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) %s", strings.Join(params, ", "), fl.Body.String())
}

type CallExpression struct {
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode() {}
func (ce *CallExpression) String() string {
	return fmt.Sprintf("%s(%s)", nodeString(ce.Function), joinExpressions(ce.Arguments))
}

type ArrayLiteral struct {
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode() {}
func (al *ArrayLiteral) String() string {
	return "[" + joinExpressions(al.Elements) + "]"
}

type IndexExpression struct {
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode() {}
func (ie *IndexExpression) String() string {
	return fmt.Sprintf("(%s[%s])", nodeString(ie.Left), nodeString(ie.Index))
}

// HashPair keeps the key as an expression; it is evaluated into a hash key
// only at run time.
type HashPair struct {
	Key   Expression
	Value Expression
}

type HashLiteral struct {
	Pairs []HashPair
}

func (hl *HashLiteral) expressionNode() {}
func (hl *HashLiteral) String() string {
	pairs := make([]string, len(hl.Pairs))
	for i, pair := range hl.Pairs {
		pairs[i] = nodeString(pair.Key) + ":" + nodeString(pair.Value)
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func joinExpressions(exps []Expression) string {
	parts := make([]string, len(exps))
	for i, e := range exps {
		parts[i] = nodeString(e)
	}
	return strings.Join(parts, ", ")
}

// nodeString renders a possibly missing child left behind by a parse error.
func nodeString(n Node) string {
	if n == nil {
		return "<missing>"
	}
	return n.String()
}
