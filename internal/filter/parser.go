package filter

import (
	"fmt"
	"time"
)

// Node is a node in the filter AST.
type Node interface {
	node() // marker method
	String() string
}

// Leaf predicates.
type (
	// TodayNode matches items due today.
	TodayNode struct{}
	// TomorrowNode matches items due tomorrow.
	TomorrowNode struct{}
	// OverdueNode matches unchecked items due before today.
	OverdueNode struct{}
	// NoDateNode matches items without a due date.
	NoDateNode struct{}
	// NoLabelsNode matches items with no labels.
	NoLabelsNode struct{}
	// Next7DaysNode matches items due within the coming week.
	Next7DaysNode struct{}
	// DateNode matches items due on a month and day, any year.
	DateNode struct {
		Month time.Month
		Day   int
	}
	// PriorityNode matches one UI priority level (p1 is most urgent).
	PriorityNode struct {
		Level int
	}
	// LabelNode matches items carrying a label name.
	LabelNode struct {
		Name string
	}
	// ProjectNode matches items directly in a named project.
	ProjectNode struct {
		Name string
	}
	// ProjectWithSubprojectsNode matches items in a named project or any of
	// its transitive subprojects.
	ProjectWithSubprojectsNode struct {
		Name string
	}
	// SectionNode matches items in a named section.
	SectionNode struct {
		Name string
	}
)

// Boolean combinators.
type (
	AndNode struct{ Left, Right Node }
	OrNode  struct{ Left, Right Node }
	NotNode struct{ Expr Node }
)

func (TodayNode) node()                  {}
func (TomorrowNode) node()               {}
func (OverdueNode) node()                {}
func (NoDateNode) node()                 {}
func (NoLabelsNode) node()               {}
func (Next7DaysNode) node()              {}
func (DateNode) node()                   {}
func (PriorityNode) node()               {}
func (LabelNode) node()                  {}
func (ProjectNode) node()                {}
func (ProjectWithSubprojectsNode) node() {}
func (SectionNode) node()                {}
func (*AndNode) node()                   {}
func (*OrNode) node()                    {}
func (*NotNode) node()                   {}

func (TodayNode) String() string     { return "today" }
func (TomorrowNode) String() string  { return "tomorrow" }
func (OverdueNode) String() string   { return "overdue" }
func (NoDateNode) String() string    { return "no date" }
func (NoLabelsNode) String() string  { return "no labels" }
func (Next7DaysNode) String() string { return "7 days" }
func (n DateNode) String() string {
	return fmt.Sprintf("%s %d", n.Month.String()[:3], n.Day)
}
func (n PriorityNode) String() string { return fmt.Sprintf("p%d", n.Level) }
func (n LabelNode) String() string    { return "@" + n.Name }
func (n ProjectNode) String() string  { return "#" + n.Name }
func (n ProjectWithSubprojectsNode) String() string {
	return "##" + n.Name
}
func (n SectionNode) String() string { return "/" + n.Name }
func (n *AndNode) String() string {
	return fmt.Sprintf("(%s & %s)", n.Left, n.Right)
}
func (n *OrNode) String() string {
	return fmt.Sprintf("(%s | %s)", n.Left, n.Right)
}
func (n *NotNode) String() string { return "!" + n.Expr.String() }

// ParseError is a syntax error from the parser.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Message)
}

// Parse tokenizes and parses a filter expression. Lexer errors are returned
// alongside the AST: the parser works over whatever the lexer recognized,
// so a partially valid expression still yields a usable filter.
func Parse(input string) (Node, []LexError, error) {
	tokens, lexErrs := Lex(input)
	node, err := ParseTokens(tokens)
	return node, lexErrs, err
}

// ParseTokens parses a recognized token stream. Precedence, loosest to
// tightest: |, &, unary !, atoms and parenthesized groups.
func ParseTokens(tokens []Token) (Node, error) {
	p := &parser{tokens: tokens}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, &ParseError{Pos: p.peek().Pos, Message: fmt.Sprintf("unexpected %s", p.peek().Kind)}
	}
	return node, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for !p.atEnd() && p.peek().Kind == TokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &OrNode{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for !p.atEnd() && p.peek().Kind == TokenAnd {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &AndNode{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if !p.atEnd() && p.peek().Kind == TokenNot {
		p.next()
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotNode{Expr: expr}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Node, error) {
	if p.atEnd() {
		return nil, &ParseError{Pos: p.endPos(), Message: "unexpected end of filter"}
	}
	t := p.next()
	switch t.Kind {
	case TokenToday:
		return TodayNode{}, nil
	case TokenTomorrow:
		return TomorrowNode{}, nil
	case TokenOverdue:
		return OverdueNode{}, nil
	case TokenNoDate:
		return NoDateNode{}, nil
	case TokenNoLabels:
		return NoLabelsNode{}, nil
	case TokenNext7Days:
		return Next7DaysNode{}, nil
	case TokenDate:
		return DateNode{Month: t.Month, Day: t.Day}, nil
	case TokenPriority:
		return PriorityNode{Level: t.Priority}, nil
	case TokenLabel:
		return LabelNode{Name: t.Name}, nil
	case TokenProject:
		return ProjectNode{Name: t.Name}, nil
	case TokenProjectWithSubprojects:
		return ProjectWithSubprojectsNode{Name: t.Name}, nil
	case TokenSection:
		return SectionNode{Name: t.Name}, nil
	case TokenLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.peek().Kind != TokenRParen {
			return nil, &ParseError{Pos: t.Pos, Message: "unbalanced parenthesis"}
		}
		p.next()
		return inner, nil
	default:
		return nil, &ParseError{Pos: t.Pos, Message: fmt.Sprintf("unexpected %s", t.Kind)}
	}
}

func (p *parser) endPos() int {
	if len(p.tokens) == 0 {
		return 0
	}
	return p.tokens[len(p.tokens)-1].Pos
}
