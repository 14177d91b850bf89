// Package program holds the input model of the code generator: typed
// variable declarations, print statements made of tokens and the exit flag.
//
// The model performs no validation. Anything the emitter cannot represent is
// reported at emission time.
package program

// TokenKind distinguishes the variants of Token.
type TokenKind uint8

const (
	TokenText TokenKind = iota + 1
	TokenVariable
	TokenNewline
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenVariable:
		return "var"
	case TokenNewline:
		return "newline"
	default:
		return "unknown"
	}
}

// Token is one unit of a print statement. Text holds the literal for
// TokenText and the variable name for TokenVariable.
type Token struct {
	Kind TokenKind
	Text string
}

func Text(s string) Token {
	return Token{Kind: TokenText, Text: s}
}

func VariableRef(name string) Token {
	return Token{Kind: TokenVariable, Text: name}
}

func Newline() Token {
	return Token{Kind: TokenNewline}
}

// Print is an ordered sequence of tokens.
type Print struct {
	Tokens []Token
}

func (p *Print) add(tok Token) {
	p.Tokens = append(p.Tokens, tok)
}

// Variable is a named, typed literal.
type Variable struct {
	Name  string
	Value Value
}

// Program is the whole input of one emission.
type Program struct {
	order  []string
	vars   map[string]Variable
	prints []*Print
	exit   bool
}

func New() *Program {
	return &Program{vars: make(map[string]Variable)}
}

// Declare adds a variable or overwrites an existing one. An overwritten
// variable keeps its original declaration position.
func (p *Program) Declare(name string, v Value) {
	if p.vars == nil {
		p.vars = make(map[string]Variable)
	}
	if _, ok := p.vars[name]; !ok {
		p.order = append(p.order, name)
	}
	p.vars[name] = Variable{Name: name, Value: v}
}

func (p *Program) Lookup(name string) (Variable, bool) {
	v, ok := p.vars[name]
	return v, ok
}

// Variables returns the declared variables in declaration order.
func (p *Program) Variables() []Variable {
	out := make([]Variable, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.vars[name])
	}
	return out
}

// BeginPrint appends an empty print statement and makes it the target of the
// Append* helpers.
func (p *Program) BeginPrint() *Print {
	pr := &Print{}
	p.prints = append(p.prints, pr)
	return pr
}

// AddPrint appends a fully built print statement.
func (p *Program) AddPrint(pr Print) {
	cp := &Print{Tokens: append([]Token(nil), pr.Tokens...)}
	p.prints = append(p.prints, cp)
}

// AppendText, AppendVariable and AppendNewline extend the most recently begun
// print. They do nothing when no print exists yet.
func (p *Program) AppendText(s string) {
	if last := p.last(); last != nil {
		last.add(Text(s))
	}
}

func (p *Program) AppendVariable(name string) {
	if last := p.last(); last != nil {
		last.add(VariableRef(name))
	}
}

func (p *Program) AppendNewline() {
	if last := p.last(); last != nil {
		last.add(Newline())
	}
}

func (p *Program) last() *Print {
	if len(p.prints) == 0 {
		return nil
	}
	return p.prints[len(p.prints)-1]
}

// Prints returns the print statements in order. Callers must not mutate them.
func (p *Program) Prints() []*Print { return p.prints }

func (p *Program) SetExit(exit bool) { p.exit = exit }

func (p *Program) Exit() bool { return p.exit }

// Example builds the classic greeting program: prints "Hello joy!" followed by
// a newline and exits.
func Example() *Program {
	p := New()
	p.Declare("name", StringValue("joy"))
	p.BeginPrint()
	p.AppendText("Hello ")
	p.AppendVariable("name")
	p.AppendText("!")
	p.AppendNewline()
	p.SetExit(true)
	return p
}
