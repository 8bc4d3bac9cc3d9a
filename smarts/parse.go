package smarts

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	chem "github.com/rmera/dockprep"
)

// ParseError is returned when a pattern can't be compiled.
type ParseError struct {
	Pattern string
	Pos     int //position in Pattern where the problem was found.
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("smarts: %s at position %d of %q", e.Msg, e.Pos, e.Pattern)
}

// Pattern is a compiled SMARTS pattern. Atoms are numbered in the order
// they appear in the pattern, starting from 0.
type Pattern struct {
	src   string
	atoms []atomExpr
	bonds []patBond
	//for each atom, the bonds to atoms that appear earlier in the pattern.
	back   [][]patBond
	parent []int //the first earlier atom bonded to each atom, or -1.
}

type patBond struct {
	a1, a2 int //a1 < a2
	expr   bondExpr
}

type ringOpen struct {
	atom int
	bond bondExpr //nil if no bond was written at the opening.
}

type parser struct {
	s       string
	pos     int
	pat     *Pattern
	prev    int //last atom, -1 at the start of a component.
	stack   []int
	pending bondExpr //bond written before the next atom or ring closure.
	rings   map[int]ringOpen
}

// Compile parses a SMARTS pattern. It supports the organic subset, bracket atoms with element symbols,
// atomic numbers, aromaticity, hydrogen counts, degree, connectivity, ring membership and size, and charges,
// combined with the !, &, , and ; operators. Branches, ring closures and dot-disconnected
// components are supported. Chirality and atom maps are accepted and ignored.
// Recursive SMARTS and isotopes are not supported.
func Compile(s string) (*Pattern, error) {
	p := &parser{s: s, pat: &Pattern{src: s}, prev: -1, rings: make(map[int]ringOpen)}
	if err := p.parse(); err != nil {
		return nil, err
	}
	p.pat.index()
	return p.pat, nil
}

// MustCompile is like Compile but panics if the pattern can't be parsed.
func MustCompile(s string) *Pattern {
	p, err := Compile(s)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// Len returns the number of atoms in the pattern.
func (P *Pattern) Len() int {
	return len(P.atoms)
}

// String returns the pattern as given to Compile.
func (P *Pattern) String() string {
	return P.src
}

func (P *Pattern) index() {
	P.back = make([][]patBond, len(P.atoms))
	P.parent = make([]int, len(P.atoms))
	for i := range P.parent {
		P.parent[i] = -1
	}
	for _, b := range P.bonds {
		P.back[b.a2] = append(P.back[b.a2], b)
		if P.parent[b.a2] < 0 || b.a1 < P.parent[b.a2] {
			P.parent[b.a2] = b.a1
		}
	}
}

func (p *parser) errorf(format string, a ...interface{}) error {
	return &ParseError{Pattern: p.s, Pos: p.pos, Msg: fmt.Sprintf(format, a...)}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func isBondChar(c byte) bool {
	return strings.IndexByte("-=#:~@/\\!", c) >= 0
}

func (p *parser) parse() error {
	if strings.TrimSpace(p.s) == "" {
		return p.errorf("empty pattern")
	}
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 || p.pending != nil {
				return p.errorf("unexpected branch")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 || p.pending != nil {
				return p.errorf("unexpected ')'")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.prev < 0 || p.pending != nil || len(p.stack) > 0 {
				return p.errorf("unexpected '.'")
			}
			p.prev = -1
			p.pos++
		case isBondChar(c):
			if p.prev < 0 || p.pending != nil {
				return p.errorf("unexpected bond")
			}
			b, err := p.bondExpr()
			if err != nil {
				return err
			}
			p.pending = b
		case c == '%' || (c >= '0' && c <= '9'):
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			e, err := p.bracketAtom()
			if err != nil {
				return err
			}
			p.addAtom(e)
		default:
			e, err := p.organicAtom()
			if err != nil {
				return err
			}
			p.addAtom(e)
		}
	}
	if p.pending != nil {
		return p.errorf("bond without a second atom")
	}
	if len(p.stack) > 0 {
		return p.errorf("unclosed branch")
	}
	for n := range p.rings {
		return p.errorf("unclosed ring %d", n)
	}
	return nil
}

func (p *parser) addAtom(e atomExpr) {
	idx := len(p.pat.atoms)
	p.pat.atoms = append(p.pat.atoms, e)
	if p.prev >= 0 {
		b := p.pending
		if b == nil {
			b = defaultBond
		}
		p.pat.bonds = append(p.pat.bonds, patBond{a1: p.prev, a2: idx, expr: b})
	}
	p.pending = nil
	p.prev = idx
}

func (p *parser) ringClosure() error {
	if p.prev < 0 {
		return p.errorf("ring closure without an atom")
	}
	var n int
	if p.s[p.pos] == '%' {
		if p.pos+2 >= len(p.s) || !isDigit(p.s[p.pos+1]) || !isDigit(p.s[p.pos+2]) {
			return p.errorf("'%%' must be followed by two digits")
		}
		n, _ = strconv.Atoi(p.s[p.pos+1 : p.pos+3])
		p.pos += 3
	} else {
		n = int(p.s[p.pos] - '0')
		p.pos++
	}
	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = ringOpen{atom: p.prev, bond: p.pending}
		p.pending = nil
		return nil
	}
	delete(p.rings, n)
	if open.atom == p.prev {
		return p.errorf("ring %d closes on its own atom", n)
	}
	b := p.pending
	if b == nil {
		b = open.bond
	}
	if b == nil {
		b = defaultBond
	}
	for _, v := range p.pat.bonds {
		if (v.a1 == open.atom && v.a2 == p.prev) || (v.a1 == p.prev && v.a2 == open.atom) {
			return p.errorf("ring %d duplicates a bond", n)
		}
	}
	a1, a2 := open.atom, p.prev
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	p.pat.bonds = append(p.pat.bonds, patBond{a1: a1, a2: a2, expr: b})
	p.pending = nil
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// readNumber reads an optional unsigned number. It returns def if there are no digits.
func (p *parser) readNumber(def int) int {
	start := p.pos
	for p.pos < len(p.s) && isDigit(p.s[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return def
	}
	n, _ := strconv.Atoi(p.s[start:p.pos])
	return n
}

/**Atoms**/

var organic = []string{"Cl", "Br", "B", "C", "N", "O", "P", "S", "F", "I"}
var aromaticOrganic = []string{"b", "c", "n", "o", "p", "s"}
var aromaticBracket = []string{"se", "as", "b", "c", "n", "o", "p", "s"}

func aliphaticElement(symbol string) atomExpr {
	return atomAnd{element(symbol), atomPrim(aliphatic)}
}

func aromaticElement(symbol string) atomExpr {
	return atomAnd{element(chem.NormalizeSymbol(symbol)), atomPrim(aromatic)}
}

func (p *parser) organicAtom() (atomExpr, error) {
	rest := p.s[p.pos:]
	if strings.HasPrefix(rest, "*") {
		p.pos++
		return atomPrim(anyAtom), nil
	}
	for _, v := range organic {
		if strings.HasPrefix(rest, v) {
			p.pos += len(v)
			return aliphaticElement(v), nil
		}
	}
	for _, v := range aromaticOrganic {
		if strings.HasPrefix(rest, v) {
			p.pos += len(v)
			return aromaticElement(v), nil
		}
	}
	return nil, p.errorf("unexpected character %q", p.s[p.pos])
}

func (p *parser) bracketAtom() (atomExpr, error) {
	p.pos++ //the '['
	start := p.pos
	//[H], [H+] and the like are hydrogen atoms, not hydrogen counts.
	if p.peek() == 'H' && p.pos+1 < len(p.s) && strings.IndexByte("]+-", p.s[p.pos+1]) >= 0 {
		p.pos++
		var e atomExpr = element("H")
		if c := p.peek(); c == '+' || c == '-' {
			ch, err := p.primitive(start)
			if err != nil {
				return nil, err
			}
			e = atomAnd{e, ch}
		}
		if p.peek() != ']' {
			return nil, p.errorf("expected ']'")
		}
		p.pos++
		return e, nil
	}
	e, err := p.lowAnd(start)
	if err != nil {
		return nil, err
	}
	if p.peek() != ']' {
		return nil, p.errorf("expected ']'")
	}
	p.pos++
	return e, nil
}

// lowAnd parses expressions joined by ';', the lowest precedence operator.
func (p *parser) lowAnd(start int) (atomExpr, error) {
	l, err := p.or(start)
	if err != nil {
		return nil, err
	}
	for p.peek() == ';' {
		p.pos++
		r, err := p.or(start)
		if err != nil {
			return nil, err
		}
		l = atomAnd{l, r}
	}
	return l, nil
}

func (p *parser) or(start int) (atomExpr, error) {
	l, err := p.highAnd(start)
	if err != nil {
		return nil, err
	}
	for p.peek() == ',' {
		p.pos++
		r, err := p.highAnd(start)
		if err != nil {
			return nil, err
		}
		l = atomOr{l, r}
	}
	return l, nil
}

// highAnd parses expressions joined by '&' or simply written one after the other.
func (p *parser) highAnd(start int) (atomExpr, error) {
	l, err := p.unary(start)
	if err != nil {
		return nil, err
	}
	for {
		c := p.peek()
		if c == '&' {
			p.pos++
		} else if c == 0 || c == ']' || c == ';' || c == ',' {
			return l, nil
		}
		r, err := p.unary(start)
		if err != nil {
			return nil, err
		}
		l = atomAnd{l, r}
	}
}

func (p *parser) unary(start int) (atomExpr, error) {
	if p.peek() == '!' {
		p.pos++
		e, err := p.unary(start)
		if err != nil {
			return nil, err
		}
		return atomNot{e}, nil
	}
	return p.primitive(start)
}

// chargeValue reads the charge after a '+' or '-': a number, or repeated signs.
func (p *parser) chargeValue(sign byte) int {
	p.pos++
	if isDigit(p.peek()) {
		return p.readNumber(1)
	}
	n := 1
	for p.peek() == sign {
		n++
		p.pos++
	}
	return n
}

func (p *parser) primitive(start int) (atomExpr, error) {
	c := p.peek()
	rest := p.s[p.pos:]
	switch {
	case c == 0:
		return nil, p.errorf("unexpected end of pattern")
	case c == '*':
		p.pos++
		return atomPrim(anyAtom), nil
	case c == 'a':
		if strings.HasPrefix(rest, "as") {
			p.pos += 2
			return aromaticElement("as"), nil
		}
		p.pos++
		return atomPrim(aromatic), nil
	case c == 'A':
		if len(rest) > 1 && unicode.IsLower(rune(rest[1])) && chem.AtomicNumber(rest[:2]) > 0 {
			break //an element, like Al or As
		}
		p.pos++
		return atomPrim(aliphatic), nil
	case c == '#':
		p.pos++
		if !isDigit(p.peek()) {
			return nil, p.errorf("'#' must be followed by an atomic number")
		}
		return atomicNumber(p.readNumber(0)), nil
	case c == 'H':
		p.pos++
		return totalH(p.readNumber(1)), nil
	case c == 'h':
		p.pos++
		if isDigit(p.peek()) {
			return implicitH(p.readNumber(1)), nil
		}
		return atomPrim(anyImplicitH), nil
	case c == 'D':
		p.pos++
		return degree(p.readNumber(1)), nil
	case c == 'X':
		p.pos++
		return connectivity(p.readNumber(1)), nil
	case c == 'R':
		p.pos++
		if isDigit(p.peek()) {
			return ringCount(p.readNumber(0)), nil
		}
		return atomPrim(inRing), nil
	case c == 'r':
		p.pos++
		if isDigit(p.peek()) {
			n := p.readNumber(0)
			if n == 0 {
				return atomNot{atomPrim(inRing)}, nil
			}
			return ringSize(n), nil
		}
		return atomPrim(inRing), nil
	case c == '+':
		return charge(p.chargeValue('+')), nil
	case c == '-':
		return charge(-p.chargeValue('-')), nil
	case c == '@':
		//chirality is not checked.
		for p.peek() == '@' || p.peek() == '?' {
			p.pos++
		}
		return atomPrim(anyAtom), nil
	case c == ':':
		//atom maps are ignored.
		p.pos++
		if !isDigit(p.peek()) {
			return nil, p.errorf("':' must be followed by an atom map number")
		}
		p.readNumber(0)
		return atomPrim(anyAtom), nil
	case c == '$':
		return nil, p.errorf("recursive SMARTS are not supported")
	case isDigit(c):
		return nil, p.errorf("isotopes are not supported")
	}
	for _, v := range aromaticBracket {
		if strings.HasPrefix(rest, v) {
			p.pos += len(v)
			return aromaticElement(v), nil
		}
	}
	if unicode.IsUpper(rune(c)) {
		if len(rest) > 1 && unicode.IsLower(rune(rest[1])) && chem.AtomicNumber(rest[:2]) > 0 {
			p.pos += 2
			return aliphaticElement(rest[:2]), nil
		}
		if chem.AtomicNumber(rest[:1]) > 0 {
			p.pos++
			return aliphaticElement(rest[:1]), nil
		}
	}
	return nil, p.errorf("unknown atom primitive %q", c)
}

/**Bonds**/

func (p *parser) bondExpr() (bondExpr, error) {
	l, err := p.bondOr()
	if err != nil {
		return nil, err
	}
	for p.peek() == ';' {
		p.pos++
		r, err := p.bondOr()
		if err != nil {
			return nil, err
		}
		l = bondAnd{l, r}
	}
	return l, nil
}

func (p *parser) bondOr() (bondExpr, error) {
	l, err := p.bondHighAnd()
	if err != nil {
		return nil, err
	}
	for p.peek() == ',' {
		p.pos++
		r, err := p.bondHighAnd()
		if err != nil {
			return nil, err
		}
		l = bondOr{l, r}
	}
	return l, nil
}

func (p *parser) bondHighAnd() (bondExpr, error) {
	l, err := p.bondUnary()
	if err != nil {
		return nil, err
	}
	for {
		c := p.peek()
		if c == '&' {
			p.pos++
		} else if !isBondChar(c) {
			return l, nil
		}
		r, err := p.bondUnary()
		if err != nil {
			return nil, err
		}
		l = bondAnd{l, r}
	}
}

func (p *parser) bondUnary() (bondExpr, error) {
	c := p.peek()
	p.pos++
	switch c {
	case '!':
		e, err := p.bondUnary()
		if err != nil {
			return nil, err
		}
		return bondNot{e}, nil
	case '-', '/', '\\':
		return bondOrder(1), nil
	case '=':
		return bondOrder(2), nil
	case '#':
		return bondOrder(3), nil
	case ':':
		return bondPrim(aromaticBond), nil
	case '~':
		return bondPrim(anyBond), nil
	case '@':
		return bondPrim(ringBond), nil
	}
	p.pos--
	return nil, p.errorf("expected a bond")
}
