package extractor

import "strings"

type frameKind int

const (
	frameEntity frameKind = iota
	frameArchitecture
	framePackage
	framePackageBody
	frameContext
	frameConfiguration
	frameGenerate
	frameBlock
	frameComponent
	frameProtected
	frameSubprogram
	frameProcess
	frameControl
	frameFor
	frameRecord
	frameUnits
)

type frame struct {
	kind   frameKind
	inBody bool // past "begin"
}

// parser assigns statements to design units. Design units do not nest, so
// at most one of the unit pointers is set at a time; nested constructs
// (subprograms, processes, generate blocks) live on the frame stack.
type parser struct {
	facts *FileFacts
	stack []frame
	cur   statement // statement being parsed

	entity  *Entity
	arch    *Architecture
	pkg     *Package
	body    *PackageBody
	ctx     *Context
	conf    *Configuration
	pending *Declaration // record or physical type still collecting elements
	context []Dependency // file-level clauses waiting for the next unit
}

func newParser(facts *FileFacts) *parser {
	return &parser{facts: facts}
}

func (p *parser) feed(stmts []statement) {
	for _, st := range stmts {
		p.cur = st
		p.statement(st.text, st.line)
	}
}

// lineIn maps offsets in text to source lines. text is usually a tail of
// the current statement, left over after a header or keyword was matched;
// anything else falls back to line.
func (p *parser) lineIn(text string, line int) func(off int) int {
	base := len(p.cur.text) - len(text)
	if base < 0 || p.cur.text[base:] != text {
		return func(int) int { return line }
	}
	return func(off int) int { return p.cur.lineAt(base + off) }
}

func (p *parser) lineOf(text string, line int) int {
	return p.lineIn(text, line)(0)
}

// finish keeps a unit left open at end of input.
func (p *parser) finish() {
	if len(p.stack) > 0 {
		p.closeUnit()
	}
}

func (p *parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

func (p *parser) push(kind frameKind) {
	p.stack = append(p.stack, frame{kind: kind})
}

func (p *parser) pop() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// popThrough pops frames up to and including the innermost frame of one of
// the given kinds.
func (p *parser) popThrough(kinds ...frameKind) {
	for len(p.stack) > 1 {
		kind := p.top().kind
		p.pop()
		for _, k := range kinds {
			if k == kind {
				return
			}
		}
	}
}

func (p *parser) statement(text string, line int) {
	if text == "" {
		return
	}
	line = p.lineOf(text, line)
	top := p.top()
	if top == nil {
		p.designFile(text, line)
		return
	}
	switch top.kind {
	case frameRecord:
		p.recordElement(text, line)
	case frameUnits:
		p.physicalUnit(text)
	case frameComponent:
		if isEnd(text, "component") {
			p.pop()
		}
	case frameProtected:
		p.protectedItem(text)
	case frameSubprogram, frameProcess, frameControl:
		p.sequential(top, text)
	case frameContext:
		p.contextItem(text, line)
	case frameConfiguration, frameFor:
		p.configurationItem(text)
	default:
		p.unitItem(top, text, line)
	}
}

func (p *parser) designFile(text string, line int) {
	if m := entityPattern.FindStringSubmatch(text); m != nil {
		p.entity = &Entity{Name: m[1], Line: line, Clauses: p.takeContext()}
		p.push(frameEntity)
		p.statement(m[2], line)
		return
	}
	if m := archPattern.FindStringSubmatch(text); m != nil {
		p.arch = &Architecture{Name: m[1], EntityName: m[2], Line: line, Clauses: p.takeContext()}
		p.push(frameArchitecture)
		p.statement(m[3], line)
		return
	}
	if m := packageBodyPattern.FindStringSubmatch(text); m != nil {
		p.body = &PackageBody{Name: m[1], Line: line, Clauses: p.takeContext()}
		p.push(framePackageBody)
		p.statement(m[2], line)
		return
	}
	if m := packageInstPattern.FindStringSubmatch(text); m != nil {
		p.facts.Packages = append(p.facts.Packages, Package{Name: m[1], Line: line, Instance: true, Clauses: p.takeContext()})
		return
	}
	if m := packagePattern.FindStringSubmatch(text); m != nil {
		p.pkg = &Package{Name: m[1], Line: line, Clauses: p.takeContext()}
		p.push(framePackage)
		p.statement(m[2], line)
		return
	}
	if m := contextPattern.FindStringSubmatch(text); m != nil {
		p.takeContext()
		p.ctx = &Context{Name: m[1], Line: line}
		p.push(frameContext)
		p.statement(m[2], line)
		return
	}
	if m := configurationPattern.FindStringSubmatch(text); m != nil {
		p.takeContext()
		p.conf = &Configuration{Name: m[1], EntityName: m[2], Line: line}
		p.push(frameConfiguration)
		p.statement(m[3], line)
		return
	}
	before := len(p.facts.Dependencies)
	if p.clause(text, line, "", &p.facts.Dependencies) {
		p.context = append(p.context, p.facts.Dependencies[before:]...)
	}
}

// takeContext hands the pending context clause to the unit being opened.
func (p *parser) takeContext() []Dependency {
	c := p.context
	p.context = nil
	return c
}

// clause records library, use and context reference clauses.
func (p *parser) clause(text string, line int, source string, deps *[]Dependency) bool {
	m := clausePattern.FindStringSubmatch(text)
	if m == nil {
		return false
	}
	kind := strings.ToLower(m[1])
	for _, target := range splitTop(m[2], ',') {
		if kind == "use" && strings.HasSuffix(strings.ToLower(target), ".all") {
			target = target[:len(target)-len(".all")]
		}
		*deps = append(*deps, Dependency{Source: source, Target: target, Kind: kind, Line: line})
	}
	return true
}

func (p *parser) unitName() string {
	switch {
	case p.entity != nil:
		return p.entity.Name
	case p.arch != nil:
		return p.arch.Name
	case p.pkg != nil:
		return p.pkg.Name
	case p.body != nil:
		return p.body.Name
	case p.ctx != nil:
		return p.ctx.Name
	case p.conf != nil:
		return p.conf.Name
	}
	return ""
}

func (p *parser) declarations() *[]Declaration {
	switch {
	case p.entity != nil:
		return &p.entity.Declarations
	case p.arch != nil:
		return &p.arch.Declarations
	case p.pkg != nil:
		return &p.pkg.Declarations
	case p.body != nil:
		return &p.body.Declarations
	}
	return nil
}

func (p *parser) clauses() *[]Dependency {
	switch {
	case p.entity != nil:
		return &p.entity.Clauses
	case p.arch != nil:
		return &p.arch.Clauses
	case p.pkg != nil:
		return &p.pkg.Clauses
	case p.body != nil:
		return &p.body.Clauses
	}
	return nil
}

func (p *parser) statements() *[]Statement {
	switch {
	case p.entity != nil:
		return &p.entity.Statements
	case p.arch != nil:
		return &p.arch.Statements
	}
	return nil
}

func (p *parser) closeUnit() {
	p.flushPending()
	switch {
	case p.entity != nil:
		p.facts.Entities = append(p.facts.Entities, *p.entity)
	case p.arch != nil:
		p.facts.Architectures = append(p.facts.Architectures, *p.arch)
	case p.pkg != nil:
		p.facts.Packages = append(p.facts.Packages, *p.pkg)
	case p.body != nil:
		p.facts.PackageBodies = append(p.facts.PackageBodies, *p.body)
	case p.ctx != nil:
		p.facts.Contexts = append(p.facts.Contexts, *p.ctx)
	case p.conf != nil:
		p.facts.Configurations = append(p.facts.Configurations, *p.conf)
	}
	p.entity, p.arch, p.pkg, p.body, p.ctx, p.conf = nil, nil, nil, nil, nil, nil
	p.stack = p.stack[:0]
}

// unitItem handles the declarative and statement parts of entities,
// architectures, packages, package bodies and generate/block statements.
func (p *parser) unitItem(top *frame, text string, line int) {
	nested := top.kind == frameGenerate || top.kind == frameBlock
	if isEnd(text) {
		if nested {
			p.pop()
		} else {
			p.closeUnit()
		}
		return
	}
	if strings.EqualFold(text, "begin") {
		top.inBody = true
		return
	}
	if nested || top.inBody {
		p.concurrent(text, line)
		return
	}
	if top.kind == frameEntity {
		switch firstWord(text) {
		case "generic":
			p.entity.Generics = append(p.entity.Generics, parseGenerics(text, p.lineIn(text, line))...)
			return
		case "port":
			p.entity.Ports = append(p.entity.Ports, parsePorts(text, p.lineIn(text, line))...)
			return
		}
	}
	p.declaration(text, line)
}

func (p *parser) declaration(text string, line int) {
	decls := p.declarations()
	if decls == nil {
		return
	}
	switch firstWord(text) {
	case "type":
		p.typeDeclaration(decls, text, line)
	case "subtype":
		if m := subtypePattern.FindStringSubmatch(text); m != nil {
			*decls = append(*decls, Declaration{Kind: DeclSubtype, Name: m[1], Line: line, Indication: parseIndication(m[2])})
		}
	case "constant", "signal", "variable", "shared":
		*decls = append(*decls, parseObjects(text, line)...)
	case "component":
		if indexWord(text, "end") < 0 {
			p.push(frameComponent)
		}
	case "function", "procedure", "pure", "impure":
		if isSubprogramBody(text) {
			p.push(frameSubprogram)
		}
	case "library", "use", "context":
		before := len(p.facts.Dependencies)
		if p.clause(text, line, p.unitName(), &p.facts.Dependencies) {
			if cl := p.clauses(); cl != nil {
				*cl = append(*cl, p.facts.Dependencies[before:]...)
			}
		}
	}
}

func (p *parser) typeDeclaration(decls *[]Declaration, text string, line int) {
	m := typePattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	def, rest := parseTypeDef(m[2])
	decl := Declaration{Kind: DeclType, Name: m[1], Line: line, Type: def}
	switch def.Class {
	case ClassRecord:
		p.pending = &decl
		p.push(frameRecord)
		p.recordElement(rest, p.lineOf(rest, line))
	case ClassPhysical:
		p.pending = &decl
		p.push(frameUnits)
	case ClassProtected:
		if firstWord(rest) == "body" {
			rest = strings.TrimSpace(rest[len("body"):])
		} else {
			*decls = append(*decls, decl)
		}
		p.push(frameProtected)
		p.statement(rest, line)
	default:
		*decls = append(*decls, decl)
	}
}

func (p *parser) flushPending() {
	if p.pending == nil {
		return
	}
	if decls := p.declarations(); decls != nil {
		*decls = append(*decls, *p.pending)
	}
	p.pending = nil
}

func (p *parser) recordElement(text string, line int) {
	if isEnd(text, "record") {
		p.flushPending()
		p.pop()
		return
	}
	colon := indexTop(text, ":")
	if colon < 0 || p.pending == nil {
		return
	}
	ind := parseIndication(text[colon+1:])
	for _, name := range splitTop(text[:colon], ',') {
		p.pending.Type.Fields = append(p.pending.Type.Fields, Field{Name: name, Type: ind, Line: line})
	}
}

func (p *parser) physicalUnit(text string) {
	if isEnd(text, "units") {
		p.flushPending()
		p.pop()
		return
	}
	if m := unitPattern.FindStringSubmatch(text); m != nil && p.pending != nil {
		p.pending.Type.Units = append(p.pending.Type.Units, UnitDef{Name: m[1], Value: m[2], Unit: m[3]})
	}
}

func (p *parser) protectedItem(text string) {
	if isEnd(text, "protected") {
		p.pop()
		return
	}
	if isSubprogramBody(text) {
		p.push(frameSubprogram)
	}
}

// sequential skips the content of subprogram bodies and processes, keeping
// count of nested if, case and loop statements so that the right end
// statement closes the frame.
func (p *parser) sequential(top *frame, text string) {
	switch {
	case isEnd(text, "process"), isEnd(text, "postponed", "process"):
		p.popThrough(frameProcess)
	case isEnd(text, "if"), isEnd(text, "case"), isEnd(text, "loop"):
		if top.kind == frameControl {
			p.pop()
		}
	case isEnd(text, "record"), isEnd(text, "units"), isEnd(text, "protected"):
		// local type declarations
	case isEnd(text):
		p.popThrough(frameSubprogram, frameProcess)
	case isSubprogramBody(text):
		p.push(frameSubprogram)
	default:
		n := countWord(text, "if") + countWord(text, "case") + countWord(text, "loop")
		for i := 0; i < n; i++ {
			p.push(frameControl)
		}
	}
}

// concurrent records processes and instantiations of a statement part.
func (p *parser) concurrent(text string, line int) {
	label, rest := "", text
	if m := labelPattern.FindStringSubmatch(text); m != nil {
		label, rest = m[1], m[2]
	}

	switch w := firstWord(rest); {
	case w == "process" || w == "postponed":
		var sensitivity []string
		if m := processPattern.FindStringSubmatch(rest); m != nil && m[1] != "" {
			sensitivity = splitTop(m[1], ',')
		}
		p.addStatement(Statement{Kind: StmtProcess, Label: label, Line: line, Sensitivity: sensitivity})
		p.push(frameProcess)
	case w == "entity":
		if m := entityInstPattern.FindStringSubmatch(rest); m != nil {
			p.instance(StmtEntity, label, m[1], line)
		}
	case w == "configuration":
		if m := configInstPattern.FindStringSubmatch(rest); m != nil {
			p.instance(StmtConfiguration, label, m[1], line)
		}
	case w == "block":
		p.push(frameBlock)
	case (w == "for" || w == "if" || w == "case") && indexWord(rest, "generate") >= 0:
		p.push(frameGenerate)
		p.statement(afterWord(rest, "generate"), line)
	case w == "elsif" || w == "else":
		p.statement(afterWord(rest, "generate"), line)
	case w == "when":
		if i := indexTop(rest, "=>"); i >= 0 {
			p.statement(strings.TrimSpace(rest[i+2:]), line)
		}
	default:
		if m := compInstPattern.FindStringSubmatch(rest); m != nil && label != "" {
			p.instance(StmtComponent, label, m[1], line)
		}
	}
}

func (p *parser) addStatement(st Statement) {
	if stmts := p.statements(); stmts != nil {
		*stmts = append(*stmts, st)
	}
}

func (p *parser) instance(kind, label, target string, line int) {
	if label == "" {
		return
	}
	p.addStatement(Statement{Kind: kind, Label: label, Line: line, Target: target})
	p.facts.Dependencies = append(p.facts.Dependencies, Dependency{
		Source: p.unitName(),
		Target: target,
		Kind:   "instantiation",
		Line:   line,
	})
}

func (p *parser) contextItem(text string, line int) {
	if isEnd(text) {
		p.closeUnit()
		return
	}
	before := len(p.ctx.Clauses)
	if p.clause(text, line, p.ctx.Name, &p.ctx.Clauses) {
		p.facts.Dependencies = append(p.facts.Dependencies, p.ctx.Clauses[before:]...)
	}
}

// configurationItem tracks the nesting of block and component
// configurations ("for ... end for") until the configuration ends.
func (p *parser) configurationItem(text string) {
	net := 0
	fields := strings.Fields(strings.ToLower(text))
	for i, f := range fields {
		if f != "for" {
			continue
		}
		if i > 0 && fields[i-1] == "end" {
			net--
		} else {
			net++
		}
	}
	if net == 0 && isEnd(text) && p.top().kind == frameConfiguration {
		p.closeUnit()
		return
	}
	for ; net > 0; net-- {
		p.push(frameFor)
	}
	for ; net < 0 && p.top().kind == frameFor; net++ {
		p.pop()
	}
}

// afterWord returns the text following the first top-level occurrence of
// word, or "" when word does not occur.
func afterWord(s, word string) string {
	i := indexWord(s, word)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(s[i+len(word):])
}

func isSubprogramBody(text string) bool {
	switch firstWord(text) {
	case "function", "procedure", "pure", "impure":
	default:
		return false
	}
	rest := afterWord(text, "is")
	if rest == "" {
		return indexWord(text, "is") >= 0
	}
	return firstWord(rest) != "new"
}
