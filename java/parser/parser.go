package parser

import (
	"errors"
	"io"
	"sort"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

func WithPositions() Option {
	return func(p *Parser) {
		p.includePositions = true
	}
}

// WithFeature turns the Java++ grammar on for this parser and sets a single
// feature name (or namespace/bare wildcard, see FeatureRegistry.Set) to the
// given state. Applying it at least once is what distinguishes a Java++
// parse from a plain Java parse: a Parser whose features registry is nil
// never consults a feature flag and behaves exactly like the base grammar.
// An unrecognised name is recorded rather than applied; check OptionError
// after constructing the parser to see it.
func WithFeature(name string, enabled bool) Option {
	return func(p *Parser) {
		if p.features == nil {
			p.features = NewFeatureRegistry()
		}
		if !p.features.Set(name, enabled) && p.optionErr == nil {
			p.optionErr = errors.New("unknown feature \"" + name + "\"")
		}
	}
}

// WithFeatures applies a comma-separated list of feature toggles, each
// either a bare name (enable) or prefixed with "-" (disable) — the shape
// produced by splitting the CLI's -e/-d flag values. An unrecognised name
// is recorded rather than applied; check OptionError after constructing
// the parser to see it.
func WithFeatures(spec string, enabled bool) Option {
	return func(p *Parser) {
		if p.features == nil {
			p.features = NewFeatureRegistry()
		}
		for _, name := range strings.Split(spec, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !p.features.Set(name, enabled) && p.optionErr == nil {
				p.optionErr = errors.New("unknown feature \"" + name + "\"")
			}
		}
	}
}

// WithJavaPlusPlus enables the Java++ grammar with every feature at its
// default state, without changing any of them.
func WithJavaPlusPlus() Option {
	return func(p *Parser) {
		if p.features == nil {
			p.features = NewFeatureRegistry()
		}
	}
}

type parseFunc func(*Parser) *Node

type Parser struct {
	file             string
	startLine        int
	includeComments  bool
	includePositions bool
	reader           io.Reader
	input            []byte
	lexer            *Lexer
	tokens           []Token
	comments         []Token
	pos              int
	entry            parseFunc
	incomplete       bool
	optionErr        error // set by WithFeature/WithFeatures on an unrecognised feature name

	// Java++ extensions. features is nil for a plain Java parse; every
	// extended decision point checks features.Enabled(name) first, which
	// returns false on a nil registry so the base grammar is unaffected.
	features       *FeatureRegistry
	preStmtBuffer  []*Node
	pendingMembers []*Node // default-argument overload synthesis: sibling declarations awaiting a home in the enclosing body
	defaultMods    *Node   // syntax.default_modifiers: Modifiers node merged into every following member until rewritten or scope ends
}

// savepoint is an opaque handle returned by mark, capturing enough state to
// roll the cursor and the pre-statement buffer back to exactly where they
// were when speculation began.
type savepoint struct {
	pos       int
	bufferLen int
}

// mark begins a speculative region. Call rewind(sp) to abort it, or simply
// let it fall out of scope to commit.
func (p *Parser) mark() savepoint {
	return savepoint{pos: p.pos, bufferLen: len(p.preStmtBuffer)}
}

// rewind restores the cursor position and discards any pre-statement
// buffer entries accumulated since sp was taken, undoing a failed
// speculative parse as a single unit.
func (p *Parser) rewind(sp savepoint) {
	p.pos = sp.pos
	p.preStmtBuffer = p.preStmtBuffer[:sp.bufferLen]
}

// bufferStmt appends a synthetic statement to be spliced before the
// statement currently being parsed (vardecl-in-condition and similar
// desugarings that must hoist a declaration out of an expression context).
func (p *Parser) bufferStmt(stmt *Node) {
	p.preStmtBuffer = append(p.preStmtBuffer, stmt)
}

// drainStmtBuffer returns and clears everything accumulated in the
// pre-statement buffer since the last drain, in order.
func (p *Parser) drainStmtBuffer() []*Node {
	if len(p.preStmtBuffer) == 0 {
		return nil
	}
	buffered := p.preStmtBuffer
	p.preStmtBuffer = nil
	return buffered
}

// bufferMembers queues sibling declarations synthesized alongside the
// member currently being parsed (the forwarding overloads default-argument
// expansion produces), to be spliced into the enclosing body right after it.
func (p *Parser) bufferMembers(members []*Node) {
	p.pendingMembers = append(p.pendingMembers, members...)
}

func (p *Parser) drainPendingMembers() []*Node {
	if len(p.pendingMembers) == 0 {
		return nil
	}
	pending := p.pendingMembers
	p.pendingMembers = nil
	return pending
}

func (p *Parser) IncludesPositions() bool {
	return p.includePositions
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// OptionError reports the first unrecognised feature name passed to
// WithFeature/WithFeatures, or nil if every name applied cleanly. Callers
// driving the parser from a flag (the CLI's -e/-d) should check this before
// calling Finish.
func (p *Parser) OptionError() error {
	return p.optionErr
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		startLine: 1,
		reader:    r,
		entry:     (*Parser).parseCompilationUnit,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		startLine: 1,
		reader:    r,
		entry:     (*Parser).parseExpression,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseJavaPlusPlusCompilationUnit parses a Java++ source file: the same
// grammar entry point as ParseCompilationUnit, but with the feature
// registry installed so every extended production in this package is live.
// Individual features can still be disabled via WithFeature/WithFeatures.
func ParseJavaPlusPlusCompilationUnit(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		startLine: 1,
		reader:    r,
		entry:     (*Parser).parseCompilationUnit,
		features:  NewFeatureRegistry(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseMethod looks up a named production by the convention used throughout
// this package (parseXxx) and runs it as the parser's entry point. It backs
// the CLI's --parse flag and --list-parse-methods. name is case-sensitive
// and matches the production name with its "parse" prefix removed, e.g.
// "Expression" for parseExpression.
func ParseMethod(r io.Reader, name string, javaPlusPlus bool, opts ...Option) (*Parser, bool) {
	fn, ok := parseMethods[name]
	if !ok {
		return nil, false
	}
	p := &Parser{
		startLine: 1,
		reader:    r,
		entry:     fn,
	}
	if javaPlusPlus {
		p.features = NewFeatureRegistry()
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, true
}

// ParseMethodNames returns the production names ParseMethod accepts, sorted.
func ParseMethodNames() []string {
	names := make([]string, 0, len(parseMethods))
	for name := range parseMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseMethods lists the productions exposed to --parse / ParseMethod.
// Kept as a small allowlist rather than reflecting over every method on
// Parser, since most productions take arguments or are only meaningful as
// part of a larger production.
var parseMethods = map[string]parseFunc{
	"CompilationUnit": (*Parser).parseCompilationUnit,
	"Expression":      (*Parser).parseExpression,
	"Statement":       (*Parser).parseStatement,
	"Block":           (*Parser).parseBlock,
	"ClassBody":       (*Parser).parseClassBody,
	"ClassMember":     (*Parser).parseClassMember,
	"Type":            (*Parser).parseType,
	"ImportDecl":      (*Parser).parseImportDecl,
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	p.input = data
	return nil
}

// IsComplete reports whether it is safe to call Finish.
// Returns true when the input can be parsed to produce a complete node
// without blocking. For example, "1 + " returns false because the
// expression is incomplete.
func (p *Parser) IsComplete() bool {
	if err := p.readAll(); err != nil {
		return false
	}
	if len(p.input) == 0 {
		return false
	}
	// Save parser state
	savedLexer := p.lexer
	savedTokens := p.tokens
	savedPos := p.pos
	savedIncomplete := p.incomplete

	// Trial parse
	p.lexer = NewLexer(p.input, p.file)
	p.tokens = nil
	p.pos = 0
	p.incomplete = false
	p.tokenize()
	p.entry(p)

	complete := !p.incomplete

	// Restore parser state
	p.lexer = savedLexer
	p.tokens = savedTokens
	p.pos = savedPos
	p.incomplete = savedIncomplete

	return complete
}

func (p *Parser) Finish() *Node {
	if err := p.readAll(); err != nil {
		return nil
	}
	if len(p.input) == 0 {
		return nil
	}
	p.lexer = NewLexer(p.input, p.file)
	p.tokens = nil
	p.pos = 0
	p.incomplete = false
	p.tokenize()
	result := p.entry(p)
	if p.incomplete {
		return nil
	}
	return result
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.lexer = nil
	p.tokens = nil
	p.pos = 0
	p.incomplete = false
}

func (p *Parser) tokenize() {
	for {
		tok := p.lexer.NextToken()
		if tok.Kind == TokenWhitespace {
			continue
		}
		if tok.Kind == TokenComment || tok.Kind == TokenLineComment {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			continue
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) expectIdentifier() *Token {
	if p.isIdentifierLike() {
		tok := p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

func (p *Parser) isIdentifierLike() bool {
	switch p.peek().Kind {
	case TokenIdent,
		TokenModule, TokenOpen, TokenRequires, TokenTransitive,
		TokenExports, TokenOpens, TokenTo, TokenUses, TokenProvides, TokenWith,
		TokenVar, TokenYield, TokenRecord, TokenSealed, TokenNonSealed, TokenPermits:
		return true
	}
	return false
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	} else if len(p.tokens) > 0 {
		n.Span.End = p.tokens[len(p.tokens)-1].Span.End
	}
	return n
}

// spanFrom builds a Span running from start to the end of the most
// recently consumed token. Desugaring helpers build their replacement
// nodes from scratch and never set a Span themselves; callers that splice
// such a node in as a top-level statement or declaration stamp it with
// this so comment placement (which keys off Span.Start.Line) still tracks
// real source positions instead of the zero value.
func (p *Parser) spanFrom(start Position) Span {
	end := start
	if p.pos > 0 && p.pos <= len(p.tokens) {
		end = p.tokens[p.pos-1].Span.End
	}
	return Span{Start: start, End: end}
}

func (p *Parser) errorNode(msg string, recoverTo []TokenKind, expected ...TokenKind) *Node {
	tok := p.peek()
	if tok.Kind == TokenEOF {
		p.incomplete = true
	}
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.End},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	p.recoverTo(recoverTo)
	return node
}

func (p *Parser) recoverTo(kinds []TokenKind) {
	if !p.check(TokenEOF) {
		p.advance()
	}
	if len(kinds) == 0 {
		return
	}
	for !p.check(TokenEOF) {
		for _, kind := range kinds {
			if p.check(kind) {
				return
			}
		}
		p.advance()
	}
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	if p.check(TokenPackage) || p.isAnnotatedPackage() {
		node.AddChild(p.parsePackageDecl())
	}

	var imports []*Node
	if p.features != nil {
		imports = p.parseJavaPlusPlusImportSection()
	} else {
		for p.check(TokenImport) {
			imports = append(imports, p.parseImportDecl())
		}
	}

	if p.isModularCompilationUnit() {
		for _, imp := range imports {
			node.AddChild(imp)
		}
		node.AddChild(p.parseModuleDecl())
	} else if p.isCompactCompilationUnit() {
		for _, imp := range imports {
			node.AddChild(imp)
		}
		for !p.check(TokenEOF) {
			node.AddChild(p.parseClassMember())
			for _, pending := range p.drainPendingMembers() {
				node.AddChild(pending)
			}
			if p.features != nil && p.features.Enabled("syntax.multiple_import_sections") && p.atImportSectionStart() {
				node.Children = append(node.Children, p.parseJavaPlusPlusImportSection()...)
			}
		}
	} else {
		for !p.check(TokenEOF) {
			// Skip stray semicolons at top level (empty declarations)
			if p.check(TokenSemicolon) {
				p.advance()
				continue
			}
			if p.features != nil && p.features.Enabled("syntax.multiple_import_sections") && p.atImportSectionStart() {
				imports = append(imports, p.parseJavaPlusPlusImportSection()...)
				continue
			}
			node.AddChild(p.parseTypeDecl())
		}
		node.Children = append(append([]*Node{}, imports...), node.Children...)
		if pkg := node.FirstChildOfKind(KindPackageDecl); pkg != nil {
			node.Children = reorderPackageFirst(node.Children, pkg)
		}
	}

	if p.features != nil {
		synthesized := synthesizeAutoImports(imports,
			p.features.Enabled("auto_imports.types"),
			p.features.Enabled("auto_imports.statics"))
		if len(synthesized) > 0 {
			node.Children = prependImports(node.Children, synthesized)
		}
	}

	return p.finishNode(node)
}

// atImportSectionStart reports whether the cursor sits at the start of a
// further import/from/unimport run, the trigger for re-entering the
// import section under syntax.multiple_import_sections.
func (p *Parser) atImportSectionStart() bool {
	return p.check(TokenImport) || p.isIdent("from") || p.isIdent("unimport")
}

// prependImports inserts synthesized imports immediately after any
// package declaration (or at the front, if there is none).
func prependImports(children []*Node, synthesized []*Node) []*Node {
	insertAt := 0
	if len(children) > 0 && children[0].Kind == KindPackageDecl {
		insertAt = 1
	}
	out := make([]*Node, 0, len(children)+len(synthesized))
	out = append(out, children[:insertAt]...)
	out = append(out, synthesized...)
	out = append(out, children[insertAt:]...)
	return out
}

// reorderPackageFirst moves the package declaration to the front of a
// compilation unit's children, used when the Java++ import section was
// interleaved with top-level declarations.
func reorderPackageFirst(children []*Node, pkg *Node) []*Node {
	out := make([]*Node, 0, len(children))
	out = append(out, pkg)
	for _, c := range children {
		if c != pkg {
			out = append(out, c)
		}
	}
	return out
}

func (p *Parser) isCompactCompilationUnit() bool {
	if p.check(TokenEOF) {
		return false
	}

	save := p.pos

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	for p.match(TokenPublic, TokenProtected, TokenPrivate,
		TokenAbstract, TokenStatic, TokenFinal,
		TokenStrictfp, TokenNative, TokenSynchronized,
		TokenTransient, TokenVolatile, TokenDefault,
		TokenSealed, TokenNonSealed) {
		p.advance()
	}

	isTypeDecl := false
	switch p.peek().Kind {
	case TokenClass, TokenInterface, TokenEnum, TokenRecord:
		isTypeDecl = true
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			isTypeDecl = true
		}
	}

	p.pos = save
	return !isTypeDecl
}

func (p *Parser) isModularCompilationUnit() bool {
	if p.check(TokenEOF) {
		return false
	}

	save := p.pos

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	if p.check(TokenOpen) {
		p.advance()
	}

	isModule := p.check(TokenModule)
	p.pos = save
	return isModule
}

func (p *Parser) parseModuleDecl() *Node {
	node := p.startNode(KindModuleDecl)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if p.check(TokenOpen) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	p.expect(TokenModule)
	node.AddChild(p.parseQualifiedName())

	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseModuleDirective())
	}
	p.expect(TokenRBrace)

	return p.finishNode(node)
}

func (p *Parser) parseModuleDirective() *Node {
	switch {
	case p.check(TokenRequires):
		return p.parseRequiresDirective()
	case p.check(TokenExports):
		return p.parseExportsDirective()
	case p.check(TokenOpens):
		return p.parseOpensDirective()
	case p.check(TokenUses):
		return p.parseUsesDirective()
	case p.check(TokenProvides):
		return p.parseProvidesDirective()
	default:
		return p.errorNode("expected module directive", []TokenKind{
			TokenRequires, TokenExports, TokenOpens, TokenUses, TokenProvides, TokenRBrace,
		})
	}
}

func (p *Parser) parseRequiresDirective() *Node {
	node := p.startNode(KindRequiresDirective)
	p.expect(TokenRequires)

	for p.check(TokenTransitive) || p.check(TokenStatic) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseExportsDirective() *Node {
	node := p.startNode(KindExportsDirective)
	p.expect(TokenExports)

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenTo) {
		p.advance()
		node.AddChild(p.parseQualifiedName())
		for p.check(TokenComma) {
			p.advance()
			node.AddChild(p.parseQualifiedName())
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseOpensDirective() *Node {
	node := p.startNode(KindOpensDirective)
	p.expect(TokenOpens)

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenTo) {
		p.advance()
		node.AddChild(p.parseQualifiedName())
		for p.check(TokenComma) {
			p.advance()
			node.AddChild(p.parseQualifiedName())
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseUsesDirective() *Node {
	node := p.startNode(KindUsesDirective)
	p.expect(TokenUses)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseProvidesDirective() *Node {
	node := p.startNode(KindProvidesDirective)
	p.expect(TokenProvides)
	node.AddChild(p.parseQualifiedName())

	p.expect(TokenWith)
	node.AddChild(p.parseQualifiedName())
	for p.check(TokenComma) {
		p.advance()
		node.AddChild(p.parseQualifiedName())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) isAnnotatedPackage() bool {
	if !p.check(TokenAt) {
		return false
	}
	save := p.pos
	for p.check(TokenAt) {
		p.parseAnnotation()
	}
	result := p.check(TokenPackage)
	p.pos = save
	return result
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	p.expect(TokenPackage)
	node.AddChild(p.parseQualifiedName())
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}

func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect(TokenImport)

	if p.check(TokenModule) || (p.check(TokenIdent) && p.peek().Literal == "module") {
		node.Kind = KindModuleImportDecl
		p.advance()
		node.AddChild(p.parseQualifiedName())
		p.expect(TokenSemicolon)
		return p.finishNode(node)
	}

	if p.check(TokenStatic) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	node.AddChild(p.parseQualifiedName())

	if p.check(TokenDot) {
		p.advance()
		if tok := p.expect(TokenStar); tok != nil {
			node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	} else {
		return p.errorNode("expected identifier", nil)
	}

	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	return p.finishNode(node)
}

func (p *Parser) parseTypeDecl() *Node {
	modifiers := p.parseModifiers()

	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenRecord:
		return p.parseRecordDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}

	recoverTokens := []TokenKind{
		TokenAt, TokenPublic, TokenPrivate, TokenProtected,
		TokenAbstract, TokenStatic, TokenFinal, TokenStrictfp,
		TokenClass, TokenInterface, TokenEnum, TokenRecord,
	}
	if modifiers != nil && len(modifiers.Children) > 0 {
		return p.errorNode("expected class, interface, enum, record, or @interface", recoverTokens)
	}

	return p.errorNode("expected type declaration", recoverTokens)
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)

	for {
		switch p.peek().Kind {
		case TokenAt:
			if p.peekN(1).Kind == TokenInterface {
				return p.finishNode(node)
			}
			node.AddChild(p.parseAnnotation())
		case TokenPublic, TokenProtected, TokenPrivate,
			TokenAbstract, TokenStatic, TokenFinal,
			TokenStrictfp, TokenNative, TokenSynchronized,
			TokenTransient, TokenVolatile, TokenDefault,
			TokenSealed, TokenNonSealed:
			tok := p.advance()
			node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		default:
			return p.finishNode(node)
		}
	}
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect(TokenAt)
	node.AddChild(p.parseQualifiedName())

	if p.check(TokenLParen) {
		p.advance()
		if !p.check(TokenRParen) {
			if p.peekN(1).Kind == TokenAssign {
				for {
					progress := p.mustProgress()
					node.AddChild(p.parseAnnotationElement())
					if !p.check(TokenComma) {
						break
					}
					p.advance()
					if !progress() {
						break
					}
				}
			} else {
				node.AddChild(p.parseAnnotationValue())
			}
		}
		p.expect(TokenRParen)
	}

	return p.finishNode(node)
}

func (p *Parser) parseAnnotationElement() *Node {
	node := p.startNode(KindAnnotationElement)
	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}
	p.expect(TokenAssign)
	node.AddChild(p.parseAnnotationValue())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationValue() *Node {
	if p.check(TokenAt) {
		return p.parseAnnotation()
	}
	if p.check(TokenLBrace) {
		node := p.startNode(KindArrayInit)
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			node.AddChild(p.parseAnnotationValue())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
		p.expect(TokenRBrace)
		return p.finishNode(node)
	}
	return p.parseExpression()
}

func (p *Parser) parseClassDecl(modifiers *Node) *Node {
	node := p.startNode(KindClassDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenClass)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	if p.check(TokenExtends) {
		p.advance()
		node.AddChild(p.parseType())
	}

	if p.check(TokenImplements) {
		p.advance()
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	if p.check(TokenPermits) {
		p.advance()
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceDecl(modifiers *Node) *Node {
	node := p.startNode(KindInterfaceDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenInterface)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	if p.check(TokenExtends) {
		p.advance()
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	if p.check(TokenPermits) {
		p.advance()
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseEnumDecl(modifiers *Node) *Node {
	node := p.startNode(KindEnumDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenEnum)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenImplements) {
		p.advance()
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	p.expect(TokenLBrace)

	for p.check(TokenIdent) || p.check(TokenAt) {
		node.AddChild(p.parseEnumConstant())
		if p.check(TokenComma) {
			p.advance()
		} else {
			break
		}
	}

	if p.check(TokenSemicolon) {
		p.advance()
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			node.AddChild(p.parseClassMember())
		}
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseEnumConstant() *Node {
	node := p.startNode(KindFieldDecl)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLParen) {
		node.AddChild(p.parseArguments())
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parseRecordDecl(modifiers *Node) *Node {
	node := p.startNode(KindRecordDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenRecord)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeParameters())
	}

	node.AddChild(p.parseParameters())

	if p.check(TokenImplements) {
		p.advance()
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseType())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseAnnotationDecl(modifiers *Node) *Node {
	node := p.startNode(KindAnnotationDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	p.expect(TokenAt)
	p.expect(TokenInterface)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	node.AddChild(p.parseClassBody())
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameters() *Node {
	node := p.startNode(KindTypeParameters)
	p.expect(TokenLT)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeParameter())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	p.expectGT()
	return p.finishNode(node)
}

func (p *Parser) parseTypeParameter() *Node {
	node := p.startNode(KindTypeParameter)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenExtends) {
		p.advance()
		for {
			node.AddChild(p.parseType())
			if !p.check(TokenBitAnd) {
				break
			}
			p.advance()
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid, TokenVar:
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	case TokenIdent:
		node.AddChild(p.parseQualifiedName())
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}
		// Handle parameterized inner class types: Outer<T>.Inner or Outer<T>.Inner<U>
		for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
			p.advance() // consume dot
			node.AddChild(p.parseQualifiedName())
			if p.check(TokenLT) {
				node.AddChild(p.parseTypeArguments())
			}
		}
	default:
		return p.errorNode("expected type", []TokenKind{TokenIdent, TokenSemicolon, TokenRParen, TokenComma, TokenRBrace})
	}

	for p.check(TokenAt) || p.check(TokenLBracket) {
		progress := p.mustProgress()
		wrapper := p.startNode(KindArrayType)
		for p.check(TokenAt) {
			wrapper.AddChild(p.parseAnnotation())
		}
		if !p.check(TokenLBracket) {
			break
		}
		p.advance()
		p.expect(TokenRBracket)
		wrapper.AddChild(node)
		node = p.finishNode(wrapper)
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect(TokenLT)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeArgument())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if p.features != nil && p.features.Enabled("trailing_commas.argument") && p.isClosingAngle() {
			break
		}
		if !progress() {
			break
		}
	}

	p.expectGT()
	return p.finishNode(node)
}

func (p *Parser) isClosingAngle() bool {
	switch p.peek().Kind {
	case TokenGT, TokenShr, TokenUShr, TokenGE, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func (p *Parser) expectGT() bool {
	switch p.peek().Kind {
	case TokenGT:
		p.advance()
		return true
	case TokenShr:
		p.splitShiftToken(TokenGT)
		return true
	case TokenUShr:
		p.splitShiftToken(TokenShr)
		return true
	case TokenGE:
		p.splitCompareToken(TokenAssign)
		return true
	case TokenShrAssign:
		p.splitShiftToken(TokenGE)
		return true
	case TokenUShrAssign:
		p.splitShiftToken(TokenShrAssign)
		return true
	}
	return false
}

func (p *Parser) splitShiftToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	newTok := Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span: Span{
			Start: Position{
				File:   tok.Span.Start.File,
				Offset: tok.Span.Start.Offset + 1,
				Line:   tok.Span.Start.Line,
				Column: tok.Span.Start.Column + 1,
			},
			End: tok.Span.End,
		},
	}
	p.tokens[p.pos] = newTok
}

func (p *Parser) splitCompareToken(remainder TokenKind) {
	tok := p.tokens[p.pos]
	newTok := Token{
		Kind:    remainder,
		Literal: tok.Literal[1:],
		Span: Span{
			Start: Position{
				File:   tok.Span.Start.File,
				Offset: tok.Span.Start.Offset + 1,
				Line:   tok.Span.Start.Line,
				Column: tok.Span.Start.Column + 1,
			},
			End: tok.Span.End,
		},
	}
	p.tokens[p.pos] = newTok
}

// relexRegexLiteral re-scans the raw source starting at the current
// TokenSlash for a /.../ regex body, splicing however many already-lexed
// tokens that byte range covers into a single TokenRegexLiteral, the same
// raw-byte re-lexing idea as splitShiftToken applied across token
// boundaries instead of within one. Returns false (cursor untouched) if
// no closing '/' is found before a newline or EOF.
func (p *Parser) relexRegexLiteral() (string, bool) {
	start := p.tokens[p.pos].Span.Start.Offset
	i := start + 1
	for i < len(p.input) {
		switch p.input[i] {
		case '\\':
			i += 2
			continue
		case '\n':
			return "", false
		case '/':
			body := string(p.input[start+1 : i])
			end := i

			consumed := p.pos
			for consumed < len(p.tokens) && p.tokens[consumed].Span.Start.Offset <= end {
				consumed++
			}
			startSpan := p.tokens[p.pos].Span.Start
			endSpan := p.tokens[consumed-1].Span.End
			tok := Token{
				Kind:    TokenRegexLiteral,
				Literal: string(p.input[start : end+1]),
				Span:    Span{Start: startSpan, End: endSpan},
			}

			rest := append([]Token{}, p.tokens[consumed:]...)
			p.tokens = append(p.tokens[:p.pos], tok)
			p.tokens = append(p.tokens, rest...)
			return body, true
		}
		i++
	}
	return "", false
}

func (p *Parser) parseTypeArgument() *Node {
	if p.check(TokenQuestion) {
		return p.parseWildcard()
	}
	return p.parseType()
}

func (p *Parser) parseWildcard() *Node {
	node := p.startNode(KindWildcard)
	p.expect(TokenQuestion)

	if p.check(TokenExtends) || p.check(TokenSuper) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseType())
	}

	return p.finishNode(node)
}

func (p *Parser) parseClassBody() *Node {
	if p.features != nil && p.features.Enabled("syntax.empty_class_body") && p.check(TokenSemicolon) {
		node := p.startNode(KindBlock)
		p.advance()
		return p.finishNode(node)
	}

	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	savedDefaultMods := p.defaultMods
	p.defaultMods = nil
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseClassMember())
		for _, pending := range p.drainPendingMembers() {
			node.AddChild(pending)
		}
	}
	p.defaultMods = savedDefaultMods

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseClassMember() *Node {
	if p.check(TokenLBrace) {
		return p.parseBlock()
	}

	if p.check(TokenStatic) && p.peekN(1).Kind == TokenLBrace {
		node := p.startNode(KindBlock)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		block := p.parseBlock()
		node.AddChild(block)
		return p.finishNode(node)
	}

	if p.check(TokenSemicolon) {
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	}

	modifiers := p.parseModifiers()

	if p.features != nil && p.features.Enabled("syntax.default_modifiers") && p.check(TokenColon) {
		p.advance()
		p.defaultMods = modifiers
		return p.parseClassMember()
	}

	if p.defaultMods != nil {
		modifiers.Children = mergeNodeLists(modifiers.Children, p.defaultMods.Children)
	}

	switch p.peek().Kind {
	case TokenClass:
		return p.parseClassDecl(modifiers)
	case TokenInterface:
		return p.parseInterfaceDecl(modifiers)
	case TokenEnum:
		return p.parseEnumDecl(modifiers)
	case TokenRecord:
		return p.parseRecordDecl(modifiers)
	case TokenAt:
		if p.peekN(1).Kind == TokenInterface {
			return p.parseAnnotationDecl(modifiers)
		}
	}

	if p.check(TokenLT) {
		typeParams := p.parseTypeParameters()
		return p.parseMethodOrConstructor(modifiers, typeParams)
	}

	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, nil)
	}

	// Compact constructor for records: public ClassName { ... }
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLBrace {
		return p.parseCompactConstructor(modifiers)
	}

	typ := p.parseType()

	if p.isIdentifierLike() {
		if p.peekN(1).Kind == TokenLParen {
			return p.parseMethod(modifiers, nil, typ)
		}
		return p.parseField(modifiers, typ)
	}

	return p.errorNode("expected member declaration", []TokenKind{
		TokenAt, TokenPublic, TokenPrivate, TokenProtected,
		TokenAbstract, TokenStatic, TokenFinal, TokenNative,
		TokenSynchronized, TokenTransient, TokenVolatile,
		TokenStrictfp, TokenDefault, TokenSealed, TokenNonSealed,
		TokenClass, TokenInterface, TokenEnum, TokenRecord,
		TokenIdent, TokenVoid, TokenBoolean, TokenByte,
		TokenChar, TokenShort, TokenInt, TokenLong,
		TokenFloat, TokenDouble, TokenLT, TokenRBrace,
	})
}

func (p *Parser) parseMethodOrConstructor(modifiers *Node, typeParams *Node) *Node {
	if p.isIdentifierLike() && p.peekN(1).Kind == TokenLParen {
		return p.parseConstructor(modifiers, typeParams)
	}

	typ := p.parseType()
	return p.parseMethod(modifiers, typeParams, typ)
}

func (p *Parser) parseConstructor(modifiers *Node, typeParams *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}
	if typeParams != nil {
		node.AddChild(typeParams)
	}

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	params, defaults := p.parseParametersCollectingDefaults()
	node.AddChild(params)

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	node.AddChild(p.parseConstructorBody())
	finished := p.finishNode(node)
	if len(defaults) > 0 {
		p.bufferMembers(synthesizeDefaultOverloads(finished, "", defaults, true))
	}
	return finished
}

// parseCompactConstructor parses a compact constructor for records.
// Compact constructors have no parameter list: public ClassName { ... }
func (p *Parser) parseCompactConstructor(modifiers *Node) *Node {
	node := p.startNode(KindConstructorDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	// Compact constructors have no parameters, but we add an empty parameters node
	paramsNode := p.startNode(KindParameters)
	node.AddChild(p.finishNode(paramsNode))

	// Parse the block body (not constructor body - no explicit constructor invocation check needed)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseConstructorBody() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	if p.isExplicitConstructorInvocation() {
		node.AddChild(p.parseExplicitConstructorInvocation())
	}

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		p.appendHoistedStatement(node)
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) isExplicitConstructorInvocation() bool {
	save := p.pos

	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	if p.check(TokenThis) || p.check(TokenSuper) {
		p.advance()
		if p.check(TokenLParen) {
			p.pos = save
			return true
		}
	}

	p.pos = save

	// Check for qualified super: expr.super(...) or expr.<T>super(...)
	// This handles ExpressionName.super() and Primary.super()
	if p.isQualifiedSuperInvocation() {
		return true
	}

	return false
}

// isQualifiedSuperInvocation checks for patterns like:
// - outer.super(...)
// - outer.<T>super(...)
// - (expr).super(...)
func (p *Parser) isQualifiedSuperInvocation() bool {
	save := p.pos
	defer func() { p.pos = save }()

	// Try to parse qualifying expression (identifier chain or primary)
	if p.check(TokenIdent) {
		// Skip identifier chain: a.b.c
		for p.check(TokenIdent) {
			p.advance()
			if p.check(TokenDot) {
				p.advance()
			} else {
				return false
			}
		}
	} else if p.check(TokenLParen) {
		// Skip parenthesized expression
		p.advance()
		depth := 1
		for depth > 0 && !p.check(TokenEOF) {
			if p.check(TokenLParen) {
				depth++
			} else if p.check(TokenRParen) {
				depth--
			}
			p.advance()
		}
		if !p.check(TokenDot) {
			return false
		}
		p.advance()
	} else {
		return false
	}

	// Optional type arguments
	if p.check(TokenLT) {
		p.skipTypeArguments()
	}

	// Must be super followed by (
	if p.check(TokenSuper) {
		p.advance()
		if p.check(TokenLParen) {
			return true
		}
	}

	return false
}

func (p *Parser) parseExplicitConstructorInvocation() *Node {
	node := p.startNode(KindExplicitConstructorInvocation)

	// Check for qualified super: expr.super() or expr.<T>super()
	if !p.check(TokenLT) && !p.check(TokenThis) && !p.check(TokenSuper) {
		// Must be a qualified super invocation
		qualifier := p.parseQualifiedSuperQualifier()
		node.AddChild(qualifier)

		// Optional type arguments after the dot
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}

		// Must be super
		if p.check(TokenSuper) {
			tok := p.advance()
			node.AddChild(&Node{Kind: KindSuper, Token: &tok, Span: tok.Span})
		}
	} else {
		// Unqualified: [TypeArguments] this(...) or [TypeArguments] super(...)
		if p.check(TokenLT) {
			node.AddChild(p.parseTypeArguments())
		}

		if p.check(TokenThis) {
			tok := p.advance()
			node.AddChild(&Node{Kind: KindThis, Token: &tok, Span: tok.Span})
		} else if p.check(TokenSuper) {
			tok := p.advance()
			node.AddChild(&Node{Kind: KindSuper, Token: &tok, Span: tok.Span})
		}
	}

	node.AddChild(p.parseArguments())
	p.expect(TokenSemicolon)

	return p.finishNode(node)
}

// parseQualifiedSuperQualifier parses the qualifying expression before .super()
// Returns a KindIdentifier, KindQualifiedName, or expression node
func (p *Parser) parseQualifiedSuperQualifier() *Node {
	if p.check(TokenIdent) {
		// Parse identifier chain: a.b.c (stopping before .super)
		node := p.startNode(KindIdentifier)
		tok := p.advance()
		node.Token = &tok
		node.Span = tok.Span
		node = p.finishNode(node)

		for p.check(TokenDot) {
			// Peek ahead to see if next is super or <T>super
			save := p.pos
			p.advance() // consume dot

			if p.check(TokenLT) {
				// Could be type args before super, restore and return
				p.pos = save
				p.advance() // consume the dot before returning
				return node
			}

			if p.check(TokenSuper) {
				// Don't consume super, just the dot
				return node
			}

			// It's another identifier in the chain
			if p.check(TokenIdent) {
				qualNode := p.startNode(KindQualifiedName)
				qualNode.AddChild(node)
				identTok := p.advance()
				qualNode.AddChild(&Node{Kind: KindIdentifier, Token: &identTok, Span: identTok.Span})
				node = p.finishNode(qualNode)
			} else {
				// Unexpected, restore and return what we have
				p.pos = save
				return node
			}
		}

		// Consume trailing dot before super
		if p.check(TokenDot) {
			p.advance()
		}
		return node
	} else if p.check(TokenLParen) {
		// Parse parenthesized expression
		expr := p.parseParenExpr()
		p.expect(TokenDot)
		return expr
	}

	// Fallback: parse as expression
	expr := p.parsePrimaryExpr()
	p.expect(TokenDot)
	return expr
}

func (p *Parser) parseMethod(modifiers *Node, typeParams *Node, returnType *Node) *Node {
	node := p.startNode(KindMethodDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}
	if typeParams != nil {
		node.AddChild(typeParams)
	}
	if returnType != nil {
		node.AddChild(returnType)
	}

	var name string
	if tok := p.expectIdentifier(); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		name = tok.Literal
	}

	params, defaults := p.parseParametersCollectingDefaults()
	node.AddChild(params)

	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
	}

	if p.check(TokenThrows) {
		node.AddChild(p.parseThrowsList())
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	} else if p.check(TokenDefault) {
		p.advance()
		node.AddChild(p.parseAnnotationValue())
		p.expect(TokenSemicolon)
	} else {
		p.expect(TokenSemicolon)
	}

	finished := p.finishNode(node)
	if len(defaults) > 0 {
		p.bufferMembers(synthesizeDefaultOverloads(finished, name, defaults, false))
	}
	return finished
}

func (p *Parser) parseField(modifiers *Node, typ *Node) *Node {
	node := p.startNode(KindFieldDecl)
	if modifiers != nil {
		node.AddChild(modifiers)
	}
	if typ != nil {
		node.AddChild(typ)
	}

	for {
		progress := p.mustProgress()
		if tok := p.expect(TokenIdent); tok != nil {
			node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
		}

		for p.check(TokenLBracket) {
			p.advance()
			p.expect(TokenRBracket)
		}

		if p.check(TokenAssign) {
			p.advance()
			node.AddChild(p.parseVarInitializer())
		}

		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if p.features != nil && p.features.Enabled("trailing_commas.other") && p.check(TokenSemicolon) {
			break
		}
		if !progress() {
			break
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseVarInitializer() *Node {
	if p.check(TokenLBrace) {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

func (p *Parser) parseArrayInitializer() *Node {
	node := p.startNode(KindArrayInit)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseVarInitializer())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if p.check(TokenRBrace) {
			break
		}
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node, _ := p.parseParametersCollectingDefaults()
	return node
}

// parseParametersCollectingDefaults parses a parameter list exactly like
// parseParameters, additionally recording a `= expr` default following any
// parameter when syntax.default_arguments is on — without changing the
// shape of the Parameter nodes themselves, so the full-arity declaration
// still prints as plain Java. The defaults are consumed by the caller to
// synthesize forwarding overloads once the enclosing declaration is whole.
func (p *Parser) parseParametersCollectingDefaults() (*Node, []defaultParam) {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	var defaults []defaultParam
	defaultsOn := p.features != nil && p.features.Enabled("syntax.default_arguments")

	if !p.check(TokenRParen) {
		if p.isReceiverParameter() {
			node.AddChild(p.parseReceiverParameter())
			if p.check(TokenComma) {
				p.advance()
			}
		}
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			param := p.parseParameter()
			node.AddChild(param)

			if defaultsOn {
				dp := defaultParam{node: param, variadic: isVariadicParam(param)}
				if p.check(TokenAssign) {
					p.advance()
					dp.hasDefault = true
					dp.defaultVal = p.parseVarInitializer()
				}
				defaults = append(defaults, dp)
			}

			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node), defaults
}

func isVariadicParam(param *Node) bool {
	for _, id := range param.ChildrenOfKind(KindIdentifier) {
		if id.Token != nil && id.Token.Kind == TokenEllipsis {
			return true
		}
	}
	return false
}

func (p *Parser) isReceiverParameter() bool {
	save := p.pos

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		p.advance()
	case TokenIdent:
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
	default:
		p.pos = save
		return false
	}

	for p.check(TokenLBracket) {
		p.advance()
		if p.check(TokenRBracket) {
			p.advance()
		}
	}

	if p.check(TokenIdent) {
		p.advance()
		if p.check(TokenDot) {
			p.advance()
			if p.check(TokenThis) {
				p.pos = save
				return true
			}
		}
	} else if p.check(TokenThis) {
		p.pos = save
		return true
	}

	p.pos = save
	return false
}

func (p *Parser) parseReceiverParameter() *Node {
	node := p.startNode(KindReceiverParameter)

	for p.check(TokenAt) {
		node.AddChild(p.parseAnnotation())
	}

	node.AddChild(p.parseType())

	if p.check(TokenIdent) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		p.expect(TokenDot)
	}

	p.expect(TokenThis)
	return p.finishNode(node)
}

func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	node.AddChild(p.parseModifiers())

	node.AddChild(p.parseType())

	if p.check(TokenEllipsis) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}

	if id := p.parseVariableDeclaratorId(); id != nil {
		node.AddChild(id)
	}

	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
	}

	return p.finishNode(node)
}

func (p *Parser) parseThrowsList() *Node {
	node := p.startNode(KindThrowsList)
	p.expect(TokenThrows)

	for {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseBlock() *Node {
	node := p.startNode(KindBlock)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		p.appendHoistedStatement(node)
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// appendHoistedStatement parses one statement and appends it to block,
// first splicing in anything the parse accumulated in the pre-statement
// buffer (expressions.vardecl hoisting a declaration out of an if/while
// condition). The buffer is scoped to exactly this statement: whatever it
// held on entry is untouched, and whatever it holds on exit is drained and
// placed immediately before the statement it was hoisted out of.
func (p *Parser) appendHoistedStatement(block *Node) {
	stmt := p.parseStatement()
	for _, hoisted := range p.drainStmtBuffer() {
		block.AddChild(hoisted)
	}
	block.AddChild(stmt)
}

func (p *Parser) parseStatement() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBlock()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenIf:
		return p.parseIfStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenSwitch:
		return p.parseSwitchStmt()
	case TokenReturn:
		return p.parseReturnStmt()
	case TokenBreak:
		return p.parseBreakStmt()
	case TokenContinue:
		return p.parseContinueStmt()
	case TokenThrow:
		return p.parseThrowStmt()
	case TokenTry:
		return p.parseTryStmt()
	case TokenSynchronized:
		return p.parseSynchronizedStmt()
	case TokenAssert:
		return p.parseAssertStmt()
	case TokenYield:
		return p.parseYieldStmt()
	case TokenClass, TokenInterface, TokenEnum, TokenRecord:
		return p.parseLocalClassDecl()
	case TokenFinal, TokenAt:
		return p.parseLocalVarOrExprStmt()
	case TokenIdent:
		if p.features != nil && p.features.Enabled("statements.print") {
			switch p.peek().Literal {
			case "print", "println":
				return p.parsePrintStmt(p.peek().Literal == "println")
			case "printf", "printfln":
				return p.parsePrintfStmt(p.peek().Literal == "printfln")
			}
		}
		if p.peekN(1).Kind == TokenColon {
			return p.parseLabeledStmt()
		}
		return p.parseLocalVarOrExprStmt()
	default:
		return p.parseLocalVarOrExprStmt()
	}
}

// parsePrintArgList parses the print-family argument tail: either a
// comma-separated list or a whitespace-separated run terminated by `;`,
// per spec §4.4's "Print family" grammar.
func (p *Parser) parsePrintArgList() []*Node {
	elements := []*Node{p.parseArgWithAnnotation()}
	if p.check(TokenComma) {
		for p.check(TokenComma) {
			p.advance()
			if p.features.Enabled("trailing_commas.other") && p.check(TokenSemicolon) {
				break
			}
			elements = append(elements, p.parseArgWithAnnotation())
		}
	} else {
		for !p.check(TokenSemicolon) && !p.check(TokenEOF) {
			elements = append(elements, p.parseArgWithAnnotation())
		}
	}
	return elements
}

// parseArgWithAnnotation parses one argument, discarding a leading
// `name :` annotation under syntax.argument_annotations.
func (p *Parser) parseArgWithAnnotation() *Node {
	if p.features.Enabled("syntax.argument_annotations") && p.isIdentifierLike() && p.peekN(1).Kind == TokenColon {
		p.advance()
		p.advance()
	}
	return p.parseExpression()
}

func (p *Parser) parsePrintStmt(isPrintln bool) *Node {
	start := p.peek().Span.Start
	p.advance() // 'print' / 'println'

	if p.check(TokenSemicolon) {
		p.advance()
		if isPrintln {
			node := desugarPrintStatement("println", nil)
			node.Span = p.spanFrom(start)
			return node
		}
		return &Node{Kind: KindEmptyStmt, Span: p.spanFrom(start)}
	}

	elements := p.parsePrintArgList()
	p.expect(TokenSemicolon)

	var node *Node
	if len(elements) == 1 {
		method := "print"
		if isPrintln {
			method = "println"
		}
		node = desugarPrintStatement(method, elements[0])
	} else {
		lastMethod := "print"
		if isPrintln {
			lastMethod = "println"
		}
		node = desugarPrintSequence(lastMethod, elements)
	}
	node.Span = p.spanFrom(start)
	return node
}

func (p *Parser) parsePrintfStmt(appendNewline bool) *Node {
	start := p.peek().Span.Start
	p.advance() // 'printf' / 'printfln'
	args := p.parsePrintArgList()
	p.expect(TokenSemicolon)
	node := desugarPrintf(appendNewline, args)
	node.Span = p.spanFrom(start)
	return node
}

func (p *Parser) parseLocalVarOrExprStmt() *Node {
	if p.isLocalVarDecl() {
		return p.parseLocalVarDecl()
	}
	return p.parseExprStmt()
}

func (p *Parser) isLocalVarDecl() bool {
	save := p.pos

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	if p.check(TokenFinal) {
		p.advance()
	}

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	isType := false
	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVar:
		isType = true
	default:
		if p.isIdentifierLike() {
			p.parseQualifiedName()
			if p.check(TokenLT) {
				p.skipTypeArguments()
			}
			for p.check(TokenLBracket) {
				p.advance()
				if !p.check(TokenRBracket) {
					p.pos = save
					return false
				}
				p.advance()
			}
			isType = p.isIdentifierLike() || p.isUnnamedVariable()
		}
	}

	p.pos = save
	return isType
}

func (p *Parser) skipTypeArguments() {
	if !p.check(TokenLT) {
		return
	}
	p.advance()
	depth := 1
	for depth > 0 && !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		case TokenShr:
			depth -= 2
		case TokenUShr:
			depth -= 3
		}
		p.advance()
	}
}

func (p *Parser) parseLocalVarDecl() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())

	if p.check(TokenVar) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindType, Token: &tok, Span: tok.Span})
	} else {
		node.AddChild(p.parseType())
	}

	for {
		progress := p.mustProgress()
		if id := p.parseVariableDeclaratorId(); id != nil {
			node.AddChild(id)
		}

		for p.check(TokenLBracket) {
			p.advance()
			p.expect(TokenRBracket)
		}

		if p.check(TokenAssign) {
			p.advance()
			node.AddChild(p.parseVarInitializer())
		}

		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if p.features != nil && p.features.Enabled("trailing_commas.other") && p.check(TokenSemicolon) {
			break
		}
		if !progress() {
			break
		}
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLocalClassDecl() *Node {
	node := p.startNode(KindLocalClassDecl)
	modifiers := p.parseModifiers()
	switch p.peek().Kind {
	case TokenClass:
		node.AddChild(p.parseClassDecl(modifiers))
	case TokenInterface:
		node.AddChild(p.parseInterfaceDecl(modifiers))
	case TokenEnum:
		node.AddChild(p.parseEnumDecl(modifiers))
	case TokenRecord:
		node.AddChild(p.parseRecordDecl(modifiers))
	}
	return p.finishNode(node)
}

// parseConditionExpr parses an if/while condition, trying
// expressions.vardecl's `[mods] Type name = init` form first when that
// feature is on, falling back to a plain expression.
func (p *Parser) parseConditionExpr() *Node {
	if p.features != nil && p.features.Enabled("expressions.vardecl") {
		if expr, ok := p.tryParseVardeclCondition(); ok {
			return expr
		}
	}
	return p.parseExpression()
}

// tryParseVardeclCondition speculatively parses `Type name = init` as a
// condition, hoisting the declaration into the pre-statement buffer and
// returning the rewritten condition expression (spec §4.4's "Variable
// declaration in conditions"). It rewinds cleanly on any mismatch.
func (p *Parser) tryParseVardeclCondition() (*Node, bool) {
	sp := p.mark()
	start := p.peek().Span.Start

	for p.check(TokenFinal) || p.check(TokenAt) {
		if p.check(TokenAt) {
			p.parseAnnotation()
		} else {
			p.advance()
		}
	}

	if !p.isTypeStart() {
		p.rewind(sp)
		return nil, false
	}

	declType := p.parseType()

	if !p.isIdentifierLike() || p.peekN(1).Kind != TokenAssign {
		p.rewind(sp)
		return nil, false
	}

	tok := p.advance()
	name := &Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span}
	p.advance() // '='
	init := p.parseExpression()

	if !p.check(TokenRParen) {
		p.rewind(sp)
		return nil, false
	}

	isVar := len(declType.Children) == 1 && declType.Children[0].Token != nil && declType.Children[0].Token.Kind == TokenVar
	return p.desugarVardeclCondition(isVar, declType, name, init, p.spanFrom(start)), true
}

func (p *Parser) isTypeStart() bool {
	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid, TokenVar, TokenIdent:
		return true
	}
	return false
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	p.expect(TokenLParen)
	node.AddChild(p.parseConditionExpr())
	p.expect(TokenRParen)
	node.AddChild(p.parseStatement())

	if p.check(TokenElse) {
		p.advance()
		node.AddChild(p.parseStatement())
	}

	return p.finishNode(node)
}

func (p *Parser) parseForStmt() *Node {
	p.expect(TokenFor)
	p.expect(TokenLParen)

	if p.isEnhancedFor() {
		return p.parseEnhancedForStmt()
	}

	node := p.startNode(KindForStmt)

	initNode := p.startNode(KindForInit)
	if !p.check(TokenSemicolon) {
		if p.isLocalVarDecl() {
			initNode.AddChild(p.parseLocalVarDeclNoSemi())
		} else {
			for {
				initNode.AddChild(p.parseExpression())
				if !p.check(TokenComma) {
					break
				}
				p.advance()
			}
		}
	}
	node.AddChild(p.finishNode(initNode))
	p.expect(TokenSemicolon)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}
	p.expect(TokenSemicolon)

	updateNode := p.startNode(KindForUpdate)
	if !p.check(TokenRParen) {
		for {
			updateNode.AddChild(p.parseExpression())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
		}
	}
	node.AddChild(p.finishNode(updateNode))
	p.expect(TokenRParen)

	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) isEnhancedFor() bool {
	save := p.pos

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	if p.check(TokenFinal) {
		p.advance()
	}

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVar:
		p.advance()
	case TokenIdent:
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
	default:
		p.pos = save
		return false
	}

	for p.check(TokenLBracket) {
		p.advance()
		if p.check(TokenRBracket) {
			p.advance()
		}
	}

	if !p.check(TokenIdent) {
		p.pos = save
		return false
	}
	p.advance()

	result := p.check(TokenColon)
	p.pos = save
	return result
}

func (p *Parser) isLocalVarDeclWithUnderscore() bool {
	return p.check(TokenIdent) && p.peek().Literal == "_" && p.peekN(1).Kind == TokenAssign
}

func (p *Parser) parseEnhancedForStmt() *Node {
	node := p.startNode(KindEnhancedForStmt)

	node.AddChild(p.parseModifiers())

	if p.check(TokenVar) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindType, Token: &tok, Span: tok.Span})
	} else {
		node.AddChild(p.parseType())
	}

	if id := p.parseVariableDeclaratorId(); id != nil {
		node.AddChild(id)
	}

	p.expect(TokenColon)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	node.AddChild(p.parseStatement())

	return p.finishNode(node)
}

func (p *Parser) parseLocalVarDeclNoSemi() *Node {
	node := p.startNode(KindLocalVarDecl)
	node.AddChild(p.parseModifiers())

	if p.check(TokenVar) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindType, Token: &tok, Span: tok.Span})
	} else {
		node.AddChild(p.parseType())
	}

	for {
		progress := p.mustProgress()
		if id := p.parseVariableDeclaratorId(); id != nil {
			node.AddChild(id)
		}

		for p.check(TokenLBracket) {
			p.advance()
			p.expect(TokenRBracket)
		}

		if p.check(TokenAssign) {
			p.advance()
			node.AddChild(p.parseVarInitializer())
		}

		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.expect(TokenWhile)
	p.expect(TokenLParen)
	node.AddChild(p.parseConditionExpr())
	p.expect(TokenRParen)
	node.AddChild(p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.expect(TokenDo)
	node.AddChild(p.parseStatement())
	p.expect(TokenWhile)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.expect(TokenSwitch)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseSwitchCase())
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseSwitchCase() *Node {
	node := p.startNode(KindSwitchCase)

	isArrowCase := false
	for p.check(TokenCase) || p.check(TokenDefault) {
		label := p.parseSwitchLabel()
		node.AddChild(label)
		if label.isArrowCase {
			isArrowCase = true
			break
		}
	}

	if isArrowCase {
		switch p.peek().Kind {
		case TokenLBrace:
			node.AddChild(p.parseBlock())
		case TokenThrow:
			node.AddChild(p.parseThrowStmt())
		default:
			exprNode := p.startNode(KindExprStmt)
			exprNode.AddChild(p.parseExpression())
			p.expect(TokenSemicolon)
			node.AddChild(p.finishNode(exprNode))
		}
	} else {
		for !p.check(TokenCase) && !p.check(TokenDefault) && !p.check(TokenRBrace) && !p.check(TokenEOF) {
			node.AddChild(p.parseStatement())
		}
	}

	return p.finishNode(node)
}

func (p *Parser) parseSwitchLabel() *Node {
	node := p.startNode(KindSwitchLabel)

	if p.check(TokenCase) {
		p.advance()
		for {
			progress := p.mustProgress()
			if p.looksLikePattern() {
				node.AddChild(p.parsePattern())
			} else {
				node.AddChild(p.parseCaseLabelExpression())
			}
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			// Java 21: case null, default -> ...
			if p.check(TokenDefault) {
				tok := p.advance()
				node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
				break
			}
			if p.features != nil && p.features.Enabled("trailing_commas.other") &&
				(p.check(TokenColon) || p.check(TokenArrow)) {
				break
			}
			if !progress() {
				break
			}
		}
		if p.check(TokenWhen) {
			node.AddChild(p.parseGuard())
		}
	} else {
		p.expect(TokenDefault)
	}

	if p.check(TokenArrow) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.isArrowCase = true
	} else {
		p.expect(TokenColon)
	}

	return p.finishNode(node)
}

func (p *Parser) looksLikePattern() bool {
	if p.looksLikeMatchAllPattern() {
		return true
	}

	save := p.pos
	defer func() { p.pos = save }()

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		p.advance()
	case TokenIdent:
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.parseTypeArguments()
		}
	default:
		return false
	}

	for p.check(TokenLBracket) {
		p.advance()
		if !p.check(TokenRBracket) {
			return false
		}
		p.advance()
	}

	// TypePattern: Type identifier
	// RecordPattern: Type ( ... )
	return p.check(TokenIdent) || p.check(TokenLParen)
}

func (p *Parser) parsePattern() *Node {
	if p.looksLikeMatchAllPattern() {
		return p.parseMatchAllPattern()
	}

	// Parse the type first, then decide based on what follows
	typeNode := p.parseType()

	if p.check(TokenLParen) {
		// RecordPattern: Type ( ComponentPatternList )
		node := p.startNode(KindRecordPattern)
		node.AddChild(typeNode)
		p.advance() // consume (
		if !p.check(TokenRParen) {
			for {
				progress := p.mustProgress()
				node.AddChild(p.parsePattern())
				if !p.check(TokenComma) {
					break
				}
				p.advance()
				if !progress() {
					break
				}
			}
		}
		p.expect(TokenRParen)
		return p.finishNode(node)
	}

	// TypePattern: Type identifier
	node := p.startNode(KindTypePattern)
	node.AddChild(typeNode)
	if p.check(TokenIdent) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	}
	return p.finishNode(node)
}

func (p *Parser) parseGuard() *Node {
	node := p.startNode(KindGuard)
	p.expect(TokenWhen)
	node.AddChild(p.parseExpression())
	return p.finishNode(node)
}

func (p *Parser) looksLikeMatchAllPattern() bool {
	if !p.check(TokenIdent) || p.peek().Literal != "_" {
		return false
	}
	next := p.peekN(1).Kind
	return next == TokenColon || next == TokenArrow || next == TokenComma || next == TokenRParen
}

func (p *Parser) parseMatchAllPattern() *Node {
	node := p.startNode(KindMatchAllPattern)
	p.advance() // consume _
	return p.finishNode(node)
}

func (p *Parser) isUnnamedVariable() bool {
	return p.check(TokenIdent) && p.peek().Literal == "_"
}

func (p *Parser) parseVariableDeclaratorId() *Node {
	if p.isUnnamedVariable() {
		node := p.startNode(KindUnnamedVariable)
		p.advance()
		return p.finishNode(node)
	}
	if p.isIdentifierLike() {
		tok := p.advance()
		return &Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span}
	}
	return nil
}

func (p *Parser) parseReturnStmt() *Node {
	node := p.startNode(KindReturnStmt)
	p.expect(TokenReturn)

	if !p.check(TokenSemicolon) {
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseBreakStmt() *Node {
	node := p.startNode(KindBreakStmt)
	p.expect(TokenBreak)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseContinueStmt() *Node {
	node := p.startNode(KindContinueStmt)
	p.expect(TokenContinue)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseThrowStmt() *Node {
	node := p.startNode(KindThrowStmt)
	p.expect(TokenThrow)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseTryStmt() *Node {
	node := p.startNode(KindTryStmt)
	p.expect(TokenTry)

	if p.check(TokenLParen) {
		p.advance()
		for !p.check(TokenRParen) && !p.check(TokenEOF) {
			node.AddChild(p.parseResource())
			if p.check(TokenSemicolon) {
				p.advance()
			}
			if p.check(TokenRParen) {
				break
			}
		}
		p.expect(TokenRParen)
	}

	node.AddChild(p.parseBlock())

	for p.check(TokenCatch) {
		node.AddChild(p.parseCatchClause())
	}

	if p.check(TokenFinally) {
		node.AddChild(p.parseFinallyClause())
	}

	return p.finishNode(node)
}

func (p *Parser) parseResource() *Node {
	if p.isLocalVarDecl() {
		node := p.startNode(KindLocalVarDecl)
		node.AddChild(p.parseModifiers())
		node.AddChild(p.parseType())
		if id := p.parseVariableDeclaratorId(); id != nil {
			node.AddChild(id)
		}
		if p.check(TokenAssign) {
			p.advance()
			node.AddChild(p.parseExpression())
		}
		return p.finishNode(node)
	}
	return p.parseExpression()
}

func (p *Parser) parseCatchClause() *Node {
	node := p.startNode(KindCatchClause)
	p.expect(TokenCatch)
	p.expect(TokenLParen)

	node.AddChild(p.parseModifiers())

	typeNode := p.startNode(KindType)
	typeNode.AddChild(p.parseType())
	for p.check(TokenBitOr) {
		p.advance()
		typeNode.AddChild(p.parseType())
	}
	node.AddChild(p.finishNode(typeNode))

	if id := p.parseVariableDeclaratorId(); id != nil {
		node.AddChild(id)
	}

	p.expect(TokenRParen)
	node.AddChild(p.parseBlock())

	return p.finishNode(node)
}

func (p *Parser) parseFinallyClause() *Node {
	node := p.startNode(KindFinallyClause)
	p.expect(TokenFinally)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseSynchronizedStmt() *Node {
	node := p.startNode(KindSynchronizedStmt)
	p.expect(TokenSynchronized)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	node.AddChild(p.parseBlock())
	return p.finishNode(node)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.expect(TokenAssert)
	node.AddChild(p.parseExpression())

	if p.check(TokenColon) {
		p.advance()
		node.AddChild(p.parseExpression())
	}

	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseYieldStmt() *Node {
	node := p.startNode(KindYieldStmt)
	p.expect(TokenYield)
	node.AddChild(p.parseExpression())
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseLabeledStmt() *Node {
	node := p.startNode(KindLabeledStmt)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}
	p.expect(TokenColon)
	node.AddChild(p.parseStatement())

	return p.finishNode(node)
}

func (p *Parser) parseExpression() *Node {
	return p.parseAssignmentExpr()
}

func (p *Parser) parseCaseLabelExpression() *Node {
	return p.parseTernaryExpr()
}

func (p *Parser) parseAssignmentExpr() *Node {
	if p.isLambda() {
		return p.parseLambdaExpr()
	}

	left := p.parseTernaryExpr()

	if p.isAssignOp() {
		node := p.startNode(KindAssignExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseAssignmentExpr())
		return p.finishNode(node)
	}

	return left
}

func (p *Parser) isAssignOp() bool {
	switch p.peek().Kind {
	case TokenAssign, TokenPlusAssign, TokenMinusAssign,
		TokenStarAssign, TokenSlashAssign, TokenPercentAssign,
		TokenAndAssign, TokenOrAssign, TokenXorAssign,
		TokenShlAssign, TokenShrAssign, TokenUShrAssign:
		return true
	}
	return false
}

func (p *Parser) isLambda() bool {
	if p.check(TokenIdent) && p.peekN(1).Kind == TokenArrow {
		return true
	}

	if !p.check(TokenLParen) {
		return false
	}

	save := p.pos
	p.advance()
	depth := 1

	for depth > 0 && !p.check(TokenEOF) {
		switch p.peek().Kind {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		}
		if depth > 0 {
			p.advance()
		}
	}

	if p.check(TokenRParen) {
		p.advance()
	}

	result := p.check(TokenArrow)
	p.pos = save
	return result
}

func (p *Parser) parseLambdaExpr() *Node {
	node := p.startNode(KindLambdaExpr)

	if p.check(TokenIdent) {
		tok := p.advance()
		paramNode := p.startNode(KindParameters)
		paramNode.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.finishNode(paramNode))
	} else {
		node.AddChild(p.parseLambdaParameters())
	}

	p.expect(TokenArrow)

	if p.check(TokenLBrace) {
		node.AddChild(p.parseBlock())
	} else {
		node.AddChild(p.parseExpression())
	}

	return p.finishNode(node)
}

func (p *Parser) parseLambdaParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	if !p.check(TokenRParen) {
		for {
			progress := p.mustProgress()
			if p.isLambdaTypedParam() {
				node.AddChild(p.parseParameter())
			} else {
				if tok := p.expect(TokenIdent); tok != nil {
					node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
				}
			}
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if !progress() {
				break
			}
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) isLambdaTypedParam() bool {
	switch p.peek().Kind {
	case TokenFinal, TokenAt:
		return true
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVar:
		return true
	case TokenIdent:
		return p.peekN(1).Kind == TokenIdent || p.peekN(1).Kind == TokenLT ||
			p.peekN(1).Kind == TokenDot || p.peekN(1).Kind == TokenLBracket
	}
	return false
}

func (p *Parser) parseTernaryExpr() *Node {
	cond := p.parseOrExpr()

	if p.features != nil && p.features.Enabled("expressions.elvisoperator") &&
		p.check(TokenQuestion) && p.peekN(1).Kind == TokenColon {
		p.advance()
		p.advance()
		value := p.parseTernaryExpr()
		return desugarElvis(cond, value)
	}

	if p.check(TokenQuestion) {
		node := p.startNode(KindTernaryExpr)
		node.AddChild(cond)
		p.advance()
		node.AddChild(p.parseExpression())
		p.expect(TokenColon)
		if p.isLambda() {
			node.AddChild(p.parseLambdaExpr())
		} else {
			node.AddChild(p.parseTernaryExpr())
		}
		return p.finishNode(node)
	}

	return cond
}

func (p *Parser) parseOrExpr() *Node {
	left := p.parseAndExpr()

	for p.check(TokenOr) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseAndExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseAndExpr() *Node {
	left := p.parseBitOrExpr()

	for p.check(TokenAnd) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseBitOrExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseBitOrExpr() *Node {
	left := p.parseBitXorExpr()

	for p.check(TokenBitOr) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseBitXorExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseBitXorExpr() *Node {
	left := p.parseBitAndExpr()

	for p.check(TokenBitXor) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseBitAndExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseBitAndExpr() *Node {
	left := p.parseEqualityExpr()

	for p.check(TokenBitAnd) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseEqualityExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseEqualityExpr() *Node {
	left := p.parseRelationalExpr()

	for {
		if p.features != nil && p.features.Enabled("expressions.equalityoperator") &&
			p.isIdent("is") {
			op := "is"
			p.advance()
			if p.check(TokenNot) {
				p.advance()
				op = "is!"
			}
			right := p.parseRelationalExpr()
			left = desugarEquality(op, left, right)
			continue
		}

		if p.check(TokenEQ) || p.check(TokenNE) {
			if p.features != nil && p.features.Enabled("expressions.equalityoperator") {
				op := p.peek().Literal
				p.advance()
				right := p.parseRelationalExpr()
				left = desugarEquality(op, left, right)
				continue
			}
			node := p.startNode(KindBinaryExpr)
			node.AddChild(left)
			tok := p.advance()
			node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
			node.AddChild(p.parseRelationalExpr())
			left = p.finishNode(node)
			continue
		}

		break
	}

	return left
}

func (p *Parser) parseRelationalExpr() *Node {
	left := p.parseShiftExpr()

	for {
		if p.check(TokenLT) || p.check(TokenLE) || p.check(TokenGT) || p.check(TokenGE) {
			node := p.startNode(KindBinaryExpr)
			node.AddChild(left)
			tok := p.advance()
			node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
			node.AddChild(p.parseShiftExpr())
			left = p.finishNode(node)
		} else if p.check(TokenInstanceof) {
			node := p.startNode(KindInstanceofExpr)
			node.AddChild(left)
			p.advance()
			node.AddChild(p.parseType())
			if p.check(TokenIdent) {
				tok := p.advance()
				node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
			}
			left = p.finishNode(node)
		} else {
			break
		}
	}

	return left
}

func (p *Parser) parseShiftExpr() *Node {
	left := p.parseAdditiveExpr()

	for p.check(TokenShl) || p.check(TokenShr) || p.check(TokenUShr) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseAdditiveExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseAdditiveExpr() *Node {
	left := p.parseMultiplicativeExpr()

	for p.check(TokenPlus) || p.check(TokenMinus) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseMultiplicativeExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseMultiplicativeExpr() *Node {
	left := p.parseUnaryExpr()

	for p.check(TokenStar) || p.check(TokenSlash) || p.check(TokenPercent) {
		node := p.startNode(KindBinaryExpr)
		node.AddChild(left)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseUnaryExpr())
		left = p.finishNode(node)
	}

	return left
}

func (p *Parser) parseUnaryExpr() *Node {
	switch p.peek().Kind {
	case TokenIncrement, TokenDecrement:
		node := p.startNode(KindUnaryExpr)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseUnaryExpr())
		return p.finishNode(node)
	case TokenPlus, TokenMinus, TokenNot, TokenBitNot:
		node := p.startNode(KindUnaryExpr)
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		node.AddChild(p.parseUnaryExpr())
		return p.finishNode(node)
	case TokenLParen:
		if p.isCast() {
			return p.parseCastExpr()
		}
	}

	return p.parsePostfixExpr()
}

func (p *Parser) isCast() bool {
	if !p.check(TokenLParen) {
		return false
	}

	save := p.pos
	p.advance()

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	isType := false
	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		isType = true
	case TokenIdent:
		p.parseQualifiedName()
		if p.check(TokenLT) {
			p.skipTypeArguments()
		}
		for p.check(TokenLBracket) {
			p.advance()
			if p.check(TokenRBracket) {
				p.advance()
			}
		}
		// Handle intersection types: (Type & Type2)
		for p.check(TokenBitAnd) {
			p.advance()
			p.parseQualifiedName()
			if p.check(TokenLT) {
				p.skipTypeArguments()
			}
		}
		isType = p.check(TokenRParen)
		if isType {
			p.advance()
			switch p.peek().Kind {
			case TokenIdent, TokenThis, TokenSuper, TokenNew,
				TokenLParen, TokenNot, TokenBitNot,
				TokenIncrement, TokenDecrement,
				TokenIntLiteral, TokenFloatLiteral,
				TokenCharLiteral, TokenStringLiteral,
				TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
			default:
				isType = false
			}
		}
	}

	p.pos = save
	return isType
}

func (p *Parser) parseCastExpr() *Node {
	node := p.startNode(KindCastExpr)
	p.expect(TokenLParen)

	typeNode := p.startNode(KindType)
	typeNode.AddChild(p.parseType())
	for p.check(TokenBitAnd) {
		p.advance()
		typeNode.AddChild(p.parseType())
	}
	node.AddChild(p.finishNode(typeNode))

	p.expect(TokenRParen)
	// Handle cast to lambda: (Supplier) () -> value
	if p.isLambda() {
		node.AddChild(p.parseLambdaExpr())
	} else {
		node.AddChild(p.parseUnaryExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePostfixExpr() *Node {
	expr := p.parsePrimaryExpr()
	return p.parsePostfixSuffix(expr)
}

func (p *Parser) parsePostfixSuffix(expr *Node) *Node {
	for {
		progress := p.mustProgress()
		if p.features != nil && p.features.Enabled("literals.optional") && p.check(TokenNot) {
			p.advance()
			expr = desugarOrElseThrow(expr)
			continue
		}
		switch p.peek().Kind {
		case TokenIncrement, TokenDecrement:
			node := p.startNode(KindPostfixExpr)
			node.AddChild(expr)
			tok := p.advance()
			node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
			expr = p.finishNode(node)
		case TokenDot:
			p.advance()
			if p.check(TokenNew) {
				expr = p.parseInnerNewExpr(expr)
			} else if p.match(TokenStringTemplate, TokenTextBlockTemplate) {
				node := p.startNode(KindTemplateExpr)
				node.AddChild(expr)
				tok := p.advance()
				node.AddChild(&Node{Kind: KindLiteral, Token: &tok, Span: tok.Span})
				expr = p.finishNode(node)
			} else if p.match(TokenStringLiteral, TokenTextBlock) {
				node := p.startNode(KindFieldAccess)
				node.AddChild(expr)
				tok := p.advance()
				node.AddChild(&Node{Kind: KindLiteral, Token: &tok, Span: tok.Span})
				expr = p.finishNode(node)
			} else if p.check(TokenLT) {
				typeArgs := p.parseTypeArguments()
				if p.isIdentifierLike() {
					tok := p.advance()
					node := p.startNode(KindFieldAccess)
					node.AddChild(expr)
					node.AddChild(typeArgs)
					node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
					expr = p.finishNode(node)
					if p.check(TokenLParen) {
						expr = p.parseMethodCall(expr)
					}
				}
			} else if p.check(TokenClass) {
				node := p.startNode(KindClassLiteral)
				node.AddChild(expr)
				p.advance()
				expr = p.finishNode(node)
			} else if p.check(TokenThis) {
				node := p.startNode(KindFieldAccess)
				node.AddChild(expr)
				tok := p.advance()
				node.AddChild(&Node{Kind: KindThis, Token: &tok, Span: tok.Span})
				expr = p.finishNode(node)
			} else if p.check(TokenSuper) {
				node := p.startNode(KindFieldAccess)
				node.AddChild(expr)
				tok := p.advance()
				node.AddChild(&Node{Kind: KindSuper, Token: &tok, Span: tok.Span})
				expr = p.finishNode(node)
			} else if p.isIdentifierLike() {
				tok := p.advance()
				node := p.startNode(KindFieldAccess)
				node.AddChild(expr)
				node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
				expr = p.finishNode(node)
				if p.check(TokenLParen) {
					expr = p.parseMethodCall(expr)
				}
			}
		case TokenLBracket:
			// Check if this is an array type class literal like String[].class
			// or an array type method reference like String[]::new
			if p.peekN(1).Kind == TokenRBracket {
				if result := p.tryParseArrayClassLiteralOrMethodRef(expr); result != nil {
					expr = result
					continue
				}
			}
			p.advance()
			node := p.startNode(KindArrayAccess)
			node.AddChild(expr)
			node.AddChild(p.parseExpression())
			p.expect(TokenRBracket)
			expr = p.finishNode(node)
		case TokenLParen:
			expr = p.parseMethodCall(expr)
		case TokenColonColon:
			expr = p.parseMethodRef(expr)
		case TokenLT:
			// Try to parse as parameterized type for Class<?>[]::new or Class<?>.class patterns
			if result := p.tryParseParameterizedTypeSpecialForm(expr); result != nil {
				expr = result
				continue
			}
			return expr
		default:
			return expr
		}
		if !progress() {
			return expr
		}
	}
}

func (p *Parser) parseMethodCall(target *Node) *Node {
	node := p.startNode(KindCallExpr)
	node.AddChild(target)
	node.AddChild(p.parseArguments())
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindParameters)
	p.expect(TokenLParen)

	if !p.check(TokenRParen) {
		for {
			progress := p.mustProgress()
			node.AddChild(p.parseArgWithAnnotation())
			if !p.check(TokenComma) {
				break
			}
			p.advance()
			if p.features != nil && p.features.Enabled("trailing_commas.argument") && p.check(TokenRParen) {
				break
			}
			if !progress() {
				break
			}
		}
	}

	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseMethodRef(target *Node) *Node {
	node := p.startNode(KindMethodRef)
	node.AddChild(target)
	p.expect(TokenColonColon)

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	if p.check(TokenNew) {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
	} else if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	return p.finishNode(node)
}

func (p *Parser) parsePrimaryExpr() *Node {
	switch p.peek().Kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenTextBlock, TokenTrue, TokenFalse, TokenNull:
		tok := p.advance()
		return &Node{Kind: KindLiteral, Token: &tok, Span: tok.Span}

	case TokenThis:
		tok := p.advance()
		return &Node{Kind: KindThis, Token: &tok, Span: tok.Span}

	case TokenSuper:
		tok := p.advance()
		node := &Node{Kind: KindSuper, Token: &tok, Span: tok.Span}
		if p.check(TokenDot) || p.check(TokenLParen) {
			return p.parsePostfixSuffix(node)
		}
		return node

	case TokenNew:
		return p.parseNewExpr()

	case TokenLParen:
		return p.parseParenExpr()

	case TokenSwitch:
		return p.parseSwitchExpr()

	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble, TokenVoid:
		return p.parsePrimitiveClassLiteral()

	case TokenQuestion:
		if p.features != nil && p.features.Enabled("literals.optional") {
			return p.parseOptionalEmptyLiteral()
		}
		return p.errorNode("expected expression", []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket})

	case TokenLBracket:
		if p.features != nil && p.features.Enabled("literals.collections") {
			return p.parseListLiteral()
		}
		return p.errorNode("expected expression", []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket})

	case TokenLBrace:
		if p.features != nil && p.features.Enabled("literals.collections") {
			return p.parseBraceLiteral()
		}
		return p.errorNode("expected expression", []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket})

	case TokenSlash:
		// A '/' can never legally start a base-Java expression, so this
		// position is unambiguous: re-lex it as a /.../ regex literal.
		if body, ok := p.relexRegexLiteral(); ok {
			p.advance()
			return desugarRegexLiteral(unescapeRegexBody(body))
		}
		return p.errorNode("expected expression", []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket})

	default:
		if p.isByteStringPrefix() {
			return p.parseByteStringLiteral()
		}
		if p.isIdentifierLike() {
			tok := p.advance()
			return &Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span}
		}
		return p.errorNode("expected expression", []TokenKind{TokenSemicolon, TokenComma, TokenRParen, TokenRBrace, TokenRBracket})
	}
}

// parseOptionalEmptyLiteral parses the prefix `?` / `?<Type>` empty-Optional
// literal.
func (p *Parser) parseOptionalEmptyLiteral() *Node {
	p.advance() // '?'
	typeName := ""
	if p.check(TokenLT) {
		p.advance()
		typeName = p.peek().Literal
		p.parseType()
		p.expectGT()
	}
	return desugarOptionalEmpty(typeName)
}

func (p *Parser) parseListLiteral() *Node {
	p.expect(TokenLBracket)
	var elements []*Node
	if !p.check(TokenRBracket) {
		elements = append(elements, p.parseExpression())
		for p.check(TokenComma) {
			p.advance()
			if p.features.Enabled("trailing_commas.other") && p.check(TokenRBracket) {
				break
			}
			elements = append(elements, p.parseExpression())
		}
	}
	p.expect(TokenRBracket)
	return desugarListLiteral(elements)
}

// parseBraceLiteral parses `{ e, ... }` (set) or `{ k: v, ... }` (map),
// disambiguated on the first element per literals.collections.
func (p *Parser) parseBraceLiteral() *Node {
	p.expect(TokenLBrace)

	if p.check(TokenRBrace) {
		p.advance()
		return desugarSetLiteral(nil)
	}

	first := p.parseExpression()

	if p.check(TokenColon) {
		p.advance()
		entries := []mapEntry{{key: first, value: p.parseExpression()}}
		for p.check(TokenComma) {
			p.advance()
			if p.features.Enabled("trailing_commas.other") && p.check(TokenRBrace) {
				break
			}
			entries = append(entries, p.parseMapEntry())
		}
		p.expect(TokenRBrace)
		return desugarMapLiteral(entries)
	}

	elements := []*Node{first}
	for p.check(TokenComma) {
		p.advance()
		if p.features.Enabled("trailing_commas.other") && p.check(TokenRBrace) {
			break
		}
		elements = append(elements, p.parseExpression())
	}
	p.expect(TokenRBrace)
	return desugarSetLiteral(elements)
}

// isByteStringPrefix reports whether the cursor sits on a b"..."/B"..."
// byte-string literal: a one-letter identifier immediately (no gap)
// followed by a string literal, mirroring the java/java++ re-lexing of
// java++ as TokenIdent("java") + TokenIncrement("++").
func (p *Parser) isByteStringPrefix() bool {
	tok := p.peek()
	if tok.Kind != TokenIdent || (tok.Literal != "b" && tok.Literal != "B") {
		return false
	}
	next := p.peekN(1)
	if next.Kind != TokenStringLiteral {
		return false
	}
	return next.Span.Start.Offset == tok.Span.End.Offset
}

func (p *Parser) parseByteStringLiteral() *Node {
	p.advance() // 'b' / 'B'
	tok := p.advance()
	raw := decodeJavaStringLiteral(tok.Literal)
	return desugarByteStringLiteral(raw)
}

func (p *Parser) parseParenExpr() *Node {
	node := p.startNode(KindParenExpr)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseNewExpr() *Node {
	p.expect(TokenNew)

	if p.check(TokenLT) {
		p.parseTypeArguments()
	}

	for p.check(TokenAt) {
		p.parseAnnotation()
	}

	switch p.peek().Kind {
	case TokenBoolean, TokenByte, TokenChar, TokenShort,
		TokenInt, TokenLong, TokenFloat, TokenDouble:
		return p.parseNewArrayExpr()
	}

	qualName := p.parseQualifiedName()

	if p.check(TokenLT) {
		p.parseTypeArguments()
	}

	if p.check(TokenAt) || p.check(TokenLBracket) {
		node := p.startNode(KindNewArrayExpr)
		node.AddChild(qualName)
		for p.check(TokenAt) || p.check(TokenLBracket) {
			progress := p.mustProgress()
			for p.check(TokenAt) {
				node.AddChild(p.parseAnnotation())
			}
			if !p.check(TokenLBracket) {
				break
			}
			p.advance()
			if !p.check(TokenRBracket) {
				node.AddChild(p.parseExpression())
			}
			p.expect(TokenRBracket)
			if !progress() {
				break
			}
		}
		if p.check(TokenLBrace) {
			node.AddChild(p.parseArrayInitializer())
		}
		return p.finishNode(node)
	}

	if p.features != nil && p.features.Enabled("expressions.class_creator") && p.check(TokenLBrace) {
		node := p.startNode(KindNewExpr)
		node.AddChild(qualName)
		node.AddChild(desugarClassCreatorLiteral(p.parseClassCreatorLiteral()))
		return p.finishNode(node)
	}

	node := p.startNode(KindNewExpr)
	node.AddChild(qualName)
	node.AddChild(p.parseArguments())

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

// parseClassCreatorLiteral parses the brace block of the `new T { ... }`
// extension: a colon-separated run lowers to a map literal, otherwise a
// list literal (never a set — the creator form always feeds a Collection
// constructor argument).
func (p *Parser) parseClassCreatorLiteral() *Node {
	p.expect(TokenLBrace)

	if p.check(TokenRBrace) {
		p.advance()
		return desugarListLiteral(nil)
	}

	first := p.parseExpression()

	if p.check(TokenColon) {
		p.advance()
		entries := []mapEntry{{key: first, value: p.parseExpression()}}
		for p.check(TokenComma) {
			p.advance()
			if p.check(TokenRBrace) {
				break
			}
			entries = append(entries, p.parseMapEntry())
		}
		p.expect(TokenRBrace)
		return desugarMapLiteral(entries)
	}

	elements := []*Node{first}
	for p.check(TokenComma) {
		p.advance()
		if p.check(TokenRBrace) {
			break
		}
		elements = append(elements, p.parseExpression())
	}
	p.expect(TokenRBrace)
	return desugarListLiteral(elements)
}

func (p *Parser) parseMapEntry() mapEntry {
	key := p.parseExpression()
	p.expect(TokenColon)
	value := p.parseExpression()
	return mapEntry{key: key, value: value}
}

func (p *Parser) parseNewArrayExpr() *Node {
	node := p.startNode(KindNewArrayExpr)
	tok := p.advance()
	node.AddChild(&Node{Kind: KindType, Token: &tok, Span: tok.Span})

	for p.check(TokenAt) || p.check(TokenLBracket) {
		progress := p.mustProgress()
		for p.check(TokenAt) {
			node.AddChild(p.parseAnnotation())
		}
		if !p.check(TokenLBracket) {
			break
		}
		p.advance()
		if !p.check(TokenRBracket) {
			node.AddChild(p.parseExpression())
		}
		p.expect(TokenRBracket)
		if !progress() {
			break
		}
	}

	if p.check(TokenLBrace) {
		node.AddChild(p.parseArrayInitializer())
	}

	return p.finishNode(node)
}

func (p *Parser) parseInnerNewExpr(outer *Node) *Node {
	p.expect(TokenNew)

	if p.check(TokenLT) {
		p.parseTypeArguments()
	}

	node := p.startNode(KindNewExpr)
	node.AddChild(outer)

	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(&Node{Kind: KindIdentifier, Token: tok, Span: tok.Span})
	}

	if p.check(TokenLT) {
		node.AddChild(p.parseTypeArguments())
	}

	node.AddChild(p.parseArguments())

	if p.check(TokenLBrace) {
		node.AddChild(p.parseClassBody())
	}

	return p.finishNode(node)
}

func (p *Parser) parsePrimitiveClassLiteral() *Node {
	node := p.startNode(KindClassLiteral)
	tok := p.advance()
	typeNode := &Node{Kind: KindType, Token: &tok, Span: tok.Span}

	for p.check(TokenLBracket) {
		p.advance()
		p.expect(TokenRBracket)
		wrapper := p.startNode(KindArrayType)
		wrapper.AddChild(typeNode)
		typeNode = p.finishNode(wrapper)
	}

	node.AddChild(typeNode)
	p.expect(TokenDot)
	p.expect(TokenClass)
	return p.finishNode(node)
}

// tryParseArrayClassLiteralOrMethodRef attempts to parse an array type class literal like String[].class
// or an array type method reference like String[]::new.
// If successful, returns the ClassLiteral or MethodRef node. Otherwise returns nil (parser position unchanged).
func (p *Parser) tryParseArrayClassLiteralOrMethodRef(baseExpr *Node) *Node {
	save := p.pos

	// Count consecutive [] pairs
	dims := 0
	for p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		p.advance() // [
		p.advance() // ]
		dims++
	}

	if dims == 0 {
		p.pos = save
		return nil
	}

	// Build the array type node wrapping the base expression
	buildArrayType := func() *Node {
		typeNode := baseExpr
		for i := 0; i < dims; i++ {
			wrapper := p.startNode(KindArrayType)
			wrapper.AddChild(typeNode)
			typeNode = p.finishNode(wrapper)
		}
		return typeNode
	}

	// Check if .class follows
	if p.check(TokenDot) && p.peekN(1).Kind == TokenClass {
		p.advance() // .
		p.advance() // class

		node := p.startNode(KindClassLiteral)
		node.AddChild(buildArrayType())
		return p.finishNode(node)
	}

	// Check if ::new follows (array type method reference)
	if p.check(TokenColonColon) && p.peekN(1).Kind == TokenNew {
		p.advance()        // ::
		tok := p.advance() // new

		node := p.startNode(KindMethodRef)
		node.AddChild(buildArrayType())
		node.AddChild(&Node{Kind: KindIdentifier, Token: &tok, Span: tok.Span})
		return p.finishNode(node)
	}

	// Not an array class literal or method ref, restore position
	p.pos = save
	return nil
}

// tryParseParameterizedTypeSpecialForm attempts to parse parameterized type patterns like:
// - Class<?>[]::new (array type method reference with generic element type)
// - Class<?>.class (parameterized type class literal)
// If successful, returns the result node. Otherwise returns nil (parser position unchanged).
func (p *Parser) tryParseParameterizedTypeSpecialForm(baseExpr *Node) *Node {
	save := p.pos

	// Parse type arguments
	if !p.check(TokenLT) {
		return nil
	}
	typeArgs := p.parseTypeArguments()

	// Build parameterized type node
	paramType := p.startNode(KindType)
	paramType.AddChild(baseExpr)
	paramType.AddChild(typeArgs)
	paramType = p.finishNode(paramType)

	// Check for []::new or [].class pattern
	if p.check(TokenLBracket) && p.peekN(1).Kind == TokenRBracket {
		if result := p.tryParseArrayClassLiteralOrMethodRef(paramType); result != nil {
			return result
		}
	}

	// Check for .class pattern
	if p.check(TokenDot) && p.peekN(1).Kind == TokenClass {
		p.advance() // .
		p.advance() // class

		node := p.startNode(KindClassLiteral)
		node.AddChild(paramType)
		return p.finishNode(node)
	}

	// Not a special form, restore position
	p.pos = save
	return nil
}

func (p *Parser) parseSwitchExpr() *Node {
	node := p.startNode(KindSwitchExpr)
	p.expect(TokenSwitch)
	p.expect(TokenLParen)
	node.AddChild(p.parseExpression())
	p.expect(TokenRParen)
	p.expect(TokenLBrace)

	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		node.AddChild(p.parseSwitchCase())
	}

	p.expect(TokenRBrace)
	return p.finishNode(node)
}
