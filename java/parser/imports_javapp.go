package parser

// C7: the import resolver. Parses the Java++ import section — plain
// `import`, feature-toggling `from java++ import|unimport ...`, and
// qualifier-relative `from QUAL import ...` — then, once the section ends,
// synthesizes auto-imports per auto_imports.types/auto_imports.statics and
// prepends them in the order spec §4.4 prescribes.

// autoImportTable: package -> set of simple names, or the wildcard marker
// autoImportWildcard meaning "every name in this package is eligible."
// Carried verbatim from the reference implementation's policy table.
var autoImportTable = map[string][]string{
	"java.util": {
		"List", "Set", "Map", "ArrayList", "HashSet", "HashMap",
		"EnumSet", "Collection", "Iterator", "Collections", "Arrays",
		"Calendar", "Date", "EnumMap", "GregorianCalendar", "Locale",
		"Objects", "Optional", "OptionalDouble", "OptionalInt", "OptionalLong",
		"Properties", "Random", "Scanner", "Spliterators", "Spliterator", "Timer",
		"SimpleTimeZone", "TimeZone", "UUID", "ConcurrentModificationException",
		"NoSuchElementException",
	},
	"java.util.stream": {
		"Collector", "DoubleStream", "IntStream", "LongStream", "Stream",
		"Collectors", "StreamSupport",
	},
	"java.io": {
		"Closeable", "Serializable", "BufferedInputStream", "BufferedOutputStream", "BufferedReader",
		"BufferedWriter", "ByteArrayInputStream", "ByteArrayOutputStream", "CharArrayReader", "CharArrayWriter",
		"Console", "File", "FileInputStream", "FileOutputStream", "FileReader", "FileWriter", "InputStream",
		"InputStreamReader", "OutputStream", "OutputStreamWriter", "PrintStream", "PrintWriter", "Reader",
		"Writer", "StringReader", "StringWriter", "FileNotFoundException", "IOException", "IOError",
	},
	"java.nio.file": {
		"Path", "Files", "Paths", "StandardCopyOption", "StandardOpenOption",
	},
	"java.math": {
		"BigDecimal", "BigInteger", "MathContext", "RoundingMode",
	},
	"java.nio.charset": {
		"StandardCharsets",
	},
	"java.util.concurrent": {
		"Callable", "Executors", "TimeUnit",
	},
	"java.util.function": {autoImportWildcard},
	"java.util.regex":     {"Pattern"},
}

const autoImportWildcard = "*"

// autoStaticImportTable: package -> type -> member names eligible for
// static auto-import.
var autoStaticImportTable = map[string]map[string][]string{
	"java.lang": {
		"Boolean": {"parseBoolean"},
		"Byte":    {"parseByte"},
		"Double":  {"parseDouble"},
		"Float":   {"parseFloat"},
		"Integer": {"parseInt", "parseUnsignedInt"},
		"Long":    {"parseLong", "parseUnsignedLong"},
		"Short":   {"parseShort"},
		"String":  {"format", "join"},
	},
}

// importInfo mirrors the derived accessors spec §3 requires of every
// Import node: imported_package, imported_type, imported_name, consistent
// with its dotted name and its static/wildcard flags.
type importInfo struct {
	static   bool
	wildcard bool
	segments []string // dotted name split on '.'
}

func (i importInfo) packageName() string {
	if i.wildcard {
		return joinDots(i.segments)
	}
	if len(i.segments) <= 1 {
		return ""
	}
	return joinDots(i.segments[:len(i.segments)-1])
}

func (i importInfo) typeName() string {
	if len(i.segments) == 0 {
		return ""
	}
	return i.segments[len(i.segments)-1]
}

func joinDots(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "."
		}
		out += p
	}
	return out
}

// importInfoOf reads the derived fields back out of a parsed ImportDecl
// node, matching the shape parseImportDecl/newImportDecl produce: an
// optional Identifier("static"), a QualifiedName, and an optional
// Identifier("*").
func importInfoOf(n *Node) importInfo {
	var info importInfo
	for _, c := range n.Children {
		switch c.Kind {
		case KindIdentifier:
			if c.TokenLiteral() == "static" {
				info.static = true
			} else if c.TokenLiteral() == "*" {
				info.wildcard = true
			}
		case KindQualifiedName:
			for _, part := range c.Children {
				info.segments = append(info.segments, part.TokenLiteral())
			}
		}
	}
	return info
}

func newImportDecl(static bool, segments []string, wildcard bool) *Node {
	node := &Node{Kind: KindImportDecl}
	if static {
		node.AddChild(newIdentNode("static"))
	}
	node.AddChild(newQualifiedName(segments...))
	if wildcard {
		node.AddChild(newIdentNode("*"))
	}
	return node
}

// parseJavaPlusPlusImportSection parses a run of import/from/unimport
// productions and returns the Import nodes they emit (directives that only
// mutate the feature registry emit nothing). It stops at the first token
// that is neither "import", "from", "unimport", nor ";".
func (p *Parser) parseJavaPlusPlusImportSection() []*Node {
	var imports []*Node
	for {
		progress := p.mustProgress()
		switch {
		case p.check(TokenImport):
			imports = append(imports, p.parseImportDecl())
		case p.isIdent("from"):
			imports = append(imports, p.parseFromImportDecl()...)
		case p.isIdent("unimport"):
			if errNode := p.parseUnimportDirective(); errNode != nil {
				imports = append(imports, errNode)
			}
		case p.check(TokenSemicolon):
			p.advance()
		default:
			return imports
		}
		if !progress() {
			return imports
		}
	}
}

// isIdent reports whether the current token is an identifier-like token
// spelled exactly literal — used for the contextual "from"/"unimport"/
// print-family keywords, which are ordinary identifiers in the base
// tokenizer's vocabulary.
func (p *Parser) isIdent(literal string) bool {
	return p.isIdentifierLike() && p.peek().Literal == literal
}

func (p *Parser) isIdentAt(n int, literal string) bool {
	tok := p.peekN(n)
	return tok.Kind == TokenIdent && tok.Literal == literal
}

// parseFromImportDecl handles both forms of `from`:
//
//	from java++ [.ns] import|unimport { * | name ( , name )* [,] } ;
//	from QUAL import [static] { name | * } ( , ... ) [,] ;
func (p *Parser) parseFromImportDecl() []*Node {
	p.advance() // 'from'

	if p.isIdent("java") && p.peekN(1).Kind == TokenIncrement {
		p.advance() // java
		p.advance() // ++
		if errNode := p.parseJavaPlusPlusFeatureDirective(); errNode != nil {
			return []*Node{errNode}
		}
		return nil
	}

	base := p.parseQualifiedNameStrings()
	var imports []*Node

	p.expect(TokenImport)
	static := false
	if p.check(TokenStatic) {
		p.advance()
		static = true
	}

	name, wildcard := p.parseFromImportName()
	imports = append(imports, newImportDecl(static, append(append([]string{}, base...), name...), wildcard))

	for p.check(TokenComma) {
		p.advance()
		if p.features.Enabled("trailing_commas.other") && p.check(TokenSemicolon) {
			break
		}
		name, wildcard := p.parseFromImportName()
		imports = append(imports, newImportDecl(static, append(append([]string{}, base...), name...), wildcard))
	}

	p.expect(TokenSemicolon)
	return imports
}

func (p *Parser) parseFromImportName() ([]string, bool) {
	if p.check(TokenStar) {
		p.advance()
		return nil, true
	}
	segs := p.parseQualifiedNameStrings()
	if p.check(TokenDot) && p.peekN(1).Kind == TokenStar {
		p.advance()
		p.advance()
		return segs, true
	}
	return segs, false
}

// parseUnimportDirective handles the `unimport java++ . ...` spelling,
// equivalent to `from java++ unimport ...`. Returns the error node produced
// by an unrecognised feature name, or nil.
func (p *Parser) parseUnimportDirective() *Node {
	p.advance() // 'unimport'
	if p.isIdent("java") && p.peekN(1).Kind == TokenIncrement {
		p.advance()
		p.advance()
	}
	errNode := p.parseFeatureNameListDirective(false)
	p.expect(TokenSemicolon)
	return errNode
}

// parseJavaPlusPlusFeatureDirective parses the `import|unimport { * | name,... }`
// tail of a `from java++ ...` directive and applies it to the registry.
// Returns the error node produced by a malformed directive or an
// unrecognised feature name, or nil.
func (p *Parser) parseJavaPlusPlusFeatureDirective() *Node {
	enable := true
	if p.isIdent("import") {
		p.advance()
		enable = true
	} else if p.isIdent("unimport") {
		p.advance()
		enable = false
	} else {
		return p.errorNode("expected import or unimport", []TokenKind{TokenSemicolon})
	}
	errNode := p.parseFeatureNameListDirective(enable)
	p.expect(TokenSemicolon)
	return errNode
}

// parseFeatureNameListDirective applies enable/disable to every feature name
// in a comma-separated list, or the bare "*" wildcard. A name FeatureRegistry
// doesn't recognise is a syntax error, not a silent no-op.
func (p *Parser) parseFeatureNameListDirective(enable bool) *Node {
	if p.check(TokenStar) {
		p.advance()
		p.features.Set("*", enable)
		return nil
	}
	for {
		name := p.parseFeatureName()
		if name != "" && !p.features.Set(name, enable) {
			return p.errorNode("unknown feature \""+name+"\"", []TokenKind{TokenSemicolon})
		}
		if !p.check(TokenComma) {
			break
		}
		p.advance()
		if p.features.Enabled("trailing_commas.other") && p.check(TokenSemicolon) {
			break
		}
	}
	return nil
}

// parseFeatureName reads a dotted feature name such as "statements.print"
// or a namespace wildcard such as "literals.*".
func (p *Parser) parseFeatureName() string {
	if !p.isIdentifierLike() {
		p.errorNode("expected feature name", []TokenKind{TokenComma, TokenSemicolon})
		return ""
	}
	name := p.advance().Literal
	for p.check(TokenDot) {
		p.advance()
		if p.check(TokenStar) {
			p.advance()
			return name + ".*"
		}
		if !p.isIdentifierLike() {
			break
		}
		name += "." + p.advance().Literal
	}
	return name
}

func (p *Parser) parseQualifiedNameStrings() []string {
	var segs []string
	if tok := p.expect(TokenIdent); tok != nil {
		segs = append(segs, tok.Literal)
	}
	for p.check(TokenDot) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		segs = append(segs, p.advance().Literal)
	}
	return segs
}

// synthesizeAutoImports builds the sorted prefix of auto-imports not
// already covered by a user import, per spec §4.6's subsumption rules.
func synthesizeAutoImports(existing []*Node, types, statics bool) []*Node {
	var infos []importInfo
	for _, n := range existing {
		infos = append(infos, importInfoOf(n))
	}

	coveredByPackageWildcard := func(pkg string) bool {
		for _, in := range infos {
			if !in.static && in.wildcard && in.packageName() == pkg {
				return true
			}
		}
		return false
	}
	coveredByExactType := func(pkg, typ string) bool {
		for _, in := range infos {
			if !in.static && !in.wildcard && in.packageName() == pkg && in.typeName() == typ {
				return true
			}
		}
		return false
	}
	coveredByStaticWildcard := func(pkg, typ string) bool {
		for _, in := range infos {
			if in.static && in.wildcard && in.packageName() == pkg+"."+typ {
				return true
			}
		}
		return false
	}
	coveredByExactStatic := func(pkg, typ, member string) bool {
		for _, in := range infos {
			if in.static && !in.wildcard && in.packageName() == pkg+"."+typ && in.typeName() == member {
				return true
			}
		}
		return false
	}

	type synthesized struct {
		static, wildcard bool
		name             string
		segments         []string
	}
	var out []synthesized

	if types {
		for pkg, names := range autoImportTable {
			if len(names) == 1 && names[0] == autoImportWildcard {
				if !coveredByPackageWildcard(pkg) {
					out = append(out, synthesized{wildcard: true, name: pkg, segments: splitDots(pkg)})
				}
				continue
			}
			for _, name := range names {
				if coveredByPackageWildcard(pkg) || coveredByExactType(pkg, name) {
					continue
				}
				out = append(out, synthesized{name: pkg + "." + name, segments: append(splitDots(pkg), name)})
			}
		}
	}

	if statics {
		for pkg, types := range autoStaticImportTable {
			for typ, members := range types {
				for _, member := range members {
					if coveredByStaticWildcard(pkg, typ) || coveredByExactStatic(pkg, typ, member) {
						continue
					}
					out = append(out, synthesized{
						static:   true,
						name:     pkg + "." + typ + "." + member,
						segments: append(append(splitDots(pkg), typ), member),
					})
				}
			}
		}
	}

	sortSynthesized(out)

	result := make([]*Node, 0, len(out))
	for _, s := range out {
		result = append(result, newImportDecl(s.static, s.segments, s.wildcard))
	}
	return result
}

func splitDots(s string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			segs = append(segs, s[start:i])
			start = i + 1
		}
	}
	segs = append(segs, s[start:])
	return append([]string{}, segs...)
}

// sortSynthesized orders synthesized imports (static desc, wildcard desc,
// then lexicographic name), per spec §4.4/§4.6/§8.
func sortSynthesized(s []struct {
	static, wildcard bool
	name             string
	segments         []string
}) {
	less := func(a, b int) bool {
		if s[a].static != s[b].static {
			return s[a].static
		}
		if s[a].wildcard != s[b].wildcard {
			return s[a].wildcard
		}
		return s[a].name < s[b].name
	}
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
