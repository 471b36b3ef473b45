package hlsl

// Parser is a predictive recursive-descent parser over the scanner's token
// stream. It holds exactly one current token and advances by one. The first
// syntax error unwinds to ParseSource, which reports it once and returns nil.
type Parser struct {
	scanner *Scanner
	tkn     Token
	log     Logger
}

// NewParser creates a parser reporting diagnostics to log. A nil log
// suppresses diagnostics.
func NewParser(log Logger) *Parser {
	return &Parser{
		scanner: NewScanner(),
		log:     log,
	}
}

// ParseSource parses the source buffer into a Program. It returns nil when
// the scanner cannot be initialized or on the first syntax error; in the
// latter case exactly one error line is sent to the logger. No partial tree
// is ever returned.
func (p *Parser) ParseSource(src *SourceCode) *Program {
	if err := p.scanner.Scan(src); err != nil {
		return nil
	}

	p.acceptIt()

	ast, err := p.parseProgram()
	if err != nil {
		if p.log != nil {
			p.log.Error(err.Error())
		}
		return nil
	}
	return ast
}

/* --- Primitives --- */

func (p *Parser) syntaxError(msg string) error {
	return newSyntaxError(p.scanner.Pos(), msg)
}

func (p *Parser) errUnexpected() error {
	return p.syntaxError("unexpected token '" + p.tkn.Spell + "'")
}

func (p *Parser) errUnexpectedHint(hint string) error {
	return p.syntaxError("unexpected token '" + p.tkn.Spell + "' (" + hint + ")")
}

// acceptIt consumes the current token unconditionally and returns it.
func (p *Parser) acceptIt() Token {
	prev := p.tkn
	p.tkn = p.scanner.Next()
	return prev
}

// accept consumes the current token if it has the given kind.
func (p *Parser) accept(kind TokenKind) (Token, error) {
	if p.tkn.Kind != kind {
		return Token{}, p.errUnexpected()
	}
	return p.acceptIt(), nil
}

// acceptSpell consumes the current token if it has the given kind and spelling.
func (p *Parser) acceptSpell(kind TokenKind, spell string) (Token, error) {
	if p.tkn.Kind != kind {
		return Token{}, p.errUnexpected()
	}
	if p.tkn.Spell != spell {
		return Token{}, p.syntaxError("unexpected token spelling '" + p.tkn.Spell + "' (expected '" + spell + "')")
	}
	return p.acceptIt(), nil
}

func (p *Parser) semi() error {
	_, err := p.accept(TokenSemicolon)
	return err
}

func (p *Parser) is(kind TokenKind) bool {
	return p.tkn.Kind == kind
}

func (p *Parser) isSpell(kind TokenKind, spell string) bool {
	return p.tkn.Kind == kind && p.tkn.Spell == spell
}

func (p *Parser) isDataType() bool {
	return p.is(TokenScalarType) || p.is(TokenVectorType) || p.is(TokenMatrixType) ||
		p.is(TokenTexture) || p.is(TokenSampler)
}

func (p *Parser) isLiteral() bool {
	return p.is(TokenBoolLiteral) || p.is(TokenIntLiteral) || p.is(TokenFloatLiteral)
}

func (p *Parser) isPrimaryExpr() bool {
	return p.isLiteral() || p.is(TokenIdent) || p.is(TokenUnaryOp) ||
		p.isSpell(TokenBinaryOp, "-") || p.is(TokenLeftParen)
}

/* --- Common rules --- */

func (p *Parser) parseProgram() (*Program, error) {
	ast := &Program{Pos: p.tkn.Pos}

	for !p.is(TokenEOF) {
		decl, err := p.parseGlobalDecl()
		if err != nil {
			return nil, err
		}
		ast.GlobalDecls = append(ast.GlobalDecls, decl)
	}

	return ast, nil
}

func (p *Parser) parseCodeBlock() (*CodeBlock, error) {
	ast := &CodeBlock{Pos: p.tkn.Pos}

	if _, err := p.accept(TokenLeftBrace); err != nil {
		return nil, err
	}
	stmnts, err := p.parseStmntList()
	if err != nil {
		return nil, err
	}
	ast.Stmnts = stmnts
	if _, err := p.accept(TokenRightBrace); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseBufferDeclIdent() (*BufferDeclIdent, error) {
	ast := &BufferDeclIdent{Pos: p.tkn.Pos}

	tok, err := p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.Ident = tok.Spell

	if p.is(TokenColon) {
		reg, err := p.parseRegister(true)
		if err != nil {
			return nil, err
		}
		ast.RegisterName = reg
	}

	return ast, nil
}

// parseFunctionCall parses the argument list of a call whose callee is
// varIdent. With a nil varIdent the callee is parsed first; a data-type
// token is allowed there to support constructor calls like float4(...).
func (p *Parser) parseFunctionCall(varIdent *VarIdent) (*FunctionCall, error) {
	ast := &FunctionCall{Pos: p.tkn.Pos}

	if varIdent == nil {
		if p.isDataType() {
			tok := p.acceptIt()
			varIdent = &VarIdent{Pos: tok.Pos, Ident: tok.Spell}
		} else {
			vi, err := p.parseVarIdent()
			if err != nil {
				return nil, err
			}
			varIdent = vi
		}
	}
	ast.Pos = varIdent.Pos
	ast.Name = varIdent

	args, err := p.parseArgumentList()
	if err != nil {
		return nil, err
	}
	ast.Arguments = args

	return ast, nil
}

func (p *Parser) parseStructure() (*Structure, error) {
	ast := &Structure{Pos: p.tkn.Pos}

	if _, err := p.accept(TokenStruct); err != nil {
		return nil, err
	}
	tok, err := p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.Name = tok.Spell

	members, err := p.parseVarDeclStmntList()
	if err != nil {
		return nil, err
	}
	ast.Members = members

	return ast, nil
}

// parseParameter parses a single function parameter as a variable
// declaration statement holding exactly one VarDecl.
func (p *Parser) parseParameter() (*VarDeclStmnt, error) {
	ast := &VarDeclStmnt{Pos: p.tkn.Pos}

	for p.is(TokenInputModifier) || p.is(TokenTypeModifier) || p.is(TokenStorageModifier) {
		switch {
		case p.is(TokenInputModifier):
			ast.InputModifier = p.acceptIt().Spell
		case p.is(TokenTypeModifier):
			ast.TypeModifiers = append(ast.TypeModifiers, p.acceptIt().Spell)
		case p.is(TokenStorageModifier):
			ast.StorageModifiers = append(ast.StorageModifiers, p.acceptIt().Spell)
		}
	}

	varType, err := p.parseVarType(false)
	if err != nil {
		return nil, err
	}
	ast.VarType = varType

	varDecl, err := p.parseVarDecl()
	if err != nil {
		return nil, err
	}
	varDecl.DeclStmntRef = ast
	ast.VarDecls = append(ast.VarDecls, varDecl)

	return ast, nil
}

func (p *Parser) parseSwitchCase() (*SwitchCase, error) {
	ast := &SwitchCase{Pos: p.tkn.Pos}

	if p.is(TokenCase) {
		p.acceptIt()
		expr, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		ast.Expr = expr
	} else {
		if _, err := p.accept(TokenDefault); err != nil {
			return nil, err
		}
	}
	if _, err := p.accept(TokenColon); err != nil {
		return nil, err
	}

	// Statements up to the next case, default, or closing brace. A break is
	// an ordinary statement within the list.
	for !p.is(TokenCase) && !p.is(TokenDefault) && !p.is(TokenRightBrace) {
		stmnt, err := p.parseStmnt()
		if err != nil {
			return nil, err
		}
		ast.Stmnts = append(ast.Stmnts, stmnt)
	}

	return ast, nil
}

/* --- Global declarations --- */

func (p *Parser) parseGlobalDecl() (GlobalDecl, error) {
	switch p.tkn.Kind {
	case TokenSampler:
		return p.parseSamplerDecl()
	case TokenTexture:
		return p.parseTextureDecl()
	case TokenUniformBuffer:
		return p.parseUniformBufferDecl()
	case TokenStruct:
		return p.parseStructDecl()
	case TokenDirective:
		return p.parseDirectiveDecl()
	default:
		return p.parseFunctionDecl()
	}
}

func (p *Parser) parseFunctionDecl() (*FunctionDecl, error) {
	ast := &FunctionDecl{Pos: p.tkn.Pos}

	attribs, err := p.parseAttributeList()
	if err != nil {
		return nil, err
	}
	ast.Attribs = attribs

	returnType, err := p.parseVarType(true)
	if err != nil {
		return nil, err
	}
	ast.ReturnType = returnType

	tok, err := p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.Name = tok.Spell

	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	ast.Parameters = params

	if p.is(TokenColon) {
		semantic, err := p.parseSemantic()
		if err != nil {
			return nil, err
		}
		ast.Semantic = semantic
	}

	// A semicolon makes this a forward declaration with no body.
	if p.is(TokenSemicolon) {
		p.acceptIt()
	} else {
		codeBlock, err := p.parseCodeBlock()
		if err != nil {
			return nil, err
		}
		ast.CodeBlock = codeBlock
	}

	return ast, nil
}

func (p *Parser) parseUniformBufferDecl() (*UniformBufferDecl, error) {
	ast := &UniformBufferDecl{Pos: p.tkn.Pos}

	tok, err := p.accept(TokenUniformBuffer)
	if err != nil {
		return nil, err
	}
	ast.BufferType = tok.Spell

	tok, err = p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.Name = tok.Spell

	if p.is(TokenColon) {
		reg, err := p.parseRegister(true)
		if err != nil {
			return nil, err
		}
		ast.RegisterName = reg
	}

	members, err := p.parseVarDeclStmntList()
	if err != nil {
		return nil, err
	}
	ast.Members = members

	if err := p.semi(); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseTextureDecl() (*TextureDecl, error) {
	ast := &TextureDecl{Pos: p.tkn.Pos}

	tok, err := p.accept(TokenTexture)
	if err != nil {
		return nil, err
	}
	ast.TextureType = tok.Spell

	// Optional generic color type: Texture2D<float>
	if p.isSpell(TokenBinaryOp, "<") {
		p.acceptIt()
		tok, err = p.accept(TokenScalarType)
		if err != nil {
			return nil, err
		}
		ast.ColorType = tok.Spell
		if _, err := p.acceptSpell(TokenBinaryOp, ">"); err != nil {
			return nil, err
		}
	}

	names, err := p.parseBufferDeclIdentList()
	if err != nil {
		return nil, err
	}
	ast.Names = names

	if err := p.semi(); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseSamplerDecl() (*SamplerDecl, error) {
	ast := &SamplerDecl{Pos: p.tkn.Pos}

	tok, err := p.accept(TokenSampler)
	if err != nil {
		return nil, err
	}
	ast.SamplerType = tok.Spell

	names, err := p.parseBufferDeclIdentList()
	if err != nil {
		return nil, err
	}
	ast.Names = names

	if err := p.semi(); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseStructDecl() (*StructDecl, error) {
	ast := &StructDecl{Pos: p.tkn.Pos}

	structure, err := p.parseStructure()
	if err != nil {
		return nil, err
	}
	ast.Structure = structure

	if err := p.semi(); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseDirectiveDecl() (*DirectiveDecl, error) {
	tok, err := p.accept(TokenDirective)
	if err != nil {
		return nil, err
	}
	return &DirectiveDecl{Pos: tok.Pos, Line: tok.Spell}, nil
}

/* --- Variables --- */

// parseAttribute parses one "[name]" or "[name(args)]" attribute into a
// FunctionCall node.
func (p *Parser) parseAttribute() (*FunctionCall, error) {
	ast := &FunctionCall{Pos: p.tkn.Pos}

	if _, err := p.accept(TokenLeftBracket); err != nil {
		return nil, err
	}

	tok, err := p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.Name = &VarIdent{Pos: tok.Pos, Ident: tok.Spell}

	if p.is(TokenLeftParen) {
		p.acceptIt()

		if !p.is(TokenRightParen) {
			for {
				expr, err := p.parseExpr(false)
				if err != nil {
					return nil, err
				}
				ast.Arguments = append(ast.Arguments, expr)
				if p.is(TokenComma) {
					p.acceptIt()
				} else {
					break
				}
			}
		}

		if _, err := p.accept(TokenRightParen); err != nil {
			return nil, err
		}
	}

	if _, err := p.accept(TokenRightBracket); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parsePackOffset(parseColon bool) (*PackOffset, error) {
	ast := &PackOffset{Pos: p.tkn.Pos}

	if parseColon {
		if _, err := p.accept(TokenColon); err != nil {
			return nil, err
		}
	}

	if _, err := p.accept(TokenPackOffset); err != nil {
		return nil, err
	}
	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}

	tok, err := p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.RegisterName = tok.Spell

	if p.is(TokenDot) {
		p.acceptIt()
		tok, err = p.accept(TokenIdent)
		if err != nil {
			return nil, err
		}
		ast.VectorComponent = tok.Spell
	}

	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseArrayDimension() (Expr, error) {
	if _, err := p.accept(TokenLeftBracket); err != nil {
		return nil, err
	}
	ast, err := p.parseExpr(false)
	if err != nil {
		return nil, err
	}
	if _, err := p.accept(TokenRightBracket); err != nil {
		return nil, err
	}
	return ast, nil
}

func (p *Parser) parseInitializer() (Expr, error) {
	if _, err := p.acceptSpell(TokenAssignOp, "="); err != nil {
		return nil, err
	}
	return p.parseExpr(false)
}

func (p *Parser) parseVarSemantic() (*VarSemantic, error) {
	ast := &VarSemantic{Pos: p.tkn.Pos}

	if _, err := p.accept(TokenColon); err != nil {
		return nil, err
	}

	switch {
	case p.is(TokenRegister):
		reg, err := p.parseRegister(false)
		if err != nil {
			return nil, err
		}
		ast.RegisterName = reg
	case p.is(TokenPackOffset):
		packOffset, err := p.parsePackOffset(false)
		if err != nil {
			return nil, err
		}
		ast.PackOffset = packOffset
	default:
		tok, err := p.accept(TokenIdent)
		if err != nil {
			return nil, err
		}
		ast.Semantic = tok.Spell
	}

	return ast, nil
}

func (p *Parser) parseVarIdent() (*VarIdent, error) {
	ast := &VarIdent{Pos: p.tkn.Pos}

	tok, err := p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.Ident = tok.Spell

	indices, err := p.parseArrayDimensionList()
	if err != nil {
		return nil, err
	}
	ast.ArrayIndices = indices

	if p.is(TokenDot) {
		p.acceptIt()
		next, err := p.parseVarIdent()
		if err != nil {
			return nil, err
		}
		ast.Next = next
	}

	return ast, nil
}

func (p *Parser) parseVarType(parseVoidType bool) (*VarType, error) {
	ast := &VarType{Pos: p.tkn.Pos}

	switch {
	case p.is(TokenVoid):
		if !parseVoidType {
			return nil, p.syntaxError("'void' type not allowed in this context")
		}
		ast.BaseType = p.acceptIt().Spell
	case p.is(TokenIdent) || p.isDataType():
		ast.BaseType = p.acceptIt().Spell
	case p.is(TokenStruct):
		// Anonymous structure declaration; the type node keeps a reference
		// to the structure it owns.
		structType, err := p.parseStructure()
		if err != nil {
			return nil, err
		}
		ast.StructType = structType
		ast.SymbolRef = structType
	default:
		return nil, p.errUnexpectedHint("expected type specifier")
	}

	return ast, nil
}

func (p *Parser) parseVarDecl() (*VarDecl, error) {
	ast := &VarDecl{Pos: p.tkn.Pos}

	tok, err := p.accept(TokenIdent)
	if err != nil {
		return nil, err
	}
	ast.Name = tok.Spell

	arrayDims, err := p.parseArrayDimensionList()
	if err != nil {
		return nil, err
	}
	ast.ArrayDims = arrayDims

	semantics, err := p.parseVarSemanticList()
	if err != nil {
		return nil, err
	}
	ast.Semantics = semantics

	if p.isSpell(TokenAssignOp, "=") {
		initializer, err := p.parseInitializer()
		if err != nil {
			return nil, err
		}
		ast.Initializer = initializer
	}

	return ast, nil
}

/* --- Statements --- */

func (p *Parser) parseStmnt() (Stmnt, error) {
	// Optional attributes; only the loop, branch, and switch statements
	// keep them.
	var attribs []*FunctionCall
	if p.is(TokenLeftBracket) {
		var err error
		attribs, err = p.parseAttributeList()
		if err != nil {
			return nil, err
		}
	}

	switch p.tkn.Kind {
	case TokenSemicolon:
		return p.parseNullStmnt()
	case TokenDirective:
		return p.parseDirectiveStmnt()
	case TokenLeftBrace:
		return p.parseCodeBlockStmnt()
	case TokenReturn:
		return p.parseReturnStmnt()
	case TokenIdent:
		return p.parseVarDeclOrAssignOrFunctionCallStmnt()
	case TokenFor:
		return p.parseForLoopStmnt(attribs)
	case TokenWhile:
		return p.parseWhileLoopStmnt(attribs)
	case TokenDo:
		return p.parseDoWhileLoopStmnt(attribs)
	case TokenIf:
		return p.parseIfStmnt(attribs)
	case TokenSwitch:
		return p.parseSwitchStmnt(attribs)
	case TokenCtrlTransfer:
		return p.parseCtrlTransferStmnt()
	case TokenStruct:
		return p.parseStructDeclOrVarDeclStmnt()
	case TokenTypeModifier, TokenStorageModifier:
		return p.parseVarDeclStmnt()
	}

	if p.isDataType() {
		return p.parseVarDeclStmnt()
	}

	return p.parseExprStmnt(nil)
}

func (p *Parser) parseNullStmnt() (*NullStmnt, error) {
	ast := &NullStmnt{Pos: p.tkn.Pos}
	if err := p.semi(); err != nil {
		return nil, err
	}
	return ast, nil
}

func (p *Parser) parseDirectiveStmnt() (*DirectiveStmnt, error) {
	tok, err := p.accept(TokenDirective)
	if err != nil {
		return nil, err
	}
	return &DirectiveStmnt{Pos: tok.Pos, Line: tok.Spell}, nil
}

func (p *Parser) parseCodeBlockStmnt() (*CodeBlockStmnt, error) {
	ast := &CodeBlockStmnt{Pos: p.tkn.Pos}
	codeBlock, err := p.parseCodeBlock()
	if err != nil {
		return nil, err
	}
	ast.CodeBlock = codeBlock
	return ast, nil
}

func (p *Parser) parseForLoopStmnt(attribs []*FunctionCall) (*ForLoopStmnt, error) {
	ast := &ForLoopStmnt{Pos: p.tkn.Pos, Attribs: attribs}

	if _, err := p.accept(TokenFor); err != nil {
		return nil, err
	}
	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}

	// The init is a full statement; an empty init parses as a null statement.
	initStmnt, err := p.parseStmnt()
	if err != nil {
		return nil, err
	}
	ast.InitStmnt = initStmnt

	if !p.is(TokenSemicolon) {
		condition, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		ast.Condition = condition
	}
	if err := p.semi(); err != nil {
		return nil, err
	}

	if !p.is(TokenRightParen) {
		iteration, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		ast.Iteration = iteration
	}
	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	bodyStmnt, err := p.parseStmnt()
	if err != nil {
		return nil, err
	}
	ast.BodyStmnt = bodyStmnt

	return ast, nil
}

func (p *Parser) parseWhileLoopStmnt(attribs []*FunctionCall) (*WhileLoopStmnt, error) {
	ast := &WhileLoopStmnt{Pos: p.tkn.Pos, Attribs: attribs}

	if _, err := p.accept(TokenWhile); err != nil {
		return nil, err
	}

	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}
	condition, err := p.parseExpr(true)
	if err != nil {
		return nil, err
	}
	ast.Condition = condition
	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	bodyStmnt, err := p.parseStmnt()
	if err != nil {
		return nil, err
	}
	ast.BodyStmnt = bodyStmnt

	return ast, nil
}

func (p *Parser) parseDoWhileLoopStmnt(attribs []*FunctionCall) (*DoWhileLoopStmnt, error) {
	ast := &DoWhileLoopStmnt{Pos: p.tkn.Pos, Attribs: attribs}

	if _, err := p.accept(TokenDo); err != nil {
		return nil, err
	}
	bodyStmnt, err := p.parseStmnt()
	if err != nil {
		return nil, err
	}
	ast.BodyStmnt = bodyStmnt

	if _, err := p.accept(TokenWhile); err != nil {
		return nil, err
	}

	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}
	condition, err := p.parseExpr(true)
	if err != nil {
		return nil, err
	}
	ast.Condition = condition
	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	if err := p.semi(); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseIfStmnt(attribs []*FunctionCall) (*IfStmnt, error) {
	ast := &IfStmnt{Pos: p.tkn.Pos, Attribs: attribs}

	if _, err := p.accept(TokenIf); err != nil {
		return nil, err
	}

	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}
	condition, err := p.parseExpr(true)
	if err != nil {
		return nil, err
	}
	ast.Condition = condition
	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	bodyStmnt, err := p.parseStmnt()
	if err != nil {
		return nil, err
	}
	ast.BodyStmnt = bodyStmnt

	if p.is(TokenElse) {
		elseStmnt, err := p.parseElseStmnt()
		if err != nil {
			return nil, err
		}
		ast.ElseStmnt = elseStmnt
	}

	return ast, nil
}

func (p *Parser) parseElseStmnt() (*ElseStmnt, error) {
	ast := &ElseStmnt{Pos: p.tkn.Pos}

	if _, err := p.accept(TokenElse); err != nil {
		return nil, err
	}
	bodyStmnt, err := p.parseStmnt()
	if err != nil {
		return nil, err
	}
	ast.BodyStmnt = bodyStmnt

	return ast, nil
}

func (p *Parser) parseSwitchStmnt(attribs []*FunctionCall) (*SwitchStmnt, error) {
	ast := &SwitchStmnt{Pos: p.tkn.Pos, Attribs: attribs}

	if _, err := p.accept(TokenSwitch); err != nil {
		return nil, err
	}

	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}
	selector, err := p.parseExpr(true)
	if err != nil {
		return nil, err
	}
	ast.Selector = selector
	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	if _, err := p.accept(TokenLeftBrace); err != nil {
		return nil, err
	}
	cases, err := p.parseSwitchCaseList()
	if err != nil {
		return nil, err
	}
	ast.Cases = cases
	if _, err := p.accept(TokenRightBrace); err != nil {
		return nil, err
	}

	return ast, nil
}

func (p *Parser) parseCtrlTransferStmnt() (*CtrlTransferStmnt, error) {
	tok, err := p.accept(TokenCtrlTransfer)
	if err != nil {
		return nil, err
	}
	ast := &CtrlTransferStmnt{Pos: tok.Pos, Instruction: tok.Spell}
	if err := p.semi(); err != nil {
		return nil, err
	}
	return ast, nil
}

func (p *Parser) parseVarDeclStmnt() (*VarDeclStmnt, error) {
	ast := &VarDeclStmnt{Pos: p.tkn.Pos}

loop:
	for {
		switch {
		case p.is(TokenInputModifier):
			ast.InputModifier = p.acceptIt().Spell
		case p.is(TokenStorageModifier):
			ast.StorageModifiers = append(ast.StorageModifiers, p.acceptIt().Spell)
		case p.is(TokenTypeModifier):
			ast.TypeModifiers = append(ast.TypeModifiers, p.acceptIt().Spell)
		case p.is(TokenIdent):
			// User-defined base type.
			ast.VarType = &VarType{Pos: p.tkn.Pos, BaseType: p.acceptIt().Spell}
			break loop
		case p.is(TokenStruct):
			varType := &VarType{Pos: p.tkn.Pos}
			structType, err := p.parseStructure()
			if err != nil {
				return nil, err
			}
			varType.StructType = structType
			varType.SymbolRef = structType
			ast.VarType = varType
			break loop
		case p.isDataType():
			ast.VarType = &VarType{Pos: p.tkn.Pos, BaseType: p.acceptIt().Spell}
			break loop
		default:
			return nil, p.errUnexpected()
		}
	}

	varDecls, err := p.parseVarDeclList()
	if err != nil {
		return nil, err
	}
	ast.VarDecls = varDecls
	if err := p.semi(); err != nil {
		return nil, err
	}

	for _, varDecl := range ast.VarDecls {
		varDecl.DeclStmntRef = ast
	}

	return ast, nil
}

func (p *Parser) parseReturnStmnt() (*ReturnStmnt, error) {
	ast := &ReturnStmnt{Pos: p.tkn.Pos}

	if _, err := p.accept(TokenReturn); err != nil {
		return nil, err
	}

	if !p.is(TokenSemicolon) {
		expr, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		ast.Expr = expr
	}

	if err := p.semi(); err != nil {
		return nil, err
	}

	return ast, nil
}

// parseExprStmnt parses an expression statement. A non-nil varIdent seeds
// the expression with an already-parsed variable access.
func (p *Parser) parseExprStmnt(varIdent *VarIdent) (*ExprStmnt, error) {
	ast := &ExprStmnt{Pos: p.tkn.Pos}

	var seed Expr
	if varIdent != nil {
		ast.Pos = varIdent.Pos
		seed = &VarAccessExpr{Pos: varIdent.Pos, VarIdent: varIdent}
	}

	expr, err := p.parseExprSeed(true, seed)
	if err != nil {
		return nil, err
	}
	ast.Expr = expr

	if err := p.semi(); err != nil {
		return nil, err
	}

	return ast, nil
}

// parseStructDeclOrVarDeclStmnt parses a statement starting with 'struct':
// either a plain structure declaration or a variable declaration whose type
// is the inline structure.
func (p *Parser) parseStructDeclOrVarDeclStmnt() (Stmnt, error) {
	pos := p.tkn.Pos

	structure, err := p.parseStructure()
	if err != nil {
		return nil, err
	}

	if !p.is(TokenSemicolon) {
		ast := &VarDeclStmnt{
			Pos: pos,
			VarType: &VarType{
				Pos:        pos,
				StructType: structure,
				SymbolRef:  structure,
			},
		}

		varDecls, err := p.parseVarDeclList()
		if err != nil {
			return nil, err
		}
		ast.VarDecls = varDecls
		if err := p.semi(); err != nil {
			return nil, err
		}

		for _, varDecl := range ast.VarDecls {
			varDecl.DeclStmntRef = ast
		}

		return ast, nil
	}

	if err := p.semi(); err != nil {
		return nil, err
	}

	return &StructDeclStmnt{Pos: pos, Structure: structure}, nil
}

// parseVarDeclOrAssignOrFunctionCallStmnt disambiguates statements that
// begin with an identifier: a variable identifier chain is parsed first,
// then the next token decides between a function call, an assignment, an
// expression statement, and a variable declaration whose type is the
// identifier itself.
func (p *Parser) parseVarDeclOrAssignOrFunctionCallStmnt() (Stmnt, error) {
	varIdent, err := p.parseVarIdent()
	if err != nil {
		return nil, err
	}

	switch {
	case p.is(TokenLeftParen):
		ast := &FunctionCallStmnt{Pos: varIdent.Pos}
		call, err := p.parseFunctionCall(varIdent)
		if err != nil {
			return nil, err
		}
		ast.Call = call
		if err := p.semi(); err != nil {
			return nil, err
		}
		return ast, nil

	case p.is(TokenAssignOp):
		ast := &AssignStmnt{Pos: varIdent.Pos, VarIdent: varIdent}
		ast.Op = p.acceptIt().Spell
		expr, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		ast.Expr = expr
		if err := p.semi(); err != nil {
			return nil, err
		}
		return ast, nil

	case p.isSpell(TokenUnaryOp, "++") || p.isSpell(TokenUnaryOp, "--"):
		return p.parseExprStmnt(varIdent)
	}

	if varIdent.Next == nil {
		// A bare identifier followed by more identifiers is a declaration
		// with a user-defined type.
		ast := &VarDeclStmnt{
			Pos:     varIdent.Pos,
			VarType: &VarType{Pos: varIdent.Pos, BaseType: varIdent.Ident},
		}

		varDecls, err := p.parseVarDeclList()
		if err != nil {
			return nil, err
		}
		ast.VarDecls = varDecls
		if err := p.semi(); err != nil {
			return nil, err
		}

		for _, varDecl := range ast.VarDecls {
			varDecl.DeclStmntRef = ast
		}

		return ast, nil
	}

	return nil, p.errUnexpectedHint("expected variable declaration, assignment or function call statement")
}

/* --- Expressions --- */

func (p *Parser) parseExpr(allowComma bool) (Expr, error) {
	return p.parseExprSeed(allowComma, nil)
}

// parseExprSeed parses an expression, optionally seeded with an already
// parsed primary expression. Binary chains are produced right-leaning; no
// operator precedence is applied here.
func (p *Parser) parseExprSeed(allowComma bool, seed Expr) (Expr, error) {
	ast := seed
	if ast == nil {
		primary, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		ast = primary
	}

	// Optional post-unary expression
	if p.is(TokenUnaryOp) {
		unaryExpr := &PostUnaryExpr{Pos: p.tkn.Pos, Expr: ast}
		unaryExpr.Op = p.acceptIt().Spell
		ast = unaryExpr
	}

	// Optional binary expression
	if p.is(TokenBinaryOp) {
		binExpr := &BinaryExpr{Pos: p.tkn.Pos, LhsExpr: ast}
		binExpr.Op = p.acceptIt().Spell
		rhsExpr, err := p.parseExpr(allowComma)
		if err != nil {
			return nil, err
		}
		binExpr.RhsExpr = rhsExpr
		return binExpr, nil
	}

	// Optional ternary expression
	if p.is(TokenTernaryOp) {
		ternExpr := &TernaryExpr{Pos: p.tkn.Pos, Condition: ast}
		p.acceptIt()
		ifExpr, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		ternExpr.IfExpr = ifExpr
		if _, err := p.accept(TokenColon); err != nil {
			return nil, err
		}
		elseExpr, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		ternExpr.ElseExpr = elseExpr
		return ternExpr, nil
	}

	// Optional list expression
	if allowComma && p.is(TokenComma) {
		listExpr := &ListExpr{Pos: p.tkn.Pos, FirstExpr: ast}
		p.acceptIt()
		nextExpr, err := p.parseExpr(true)
		if err != nil {
			return nil, err
		}
		listExpr.NextExpr = nextExpr
		return listExpr, nil
	}

	return ast, nil
}

func (p *Parser) parsePrimaryExpr() (Expr, error) {
	switch {
	case p.isLiteral():
		return p.parseLiteralExpr()
	case p.isDataType():
		return p.parseTypeNameOrFunctionCallExpr()
	case p.is(TokenUnaryOp) || p.isSpell(TokenBinaryOp, "-"):
		return p.parseUnaryExpr()
	case p.is(TokenLeftParen):
		return p.parseBracketOrCastExpr()
	case p.is(TokenLeftBrace):
		return p.parseInitializerExpr()
	case p.is(TokenIdent):
		return p.parseVarAccessOrFunctionCallExpr()
	}
	return nil, p.errUnexpectedHint("expected primary expression")
}

func (p *Parser) parseLiteralExpr() (*LiteralExpr, error) {
	if !p.isLiteral() {
		return nil, p.errUnexpectedHint("expected literal expression")
	}
	tok := p.acceptIt()
	return &LiteralExpr{Pos: tok.Pos, Literal: tok.Spell}, nil
}

func (p *Parser) parseTypeNameOrFunctionCallExpr() (Expr, error) {
	if !p.isDataType() {
		return nil, p.errUnexpectedHint("expected type name or function call expression")
	}

	tok := p.acceptIt()

	if p.is(TokenLeftParen) {
		// Constructor call such as float4(...).
		varIdent := &VarIdent{Pos: tok.Pos, Ident: tok.Spell}
		return p.parseFunctionCallExpr(varIdent)
	}

	return &TypeNameExpr{Pos: tok.Pos, TypeName: tok.Spell}, nil
}

func (p *Parser) parseUnaryExpr() (*UnaryExpr, error) {
	if !p.is(TokenUnaryOp) && !p.isSpell(TokenBinaryOp, "-") {
		return nil, p.errUnexpectedHint("expected unary expression operator")
	}

	tok := p.acceptIt()
	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	return &UnaryExpr{Pos: tok.Pos, Op: tok.Spell, Expr: expr}, nil
}

// parseBracketOrCastExpr parses "( expr )" and decides afterwards whether it
// was the type part of a cast. The expression is a cast type when another
// primary expression follows and the inner expression could name a type: a
// type name, or a variable access with no assignment part. "(x) y" with a
// variable x is therefore misread as a cast; the semantic analyzer corrects
// this later.
func (p *Parser) parseBracketOrCastExpr() (Expr, error) {
	pos := p.tkn.Pos

	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr(true)
	if err != nil {
		return nil, err
	}
	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	if p.isPrimaryExpr() && isCastTypeExpr(expr) {
		ast := &CastExpr{Pos: pos, TypeExpr: expr}
		castExpr, err := p.parsePrimaryExpr()
		if err != nil {
			return nil, err
		}
		ast.Expr = castExpr
		return ast, nil
	}

	return &BracketExpr{Pos: pos, Expr: expr}, nil
}

func isCastTypeExpr(expr Expr) bool {
	switch expr := expr.(type) {
	case *TypeNameExpr:
		return true
	case *VarAccessExpr:
		return expr.AssignExpr == nil
	}
	return false
}

func (p *Parser) parseVarAccessOrFunctionCallExpr() (Expr, error) {
	varIdent, err := p.parseVarIdent()
	if err != nil {
		return nil, err
	}
	if p.is(TokenLeftParen) {
		return p.parseFunctionCallExpr(varIdent)
	}
	return p.parseVarAccessExpr(varIdent)
}

func (p *Parser) parseVarAccessExpr(varIdent *VarIdent) (*VarAccessExpr, error) {
	ast := &VarAccessExpr{Pos: p.tkn.Pos}

	if varIdent == nil {
		vi, err := p.parseVarIdent()
		if err != nil {
			return nil, err
		}
		varIdent = vi
	}
	ast.Pos = varIdent.Pos
	ast.VarIdent = varIdent

	// Optional assignment inside the expression
	if p.is(TokenAssignOp) {
		ast.AssignOp = p.acceptIt().Spell
		assignExpr, err := p.parseExpr(false)
		if err != nil {
			return nil, err
		}
		ast.AssignExpr = assignExpr
	}

	return ast, nil
}

func (p *Parser) parseFunctionCallExpr(varIdent *VarIdent) (*FunctionCallExpr, error) {
	call, err := p.parseFunctionCall(varIdent)
	if err != nil {
		return nil, err
	}
	return &FunctionCallExpr{Pos: call.Pos, Call: call}, nil
}

func (p *Parser) parseInitializerExpr() (*InitializerExpr, error) {
	ast := &InitializerExpr{Pos: p.tkn.Pos}
	exprs, err := p.parseInitializerList()
	if err != nil {
		return nil, err
	}
	ast.Exprs = exprs
	return ast, nil
}

/* --- Lists --- */

func (p *Parser) parseVarDeclList() ([]*VarDecl, error) {
	var varDecls []*VarDecl

	for {
		varDecl, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}
		varDecls = append(varDecls, varDecl)
		if p.is(TokenComma) {
			p.acceptIt()
		} else {
			break
		}
	}

	return varDecls, nil
}

func (p *Parser) parseVarDeclStmntList() ([]*VarDeclStmnt, error) {
	var members []*VarDeclStmnt

	if _, err := p.accept(TokenLeftBrace); err != nil {
		return nil, err
	}

	for !p.is(TokenRightBrace) {
		member, err := p.parseVarDeclStmnt()
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	p.acceptIt()

	return members, nil
}

func (p *Parser) parseParameterList() ([]*VarDeclStmnt, error) {
	var parameters []*VarDeclStmnt

	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}

	if !p.is(TokenRightParen) {
		for {
			parameter, err := p.parseParameter()
			if err != nil {
				return nil, err
			}
			parameters = append(parameters, parameter)
			if p.is(TokenComma) {
				p.acceptIt()
			} else {
				break
			}
		}
	}

	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}

	return parameters, nil
}

func (p *Parser) parseStmntList() ([]Stmnt, error) {
	var stmnts []Stmnt

	for !p.is(TokenRightBrace) {
		stmnt, err := p.parseStmnt()
		if err != nil {
			return nil, err
		}
		stmnts = append(stmnts, stmnt)
	}

	return stmnts, nil
}

func (p *Parser) parseExprList(terminator TokenKind, allowLastComma bool) ([]Expr, error) {
	var exprs []Expr

	if !p.is(terminator) {
		for {
			expr, err := p.parseExpr(false)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, expr)
			if p.is(TokenComma) {
				p.acceptIt()
				if allowLastComma && p.is(terminator) {
					break
				}
			} else {
				break
			}
		}
	}

	return exprs, nil
}

func (p *Parser) parseArrayDimensionList() ([]Expr, error) {
	var arrayDims []Expr

	for p.is(TokenLeftBracket) {
		arrayDim, err := p.parseArrayDimension()
		if err != nil {
			return nil, err
		}
		arrayDims = append(arrayDims, arrayDim)
	}

	return arrayDims, nil
}

func (p *Parser) parseArgumentList() ([]Expr, error) {
	if _, err := p.accept(TokenLeftParen); err != nil {
		return nil, err
	}
	arguments, err := p.parseExprList(TokenRightParen, false)
	if err != nil {
		return nil, err
	}
	if _, err := p.accept(TokenRightParen); err != nil {
		return nil, err
	}
	return arguments, nil
}

func (p *Parser) parseInitializerList() ([]Expr, error) {
	if _, err := p.accept(TokenLeftBrace); err != nil {
		return nil, err
	}
	exprs, err := p.parseExprList(TokenRightBrace, true)
	if err != nil {
		return nil, err
	}
	if _, err := p.accept(TokenRightBrace); err != nil {
		return nil, err
	}
	return exprs, nil
}

func (p *Parser) parseVarSemanticList() ([]*VarSemantic, error) {
	var semantics []*VarSemantic

	for p.is(TokenColon) {
		semantic, err := p.parseVarSemantic()
		if err != nil {
			return nil, err
		}
		semantics = append(semantics, semantic)
	}

	return semantics, nil
}

func (p *Parser) parseAttributeList() ([]*FunctionCall, error) {
	var attribs []*FunctionCall

	for p.is(TokenLeftBracket) {
		attrib, err := p.parseAttribute()
		if err != nil {
			return nil, err
		}
		attribs = append(attribs, attrib)
	}

	return attribs, nil
}

func (p *Parser) parseSwitchCaseList() ([]*SwitchCase, error) {
	var cases []*SwitchCase

	for p.is(TokenCase) || p.is(TokenDefault) {
		switchCase, err := p.parseSwitchCase()
		if err != nil {
			return nil, err
		}
		cases = append(cases, switchCase)
	}

	return cases, nil
}

func (p *Parser) parseBufferDeclIdentList() ([]*BufferDeclIdent, error) {
	var bufferIdents []*BufferDeclIdent

	ident, err := p.parseBufferDeclIdent()
	if err != nil {
		return nil, err
	}
	bufferIdents = append(bufferIdents, ident)

	for p.is(TokenComma) {
		p.acceptIt()
		ident, err := p.parseBufferDeclIdent()
		if err != nil {
			return nil, err
		}
		bufferIdents = append(bufferIdents, ident)
	}

	return bufferIdents, nil
}

/* --- Others --- */

func (p *Parser) parseRegister(parseColon bool) (string, error) {
	// ': register(IDENT)'
	if parseColon {
		if _, err := p.accept(TokenColon); err != nil {
			return "", err
		}
	}

	if _, err := p.accept(TokenRegister); err != nil {
		return "", err
	}
	if _, err := p.accept(TokenLeftParen); err != nil {
		return "", err
	}

	tok, err := p.accept(TokenIdent)
	if err != nil {
		return "", err
	}

	if _, err := p.accept(TokenRightParen); err != nil {
		return "", err
	}

	return tok.Spell, nil
}

func (p *Parser) parseSemantic() (string, error) {
	if _, err := p.accept(TokenColon); err != nil {
		return "", err
	}
	tok, err := p.accept(TokenIdent)
	if err != nil {
		return "", err
	}
	return tok.Spell, nil
}
