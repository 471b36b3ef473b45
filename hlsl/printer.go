package hlsl

// ASTPrinter dumps an AST as an indented node listing via a Logger. Each
// line names the node, its source position, and its salient string field.
// Structurally identical trees print byte-equal. The listing is selective, so
// some different trees print the same: a FunctionDecl shows only its
// attributes and body, a VarDeclStmnt only its declarations, an AssignStmnt
// only its right-hand side, and a CastExpr only its type part.
type ASTPrinter struct {
	log Logger
}

// DumpAST prints the whole program to the given logger.
func DumpAST(program *Program, log Logger) {
	printer := &ASTPrinter{log: log}
	if program != nil {
		printer.VisitProgram(program)
	}
}

func (p *ASTPrinter) print(pos SourcePos, astName, info string) {
	msg := astName + " (" + pos.String() + ")"
	if info != "" {
		msg += " \"" + info + "\""
	}
	p.log.Info(msg)
}

/* --- Common nodes --- */

func (p *ASTPrinter) VisitProgram(ast *Program) {
	p.print(ast.Pos, "Program", "")
	p.log.IncIndent()

	for _, globDecl := range ast.GlobalDecls {
		VisitGlobalDecl(p, globDecl)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitCodeBlock(ast *CodeBlock) {
	p.print(ast.Pos, "CodeBlock", "")
	p.log.IncIndent()

	for _, stmnt := range ast.Stmnts {
		VisitStmnt(p, stmnt)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitBufferDeclIdent(ast *BufferDeclIdent) {
	p.print(ast.Pos, "BufferDeclIdent", ast.Ident)
}

func (p *ASTPrinter) VisitFunctionCall(ast *FunctionCall) {
	p.print(ast.Pos, "FunctionCall", "")
	p.log.IncIndent()

	if ast.Name != nil {
		p.VisitVarIdent(ast.Name)
	}
	for _, arg := range ast.Arguments {
		VisitExpr(p, arg)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitStructure(ast *Structure) {
	p.print(ast.Pos, "Structure", "")
	p.log.IncIndent()

	for _, member := range ast.Members {
		p.VisitVarDeclStmnt(member)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitSwitchCase(ast *SwitchCase) {
	p.print(ast.Pos, "SwitchCase", "")
	p.log.IncIndent()

	for _, stmnt := range ast.Stmnts {
		VisitStmnt(p, stmnt)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitPackOffset(ast *PackOffset) {
	info := ast.RegisterName
	if ast.VectorComponent != "" {
		info += " (" + ast.VectorComponent + ")"
	}
	p.print(ast.Pos, "PackOffset", info)
}

func (p *ASTPrinter) VisitVarSemantic(ast *VarSemantic) {
	info := ast.Semantic
	if ast.RegisterName != "" {
		info += " (" + ast.RegisterName + ")"
	}
	p.print(ast.Pos, "VarSemantic", info)
	p.log.IncIndent()

	if ast.PackOffset != nil {
		p.VisitPackOffset(ast.PackOffset)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitVarType(ast *VarType) {
	p.print(ast.Pos, "VarType", ast.BaseType)
	p.log.IncIndent()

	if ast.StructType != nil {
		p.VisitStructure(ast.StructType)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitVarIdent(ast *VarIdent) {
	p.print(ast.Pos, "VarIdent", ast.Ident)
	p.log.IncIndent()

	for _, index := range ast.ArrayIndices {
		VisitExpr(p, index)
	}
	if ast.Next != nil {
		p.VisitVarIdent(ast.Next)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitVarDecl(ast *VarDecl) {
	p.print(ast.Pos, "VarDecl", ast.Name)
	p.log.IncIndent()

	for _, dim := range ast.ArrayDims {
		VisitExpr(p, dim)
	}
	for _, semantic := range ast.Semantics {
		p.VisitVarSemantic(semantic)
	}
	VisitExpr(p, ast.Initializer)

	p.log.DecIndent()
}

/* --- Global declarations --- */

func (p *ASTPrinter) VisitFunctionDecl(ast *FunctionDecl) {
	p.print(ast.Pos, "FunctionDecl", ast.Name)
	p.log.IncIndent()

	for _, attrib := range ast.Attribs {
		p.VisitFunctionCall(attrib)
	}
	if ast.CodeBlock != nil {
		p.VisitCodeBlock(ast.CodeBlock)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitUniformBufferDecl(ast *UniformBufferDecl) {
	p.print(ast.Pos, "UniformBufferDecl", ast.Name+" ("+ast.BufferType+")")
	p.log.IncIndent()

	for _, member := range ast.Members {
		p.VisitVarDeclStmnt(member)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitTextureDecl(ast *TextureDecl) {
	p.print(ast.Pos, "TextureDecl", "")
	p.log.IncIndent()

	for _, name := range ast.Names {
		p.VisitBufferDeclIdent(name)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitSamplerDecl(ast *SamplerDecl) {
	p.print(ast.Pos, "SamplerDecl", "")
	p.log.IncIndent()

	for _, name := range ast.Names {
		p.VisitBufferDeclIdent(name)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitStructDecl(ast *StructDecl) {
	p.print(ast.Pos, "StructDecl", "")
	p.log.IncIndent()

	if ast.Structure != nil {
		p.VisitStructure(ast.Structure)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitDirectiveDecl(ast *DirectiveDecl) {
	p.print(ast.Pos, "DirectiveDecl", ast.Line)
}

/* --- Statements --- */

func (p *ASTPrinter) VisitNullStmnt(ast *NullStmnt) {
	p.print(ast.Pos, "NullStmnt", "")
}

func (p *ASTPrinter) VisitDirectiveStmnt(ast *DirectiveStmnt) {
	p.print(ast.Pos, "DirectiveStmnt", ast.Line)
}

func (p *ASTPrinter) VisitCodeBlockStmnt(ast *CodeBlockStmnt) {
	p.print(ast.Pos, "CodeBlockStmnt", "")
	p.log.IncIndent()

	if ast.CodeBlock != nil {
		p.VisitCodeBlock(ast.CodeBlock)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitForLoopStmnt(ast *ForLoopStmnt) {
	p.print(ast.Pos, "ForLoopStmnt", "")
	p.log.IncIndent()

	VisitStmnt(p, ast.InitStmnt)
	VisitExpr(p, ast.Condition)
	VisitExpr(p, ast.Iteration)
	VisitStmnt(p, ast.BodyStmnt)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitWhileLoopStmnt(ast *WhileLoopStmnt) {
	p.print(ast.Pos, "WhileLoopStmnt", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Condition)
	VisitStmnt(p, ast.BodyStmnt)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitDoWhileLoopStmnt(ast *DoWhileLoopStmnt) {
	p.print(ast.Pos, "DoWhileLoopStmnt", "")
	p.log.IncIndent()

	VisitStmnt(p, ast.BodyStmnt)
	VisitExpr(p, ast.Condition)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitIfStmnt(ast *IfStmnt) {
	p.print(ast.Pos, "IfStmnt", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Condition)
	VisitStmnt(p, ast.BodyStmnt)
	if ast.ElseStmnt != nil {
		p.VisitElseStmnt(ast.ElseStmnt)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitElseStmnt(ast *ElseStmnt) {
	p.print(ast.Pos, "ElseStmnt", "")
	p.log.IncIndent()

	VisitStmnt(p, ast.BodyStmnt)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitSwitchStmnt(ast *SwitchStmnt) {
	p.print(ast.Pos, "SwitchStmnt", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Selector)
	for _, switchCase := range ast.Cases {
		p.VisitSwitchCase(switchCase)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitVarDeclStmnt(ast *VarDeclStmnt) {
	p.print(ast.Pos, "VarDeclStmnt", "")
	p.log.IncIndent()

	for _, decl := range ast.VarDecls {
		p.VisitVarDecl(decl)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitAssignStmnt(ast *AssignStmnt) {
	p.print(ast.Pos, "AssignStmnt", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Expr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitExprStmnt(ast *ExprStmnt) {
	p.print(ast.Pos, "ExprStmnt", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Expr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitFunctionCallStmnt(ast *FunctionCallStmnt) {
	p.print(ast.Pos, "FunctionCallStmnt", "")
	p.log.IncIndent()

	if ast.Call != nil {
		p.VisitFunctionCall(ast.Call)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitReturnStmnt(ast *ReturnStmnt) {
	p.print(ast.Pos, "ReturnStmnt", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Expr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitStructDeclStmnt(ast *StructDeclStmnt) {
	p.print(ast.Pos, "StructDeclStmnt", "")
	p.log.IncIndent()

	if ast.Structure != nil {
		p.VisitStructure(ast.Structure)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitCtrlTransferStmnt(ast *CtrlTransferStmnt) {
	p.print(ast.Pos, "CtrlTransferStmnt", ast.Instruction)
}

/* --- Expressions --- */

func (p *ASTPrinter) VisitListExpr(ast *ListExpr) {
	p.print(ast.Pos, "ListExpr", "")
	p.log.IncIndent()

	VisitExpr(p, ast.FirstExpr)
	VisitExpr(p, ast.NextExpr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitLiteralExpr(ast *LiteralExpr) {
	p.print(ast.Pos, "LiteralExpr", ast.Literal)
}

func (p *ASTPrinter) VisitTypeNameExpr(ast *TypeNameExpr) {
	p.print(ast.Pos, "TypeNameExpr", ast.TypeName)
}

func (p *ASTPrinter) VisitTernaryExpr(ast *TernaryExpr) {
	p.print(ast.Pos, "TernaryExpr", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Condition)
	VisitExpr(p, ast.IfExpr)
	VisitExpr(p, ast.ElseExpr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitBinaryExpr(ast *BinaryExpr) {
	p.print(ast.Pos, "BinaryExpr", ast.Op)
	p.log.IncIndent()

	VisitExpr(p, ast.LhsExpr)
	VisitExpr(p, ast.RhsExpr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitUnaryExpr(ast *UnaryExpr) {
	p.print(ast.Pos, "UnaryExpr", ast.Op)
	p.log.IncIndent()

	VisitExpr(p, ast.Expr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitPostUnaryExpr(ast *PostUnaryExpr) {
	p.print(ast.Pos, "PostUnaryExpr", ast.Op)
	p.log.IncIndent()

	VisitExpr(p, ast.Expr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitFunctionCallExpr(ast *FunctionCallExpr) {
	p.print(ast.Pos, "FunctionCallExpr", "")
	p.log.IncIndent()

	if ast.Call != nil {
		p.VisitFunctionCall(ast.Call)
	}

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitBracketExpr(ast *BracketExpr) {
	p.print(ast.Pos, "BracketExpr", "")
	p.log.IncIndent()

	VisitExpr(p, ast.Expr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitCastExpr(ast *CastExpr) {
	p.print(ast.Pos, "CastExpr", "")
	p.log.IncIndent()

	VisitExpr(p, ast.TypeExpr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitVarAccessExpr(ast *VarAccessExpr) {
	p.print(ast.Pos, "VarAccessExpr", "")
	p.log.IncIndent()

	if ast.VarIdent != nil {
		p.VisitVarIdent(ast.VarIdent)
	}
	VisitExpr(p, ast.AssignExpr)

	p.log.DecIndent()
}

func (p *ASTPrinter) VisitInitializerExpr(ast *InitializerExpr) {
	p.print(ast.Pos, "InitializerExpr", "")
	p.log.IncIndent()

	for _, expr := range ast.Exprs {
		VisitExpr(p, expr)
	}

	p.log.DecIndent()
}
