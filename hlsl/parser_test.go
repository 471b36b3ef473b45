package hlsl

import (
	"strings"
	"testing"
)

// testLogger captures diagnostic lines for inspection.
type testLogger struct {
	errors []string
}

func (l *testLogger) Info(msg string)    {}
func (l *testLogger) Warning(msg string) {}
func (l *testLogger) Error(msg string)   { l.errors = append(l.errors, msg) }
func (l *testLogger) IncIndent()         {}
func (l *testLogger) DecIndent()         {}

func parseSource(t *testing.T, source string) *Program {
	t.Helper()
	log := &testLogger{}
	parser := NewParser(log)
	program := parser.ParseSource(NewSourceCode("test.hlsl", source))
	if program == nil {
		t.Fatalf("parse failed: %v", log.errors)
	}
	return program
}

func parseError(t *testing.T, source string) string {
	t.Helper()
	log := &testLogger{}
	parser := NewParser(log)
	program := parser.ParseSource(NewSourceCode("test.hlsl", source))
	if program != nil {
		t.Fatal("expected parse to fail")
	}
	if len(log.errors) != 1 {
		t.Fatalf("expected exactly one error line, got %d: %v", len(log.errors), log.errors)
	}
	return log.errors[0]
}

// parseStmnts parses a statement list by wrapping it in a function body.
func parseStmnts(t *testing.T, body string) []Stmnt {
	t.Helper()
	program := parseSource(t, "void main() {\n"+body+"\n}")
	fn := program.GlobalDecls[0].(*FunctionDecl)
	if fn.CodeBlock == nil {
		t.Fatal("expected function body")
	}
	return fn.CodeBlock.Stmnts
}

func TestParseEmptyInput(t *testing.T) {
	program := parseSource(t, "")
	if len(program.GlobalDecls) != 0 {
		t.Errorf("expected no global declarations, got %d", len(program.GlobalDecls))
	}
}

func TestParseFunctionDecl(t *testing.T) {
	program := parseSource(t, "float4 main() : SV_Target { return float4(1, 0, 0, 1); }")

	if len(program.GlobalDecls) != 1 {
		t.Fatalf("expected 1 global declaration, got %d", len(program.GlobalDecls))
	}
	fn, ok := program.GlobalDecls[0].(*FunctionDecl)
	if !ok {
		t.Fatalf("expected FunctionDecl, got %T", program.GlobalDecls[0])
	}
	if fn.Name != "main" {
		t.Errorf("expected function name 'main', got %q", fn.Name)
	}
	if fn.ReturnType == nil || fn.ReturnType.BaseType != "float4" {
		t.Errorf("expected return type 'float4', got %+v", fn.ReturnType)
	}
	if fn.Semantic != "SV_Target" {
		t.Errorf("expected semantic 'SV_Target', got %q", fn.Semantic)
	}
	if len(fn.Parameters) != 0 {
		t.Errorf("expected no parameters, got %d", len(fn.Parameters))
	}
	if fn.CodeBlock == nil {
		t.Fatal("expected function body")
	}
	if len(fn.CodeBlock.Stmnts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(fn.CodeBlock.Stmnts))
	}

	ret, ok := fn.CodeBlock.Stmnts[0].(*ReturnStmnt)
	if !ok {
		t.Fatalf("expected ReturnStmnt, got %T", fn.CodeBlock.Stmnts[0])
	}
	call, ok := ret.Expr.(*FunctionCallExpr)
	if !ok {
		t.Fatalf("expected FunctionCallExpr, got %T", ret.Expr)
	}
	if call.Call.Name.Ident != "float4" {
		t.Errorf("expected constructor 'float4', got %q", call.Call.Name.Ident)
	}
	if len(call.Call.Arguments) != 4 {
		t.Fatalf("expected 4 arguments, got %d", len(call.Call.Arguments))
	}
	for i, want := range []string{"1", "0", "0", "1"} {
		lit, ok := call.Call.Arguments[i].(*LiteralExpr)
		if !ok {
			t.Fatalf("argument %d: expected LiteralExpr, got %T", i, call.Call.Arguments[i])
		}
		if lit.Literal != want {
			t.Errorf("argument %d: expected %q, got %q", i, want, lit.Literal)
		}
	}
}

func TestParseForwardDecl(t *testing.T) {
	program := parseSource(t, "float4 shade(float3 normal);")
	fn := program.GlobalDecls[0].(*FunctionDecl)
	if fn.CodeBlock != nil {
		t.Error("expected no body for forward declaration")
	}
	if len(fn.Parameters) != 1 {
		t.Fatalf("expected 1 parameter, got %d", len(fn.Parameters))
	}
	param := fn.Parameters[0]
	if param.VarType.BaseType != "float3" {
		t.Errorf("expected parameter type 'float3', got %q", param.VarType.BaseType)
	}
	if len(param.VarDecls) != 1 || param.VarDecls[0].Name != "normal" {
		t.Errorf("expected parameter 'normal', got %+v", param.VarDecls)
	}
	if param.VarDecls[0].DeclStmntRef != param {
		t.Error("parameter VarDecl not decorated with its declaration statement")
	}
}

func TestParseParameterModifiers(t *testing.T) {
	program := parseSource(t, "void f(inout const float3 v, out int n) {}")
	fn := program.GlobalDecls[0].(*FunctionDecl)
	if len(fn.Parameters) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(fn.Parameters))
	}
	first := fn.Parameters[0]
	if first.InputModifier != "inout" {
		t.Errorf("expected input modifier 'inout', got %q", first.InputModifier)
	}
	if len(first.TypeModifiers) != 1 || first.TypeModifiers[0] != "const" {
		t.Errorf("expected type modifier 'const', got %v", first.TypeModifiers)
	}
	if fn.Parameters[1].InputModifier != "out" {
		t.Errorf("expected input modifier 'out', got %q", fn.Parameters[1].InputModifier)
	}
}

func TestParseUniformBufferDecl(t *testing.T) {
	program := parseSource(t, "cbuffer C : register(b0) { float a; float4 b; };")

	buf, ok := program.GlobalDecls[0].(*UniformBufferDecl)
	if !ok {
		t.Fatalf("expected UniformBufferDecl, got %T", program.GlobalDecls[0])
	}
	if buf.BufferType != "cbuffer" {
		t.Errorf("expected buffer type 'cbuffer', got %q", buf.BufferType)
	}
	if buf.Name != "C" {
		t.Errorf("expected buffer name 'C', got %q", buf.Name)
	}
	if buf.RegisterName != "b0" {
		t.Errorf("expected register 'b0', got %q", buf.RegisterName)
	}
	if len(buf.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(buf.Members))
	}
	if buf.Members[0].VarType.BaseType != "float" || buf.Members[0].VarDecls[0].Name != "a" {
		t.Errorf("unexpected first member: %+v", buf.Members[0])
	}
	if buf.Members[1].VarType.BaseType != "float4" || buf.Members[1].VarDecls[0].Name != "b" {
		t.Errorf("unexpected second member: %+v", buf.Members[1])
	}
}

func TestParseStructDecl(t *testing.T) {
	program := parseSource(t, "struct S { float x; };")

	decl, ok := program.GlobalDecls[0].(*StructDecl)
	if !ok {
		t.Fatalf("expected StructDecl, got %T", program.GlobalDecls[0])
	}
	if decl.Structure.Name != "S" {
		t.Errorf("expected struct name 'S', got %q", decl.Structure.Name)
	}
	if len(decl.Structure.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(decl.Structure.Members))
	}
	member := decl.Structure.Members[0]
	if member.VarType.BaseType != "float" || member.VarDecls[0].Name != "x" {
		t.Errorf("unexpected member: %+v", member)
	}
}

func TestParseStructDeclStmntAndUse(t *testing.T) {
	stmnts := parseStmnts(t, "struct S { float x; }; S s;")
	if len(stmnts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmnts))
	}

	structStmnt, ok := stmnts[0].(*StructDeclStmnt)
	if !ok {
		t.Fatalf("expected StructDeclStmnt, got %T", stmnts[0])
	}
	if structStmnt.Structure.Name != "S" {
		t.Errorf("expected struct name 'S', got %q", structStmnt.Structure.Name)
	}

	varStmnt, ok := stmnts[1].(*VarDeclStmnt)
	if !ok {
		t.Fatalf("expected VarDeclStmnt, got %T", stmnts[1])
	}
	if varStmnt.VarType.BaseType != "S" {
		t.Errorf("expected base type 'S', got %q", varStmnt.VarType.BaseType)
	}
	if len(varStmnt.VarDecls) != 1 || varStmnt.VarDecls[0].Name != "s" {
		t.Errorf("expected variable 's', got %+v", varStmnt.VarDecls)
	}
}

func TestParseStructTypedVarDeclStmnt(t *testing.T) {
	stmnts := parseStmnts(t, "struct Light { float3 dir; } light;")
	varStmnt, ok := stmnts[0].(*VarDeclStmnt)
	if !ok {
		t.Fatalf("expected VarDeclStmnt, got %T", stmnts[0])
	}
	if varStmnt.VarType.StructType == nil {
		t.Fatal("expected structure type")
	}
	if varStmnt.VarType.BaseType != "" {
		t.Errorf("expected empty base type with structure type, got %q", varStmnt.VarType.BaseType)
	}
	if varStmnt.VarType.SymbolRef != varStmnt.VarType.StructType {
		t.Error("expected SymbolRef to reference the owned structure")
	}
	if varStmnt.VarDecls[0].Name != "light" {
		t.Errorf("expected variable 'light', got %q", varStmnt.VarDecls[0].Name)
	}
	if varStmnt.VarDecls[0].DeclStmntRef != varStmnt {
		t.Error("VarDecl not decorated with its declaration statement")
	}
}

func TestParseCastExpr(t *testing.T) {
	stmnts := parseStmnts(t, "int x = (int)y + 1;")

	varStmnt := stmnts[0].(*VarDeclStmnt)
	if varStmnt.VarType.BaseType != "int" {
		t.Errorf("expected base type 'int', got %q", varStmnt.VarType.BaseType)
	}
	decl := varStmnt.VarDecls[0]
	if decl.Name != "x" {
		t.Errorf("expected variable 'x', got %q", decl.Name)
	}

	bin, ok := decl.Initializer.(*BinaryExpr)
	if !ok {
		t.Fatalf("expected BinaryExpr initializer, got %T", decl.Initializer)
	}
	if bin.Op != "+" {
		t.Errorf("expected operator '+', got %q", bin.Op)
	}

	cast, ok := bin.LhsExpr.(*CastExpr)
	if !ok {
		t.Fatalf("expected CastExpr, got %T", bin.LhsExpr)
	}
	typeName, ok := cast.TypeExpr.(*TypeNameExpr)
	if !ok {
		t.Fatalf("expected TypeNameExpr, got %T", cast.TypeExpr)
	}
	if typeName.TypeName != "int" {
		t.Errorf("expected type name 'int', got %q", typeName.TypeName)
	}
	access, ok := cast.Expr.(*VarAccessExpr)
	if !ok {
		t.Fatalf("expected VarAccessExpr, got %T", cast.Expr)
	}
	if access.VarIdent.Ident != "y" {
		t.Errorf("expected identifier 'y', got %q", access.VarIdent.Ident)
	}

	lit, ok := bin.RhsExpr.(*LiteralExpr)
	if !ok || lit.Literal != "1" {
		t.Errorf("expected literal '1', got %T %+v", bin.RhsExpr, bin.RhsExpr)
	}
}

func TestParseBracketExpr(t *testing.T) {
	// "(x) + 1" keeps the bracket: '+' does not begin a primary expression.
	stmnts := parseStmnts(t, "int a = (x) + 1;")
	decl := stmnts[0].(*VarDeclStmnt).VarDecls[0]
	bin := decl.Initializer.(*BinaryExpr)
	if _, ok := bin.LhsExpr.(*BracketExpr); !ok {
		t.Fatalf("expected BracketExpr, got %T", bin.LhsExpr)
	}
}

func TestParseCastOfVarIdentType(t *testing.T) {
	// "(S) v" is read as a cast because v starts a primary expression.
	stmnts := parseStmnts(t, "int a = (S) v;")
	decl := stmnts[0].(*VarDeclStmnt).VarDecls[0]
	cast, ok := decl.Initializer.(*CastExpr)
	if !ok {
		t.Fatalf("expected CastExpr, got %T", decl.Initializer)
	}
	access, ok := cast.TypeExpr.(*VarAccessExpr)
	if !ok {
		t.Fatalf("expected VarAccessExpr type, got %T", cast.TypeExpr)
	}
	if access.AssignExpr != nil {
		t.Error("cast type expression must not carry an assignment")
	}
}

func TestParseForLoop(t *testing.T) {
	stmnts := parseStmnts(t, "for (int i = 0; i < n; ++i) { a[i] = 0; }")

	loop, ok := stmnts[0].(*ForLoopStmnt)
	if !ok {
		t.Fatalf("expected ForLoopStmnt, got %T", stmnts[0])
	}

	initStmnt, ok := loop.InitStmnt.(*VarDeclStmnt)
	if !ok {
		t.Fatalf("expected VarDeclStmnt init, got %T", loop.InitStmnt)
	}
	if initStmnt.VarType.BaseType != "int" || initStmnt.VarDecls[0].Name != "i" {
		t.Errorf("unexpected init statement: %+v", initStmnt)
	}

	cond, ok := loop.Condition.(*BinaryExpr)
	if !ok || cond.Op != "<" {
		t.Fatalf("expected '<' condition, got %T %+v", loop.Condition, loop.Condition)
	}

	iter, ok := loop.Iteration.(*UnaryExpr)
	if !ok || iter.Op != "++" {
		t.Fatalf("expected '++' iteration, got %T %+v", loop.Iteration, loop.Iteration)
	}

	body, ok := loop.BodyStmnt.(*CodeBlockStmnt)
	if !ok {
		t.Fatalf("expected CodeBlockStmnt body, got %T", loop.BodyStmnt)
	}
	assign, ok := body.CodeBlock.Stmnts[0].(*AssignStmnt)
	if !ok {
		t.Fatalf("expected AssignStmnt, got %T", body.CodeBlock.Stmnts[0])
	}
	if assign.VarIdent.Ident != "a" {
		t.Errorf("expected assignment target 'a', got %q", assign.VarIdent.Ident)
	}
	if len(assign.VarIdent.ArrayIndices) != 1 {
		t.Fatalf("expected 1 array index, got %d", len(assign.VarIdent.ArrayIndices))
	}
	if assign.Op != "=" {
		t.Errorf("expected operator '=', got %q", assign.Op)
	}
	lit, ok := assign.Expr.(*LiteralExpr)
	if !ok || lit.Literal != "0" {
		t.Errorf("expected literal '0', got %T", assign.Expr)
	}
}

func TestParseWhileAndDoWhile(t *testing.T) {
	stmnts := parseStmnts(t, "while (n > 0) n = n - 1; do { n = n + 1; } while (n < 8);")

	while, ok := stmnts[0].(*WhileLoopStmnt)
	if !ok {
		t.Fatalf("expected WhileLoopStmnt, got %T", stmnts[0])
	}
	if _, ok := while.BodyStmnt.(*AssignStmnt); !ok {
		t.Errorf("expected AssignStmnt body, got %T", while.BodyStmnt)
	}

	doWhile, ok := stmnts[1].(*DoWhileLoopStmnt)
	if !ok {
		t.Fatalf("expected DoWhileLoopStmnt, got %T", stmnts[1])
	}
	if _, ok := doWhile.BodyStmnt.(*CodeBlockStmnt); !ok {
		t.Errorf("expected CodeBlockStmnt body, got %T", doWhile.BodyStmnt)
	}
	if _, ok := doWhile.Condition.(*BinaryExpr); !ok {
		t.Errorf("expected BinaryExpr condition, got %T", doWhile.Condition)
	}
}

func TestParseIfElseChain(t *testing.T) {
	stmnts := parseStmnts(t, "if (a) x = 1; else if (b) x = 2; else x = 3;")

	ifStmnt, ok := stmnts[0].(*IfStmnt)
	if !ok {
		t.Fatalf("expected IfStmnt, got %T", stmnts[0])
	}
	if ifStmnt.ElseStmnt == nil {
		t.Fatal("expected else branch")
	}
	nested, ok := ifStmnt.ElseStmnt.BodyStmnt.(*IfStmnt)
	if !ok {
		t.Fatalf("expected nested IfStmnt in else branch, got %T", ifStmnt.ElseStmnt.BodyStmnt)
	}
	if nested.ElseStmnt == nil {
		t.Fatal("expected final else branch")
	}
	if _, ok := nested.ElseStmnt.BodyStmnt.(*AssignStmnt); !ok {
		t.Errorf("expected AssignStmnt in final else, got %T", nested.ElseStmnt.BodyStmnt)
	}
}

func TestParseSwitch(t *testing.T) {
	stmnts := parseStmnts(t, `switch (mode) {
case 0:
	x = 1;
	break;
default:
	x = 2;
}`)

	sw, ok := stmnts[0].(*SwitchStmnt)
	if !ok {
		t.Fatalf("expected SwitchStmnt, got %T", stmnts[0])
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}

	first := sw.Cases[0]
	if first.Expr == nil {
		t.Error("expected case selector expression")
	}
	if len(first.Stmnts) != 2 {
		t.Fatalf("expected 2 statements in first case (break included), got %d", len(first.Stmnts))
	}
	ctrl, ok := first.Stmnts[1].(*CtrlTransferStmnt)
	if !ok || ctrl.Instruction != "break" {
		t.Errorf("expected break statement, got %T", first.Stmnts[1])
	}

	if sw.Cases[1].Expr != nil {
		t.Error("expected nil selector for default case")
	}
}

func TestParseCtrlTransfer(t *testing.T) {
	stmnts := parseStmnts(t, "while (true) { if (x) discard; continue; }")
	while := stmnts[0].(*WhileLoopStmnt)
	block := while.BodyStmnt.(*CodeBlockStmnt).CodeBlock

	ifStmnt := block.Stmnts[0].(*IfStmnt)
	disc, ok := ifStmnt.BodyStmnt.(*CtrlTransferStmnt)
	if !ok || disc.Instruction != "discard" {
		t.Errorf("expected discard, got %T", ifStmnt.BodyStmnt)
	}
	cont, ok := block.Stmnts[1].(*CtrlTransferStmnt)
	if !ok || cont.Instruction != "continue" {
		t.Errorf("expected continue, got %T", block.Stmnts[1])
	}
}

func TestParseTextureDecl(t *testing.T) {
	program := parseSource(t, "Texture2D<float> tex0 : register(t0), tex1;")

	tex, ok := program.GlobalDecls[0].(*TextureDecl)
	if !ok {
		t.Fatalf("expected TextureDecl, got %T", program.GlobalDecls[0])
	}
	if tex.TextureType != "Texture2D" {
		t.Errorf("expected texture type 'Texture2D', got %q", tex.TextureType)
	}
	if tex.ColorType != "float" {
		t.Errorf("expected color type 'float', got %q", tex.ColorType)
	}
	if len(tex.Names) != 2 {
		t.Fatalf("expected 2 names, got %d", len(tex.Names))
	}
	if tex.Names[0].Ident != "tex0" || tex.Names[0].RegisterName != "t0" {
		t.Errorf("unexpected first name: %+v", tex.Names[0])
	}
	if tex.Names[1].Ident != "tex1" || tex.Names[1].RegisterName != "" {
		t.Errorf("unexpected second name: %+v", tex.Names[1])
	}
}

func TestParseSamplerDecl(t *testing.T) {
	program := parseSource(t, "SamplerState linearSampler : register(s0);")

	smp, ok := program.GlobalDecls[0].(*SamplerDecl)
	if !ok {
		t.Fatalf("expected SamplerDecl, got %T", program.GlobalDecls[0])
	}
	if smp.SamplerType != "SamplerState" {
		t.Errorf("expected sampler type 'SamplerState', got %q", smp.SamplerType)
	}
	if len(smp.Names) != 1 || smp.Names[0].Ident != "linearSampler" || smp.Names[0].RegisterName != "s0" {
		t.Errorf("unexpected names: %+v", smp.Names)
	}
}

func TestParseDirectives(t *testing.T) {
	program := parseSource(t, "#include \"common.hlsl\"\nvoid main() {\n#define N 4\n}")

	directive, ok := program.GlobalDecls[0].(*DirectiveDecl)
	if !ok {
		t.Fatalf("expected DirectiveDecl, got %T", program.GlobalDecls[0])
	}
	if directive.Line != "#include \"common.hlsl\"" {
		t.Errorf("expected verbatim directive, got %q", directive.Line)
	}

	fn := program.GlobalDecls[1].(*FunctionDecl)
	stmnt, ok := fn.CodeBlock.Stmnts[0].(*DirectiveStmnt)
	if !ok {
		t.Fatalf("expected DirectiveStmnt, got %T", fn.CodeBlock.Stmnts[0])
	}
	if stmnt.Line != "#define N 4" {
		t.Errorf("expected verbatim directive, got %q", stmnt.Line)
	}
}

func TestParseFunctionAttributes(t *testing.T) {
	program := parseSource(t, "[numthreads(8, 8, 1)] void main() {}")

	fn := program.GlobalDecls[0].(*FunctionDecl)
	if len(fn.Attribs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(fn.Attribs))
	}
	attrib := fn.Attribs[0]
	if attrib.Name.Ident != "numthreads" {
		t.Errorf("expected attribute 'numthreads', got %q", attrib.Name.Ident)
	}
	if len(attrib.Arguments) != 3 {
		t.Errorf("expected 3 attribute arguments, got %d", len(attrib.Arguments))
	}
}

func TestParseLoopAttributes(t *testing.T) {
	stmnts := parseStmnts(t, "[unroll] for (int i = 0; i < 4; ++i) x = x + i;")

	loop := stmnts[0].(*ForLoopStmnt)
	if len(loop.Attribs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(loop.Attribs))
	}
	if loop.Attribs[0].Name.Ident != "unroll" {
		t.Errorf("expected attribute 'unroll', got %q", loop.Attribs[0].Name.Ident)
	}
	if len(loop.Attribs[0].Arguments) != 0 {
		t.Errorf("expected no attribute arguments, got %d", len(loop.Attribs[0].Arguments))
	}
}

func TestParseVarSemantics(t *testing.T) {
	program := parseSource(t, "cbuffer C { float4 color : packoffset(c0.x); };\nstruct V { float3 pos : POSITION; };")

	buf := program.GlobalDecls[0].(*UniformBufferDecl)
	decl := buf.Members[0].VarDecls[0]
	if len(decl.Semantics) != 1 {
		t.Fatalf("expected 1 semantic, got %d", len(decl.Semantics))
	}
	packOffset := decl.Semantics[0].PackOffset
	if packOffset == nil {
		t.Fatal("expected pack offset")
	}
	if packOffset.RegisterName != "c0" || packOffset.VectorComponent != "x" {
		t.Errorf("unexpected pack offset: %+v", packOffset)
	}

	structure := program.GlobalDecls[1].(*StructDecl).Structure
	member := structure.Members[0].VarDecls[0]
	if len(member.Semantics) != 1 || member.Semantics[0].Semantic != "POSITION" {
		t.Errorf("unexpected semantics: %+v", member.Semantics)
	}
}

func TestParseTernaryExpr(t *testing.T) {
	stmnts := parseStmnts(t, "x = a ? b : c;")
	assign := stmnts[0].(*AssignStmnt)
	tern, ok := assign.Expr.(*TernaryExpr)
	if !ok {
		t.Fatalf("expected TernaryExpr, got %T", assign.Expr)
	}
	if tern.Condition == nil || tern.IfExpr == nil || tern.ElseExpr == nil {
		t.Error("ternary expression missing operands")
	}
}

func TestParseListExpr(t *testing.T) {
	stmnts := parseStmnts(t, "return a, b;")
	ret := stmnts[0].(*ReturnStmnt)
	list, ok := ret.Expr.(*ListExpr)
	if !ok {
		t.Fatalf("expected ListExpr, got %T", ret.Expr)
	}
	if list.FirstExpr == nil || list.NextExpr == nil {
		t.Error("list expression missing elements")
	}
}

func TestParseInitializerExpr(t *testing.T) {
	stmnts := parseStmnts(t, "int a[3] = { 1, 2, 3, };")
	varStmnt := stmnts[0].(*VarDeclStmnt)
	decl := varStmnt.VarDecls[0]
	if len(decl.ArrayDims) != 1 {
		t.Fatalf("expected 1 array dimension, got %d", len(decl.ArrayDims))
	}
	init, ok := decl.Initializer.(*InitializerExpr)
	if !ok {
		t.Fatalf("expected InitializerExpr, got %T", decl.Initializer)
	}
	if len(init.Exprs) != 3 {
		t.Errorf("expected 3 initializer elements, got %d", len(init.Exprs))
	}
}

func TestParsePostUnaryStmnt(t *testing.T) {
	stmnts := parseStmnts(t, "i++;")
	exprStmnt, ok := stmnts[0].(*ExprStmnt)
	if !ok {
		t.Fatalf("expected ExprStmnt, got %T", stmnts[0])
	}
	post, ok := exprStmnt.Expr.(*PostUnaryExpr)
	if !ok {
		t.Fatalf("expected PostUnaryExpr, got %T", exprStmnt.Expr)
	}
	if post.Op != "++" {
		t.Errorf("expected operator '++', got %q", post.Op)
	}
	access, ok := post.Expr.(*VarAccessExpr)
	if !ok || access.VarIdent.Ident != "i" {
		t.Errorf("expected access to 'i', got %T", post.Expr)
	}
}

func TestParseFunctionCallStmnt(t *testing.T) {
	stmnts := parseStmnts(t, "sincos(angle, s, c);")
	callStmnt, ok := stmnts[0].(*FunctionCallStmnt)
	if !ok {
		t.Fatalf("expected FunctionCallStmnt, got %T", stmnts[0])
	}
	if callStmnt.Call.Name.Ident != "sincos" {
		t.Errorf("expected call to 'sincos', got %q", callStmnt.Call.Name.Ident)
	}
	if len(callStmnt.Call.Arguments) != 3 {
		t.Errorf("expected 3 arguments, got %d", len(callStmnt.Call.Arguments))
	}
}

func TestParseAssignmentInExpression(t *testing.T) {
	stmnts := parseStmnts(t, "x = y = z;")
	assign := stmnts[0].(*AssignStmnt)
	access, ok := assign.Expr.(*VarAccessExpr)
	if !ok {
		t.Fatalf("expected VarAccessExpr, got %T", assign.Expr)
	}
	if access.AssignOp != "=" {
		t.Errorf("expected embedded assignment, got %q", access.AssignOp)
	}
	if access.AssignExpr == nil {
		t.Error("expected embedded assignment expression")
	}
}

func TestParseVarIdentChain(t *testing.T) {
	stmnts := parseStmnts(t, "color = input.material.diffuse;")
	assign := stmnts[0].(*AssignStmnt)
	access := assign.Expr.(*VarAccessExpr)

	chain := access.VarIdent
	var idents []string
	for vi := chain; vi != nil; vi = vi.Next {
		idents = append(idents, vi.Ident)
	}
	want := []string{"input", "material", "diffuse"}
	if len(idents) != len(want) {
		t.Fatalf("expected chain %v, got %v", want, idents)
	}
	for i := range want {
		if idents[i] != want[i] {
			t.Errorf("chain element %d: expected %q, got %q", i, want[i], idents[i])
		}
	}
	if chain.LastIdent().Ident != "diffuse" {
		t.Errorf("expected last identifier 'diffuse', got %q", chain.LastIdent().Ident)
	}
}

func TestParseRightLeaningBinaryChain(t *testing.T) {
	// No precedence in the parser: a * b + c parses as a * (b + c). A later
	// pass re-balances the chain using precedence tables.
	stmnts := parseStmnts(t, "x = a * b + c;")
	assign := stmnts[0].(*AssignStmnt)

	outer, ok := assign.Expr.(*BinaryExpr)
	if !ok || outer.Op != "*" {
		t.Fatalf("expected '*' at the chain head, got %T", assign.Expr)
	}
	if _, ok := outer.LhsExpr.(*VarAccessExpr); !ok {
		t.Errorf("expected left operand to be a plain access, got %T", outer.LhsExpr)
	}
	inner, ok := outer.RhsExpr.(*BinaryExpr)
	if !ok || inner.Op != "+" {
		t.Fatalf("expected nested '+' on the right, got %T", outer.RhsExpr)
	}
}

func TestParseVoidFunction(t *testing.T) {
	program := parseSource(t, "void main() { ; }")
	fn := program.GlobalDecls[0].(*FunctionDecl)
	if fn.ReturnType.BaseType != "void" {
		t.Errorf("expected void return type, got %q", fn.ReturnType.BaseType)
	}
	if _, ok := fn.CodeBlock.Stmnts[0].(*NullStmnt); !ok {
		t.Errorf("expected NullStmnt, got %T", fn.CodeBlock.Stmnts[0])
	}
}

func TestParseVoidParameterRejected(t *testing.T) {
	msg := parseError(t, "float f(void x) { return 1; }")
	if !strings.Contains(msg, "'void' type not allowed in this context") {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestParseSyntaxError(t *testing.T) {
	msg := parseError(t, "float ;")
	if !strings.HasPrefix(msg, "syntax error (") {
		t.Errorf("expected 'syntax error (' prefix, got %q", msg)
	}
	if !strings.Contains(msg, "test.hlsl:1:7") {
		t.Errorf("expected position of ';' (1:7), got %q", msg)
	}
	if !strings.Contains(msg, "unexpected token ';'") {
		t.Errorf("expected offending spelling, got %q", msg)
	}
}

func TestParseErrorSpellingMismatch(t *testing.T) {
	msg := parseError(t, "Texture2D<float< tex;")
	if !strings.Contains(msg, "unexpected token spelling '<' (expected '>')") {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestParseErrorPrimaryExprHint(t *testing.T) {
	msg := parseError(t, "void main() { return }; }")
	if !strings.Contains(msg, "expected primary expression") {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestParseErrorIdentDisambiguation(t *testing.T) {
	msg := parseError(t, "void main() { a.b c; }")
	if !strings.Contains(msg, "expected variable declaration, assignment or function call statement") {
		t.Errorf("unexpected error message: %q", msg)
	}
}

func TestParseErrorTypeSpecifierHint(t *testing.T) {
	msg := parseError(t, "void f(;) {}")
	if !strings.Contains(msg, "expected type specifier") {
		t.Errorf("unexpected error message: %q", msg)
	}
}
