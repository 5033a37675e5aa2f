package symbols

import (
	"strings"

	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/source"
	"deducels/internal/token"
)

// Options configures Resolve.
type Options struct {
	Reporter diag.Reporter
}

// Result is the output of one resolution pass.
type Result struct {
	Table *Table
	Diags []diag.Diagnostic
}

// fileResolver держит состояние одного прохода по дереву.
type fileResolver struct {
	file  *source.File
	table *Table
	r     *Resolver
}

// Resolve walks root depth-first, building scopes, symbols and references.
// Names are resolved at walk time against what has been declared so far.
func Resolve(file *source.File, root *ast.Node, opts Options) Result {
	col := &diag.Collector{Next: opts.Reporter}
	table := newTable()
	fr := &fileResolver{file: file, table: table, r: newResolver(table, col)}

	table.Root = fr.r.Enter(ScopeModule, root, "")
	for _, st := range root.Children {
		fr.statement(st)
	}
	fr.r.Leave(table.Root)
	table.finish()
	return Result{Table: table, Diags: col.Items}
}

func (fr *fileResolver) statement(st *ast.Node) {
	switch st.Kind {
	case ast.KindImport:
		// импорты разрешаются в workspace по открытым документам
	case ast.KindUnion:
		fr.union(st)
	case ast.KindDefine:
		fr.define(st)
	case ast.KindFun:
		fr.fun(st)
	case ast.KindRecursive:
		fr.recursive(st)
	case ast.KindTheorem:
		fr.theorem(st)
	default:
		fr.walk(st)
	}
}

// text — исходный текст узла с нормализованными пробелами.
func (fr *fileResolver) text(n *ast.Node) string {
	if n == nil {
		return ""
	}
	return strings.Join(strings.Fields(fr.file.Text(n.Span)), " ")
}

func nameOf(n *ast.Node) string {
	if tok := n.NameToken(); tok != nil {
		return tok.Text
	}
	return ""
}

// declare регистрирует binder в текущем scope.
func (fr *fileResolver) declare(binder *ast.Node, kind SymbolKind, decl *ast.Node, typ string, sig *Signature) SymbolID {
	return fr.declareIn(fr.r.CurrentScope(), binder, kind, decl, typ, sig)
}

func (fr *fileResolver) declareIn(scope ScopeID, binder *ast.Node, kind SymbolKind, decl *ast.Node, typ string, sig *Signature) SymbolID {
	tok := binder.NameToken()
	if tok == nil {
		return NoSymbolID
	}
	if tok.Kind == token.Operator {
		kind = SymbolOperator
	}
	return fr.r.DeclareIn(scope, Symbol{
		Name:      tok.Text,
		Kind:      kind,
		Span:      tok.Span,
		Decl:      decl.Span,
		Type:      typ,
		Signature: sig,
	})
}

func (fr *fileResolver) reference(n *ast.Node) {
	if tok := n.NameToken(); tok != nil {
		fr.r.Reference(tok.Text, tok.Span)
	}
}

// operatorRef записывает ссылку на символьный оператор (not/and/or — ключевые слова).
func (fr *fileResolver) operatorRef(leaf *ast.Node) {
	if leaf.IsLeaf() && leaf.Token.Kind == token.Operator {
		fr.r.Reference(leaf.Token.Text, leaf.Token.Span)
	}
}

// walk — обход термов, типов и доказательств.
func (fr *fileResolver) walk(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindToken, ast.KindError, ast.KindImportPath, ast.KindModifier:
		return
	case ast.KindName:
		fr.reference(n)
	case ast.KindBinder:
		// образцы и прочие связывания без особых правил
		fr.declare(n, SymbolLocal, n, "", nil)
	case ast.KindBinary:
		for i, c := range n.Children {
			if i == 1 {
				fr.operatorRef(c)
				continue
			}
			fr.walk(c)
		}
	case ast.KindPrefix:
		fr.operatorRef(n.Child(0))
		fr.walkChildren(n)
	case ast.KindParam:
		fr.param(n, SymbolParam)
	case ast.KindLambda, ast.KindQuantifier, ast.KindBlock:
		scope := fr.r.Enter(ScopeBlock, n, "")
		fr.walkChildren(n)
		fr.r.Leave(scope)
	case ast.KindSwitchCase, ast.KindInductionCase:
		scope := fr.r.Enter(ScopeCase, n, fr.text(n.FirstOf(ast.KindPattern)))
		fr.walkChildren(n)
		fr.r.Leave(scope)
	case ast.KindCasesBranch:
		scope := fr.r.Enter(ScopeCase, n, nameOf(n.FirstOf(ast.KindBinder)))
		fr.walkChildren(n)
		fr.r.Leave(scope)
	case ast.KindLetBinding, ast.KindProofDefine:
		fr.letBinding(n)
	case ast.KindHave, ast.KindSuppose, ast.KindObtain:
		fr.labelled(n)
	case ast.KindArbitrary:
		for _, c := range n.AllOf(ast.KindParam) {
			fr.param(c, SymbolLocal)
		}
	case ast.KindAssumeList:
		for _, c := range n.Children {
			if c.Kind == ast.KindParam {
				fr.param(c, SymbolLocal)
				continue
			}
			fr.walk(c)
		}
	default:
		fr.walkChildren(n)
	}
}

func (fr *fileResolver) walkChildren(n *ast.Node) {
	for _, c := range n.Children {
		fr.walk(c)
	}
}

// childAfter возвращает первого ребёнка после листа, удовлетворяющего pred.
func childAfter(n *ast.Node, pred func(*ast.Node) bool) *ast.Node {
	for i, c := range n.Children {
		if c.IsLeaf() && pred(c) {
			return n.Child(i + 1)
		}
	}
	return nil
}

func isKind(k token.Kind) func(*ast.Node) bool {
	return func(n *ast.Node) bool { return n.Token.Kind == k }
}

func isOp(op string) func(*ast.Node) bool {
	return func(n *ast.Node) bool { return n.Token.IsOp(op) }
}

// annotation — тип после ':' (nil, если его нет или на его месте мусор).
func annotation(n *ast.Node) *ast.Node {
	t := childAfter(n, isKind(token.Colon))
	if t == nil || t.IsLeaf() {
		return nil
	}
	return t
}

// param: x [: T]. Тип разрешается до объявления x.
func (fr *fileResolver) param(n *ast.Node, kind SymbolKind) SymbolID {
	typ := annotation(n)
	fr.walk(typ)
	binder := n.FirstOf(ast.KindBinder)
	if binder == nil {
		return NoSymbolID
	}
	return fr.declare(binder, kind, n, fr.text(typ), nil)
}

func (fr *fileResolver) typeParams(n *ast.Node) {
	for _, b := range n.AllOf(ast.KindBinder) {
		fr.declare(b, SymbolType, b, "type", nil)
	}
}

// let/define внутри блока или доказательства: сначала значение, потом имя.
func (fr *fileResolver) letBinding(n *ast.Node) {
	typ := annotation(n)
	value := childAfter(n, isOp("="))
	fr.walk(typ)
	fr.walk(value)
	if binder := n.FirstOf(ast.KindBinder); binder != nil {
		fr.declare(binder, SymbolLocal, n, fr.text(typ), fr.valueSignature(typ, value))
	}
}

// have/suppose/obtain: метки видны только после своего шага.
func (fr *fileResolver) labelled(n *ast.Node) {
	var binders []*ast.Node
	for _, c := range n.Children {
		if c.Kind == ast.KindBinder {
			binders = append(binders, c)
			continue
		}
		fr.walk(c)
	}
	formula := fr.text(annotation(n))
	for i, b := range binders {
		typ := ""
		if i == len(binders)-1 {
			typ = formula // у obtain формула относится к метке после where
		}
		fr.declare(b, SymbolLocal, n, typ, nil)
	}
}

// union NAME<T> { C(T, ...) ... }
func (fr *fileResolver) union(st *ast.Node) {
	binder := st.FirstOf(ast.KindBinder)
	name := nameOf(binder)
	result := name
	tparams := st.FirstOf(ast.KindTypeParams)
	if tparams != nil {
		result += fr.text(tparams)
	}
	if binder != nil {
		fr.declare(binder, SymbolType, st, "type", nil)
	}

	scope := fr.r.Enter(ScopeType, st, name)
	if tparams != nil {
		fr.typeParams(tparams)
	}
	for _, ctor := range st.AllOf(ast.KindConstructor) {
		var sig *Signature
		if ctor.LeafOf(token.LParen) != nil {
			sig = &Signature{Result: result, Open: "(", Close: ")"}
		}
		for _, c := range ctor.Children {
			if c.IsLeaf() || c.Kind == ast.KindBinder {
				continue
			}
			fr.walk(c)
			if sig != nil && c.Kind != ast.KindError {
				sig.Params = append(sig.Params, Param{Type: fr.text(c)})
			}
		}
		if cb := ctor.FirstOf(ast.KindBinder); cb != nil {
			fr.declareIn(fr.table.Root, cb, SymbolConstructor, ctor, result, sig)
		}
	}
	fr.r.Leave(scope)
}

// define NAME [<T>] [: TYPE] = TERM; имя видно после определения.
func (fr *fileResolver) define(st *ast.Node) {
	typ := annotation(st)
	value := childAfter(st, isOp("="))
	tparams := st.FirstOf(ast.KindTypeParams)
	binder := st.FirstOf(ast.KindBinder)

	if tparams != nil {
		scope := fr.r.Enter(ScopeFunction, st, nameOf(binder))
		fr.typeParams(tparams)
		fr.walk(typ)
		fr.walk(value)
		fr.r.Leave(scope)
	} else {
		fr.walk(typ)
		fr.walk(value)
	}
	if binder != nil {
		fr.declare(binder, SymbolFunction, st, fr.text(typ), fr.valueSignature(typ, value))
	}
}

// valueSignature: параметры лямбды (типы — из аннотации fn, если у параметра нет своего).
func (fr *fileResolver) valueSignature(typ, value *ast.Node) *Signature {
	var fnParams []*ast.Node
	var fnResult *ast.Node
	if typ != nil && typ.Kind == ast.KindTypeFn {
		fnParams, fnResult = splitFnType(typ)
	}
	if value != nil && value.Kind == ast.KindLambda {
		sig := &Signature{Result: fr.text(fnResult), Open: "(", Close: ")"}
		for i, p := range value.FirstOf(ast.KindParamList).AllOf(ast.KindParam) {
			ptype := fr.text(annotation(p))
			if ptype == "" && i < len(fnParams) {
				ptype = fr.text(fnParams[i])
			}
			sig.Params = append(sig.Params, Param{Name: nameOf(p.FirstOf(ast.KindBinder)), Type: ptype})
		}
		return sig
	}
	if fnParams == nil && fnResult == nil {
		return nil
	}
	sig := &Signature{Result: fr.text(fnResult), Open: "(", Close: ")"}
	for _, p := range fnParams {
		sig.Params = append(sig.Params, Param{Type: fr.text(p)})
	}
	return sig
}

// splitFnType разбирает fn A, B -> R на параметры и результат.
func splitFnType(n *ast.Node) (params []*ast.Node, result *ast.Node) {
	arrow := false
	for _, c := range n.Children {
		if c.IsLeaf() {
			if c.Token.Kind == token.Arrow {
				arrow = true
			}
			continue
		}
		if arrow {
			result = c
		} else {
			params = append(params, c)
		}
	}
	return params, result
}

// fun NAME [<T>] (x: A, ...) -> R { body }; имя объявлено до тела (рекурсия).
func (fr *fileResolver) fun(st *ast.Node) {
	binder := st.FirstOf(ast.KindBinder)
	result := childAfter(st, isKind(token.Arrow))
	if result != nil && (result.IsLeaf() || result.Kind == ast.KindBody) {
		result = nil
	}
	sig := &Signature{Result: fr.text(result), Open: "(", Close: ")"}
	for _, p := range st.FirstOf(ast.KindParamList).AllOf(ast.KindParam) {
		sig.Params = append(sig.Params, Param{Name: nameOf(p.FirstOf(ast.KindBinder)), Type: fr.text(annotation(p))})
	}
	if binder != nil {
		fr.declare(binder, SymbolFunction, st, "", sig)
	}

	scope := fr.r.Enter(ScopeFunction, st, nameOf(binder))
	for _, c := range st.Children {
		switch c.Kind {
		case ast.KindBinder:
		case ast.KindTypeParams:
			fr.typeParams(c)
		default:
			fr.walk(c)
		}
	}
	fr.r.Leave(scope)
}

// recursive NAME [<T>] (A, ...) -> R { NAME(pattern, x) = term ... }
func (fr *fileResolver) recursive(st *ast.Node) {
	binder := st.FirstOf(ast.KindBinder)
	sig := &Signature{Open: "(", Close: ")"}
	arrow, inBody := false, false
	for _, c := range st.Children {
		if c.IsLeaf() {
			switch c.Token.Kind {
			case token.Arrow:
				arrow = true
			case token.LBrace:
				inBody = true
			}
			continue
		}
		if inBody || c.Kind == ast.KindBinder || c.Kind == ast.KindTypeParams || c.Kind == ast.KindError {
			continue
		}
		if arrow {
			sig.Result = fr.text(c)
		} else {
			sig.Params = append(sig.Params, Param{Type: fr.text(c)})
		}
	}
	if binder != nil {
		fr.declare(binder, SymbolFunction, st, "", sig)
	}

	scope := fr.r.Enter(ScopeFunction, st, nameOf(binder))
	for _, c := range st.Children {
		switch c.Kind {
		case ast.KindBinder:
		case ast.KindTypeParams:
			fr.typeParams(c)
		case ast.KindEquation:
			fr.equation(c)
		default:
			fr.walk(c)
		}
	}
	fr.r.Leave(scope)
}

// equation: переменные образца — локальные, остальные аргументы — параметры.
func (fr *fileResolver) equation(eq *ast.Node) {
	scope := fr.r.Enter(ScopeCase, eq, fr.text(eq.FirstOf(ast.KindPattern)))
	for _, c := range eq.Children {
		if c.Kind == ast.KindBinder {
			fr.declare(c, SymbolParam, c, "", nil)
			continue
		}
		fr.walk(c)
	}
	fr.r.Leave(scope)
}

// theorem NAME [<T>] : FORMULA proof ... end
func (fr *fileResolver) theorem(st *ast.Node) {
	binder := st.FirstOf(ast.KindBinder)
	formula := annotation(st)
	if binder != nil {
		fr.declare(binder, SymbolTheorem, st, fr.text(formula), fr.theoremSignature(formula))
	}

	scope := fr.r.Enter(ScopeTheorem, st, nameOf(binder))
	for _, c := range st.Children {
		switch c.Kind {
		case ast.KindBinder:
		case ast.KindTypeParams:
			fr.typeParams(c)
		default:
			fr.walk(c)
		}
	}
	fr.r.Leave(scope)
}

// theoremSignature: ведущие all-переменные инстанцируются через thm[...].
func (fr *fileResolver) theoremSignature(formula *ast.Node) *Signature {
	if formula == nil || formula.Kind != ast.KindQuantifier || formula.LeafOf(token.KwAll) == nil {
		return nil
	}
	sig := &Signature{Open: "[", Close: "]"}
	for _, p := range formula.FirstOf(ast.KindParamList).AllOf(ast.KindParam) {
		sig.Params = append(sig.Params, Param{Name: nameOf(p.FirstOf(ast.KindBinder)), Type: fr.text(annotation(p))})
	}
	sig.Result = fr.text(childAfter(formula, isKind(token.Dot)))
	return sig
}
