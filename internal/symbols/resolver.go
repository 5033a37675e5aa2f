package symbols

import (
	"fmt"

	"deducels/internal/ast"
	"deducels/internal/diag"
	"deducels/internal/source"
)

// Resolver drives scope management and declaration/lookup routines.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	stack    []ScopeID
}

func newResolver(table *Table, reporter diag.Reporter) *Resolver {
	return &Resolver{
		table:    table,
		reporter: reporter,
		stack:    make([]ScopeID, 0, 8),
	}
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Enter creates a child scope governed by owner and makes it current.
func (r *Resolver) Enter(kind ScopeKind, owner *ast.Node, name string) ScopeID {
	scope := r.table.Scopes.New(kind, r.CurrentScope(), owner, name)
	r.table.scopeOf[owner] = scope
	r.stack = append(r.stack, scope)
	return scope
}

// Leave pops the current scope. Несовпадение — дефект обхода, паникуем.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		panic("symbols: leave on empty scope stack")
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		panic(fmt.Sprintf("symbols: scope mismatch: leaving %d, top is %d", expected, top))
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// DeclareIn installs a symbol into scopeID. A second binding of the same name
// in the same scope is reported as a warning and shadows the first one.
func (r *Resolver) DeclareIn(scopeID ScopeID, sym Symbol) SymbolID {
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID
	}
	if prev := scope.Latest(sym.Name); prev.IsValid() {
		r.reportDuplicateSymbol(scope, sym, r.table.Symbols.Get(prev))
	}
	sym.Scope = scopeID
	id := r.table.Symbols.New(&sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[sym.Name] = append(scope.NameIndex[sym.Name], id)
	return id
}

// Lookup walks the scope chain searching for a symbol with the given name.
func (r *Resolver) Lookup(name string) SymbolID {
	return r.table.Lookup(r.CurrentScope(), name)
}

// Reference records a use of name at span, resolved from the current scope.
func (r *Resolver) Reference(name string, span source.Span) {
	r.table.Refs = append(r.table.Refs, Reference{
		Span:   span,
		Name:   name,
		Symbol: r.Lookup(name),
		Scope:  r.CurrentScope(),
	})
}

func (r *Resolver) reportDuplicateSymbol(scope *Scope, sym Symbol, prev *Symbol) {
	if r.reporter == nil {
		return
	}
	msg := fmt.Sprintf("'%s' is already declared in this %s scope; the new %s shadows it",
		sym.Name, scope.Kind, sym.Kind)
	b := diag.ReportWarning(r.reporter, diag.SemaDuplicateSymbol, sym.Span, msg)
	if prev != nil {
		b.WithNote(prev.Span, "previous declaration here")
	}
	b.Emit()
}
