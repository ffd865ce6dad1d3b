package symtab

import "cshantyc/report"

// Scope is a single lexical scope.
type Scope map[string]*Symbol

// ScopeChain is the stack of scopes active during resolution.  The innermost
// scope is the last element.
type ScopeChain struct {
	scopes []Scope

	// Counters of scope transitions: balanced resolution leaves them equal.
	Entered, Left int
}

// NewScopeChain creates a new empty scope chain.
func NewScopeChain() *ScopeChain {
	return &ScopeChain{}
}

// Enter pushes a new innermost scope.
func (sc *ScopeChain) Enter() {
	sc.scopes = append(sc.scopes, make(Scope))
	sc.Entered++
}

// Leave pops the innermost scope.  Leaving an empty chain is a compiler bug.
func (sc *ScopeChain) Leave() {
	if len(sc.scopes) == 0 {
		report.ICE("Attempt to pop empty symbol table")
	}

	sc.scopes = sc.scopes[:len(sc.scopes)-1]
	sc.Left++
}

// Depth returns the number of active scopes.
func (sc *ScopeChain) Depth() int {
	return len(sc.scopes)
}

// Insert defines a symbol in the innermost scope.  It returns false if the
// name is already defined in that scope.
func (sc *ScopeChain) Insert(sym *Symbol) bool {
	if len(sc.scopes) == 0 {
		report.ICE("attempt to insert `%s` with no active scope", sym.Name)
	}

	curr := sc.scopes[len(sc.scopes)-1]
	if _, ok := curr[sym.Name]; ok {
		return false
	}

	curr[sym.Name] = sym
	return true
}

// Lookup walks outward from the innermost scope and returns the first symbol
// with the given name.
func (sc *ScopeChain) Lookup(name string) (*Symbol, bool) {
	for i := len(sc.scopes) - 1; i >= 0; i-- {
		if sym, ok := sc.scopes[i][name]; ok {
			return sym, true
		}
	}

	return nil, false
}

// LookupLocal looks up a name in the innermost scope only.
func (sc *ScopeChain) LookupLocal(name string) (*Symbol, bool) {
	if len(sc.scopes) == 0 {
		return nil, false
	}

	sym, ok := sc.scopes[len(sc.scopes)-1][name]
	return sym, ok
}
