package dwarf

// Variable is one formal parameter or local variable attached to a
// function or a lexical block within it.
type Variable struct {
	Name        string
	TypeOffset  uint64
	Location    VariableLocation
	IsParameter bool
}

// Scope is one lexical block nested inside a function: a sub-range of
// the function's address span with its own variables.
type Scope struct {
	LowPC     uint64
	HighPC    uint64
	Variables []Variable
}

// Function is one subprogram's debug info, flattened out of the raw DIE
// tree into the shape callers actually want: its address range, its
// declared source position, and every variable reachable from it.
type Function struct {
	Name       string
	LowPC      uint64
	HighPC     uint64
	DeclFile   int
	DeclLine   int
	Parameters []Variable
	Locals     []Variable
	Scopes     []Scope
}

// Info is the enrichment view over a Data: every function in the object,
// queryable by address instead of by walking DIE offsets by hand.
type Info struct {
	Functions []*Function
}

// FunctionAt returns the function whose [LowPC, HighPC) span contains pc,
// or nil if none does.
func (i *Info) FunctionAt(pc uint64) *Function {
	for _, f := range i.Functions {
		if pc >= f.LowPC && pc < f.HighPC {
			return f
		}
	}
	return nil
}

// VariablesAt returns every variable visible at pc: the containing
// function's parameters and locals, plus the variables of any lexical
// block whose range contains pc.
func (i *Info) VariablesAt(pc uint64) []Variable {
	fn := i.FunctionAt(pc)
	if fn == nil {
		return nil
	}
	vars := make([]Variable, 0, len(fn.Parameters)+len(fn.Locals))
	vars = append(vars, fn.Parameters...)
	vars = append(vars, fn.Locals...)
	for _, s := range fn.Scopes {
		if pc >= s.LowPC && pc < s.HighPC {
			vars = append(vars, s.Variables...)
		}
	}
	return vars
}

// BuildInfo walks every compilation unit in d and produces the
// enrichment view. Decode errors in an individual variable's location
// expression do not abort the walk: the variable is kept with a nil
// Location so callers can still see its name and type.
func BuildInfo(d *Data) (*Info, error) {
	info := &Info{}
	for _, cu := range d.CUs {
		stack := []*Entry{cu.Root}
		for len(stack) > 0 {
			e := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if e.Tag == TagSubprogram {
				info.Functions = append(info.Functions, buildFunction(e, cu.AddrSize))
			}

			for i := len(e.Children) - 1; i >= 0; i-- {
				stack = append(stack, e.Children[i])
			}
		}
	}
	return info, nil
}

type scopeWork struct {
	entry         *Entry
	targetScopeIx int // -1 means function-level
}

func buildFunction(e *Entry, addrSize int) *Function {
	fn := &Function{Name: e.Name()}
	if v, ok := e.Attr(AttrLowPC); ok {
		fn.LowPC = v.Addr
	}
	if v, ok := e.Attr(AttrHighPC); ok {
		fn.HighPC = v.Addr
	}
	if v, ok := e.Attr(AttrDeclFile); ok {
		fn.DeclFile = int(v.Udata)
	}
	if v, ok := e.Attr(AttrDeclLine); ok {
		fn.DeclLine = int(v.Udata)
	}

	var worklist []scopeWork
	for _, c := range e.Children {
		worklist = append(worklist, scopeWork{entry: c, targetScopeIx: -1})
	}

	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		switch n.entry.Tag {
		case TagFormalParameter:
			v := buildVariable(n.entry, addrSize, true)
			if n.targetScopeIx == -1 {
				fn.Parameters = append(fn.Parameters, v)
			} else {
				fn.Scopes[n.targetScopeIx].Variables = append(fn.Scopes[n.targetScopeIx].Variables, v)
			}

		case TagVariable:
			v := buildVariable(n.entry, addrSize, false)
			if n.targetScopeIx == -1 {
				fn.Locals = append(fn.Locals, v)
			} else {
				fn.Scopes[n.targetScopeIx].Variables = append(fn.Scopes[n.targetScopeIx].Variables, v)
			}

		case TagLexicalBlock:
			scope := Scope{}
			if v, ok := n.entry.Attr(AttrLowPC); ok {
				scope.LowPC = v.Addr
			}
			if v, ok := n.entry.Attr(AttrHighPC); ok {
				scope.HighPC = v.Addr
			}
			fn.Scopes = append(fn.Scopes, scope)
			ix := len(fn.Scopes) - 1
			for _, c := range n.entry.Children {
				worklist = append(worklist, scopeWork{entry: c, targetScopeIx: ix})
			}
		}
	}

	return fn
}

func buildVariable(e *Entry, addrSize int, isParameter bool) Variable {
	v := Variable{Name: e.Name(), IsParameter: isParameter}
	if t, ok := e.Attr(AttrType); ok {
		if t.Form == FormRefAddr {
			v.TypeOffset = t.RefAddr
		} else {
			v.TypeOffset = t.Ref
		}
	}
	loc, hasLoc := e.Attr(AttrLocation)
	isBlockForm := loc.Form == FormBlock || loc.Form == FormBlock1 || loc.Form == FormBlock2 || loc.Form == FormBlock4
	if hasLoc && isBlockForm {
		if decoded, err := DecodeLocation(loc.Block, addrSize); err == nil {
			v.Location = decoded
		}
	}
	return v
}
