package ir

import "github.com/pkg/errors"

// BasicBlock is a straight-line run of instructions ending in exactly
// one terminator (Jump, JumpIf, JumpIfNot or Return).
type BasicBlock struct {
	Label      string
	Instrs     []Instruction
	Terminator Instruction
}

// Parameter is one (name, type) formal argument of a Function.
type Parameter struct {
	Name string
	Type Type
}

// Function is one lowered, register-allocated routine.
type Function struct {
	Name          string
	Params        []Parameter
	ReturnType    Type
	Blocks        []*BasicBlock
	RegisterCount int
}

// Block looks up one of the function's basic blocks by label.
func (f *Function) Block(label string) (*BasicBlock, bool) {
	for _, b := range f.Blocks {
		if b.Label == label {
			return b, true
		}
	}
	return nil, false
}

// Module groups the functions and named type definitions lowered from
// a single source file.
type Module struct {
	Name      string
	Functions map[string]*Function
	Types     map[string]Type
}

func NewModule(name string) *Module {
	return &Module{Name: name, Functions: map[string]*Function{}, Types: map[string]Type{}}
}

// EntryPointName returns "main" if the module defines a function by
// that name, else "" (no entry point for this module).
func (m *Module) EntryPointName() string {
	if _, ok := m.Functions["main"]; ok {
		return "main"
	}
	return ""
}

// Program is the top-level unit the C emitter consumes: every module
// making up a compilation, plus the name of its entry function (the
// synthetic `main` irgen builds for top-level expressions, or "" if
// there is none). The C emitter does not read EntryPoint.
type Program struct {
	Modules    []*Module
	EntryPoint string
}

// Validate checks every function's CFG: every block ends in a
// terminator, every jump target names a label defined in the same
// function, and no label is defined twice.
func (p *Program) Validate() error {
	for _, m := range p.Modules {
		for _, fn := range m.Functions {
			if err := fn.Validate(); err != nil {
				return errors.Wrapf(err, "module %s", m.Name)
			}
		}
	}
	return nil
}

func (f *Function) Validate() error {
	labels := make(map[string]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		if labels[b.Label] {
			return errors.Errorf("function %s: duplicate block label %q", f.Name, b.Label)
		}
		labels[b.Label] = true
	}
	for _, b := range f.Blocks {
		if b.Terminator == nil || !IsTerminator(b.Terminator) {
			return errors.Errorf("function %s: block %q does not end in a terminator", f.Name, b.Label)
		}
		for _, target := range jumpTargets(b.Terminator) {
			if !labels[target] {
				return errors.Errorf("function %s: block %q jumps to undefined label %q", f.Name, b.Label, target)
			}
		}
	}
	return nil
}

func jumpTargets(term Instruction) []string {
	switch t := term.(type) {
	case Jump:
		return []string{t.Target}
	case JumpIf:
		return []string{t.Target, t.Next}
	case JumpIfNot:
		return []string{t.Target, t.Next}
	default:
		return nil
	}
}
