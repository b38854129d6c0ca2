// Package eval defines the contract between the generation workers and the
// embedded expression evaluator, plus a yaegi-backed implementation.
//
// The workers only ever see this interface: source text goes in, named
// callable numeric functions come out. Everything crosses the boundary as
// float64; implementations bridge whatever numeric kinds the compiled
// functions actually declare.
package eval

import "fmt"

// Func is a compiled numeric function. Call invokes it with exactly
// Arity() arguments.
type Func interface {
	// Arity returns the declared argument count.
	Arity() int
	// Call invokes the function. A failure during execution (panic in user
	// code, unsupported value kind) is returned as an *EvalError.
	Call(args ...float64) (float64, error)
}

// Program is a compiled unit of user source. Functions are resolved by name
// after compilation.
type Program interface {
	// Func resolves a declared top-level function. A missing name or a
	// non-function value is a *CompileError.
	Func(name string) (Func, error)
}

// Evaluator compiles user source text into a Program.
type Evaluator interface {
	Compile(source string) (Program, error)
}

// CompileError reports source that failed to compile, or a required
// function that is missing or has the wrong shape. Workers surface it as a
// message and do not start generating.
type CompileError struct {
	Err error
}

func (e *CompileError) Error() string { return "compile: " + e.Err.Error() }
func (e *CompileError) Unwrap() error { return e.Err }

// EvalError reports a call that failed at runtime. Workers abort the
// in-flight batch or command and surface the message.
type EvalError struct {
	Err error
}

func (e *EvalError) Error() string { return "eval: " + e.Err.Error() }
func (e *EvalError) Unwrap() error { return e.Err }

// CheckArity resolves name in the program and verifies its declared
// argument count, returning the function on success. An arity mismatch is
// rejected here, before any sampling begins.
func CheckArity(p Program, name string, arity int) (Func, error) {
	fn, err := p.Func(name)
	if err != nil {
		return nil, err
	}
	if fn.Arity() != arity {
		return nil, &CompileError{fmt.Errorf("function %q must take exactly %d argument(s), got %d", name, arity, fn.Arity())}
	}
	return fn, nil
}
