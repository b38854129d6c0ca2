package eval

import (
	"fmt"
	"reflect"

	"github.com/cogentcore/yaegi/interp"
	"github.com/cogentcore/yaegi/stdlib"
)

// Interp is an Evaluator backed by the yaegi Go interpreter. Each Compile
// runs in a fresh interpreter with the standard library symbols available,
// so user sources may `import "math"` and declare plain top-level Go
// functions:
//
//	func rng(state int64) int64 { return state*48271 % 2147483647 }
//
// A Program and the Funcs resolved from it are confined to the single
// goroutine of the worker that compiled them; the interpreter is not safe
// for concurrent calls.
type Interp struct{}

// New returns a yaegi-backed Evaluator.
func New() *Interp { return &Interp{} }

// Compile evaluates the source in a fresh interpreter.
func (in *Interp) Compile(source string) (Program, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, &CompileError{fmt.Errorf("interpreter init: %w", err)}
	}
	if _, err := i.Eval(source); err != nil {
		return nil, &CompileError{err}
	}
	return &program{interp: i}, nil
}

type program struct {
	interp *interp.Interpreter
}

func (p *program) Func(name string) (Func, error) {
	v, err := p.interp.Eval(name)
	if err != nil {
		return nil, &CompileError{fmt.Errorf("function %q not found: %w", name, err)}
	}
	if v.Kind() != reflect.Func {
		return nil, &CompileError{fmt.Errorf("%q is not a function", name)}
	}
	t := v.Type()
	if t.NumOut() != 1 {
		return nil, &CompileError{fmt.Errorf("function %q must return exactly one value, returns %d", name, t.NumOut())}
	}
	for i := 0; i < t.NumIn(); i++ {
		if !numericKind(t.In(i).Kind()) {
			return nil, &CompileError{fmt.Errorf("function %q: argument %d has unsupported type %s", name, i, t.In(i))}
		}
	}
	if !numericKind(t.Out(0).Kind()) {
		return nil, &CompileError{fmt.Errorf("function %q: result has unsupported type %s", name, t.Out(0))}
	}
	return &yaegiFunc{name: name, fn: v}, nil
}

type yaegiFunc struct {
	name string
	fn   reflect.Value
}

func (f *yaegiFunc) Arity() int { return f.fn.Type().NumIn() }

// Call bridges float64 arguments to the function's declared parameter
// kinds and the result back to float64. Panics raised by interpreted code
// (index errors, explicit panic, division by zero) are recovered and
// reported as an *EvalError.
func (f *yaegiFunc) Call(args ...float64) (res float64, err error) {
	t := f.fn.Type()
	if len(args) != t.NumIn() {
		return 0, &EvalError{fmt.Errorf("%s: called with %d argument(s), want %d", f.name, len(args), t.NumIn())}
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		pt := t.In(i)
		switch pt.Kind() {
		case reflect.Float32, reflect.Float64:
			in[i] = reflect.ValueOf(a).Convert(pt)
		default:
			// Integer parameter: truncate, matching integer recurrence
			// semantics.
			in[i] = reflect.ValueOf(int64(a)).Convert(pt)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = &EvalError{fmt.Errorf("%s: %v", f.name, r)}
		}
	}()

	out := f.fn.Call(in)[0]
	switch out.Kind() {
	case reflect.Float32, reflect.Float64:
		return out.Float(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(out.Uint()), nil
	default:
		return float64(out.Int()), nil
	}
}

func numericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
