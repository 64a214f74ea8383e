// Package scripted compiles CEL expressions into btree.Comparator and
// btree.UpdateFunc values over map[string]any records, so a Tree's
// ordering and merge behavior can be defined at configuration time
// instead of compiled into the program.
package scripted

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"

	"github.com/sharedcode/btree"
)

// evaluator wraps a compiled CEL program together with the expression
// it was compiled from, for inclusion in error messages.
type evaluator struct {
	expression string
	program    cel.Program
}

func compile(name, expression string, extraVars ...cel.EnvOption) (*evaluator, error) {
	if name == "" {
		return nil, fmt.Errorf("scripted: name can't be an empty string")
	}
	if expression == "" {
		return nil, fmt.Errorf("scripted: expression can't be an empty string")
	}

	opts := append([]cel.EnvOption{
		cel.Variable("mapX", cel.MapType(cel.StringType, cel.AnyType)),
		cel.Variable("mapY", cel.MapType(cel.StringType, cel.AnyType)),
	}, extraVars...)

	env, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("scripted: error creating CEL environment: %w", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("scripted: error compiling %q: %w", name, issues.Err())
	}
	p, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("scripted: error creating program for %q: %w", name, err)
	}
	return &evaluator{expression: expression, program: p}, nil
}

func (e *evaluator) evalInt(mapX, mapY map[string]any) (int, error) {
	out, _, err := e.program.Eval(map[string]any{"mapX": mapX, "mapY": mapY})
	if err != nil {
		return 0, fmt.Errorf("scripted: error evaluating %q: %w", e.expression, err)
	}
	nv, err := out.ConvertToNative(reflect.TypeOf(int(0)))
	if err != nil {
		return 0, fmt.Errorf("scripted: result of %q did not convert to int: %w", e.expression, err)
	}
	v, ok := nv.(int)
	if !ok {
		return 0, fmt.Errorf("scripted: result of %q was not an int, got %v", e.expression, nv)
	}
	return v, nil
}

// Comparator compiles expression into a btree.Comparator over
// map[string]any records. expression must evaluate to an int: negative
// when mapX sorts before mapY, zero when equal, positive otherwise.
func Comparator(name, expression string) (btree.Comparator[map[string]any], error) {
	ev, err := compile(name, expression)
	if err != nil {
		return nil, err
	}
	return func(a, b map[string]any) int {
		c, err := ev.evalInt(a, b)
		if err != nil {
			panic(err)
		}
		return c
	}, nil
}

// UpdateFunc compiles expression into a btree.UpdateFunc over
// map[string]any records. expression is evaluated with mapY bound to
// the incoming record and mapX bound to the existing record (or an
// empty map, on pure insertion) and must evaluate to an int selector:
// on a match, a non-zero result keeps mapX's record and zero adopts
// mapY's; on pure insertion the incoming record is stored whatever the
// result — giving scripted control over which side of a match survives
// without requiring a second, map-valued CEL contract.
func UpdateFunc(name, expression string) (btree.UpdateFunc[map[string]any], error) {
	ev, err := compile(name, expression)
	if err != nil {
		return nil, err
	}
	return func(existing *map[string]any, incoming map[string]any) map[string]any {
		x := map[string]any{}
		if existing != nil {
			x = *existing
		}
		keep, err := ev.evalInt(x, incoming)
		if err != nil {
			panic(err)
		}
		if existing != nil && keep != 0 {
			return *existing
		}
		return incoming
	}, nil
}
