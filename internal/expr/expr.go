// Package expr compiles the placement expressions of layered skin
// containers. Expressions are arithmetic over the container extent (WIDTH,
// HEIGHT), the element's preferred extent (PREF_WIDTH, PREF_HEIGHT), numeric
// literals and percentages, and are evaluated with CEL.
package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// Axis selects what a percentage refers to.
type Axis int

const (
	// AxisX resolves "N%" against WIDTH.
	AxisX Axis = iota
	// AxisY resolves "N%" against HEIGHT.
	AxisY
)

// Vars are the values an expression is evaluated against.
type Vars struct {
	Width, Height         int
	PrefWidth, PrefHeight int
}

var identifiers = map[string]bool{
	"WIDTH":       true,
	"HEIGHT":      true,
	"PREF_WIDTH":  true,
	"PREF_HEIGHT": true,
}

// Expr is a compiled placement expression.
type Expr struct {
	src      string
	prg      cel.Program
	constant bool
	value    int
}

// String returns the source text.
func (x *Expr) String() string {
	return x.src
}

// Constant returns an expression with a fixed value.
func Constant(v int) *Expr {
	return &Expr{src: strconv.Itoa(v), constant: true, value: v}
}

// Eval evaluates the expression and rounds the result to the nearest integer.
func (x *Expr) Eval(v Vars) (int, error) {
	if x.constant {
		return x.value, nil
	}
	out, _, err := x.prg.Eval(map[string]any{
		"WIDTH":       float64(v.Width),
		"HEIGHT":      float64(v.Height),
		"PREF_WIDTH":  float64(v.PrefWidth),
		"PREF_HEIGHT": float64(v.PrefHeight),
	})
	if err != nil {
		return 0, fmt.Errorf("eval '%s': %w", x.src, err)
	}
	d, ok := out.(types.Double)
	if !ok {
		return 0, fmt.Errorf("eval '%s': unexpected result type %v", x.src, out.Type())
	}
	f := float64(d)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("eval '%s': result is not finite", x.src)
	}
	return int(math.Round(f)), nil
}

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

func placementEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("WIDTH", cel.DoubleType),
			cel.Variable("HEIGHT", cel.DoubleType),
			cel.Variable("PREF_WIDTH", cel.DoubleType),
			cel.Variable("PREF_HEIGHT", cel.DoubleType),
		)
		if envErr != nil {
			envErr = fmt.Errorf("failed to create CEL environment: %w", envErr)
		}
	})
	return env, envErr
}

// Compile parses src for the given axis.
func Compile(src string, axis Axis) (*Expr, error) {
	if n, err := strconv.Atoi(src); err == nil {
		return &Expr{src: src, constant: true, value: n}, nil
	}
	rewritten, err := rewrite(src, axis)
	if err != nil {
		return nil, err
	}
	e, err := placementEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := e.Compile(rewritten)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid expression '%s': %w", src, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.DoubleType) {
		return nil, fmt.Errorf("invalid expression '%s': not numeric", src)
	}
	prg, err := e.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("invalid expression '%s': %w", src, err)
	}
	return &Expr{src: src, prg: prg}, nil
}

// rewrite turns the skin syntax into a CEL double expression: integer
// literals become double literals and "N%" becomes a fraction of the axis
// extent. Anything but the known identifiers, numbers, operators and
// parentheses is rejected.
func rewrite(src string, axis Axis) (string, error) {
	extent := "WIDTH"
	if axis == AxisY {
		extent = "HEIGHT"
	}
	var b strings.Builder
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			b.WriteByte(' ')
			i++
		case strings.IndexByte("+-*/()", c) >= 0:
			b.WriteByte(c)
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(src) && (src[j] >= '0' && src[j] <= '9' || src[j] == '.') {
				j++
			}
			num := src[i:j]
			if _, err := strconv.ParseFloat(num, 64); err != nil {
				return "", fmt.Errorf("invalid expression '%s': bad number '%s'", src, num)
			}
			if !strings.Contains(num, ".") {
				num += ".0"
			}
			if j < len(src) && src[j] == '%' {
				fmt.Fprintf(&b, "(%s*%s/100.0)", num, extent)
				j++
			} else {
				b.WriteString(num)
			}
			i = j
		case c == '_' || c >= 'A' && c <= 'Z':
			j := i
			for j < len(src) && (src[j] == '_' || src[j] >= 'A' && src[j] <= 'Z') {
				j++
			}
			id := src[i:j]
			if !identifiers[id] {
				return "", fmt.Errorf("invalid expression '%s': unknown identifier '%s'", src, id)
			}
			b.WriteString(id)
			i = j
		default:
			return "", fmt.Errorf("invalid expression '%s': unexpected '%c'", src, c)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("invalid expression '%s'", src)
	}
	return b.String(), nil
}
