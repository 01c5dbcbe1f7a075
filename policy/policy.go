// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package policy provides a CEL-based install policy gate. A project can
// declare an expression over package metadata; installs proceed only when
// the expression evaluates to true.
package policy

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

const (
	// DefaultMaxExpressionLength is the maximum allowed length for a policy
	// expression. This limit prevents DoS via excessively long expressions.
	DefaultMaxExpressionLength = 10000

	// DefaultCostLimit is the runtime cost limit for policy evaluation.
	DefaultCostLimit = 1000000
)

var (
	// ErrPolicyDenied is returned when the policy expression evaluates to
	// false for a package.
	ErrPolicyDenied = errors.New("install denied by policy")

	// ErrExpression is returned when a policy expression fails syntax or
	// type checking.
	ErrExpression = errors.New("invalid policy expression")

	// ErrEvaluation is returned when evaluating a compiled policy fails.
	ErrEvaluation = errors.New("policy evaluation failed")
)

// Subject is the package metadata a policy expression is evaluated
// against, bound to the `pkg` variable.
type Subject struct {
	// Name is the full package id, including the scope when present.
	Name string
	// Scope is the scope without the leading "@", empty for unscoped
	// packages.
	Scope string
	// Version is the resolved version being installed.
	Version string
	// Format and Subtype describe the package as it will be installed.
	Format  string
	Subtype string
}

func (s Subject) vars() map[string]any {
	return map[string]any{
		"pkg": map[string]string{
			"name":    s.Name,
			"scope":   s.Scope,
			"version": s.Version,
			"format":  s.Format,
			"subtype": s.Subtype,
		},
	}
}

// ErrInstance is one occurrence of an error in a policy expression.
type ErrInstance struct {
	Line int    `json:"line,omitempty"`
	Col  int    `json:"col,omitempty"`
	Msg  string `json:"msg,omitempty"`
}

// ExpressionError carries structured location information for a policy
// expression that failed to parse or type check.
type ExpressionError struct {
	Source   string        `json:"source,omitempty"`
	Errors   []ErrInstance `json:"errors,omitempty"`
	original error
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	return fmt.Sprintf("policy expression %q: %s", e.Source, e.original)
}

// Unwrap returns the underlying error.
func (e *ExpressionError) Unwrap() error {
	return e.original
}

// newExpressionError converts CEL issues into an ExpressionError.
func newExpressionError(source string, issues *cel.Issues) error {
	ee := &ExpressionError{
		Source:   source,
		original: fmt.Errorf("%w: %w", ErrExpression, issues.Err()),
	}
	for _, err := range issues.Errors() {
		ee.Errors = append(ee.Errors, ErrInstance{
			Line: err.Location.Line(),
			Col:  err.Location.Column(),
			Msg:  err.Message,
		})
	}
	return ee
}

// Gate is a compiled install policy, safe for concurrent use.
type Gate struct {
	source  string
	program cel.Program
}

// Option configures compilation limits.
type Option func(*compileConfig)

type compileConfig struct {
	maxExpressionLength int
	costLimit           uint64
}

// WithMaxExpressionLength sets the maximum allowed expression length.
func WithMaxExpressionLength(maxLen int) Option {
	return func(c *compileConfig) {
		c.maxExpressionLength = maxLen
	}
}

// WithCostLimit sets the runtime cost limit for evaluation.
func WithCostLimit(limit uint64) Option {
	return func(c *compileConfig) {
		c.costLimit = limit
	}
}

// Compile parses, type checks, and compiles a policy expression. The
// expression must evaluate to a boolean over the `pkg` variable, e.g.
//
//	pkg.scope == "stacklok" || pkg.subtype == "rule"
func Compile(expr string, opts ...Option) (*Gate, error) {
	cfg := compileConfig{
		maxExpressionLength: DefaultMaxExpressionLength,
		costLimit:           DefaultCostLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(expr) > cfg.maxExpressionLength {
		return nil, fmt.Errorf("%w: expression length %d exceeds maximum of %d",
			ErrExpression, len(expr), cfg.maxExpressionLength)
	}

	env, err := cel.NewEnv(
		cel.Variable("pkg", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating policy environment: %w", err)
	}

	parsed, issues := env.Parse(expr)
	if issues.Err() != nil {
		return nil, newExpressionError(expr, issues)
	}

	checked, issues := env.Check(parsed)
	if issues.Err() != nil {
		return nil, newExpressionError(expr, issues)
	}

	if !checked.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: expression must evaluate to bool, got %s",
			ErrExpression, checked.OutputType())
	}

	program, err := env.Program(checked, cel.CostLimit(cfg.costLimit))
	if err != nil {
		return nil, fmt.Errorf("compiling policy expression %q: %w", expr, err)
	}

	return &Gate{source: expr, program: program}, nil
}

// Source returns the original expression source string.
func (g *Gate) Source() string {
	return g.source
}

// Allow evaluates the policy for a package. A false result is returned as
// ErrPolicyDenied carrying the package name and the expression source.
func (g *Gate) Allow(subject Subject) error {
	out, _, err := g.program.Eval(subject.vars())
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEvaluation, err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return fmt.Errorf("%w: expected bool, got %T", ErrEvaluation, out.Value())
	}

	if !allowed {
		return fmt.Errorf("%w: %s (policy: %s)", ErrPolicyDenied, subject.Name, g.source)
	}
	return nil
}
