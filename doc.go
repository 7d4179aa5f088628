// Package rpncalc implements a floating-point calculator for infix math
// expressions.
//
// Expressions are tokenized, converted to reverse Polish notation by a
// precedence-climbing parser, and evaluated on an operand stack. "2 + 3 * 4"
// is 14, and "2^3^2" is 2^(3^2). Negation binds tighter than any binary
// operator, so "-2^2" is 4. Function calls always use parentheses and must
// pass exactly as many arguments as the function takes: "max(5, 3)".
//
// A Definitions registry holds the constants, functions, and operators. The
// parser and evaluator consult the same registry, which is immutable once
// built. Trigonometric functions use radians unless the registry is built
// with WithAngleUnit(Degrees).
//
// Variables let you parse an expression once and evaluate it for many inputs,
// or you can clone contexts for several expressions to use the same variable
// definitions everywhere.
package rpncalc
