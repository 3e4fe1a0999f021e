// Package lang implements the nv scripting language: a lexer, a
// recovering recursive-descent parser, an optimizer over the syntax tree
// and a tree-walking interpreter with lexical scoping and closures.
//
// # Example
//
//	let greeting = "hello"
//	fn shout(s) = s + "!"
//
//	let n = 0
//	while n < 3 {
//	  print(shout(greeting), n)
//	  n = n + 1
//	}
//
// # Grammar
//
// Informal EBNF:
//
//	Program    → (Statement Term)* EOF
//	Term       → newline | ';' | EOF | (before '}')
//	Statement  → Let | Assign | Func | Return | If | Else | While | Block | Expr
//	Let        → 'let' ident ('=' Expr)?
//	Assign     → ident '=' Expr
//	Func       → 'fn' ident '(' (ident (',' ident)*)? ')' ('=' Expr | Block)
//	Return     → 'return' Expr?
//	If         → 'if' Expr Block ('else' (If | Block))?
//	Else       → 'else' (If | Block)
//	While      → 'while' Expr Block
//	Block      → '{' (Statement Term)* '}'
//	Expr       → Unary (BinaryOp Unary)*
//	Unary      → ('!' | '-') Unary | Postfix
//	Postfix    → Primary ('(' Args? ')')*
//	Primary    → number | string | 'true' | 'false' | ident
//	           | 'print' '(' Args? ')' | '(' Expr ')'
//	           | '[' Args? ']' | '{' (Key ':' Expr (',' Key ':' Expr)* ','?)? '}'
//	Key        → string | number
//
// Binary operators, from loosest to tightest binding, are the logical
// operators (&& and || or), the comparisons (== != < <= > >=), the
// additive operators (+ -) and the multiplicative operators (* / %). All
// of them associate to the left. Newlines are insignificant inside
// parentheses, brackets and object braces.
//
// An else on the line after its if is parsed as a statement of its own.
// The optimizer attaches it to the preceding if; run without optimization
// it is reported as an error.
//
// # Values
//
// Numbers are 64-bit floats. Strings have no escape sequences. Vectors and
// objects are immutable; the operators that combine them return new values.
// Undefined is the value of a variable declared without initializer and
// acts as the identity of the arithmetic operators.
//
// # Scoping
//
// A let declares a name in the current scope and fails if that scope
// already declares it. Branches of an if and each iteration of a while run
// in a fresh scope; a plain block does not. A function captures the scope
// it is declared in by reference and each call runs in a new scope nested
// inside it, so closures observe later assignments to captured variables.
//
// # Errors
//
// Parsing never stops at the first error. [ParseString] returns every
// lexical and syntax diagnostic in one [*SyntaxError], each labeled with
// the grammar productions being parsed when it was raised.
//
// Run-time errors are [*Error] values carrying the source span of the
// failing node and comparable to the package's sentinel errors with
// [errors.Is]. [Interpreter.Run] abandons only the top-level statement that
// failed and continues with the next.
package lang
