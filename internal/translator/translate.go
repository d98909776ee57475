// Package translator turns stack-machine source text into a program
// image: a two-pass pipeline of lexing, balance checking, variable
// allocation, function extraction, and code generation.
package translator

import "forthvm/isa"

// Translate compiles source into a ready-to-run image. Errors are
// always *SourceError, carrying the offending line where there is one.
func Translate(source string) (*isa.Image, error) {
	toks, err := lex(source)
	if err != nil {
		return nil, err
	}
	if err := checkBalance(toks); err != nil {
		return nil, err
	}
	vars, cleaned, dataSize, err := collectVariables(toks)
	if err != nil {
		return nil, err
	}
	functions, main, err := extractFunctions(cleaned)
	if err != nil {
		return nil, err
	}
	return compile(vars, dataSize, functions, main)
}
