package main

import (
	"fmt"
	"io"
	"os"
)

// input is one source to process: a file, stdin or an -e expression.
type input struct {
	name string
	path string // пусто для stdin и -e
	src  string
}

// readSingleInput resolves `[file|-]` arguments of tokenize and parse.
func readSingleInput(args []string, stdin io.Reader) (input, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return input{name: "<stdin>", src: string(data)}, nil
	}
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(args[0])
	if err != nil {
		return input{}, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return input{name: args[0], path: args[0], src: string(data)}, nil
}
