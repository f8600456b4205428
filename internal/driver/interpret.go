package driver

import (
	"context"
)

// Interpret runs the whole pipeline on src and returns the display text of
// its normal form. On failure the error names the unexpected token and its
// position, or the evaluation failure.
func Interpret(ctx context.Context, src string, opts Options) (string, error) {
	res := EvaluateSource(ctx, "<input>", src, opts)
	if res.Err != nil {
		return "", res.Err
	}
	return res.Text, nil
}
