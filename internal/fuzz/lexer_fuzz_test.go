package fuzztests

import (
	"testing"

	"lambda/internal/lexer"
	"lambda/internal/source"
	"lambda/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.lc", clampInput(input))
		file := fs.Get(fileID)

		tokens := lexer.Tokenize(file)
		if err := testkit.CheckTokenInvariants(tokens); err != nil {
			t.Fatalf("%v\ninput: %q", err, input)
		}

		// после EOF лексер молчит
		lx := lexer.New(file)
		for range lx.All() {
		}
		if tok, ok := lx.Next(); ok {
			t.Fatalf("lexer produced %v after EOF", tok)
		}
	})
}
