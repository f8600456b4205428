package diag

import (
	"testing"

	"lambda/internal/source"
)

func TestCodeID(t *testing.T) {
	cases := []struct {
		code Code
		want string
	}{
		{LexInfo, "LEX1000"},
		{SynUnexpectedToken, "SYN2001"},
		{SynNestingTooDeep, "SYN2002"},
		{EvalStepLimit, "EVL3001"},
		{EvalCanceled, "EVL3002"},
		{IOLoadFileError, "IO4001"},
		{UnknownCode, "E0000"},
	}
	for _, tc := range cases {
		if got := tc.code.ID(); got != tc.want {
			t.Errorf("%d.ID() = %q, want %q", tc.code, got, tc.want)
		}
	}
	if got := Code(9999).Title(); got != "Unknown error" {
		t.Errorf("unexpected title for unknown code: %q", got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SynUnexpectedToken, source.Span{Start: 5, End: 6}, "b")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(New(SevWarning, EvalCaptureRisk, source.Span{Start: 1, End: 2}, "a")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(SynUnexpectedToken, source.Span{Start: 9, End: 9}, "c")) {
		t.Fatal("limit not enforced")
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("expected errors and warnings")
	}
	b.Sort()
	if b.Items()[0].Message != "a" {
		t.Fatalf("sort by start failed: %+v", b.Items())
	}
	if b.Items()[1].Severity != SevError {
		t.Fatalf("error must follow the earlier warning: %+v", b.Items())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(4)
	rb := ReportError(BagReporter{Bag: bag}, SynUnexpectedToken, source.Span{Start: 3, End: 4}, "unexpected").
		WithNote(source.Span{Start: 0, End: 1}, "started here")
	rb.Emit()
	rb.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected one diagnostic, got %d", bag.Len())
	}
	got := bag.Items()[0]
	if len(got.Notes) != 1 || got.Notes[0].Msg != "started here" {
		t.Fatalf("note lost: %+v", got)
	}

	var nilBuilder *ReportBuilder
	nilBuilder.WithNote(source.Span{}, "ignored").Emit()
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(4)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(SynUnexpectedToken, SevError, sp, "same", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "same", nil)
	r.Report(SynUnexpectedToken, SevError, sp, "other", nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
}

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("testdata/sample.lc", []byte("(x\ny"), 0)

	diags := []Diagnostic{
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "unexpected NAME\nexpected PAREN_RIGHT",
			Primary:  source.Span{File: file, Start: 3, End: 4},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 0, End: 1}, Msg: "group opened here"},
			},
		},
		{
			Severity: SevWarning,
			Code:     EvalCaptureRisk,
			Message:  "capture",
			Primary:  source.Span{File: file, Start: 1, End: 2},
		},
		{
			Severity: SevError,
			Code:     IOLoadFileError,
			Message:  "unknown file",
			Primary:  source.Span{File: 42},
		},
	}

	want := "note SYN2001 testdata/sample.lc:1:1 group opened here\n" +
		"warning EVL3003 testdata/sample.lc:1:2 capture\n" +
		"error SYN2001 testdata/sample.lc:2:1 unexpected NAME expected PAREN_RIGHT"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
	if got := FormatShort(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
