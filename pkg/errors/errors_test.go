package errors

import (
	stdErrors "errors"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeDependency, cause, "populate replica")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", err.Code())
	}
}

func TestWrapNilCauseBehavesLikeNew(t *testing.T) {
	err := Wrap(CodeValidation, nil, "empty batch")
	if err.Unwrap() != nil {
		t.Fatalf("expected no cause")
	}
	if err.Error() != "VALIDATION_ERROR: empty batch" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestAsFindsTypedError(t *testing.T) {
	inner := New(CodeSkipped, "store 4 no longer exists")
	wrapped := Wrap(CodeAborted, inner, "full run failed")

	typed := As(wrapped)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeAborted {
		t.Fatalf("expected outermost code, got %s", typed.Code())
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"skipped", New(CodeSkipped, "store gone"), false},
		{"validation", New(CodeValidation, "empty batch"), false},
		{"aborted", New(CodeAborted, "swap failed"), true},
		{"dependency", New(CodeDependency, "db down"), true},
		{"plain", stdErrors.New("boom"), true},
	}
	for _, tc := range cases {
		if got := IsFatal(tc.err); got != tc.fatal {
			t.Fatalf("%s: expected fatal=%v got %v", tc.name, tc.fatal, got)
		}
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if !meta.Fatal {
		t.Fatal("unknown codes must map to the internal metadata")
	}
}
