package strings

import (
	"slices"
	"testing"

	"custintel/internal/platform/testkit"
)

func TestOr(t *testing.T) {
	def := []string{"GET", "POST"}
	if got := Or(nil, def); !slices.Equal(got, def) {
		t.Fatalf("nil: want %v got %v", def, got)
	}
	if got := Or([]string{}, def); !slices.Equal(got, def) {
		t.Fatalf("empty: want %v got %v", def, got)
	}
	if got := Or([]string{"POST"}, def); !slices.Equal(got, []string{"POST"}) {
		t.Fatalf("set: want [POST] got %v", got)
	}
}

func TestList(t *testing.T) {
	want := []string{"/metrics", "/api/v1/meta/health"}
	if got := List(" /metrics, ,/api/v1/meta/health,/metrics "); !slices.Equal(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}
	for _, in := range []string{"", " , "} {
		if got := List(in); len(got) != 0 {
			t.Errorf("%q: want empty got %v", in, got)
		}
	}
}

func TestMustString(t *testing.T) {
	if got := MustString("predict", "module name"); got != "predict" {
		t.Fatalf("want predict got %q", got)
	}
	testkit.MustPanicWith(t, "module name is required", func() { _ = MustString(" \t", "module name") })
}

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"/predict/":      "/predict",
		" models  ":      "/models",
		"//runs//":       "/runs",
		"meta":           "/meta",
		"/models//churn": "/models/churn",
	} {
		if got := MustPrefix(in); got != want {
			t.Errorf("%q: want %q got %q", in, want, got)
		}
	}
	for _, in := range []string{"", "/", " // ", "/.."} {
		testkit.MustPanicWith(t, "root path is required", func() { _ = MustPrefix(in) })
	}
}
