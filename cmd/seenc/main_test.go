package main

import "testing"

func TestModuleNameOfStripsDirAndExtension(t *testing.T) {
	cases := map[string]string{
		"hello.seen":         "hello",
		"path/to/hello.seen": "hello",
		"noext":              "noext",
	}
	for in, want := range cases {
		if got := moduleNameOf(in); got != want {
			t.Errorf("moduleNameOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuiltinTableKnownLanguages(t *testing.T) {
	if _, ok := builtinTable("en"); !ok {
		t.Error("expected en to be a known language")
	}
	if _, ok := builtinTable("ar"); !ok {
		t.Error("expected ar to be a known language")
	}
	if _, ok := builtinTable("xx"); ok {
		t.Error("expected xx to be unknown")
	}
}
