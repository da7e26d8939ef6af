package slug

import "testing"

func TestFromHeadingBasic(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello World", "hello-world"},
		{"  Trim Me  ", "trim-me"},
		{"Multiple   Spaces", "multiple-spaces"},
		{"Punctuation! Is? Removed.", "punctuation-is-removed"},
		{"--leading-and-trailing--", "leading-and-trailing"},
		{"Café", "caf%C3%A9"},
	}
	for _, c := range cases {
		got := FromHeading(c.in)
		if got.Value != c.want {
			t.Errorf("FromHeading(%q) = %q, want %q", c.in, got.Value, c.want)
		}
	}
}

func TestBuilderDedupSuffixes(t *testing.T) {
	b := NewBuilder()
	a1 := b.Add("a")
	a2 := b.Add("a")
	a3 := b.Add("a")
	if a1.Value != "a" || a2.Value != "a-1" || a3.Value != "a-2" {
		t.Fatalf("got %q, %q, %q", a1.Value, a2.Value, a3.Value)
	}
}

func TestSlugEquality(t *testing.T) {
	a := FromHeading("Hello")
	b := FromHeading("hello")
	if !a.Equal(b) {
		t.Fatal("expected case-folded equality")
	}
}
