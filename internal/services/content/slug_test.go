package content

import (
	"regexp"
	"testing"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Hello, World! 2024", "hello-world-2024"},
		{"My Draft", "my-draft"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"snake_case_title", "snake-case-title"},
		{"already-a-slug", "already-a-slug"},
		{"Multiple   spaces --- dashes", "multiple-spaces-dashes"},
		{"---", ""},
		{"", ""},
		{"C'est déjà l'été", "cest-dj-lt"},
		{"100% Pure!!", "100-pure"},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{"Hello, World! 2024", "My Draft", "a_b_c", "  x  y  ", "Ünïcode Tïtle"}
	for _, in := range inputs {
		once := Slugify(in)
		if twice := Slugify(once); twice != once {
			t.Errorf("Slugify not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestSlugifyShape(t *testing.T) {
	inputs := []string{"Hello, World! 2024", "a__b--c  d", "!!!", "Tool #1 (beta)", "plain"}
	for _, in := range inputs {
		got := Slugify(in)
		if got == "" {
			continue
		}
		if !slugShape.MatchString(got) {
			t.Errorf("Slugify(%q) = %q does not match slug shape", in, got)
		}
	}
}
