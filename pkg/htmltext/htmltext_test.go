package htmltext

import (
	"strings"
	"testing"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		want       []string
		wantAbsent []string
	}{
		{
			name: "joins block elements",
			html: `<h2>History</h2><p>The field began early.</p><ul><li>One milestone</li></ul>`,
			want: []string{"History", "The field began early.", "One milestone"},
		},
		{
			name:       "drops citation markers and edit links",
			html:       `<p>Quantum mechanics<sup class="reference">[1]</sup> is fundamental.</p><h2>Overview<span class="mw-editsection">[edit]</span></h2>`,
			want:       []string{"Quantum mechanics is fundamental.", "Overview"},
			wantAbsent: []string{"[1]", "[edit]"},
		},
		{
			name:       "drops script and style",
			html:       `<style>p{color:red}</style><script>alert(1)</script><p>Visible text.</p>`,
			want:       []string{"Visible text."},
			wantAbsent: []string{"color:red", "alert"},
		},
		{
			name: "plain fragment without blocks falls back to document text",
			html: `<div>Loose text in a container</div>`,
			want: []string{"Loose text in a container"},
		},
		{
			name: "joins wrapped lines",
			html: "<p>Spread over\n\n  multiple lines</p>",
			want: []string{"Spread over multiple lines"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Flatten(tt.html)
			if err != nil {
				t.Fatalf("Flatten() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Flatten() = %q, missing %q", got, want)
				}
			}
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("Flatten() = %q, should not contain %q", got, absent)
				}
			}
		})
	}
}

func TestFlatten_Empty(t *testing.T) {
	got, err := Flatten("")
	if err != nil {
		t.Fatalf("Flatten() error = %v", err)
	}
	if got != "" {
		t.Errorf("Flatten(\"\") = %q, want empty", got)
	}
}

func TestArticle(t *testing.T) {
	html := `<!DOCTYPE html>
<html><head><title>Border collie</title></head><body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>Border collie</h1>
<p>The border collie is a British breed of herding dog of the collie type,
bred along the border between Scotland and England. They are kept either as
working sheepdogs, as companion animals, or for participation in dog sports
such as sheepdog trials, agility, obedience, and flyball. The breed is widely
considered to be the most intelligent of all domestic dogs, and individuals
of the breed have repeatedly demonstrated an exceptional capacity to learn
words, commands, and routines.</p>
<p>Working border collies may respond to a whistle, a spoken command, or a
gesture, and experienced handlers can direct a dog around a flock of sheep
from a considerable distance. Their herding instinct, combined with great
stamina and an intense gaze known as the eye, makes them unmatched in
sheepdog trials held throughout Britain, Ireland, and many other countries.</p>
</article>
</body></html>`

	got, err := Article("https://example.org/wiki/Border_collie", html)
	if err != nil {
		t.Fatalf("Article() error = %v", err)
	}
	if !strings.Contains(got, "herding") {
		t.Errorf("Article() = %q, missing article body text", got)
	}
}

func TestArticle_InvalidURL(t *testing.T) {
	if _, err := Article("https://example.org/%zz", "<p>text</p>"); err == nil {
		t.Error("Article() with invalid URL returned nil error")
	}
}

func TestNormalizeText(t *testing.T) {
	got := normalizeText("  first line \n\n second line \n")
	want := "first line second line"
	if got != want {
		t.Errorf("normalizeText() = %q, want %q", got, want)
	}
}
