package markdown

import "testing"

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"bold", "a **bold** word", "a <strong>bold</strong> word"},
		{"italic", "an *italic* word", "an <em>italic</em> word"},
		{"bold before italic", "**a** and *b*", "<strong>a</strong> and <em>b</em>"},
		{"bold not half-matched", "**x**y**z**", "<strong>x</strong>y<strong>z</strong>"},
		{"code", "run `go test` now", "run <code>go test</code> now"},
		{"code escapes html", "use `<b>&</b>`", "use <code>&lt;b&gt;&amp;&lt;/b&gt;</code>"},
		{"link", "see [docs](https://example.com)", `see <a href="https://example.com">docs</a>`},
		{"link last", "[**b**](https://x.y)", `<a href="https://x.y"><strong>b</strong></a>`},
		{"unmatched bold passes through", "a ** b", "a ** b"},
		{"unmatched backtick passes through", "a ` b", "a ` b"},
		{"unmatched bracket passes through", "a [b] c", "a [b] c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Translate(tt.in); got != tt.want {
				t.Errorf("Translate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTranslateIdempotent(t *testing.T) {
	// A fully translated fragment with no remaining raw markers must
	// translate to itself.
	inputs := []string{
		"plain text",
		"a <strong>bold</strong> word",
		"an <em>italic</em> word",
		`see <a href="https://example.com">docs</a>`,
	}
	for _, in := range inputs {
		once := Translate(in)
		if twice := Translate(once); twice != once {
			t.Errorf("Translate not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}
