package textutil

import (
	"reflect"
	"testing"
)

func TestSkipLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{`<doc id="1">`, true},
		{"a < b and c > d", true},
		{"</doc>", true},
		{"less < only", false},
		{"greater > only", false},
		{"plain text", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := SkipLine(tt.line); got != tt.want {
			t.Errorf("SkipLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestTermsFiltering(t *testing.T) {
	tok := NewTokenizer()
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"stop words removed", "the cat sat", []string{"cat", "sat"}},
		{"lower-cased", "Cat DOG", []string{"cat", "dog"}},
		{"digits rejected", "abc123 route66 ok", []string{"ok"}},
		{"punctuation rejected", "end. co-op it's word", []string{"word"}},
		{"double spaces", "cat  dog", []string{"cat", "dog"}},
		{"tabs are not separators", "cat\tdog fish", []string{"fish"}},
		{"trailing newline", "cat dog\r\n", []string{"cat", "dog"}},
		{"trailing no-break space kept", "cat word\u00a0", []string{"cat"}},
		{"trailing next-line kept", "word\u0085", nil},
		{"non-ascii rejected", "café naïve tea", []string{"tea"}},
		{"kelvin sign rejected", "\u212Aelvin", nil},
		{"only stop words", "The A of", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Terms(tt.line)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Terms(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTermsKeepDuplicatesInOrder(t *testing.T) {
	got := NewTokenizer().Terms("cat cat dog Cat")
	want := []string{"cat", "cat", "dog", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Terms = %v, want %v", got, want)
	}
}

func TestIsTerm(t *testing.T) {
	for _, s := range []string{"cat", "zebra"} {
		if !IsTerm(s) {
			t.Errorf("IsTerm(%q) = false", s)
		}
	}
	for _, s := range []string{"", "the", "Cat", "a.b", "a b", "x1", " "} {
		if IsTerm(s) {
			t.Errorf("IsTerm(%q) = true", s)
		}
	}
}

func TestStopWordSet(t *testing.T) {
	if len(stopWords) != 34 {
		t.Fatalf("expected 34 stop words, got %d", len(stopWords))
	}
	for _, w := range []string{"a", "the", "not", "which", "would"} {
		if !IsStopWord(w) {
			t.Errorf("expected %q to be a stop word", w)
		}
	}
	if IsStopWord("cat") {
		t.Error("cat is not a stop word")
	}
}
