package escape

import (
	"encoding/xml"
	"net/url"
	"testing"
)

func TestXMLEscapesMetacharacters(t *testing.T) {
	got := XML(`a&b<c>d"e'f`)
	want := "a&amp;b&lt;c&gt;d&quot;e&apos;f"
	if got != want {
		t.Fatalf("XML=%q, want %q", got, want)
	}
}

func TestXMLRoundTripThroughParser(t *testing.T) {
	inputs := []string{
		"plain",
		`<tag attr="x">&amp;</tag>`,
		"it's a \"quote\" & <more>",
		"unicode ünïcödé 日本語",
	}
	for _, in := range inputs {
		doc := `<x a="` + XML(in) + `"/>`
		var parsed struct {
			A string `xml:"a,attr"`
		}
		if err := xml.Unmarshal([]byte(doc), &parsed); err != nil {
			t.Fatalf("Unmarshal(%q) error: %v", doc, err)
		}
		if parsed.A != in {
			t.Fatalf("round trip=%q, want %q", parsed.A, in)
		}
	}
}

func TestXMLDropsInvalidControlCharacters(t *testing.T) {
	got := XML("a\x00b\x1bc\td")
	if got != "abc\td" {
		t.Fatalf("XML=%q, want %q", got, "abc\td")
	}
}

func TestQuoteKeepsUnreservedAndSafe(t *testing.T) {
	tests := []struct {
		name string
		in   string
		safe string
		want string
	}{
		{name: "alnum", in: "abcXYZ019", safe: "", want: "abcXYZ019"},
		{name: "always safe", in: "a_b.c-d~e", safe: "", want: "a_b.c-d~e"},
		{name: "default safe slash", in: "/usr/lib", safe: SafeDefault, want: "/usr/lib"},
		{name: "space quoted by default", in: "a b", safe: SafeDefault, want: "a%20b"},
		{name: "io safe set", in: "a b=c>d/e", safe: SafeIO, want: "a b=c>d/e"},
		{name: "io quotes tab", in: "a\tb", safe: SafeIO, want: "a%09b"},
		{name: "file keeps tab", in: "a\tb", safe: SafeFile, want: "a\tb"},
		{name: "quotes specials", in: `<"&%'`, safe: SafeFile, want: "%3C%22%26%25%27"},
		{name: "utf8 bytes", in: "é", safe: "", want: "%C3%A9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quote(tt.in, tt.safe); got != tt.want {
				t.Fatalf("Quote(%q, %q)=%q, want %q", tt.in, tt.safe, got, tt.want)
			}
		})
	}
}

func TestQuoteRoundTripsThroughUnescape(t *testing.T) {
	in := "C:\\work dir/über file_1=2>3\t%20&<x>"
	for _, safe := range []string{SafeDefault, SafeIO, SafeFile} {
		got, err := url.PathUnescape(Quote(in, safe))
		if err != nil {
			t.Fatalf("PathUnescape error: %v", err)
		}
		if got != in {
			t.Fatalf("unquote(Quote(%q))=%q, want %q", safe, got, in)
		}
	}
}

func TestFilePathOrder(t *testing.T) {
	// escaped first, then quoted: the entity's '&' and ';' are quoted too
	got := FilePath("/a&b c.py")
	if got != "/a%26amp%3Bb c.py" {
		t.Fatalf("FilePath=%q, want %q", got, "/a%26amp%3Bb c.py")
	}
}

func TestIOTextOrder(t *testing.T) {
	// quoted first, then escaped: '>' survives quoting and becomes an entity
	got := IOText(`x>y "z"`)
	if got != "x&gt;y %22z%22" {
		t.Fatalf("IOText=%q, want %q", got, "x&gt;y %22z%22")
	}
}

func TestThreadName(t *testing.T) {
	got := ThreadName("Main Thread<1>")
	if got != "Main%20Thread%26lt%3B1%26gt%3B" {
		t.Fatalf("ThreadName=%q", got)
	}
}
