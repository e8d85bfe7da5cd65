package sanitize

import "testing"

func TestTextStripsTagsAndEncodedTags(t *testing.T) {
	got := Text("  <b>Call</b>   back &lt;script&gt;x&lt;/script&gt; tomorrow ")
	if got != "Call back x tomorrow" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}

func TestTextKeepsNewlines(t *testing.T) {
	if got := Text("line one\n<i>line</i>  two"); got != "line one\nline two" {
		t.Fatalf("unexpected sanitized text %q", got)
	}
}
