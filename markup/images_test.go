package markup

import (
	"strings"
	"testing"
)

func TestImages(t *testing.T) {
	content := "a [그림:x.png] $[그림:math.png]$\n[선지_1행] : (2_\"[그림:c.png]\")"
	got := Images(content)
	if strings.Join(got, ",") != "x.png,c.png" {
		t.Fatalf("Images() = %v", got)
	}
	if Images("plain [이미지:라벨]") != nil {
		t.Fatalf("placeholders are not images")
	}
}

func TestRewriteImages(t *testing.T) {
	content := "a [그림:x.png] b"
	if got := RewriteImages(content, false, func(s string) string { return s }); got != content {
		t.Fatalf("unchanged content rewritten: %q", got)
	}
	got := RewriteImages(content, false, func(s string) string { return "images/" + s })
	if got != "a [그림:images/x.png] b" {
		t.Fatalf("RewriteImages() = %q", got)
	}
	table := `[표_1x1] : (1x1_"[그림:y.png]")`
	got = RewriteImages(table, false, func(s string) string { return "/abs/" + s })
	if got != `[표_1x1] : (1x1_"[그림:/abs/y.png]")` {
		t.Fatalf("RewriteImages() = %q", got)
	}
}
