package svg

import (
	"bytes"
	"testing"
)

func TestSanitize_StripsScripts(t *testing.T) {
	input := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script><rect/></svg>`)

	clean, err := Sanitize(input)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if bytes.Contains(clean, []byte("script")) {
		t.Errorf("script survived: %s", clean)
	}
	if !bytes.Contains(clean, []byte("<rect/>")) {
		t.Errorf("content lost: %s", clean)
	}
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	input := []byte(`<svg><rect onclick="evil()" width="1"/></svg>`)

	clean, err := Sanitize(input)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if bytes.Contains(clean, []byte("onclick")) {
		t.Errorf("event attribute survived: %s", clean)
	}
}

func TestSanitize_RejectsNonSVG(t *testing.T) {
	if _, err := Sanitize([]byte("<html></html>")); err == nil {
		t.Fatal("expected error for non-svg input")
	}
}
