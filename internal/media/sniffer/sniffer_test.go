package sniffer

import (
	"errors"
	"net/http"
	"testing"
)

func TestDetectHead(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		kind AssetKind
		mime string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, KindJPEG, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00}, KindPNG, "image/png"},
		{"gif", []byte("GIF89a...."), KindGIF, "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), KindWEBP, "image/webp"},
		{"pdf", []byte("%PDF-1.7\n"), KindPDF, "application/pdf"},
		{"zip", []byte{'P', 'K', 0x03, 0x04, 0x14}, KindZIP, "application/zip"},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg">`), KindSVG, "image/svg+xml"},
		{"svg with xml decl", []byte(`<?xml version="1.0"?><svg>`), KindSVG, "image/svg+xml"},
		{"text", []byte("教学大纲\n第一章"), KindText, "text/plain"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			if err != nil {
				t.Fatalf("DetectHead: %v", err)
			}
			if result.Kind != tc.kind {
				t.Errorf("kind = %q, want %q", result.Kind, tc.kind)
			}
			if result.MIME != tc.mime {
				t.Errorf("mime = %q, want %q", result.MIME, tc.mime)
			}
		})
	}
}

func TestDetectHead_Unknown(t *testing.T) {
	if _, err := DetectHead([]byte{0x00, 0x01, 0x02}); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("err = %v, want ErrUnknownType", err)
	}
	if _, err := DetectHead(nil); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("empty head err = %v, want ErrUnknownType", err)
	}
}

func TestMimeTypeFromHTTP(t *testing.T) {
	header := http.Header{}
	header.Set("Content-Type", "image/png; charset=binary")
	if got := MimeTypeFromHTTP(header); got != "image/png" {
		t.Errorf("got %q, want image/png", got)
	}

	if got := MimeTypeFromHTTP(http.Header{}); got != "" {
		t.Errorf("empty header got %q", got)
	}
}
