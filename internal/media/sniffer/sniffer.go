package sniffer

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
)

type AssetKind string

const (
	KindJPEG AssetKind = "jpeg"
	KindPNG  AssetKind = "png"
	KindGIF  AssetKind = "gif"
	KindWEBP AssetKind = "webp"
	KindSVG  AssetKind = "svg"
	KindPDF  AssetKind = "pdf"
	KindZIP  AssetKind = "zip"
	KindText AssetKind = "text"
)

var ErrUnknownType = errors.New("unknown asset type")

type Result struct {
	Kind AssetKind
	MIME string
}

// DetectHead classifies an asset from its first bytes. The asset library
// accepts images, PDFs, zip bundles (including office documents) and plain
// text; everything else is rejected at upload time.
func DetectHead(head []byte) (Result, error) {
	if len(head) == 0 {
		return Result{}, ErrUnknownType
	}

	if isJPEG(head) {
		return Result{Kind: KindJPEG, MIME: "image/jpeg"}, nil
	}
	if isPNG(head) {
		return Result{Kind: KindPNG, MIME: "image/png"}, nil
	}
	if isGIF(head) {
		return Result{Kind: KindGIF, MIME: "image/gif"}, nil
	}
	if isWEBP(head) {
		return Result{Kind: KindWEBP, MIME: "image/webp"}, nil
	}
	if isPDF(head) {
		return Result{Kind: KindPDF, MIME: "application/pdf"}, nil
	}
	if isZIP(head) {
		return Result{Kind: KindZIP, MIME: "application/zip"}, nil
	}
	if isSVG(head) {
		return Result{Kind: KindSVG, MIME: "image/svg+xml"}, nil
	}
	if isText(head) {
		return Result{Kind: KindText, MIME: "text/plain"}, nil
	}

	return Result{}, ErrUnknownType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 &&
		head[0] == 0xff &&
		head[1] == 0xd8 &&
		head[2] == 0xff
}

func isPNG(head []byte) bool {
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	return len(head) >= len(pngMagic) && bytes.Equal(head[:len(pngMagic)], pngMagic)
}

func isGIF(head []byte) bool {
	return len(head) >= 6 && (bytes.Equal(head[:6], []byte("GIF87a")) || bytes.Equal(head[:6], []byte("GIF89a")))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 &&
		bytes.Equal(head[:4], []byte("RIFF")) &&
		bytes.Equal(head[8:12], []byte("WEBP"))
}

func isPDF(head []byte) bool {
	return len(head) >= 5 && bytes.Equal(head[:5], []byte("%PDF-"))
}

func isZIP(head []byte) bool {
	return len(head) >= 4 && bytes.Equal(head[:4], []byte{'P', 'K', 0x03, 0x04})
}

func isSVG(head []byte) bool {
	trimmed := strings.TrimSpace(string(head))
	return strings.HasPrefix(trimmed, "<svg") || strings.HasPrefix(trimmed, "<?xml")
}

func isText(head []byte) bool {
	for _, b := range head {
		if b == 0 {
			return false
		}
		if b < 0x09 {
			return false
		}
	}
	return true
}

func MimeTypeFromHTTP(header http.Header) string {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		return strings.TrimSpace(contentType[:idx])
	}
	return strings.TrimSpace(contentType)
}
