package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize caps snapshot input at 10MB to prevent memory exhaustion from
// a runaway capture.
const MaxHTMLSize = 10 * 1024 * 1024

// DetectCharset returns the best-guess charset for raw HTML bytes, falling
// back to utf-8.
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// Load parses an HTML snapshot into a document with automatic charset
// detection. Snapshots come from an externally controlled page, so the
// encoding cannot be trusted to be utf-8.
func Load(htmlStr string) (*goquery.Document, error) {
	if htmlStr == "" {
		return nil, fmt.Errorf("html content required")
	}
	if len(htmlStr) > MaxHTMLSize {
		return nil, fmt.Errorf("html exceeds maximum size of %d bytes", MaxHTMLSize)
	}

	data := []byte(htmlStr)
	utf8Reader, err := charset.NewReader(bytes.NewReader(data), DetectCharset(data))
	if err != nil {
		// Fallback to direct parsing
		return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	}
	return goquery.NewDocumentFromReader(utf8Reader)
}
