package encoding

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const (
	// sniffLen is the number of bytes used by http.DetectContentType
	sniffLen = 512
	// checkLen is a buffer size used for null byte checks.
	checkLen = 1024
	// Null byte threshold percentage to consider a file binary.
	nullThreshold = 0.15 // 15%
)

// Map of text-based MIME type prefixes accepted by IsBinary.
var knownTextMIMEPrefixes = map[string]bool{
	"text/":            true,
	"application/json": true,
	"application/xml":  true,
}

// EncodingHandler defines the interface for detecting character encoding,
// converting content to and from UTF-8, and detecting binary files.
type EncodingHandler interface {
	// DetectAndDecode attempts to detect the encoding of the input content
	// and convert it to UTF-8. It returns the UTF-8 bytes, the detected
	// encoding name (IANA name), a boolean indicating if detection was certain,
	// and any error encountered during conversion. Fallback encoding is used if
	// detection is uncertain and a valid default is configured.
	DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certainty bool, err error)

	// Encode converts UTF-8 content back into the named encoding.
	// An empty name or "utf-8" returns the content unchanged. Runes the
	// target charset cannot represent are an error, never escaped.
	Encode(utf8Content []byte, encodingName string) ([]byte, error)

	// IsBinary checks if the content is likely binary data based on MIME type sniffing
	// (http.DetectContentType on first 512 bytes) and null byte percentage
	// (in first 1024 bytes).
	IsBinary(content []byte) bool
}

// goCharsetEncodingHandler implements EncodingHandler using
// golang.org/x/net/html/charset and golang.org/x/text/transform.
type goCharsetEncodingHandler struct {
	defaultEncoding string
}

// NewGoCharsetEncodingHandler creates a new encoding handler.
// defaultEncoding is applied when detection is uncertain; it may be empty.
func NewGoCharsetEncodingHandler(defaultEncoding string) EncodingHandler {
	return &goCharsetEncodingHandler{
		defaultEncoding: defaultEncoding,
	}
}

// IsKnownEncoding reports whether name is a charset label this handler can use.
func IsKnownEncoding(name string) bool {
	_, err := htmlindex.Get(name)
	return err == nil
}

// DetectAndDecode implements the EncodingHandler interface.
func (h *goCharsetEncodingHandler) DetectAndDecode(content []byte) ([]byte, string, bool, error) {
	detected, name, certain := charset.DetermineEncoding(content, "")

	// Apply fallback if detection was uncertain and a default is provided.
	// Content that is already valid UTF-8 keeps its detection.
	if !certain && h.defaultEncoding != "" && name != "utf-8" {
		if fallback, fallbackName := charset.Lookup(h.defaultEncoding); fallback != nil {
			detected = fallback
			name = fallbackName
			certain = true
		}
	}

	if detected == nil {
		if name == "" {
			name = "utf-8"
		}
		return content, name, certain, nil
	}

	utf8Content, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), detected.NewDecoder()))
	if err != nil {
		if name == "" {
			name = "unknown"
		}
		return content, name, certain, fmt.Errorf("failed to convert from '%s': %w", name, err)
	}
	if name == "" {
		name = "unknown"
	}
	return utf8Content, name, certain, nil
}

// Encode implements the EncodingHandler interface.
func (h *goCharsetEncodingHandler) Encode(utf8Content []byte, encodingName string) ([]byte, error) {
	if encodingName == "" || strings.EqualFold(encodingName, "utf-8") {
		return utf8Content, nil
	}
	// htmlindex yields the bare x/text encoding; charset.Lookup wraps it with
	// an encoder that writes unsupported runes as HTML entities.
	enc, err := htmlindex.Get(encodingName)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding '%s': %w", encodingName, err)
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), utf8Content)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to '%s': %w", encodingName, err)
	}
	return out, nil
}

// isMIMETextBased checks if a detected MIME type is likely text-based.
func isMIMETextBased(contentType string) bool {
	mimeType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])

	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	if _, ok := knownTextMIMEPrefixes[mimeType]; ok {
		return true
	}
	if strings.HasSuffix(mimeType, "+xml") || strings.HasSuffix(mimeType, "+json") {
		return true
	}
	// Allow octet-stream to potentially be text, rely on null check
	return mimeType == "application/octet-stream"
}

// IsBinary implements the EncodingHandler interface.
func (h *goCharsetEncodingHandler) IsBinary(content []byte) bool {
	contentLen := len(content)
	if contentLen == 0 {
		return false
	}

	// 1. MIME type check
	contentType := http.DetectContentType(content[:min(contentLen, sniffLen)])
	if !isMIMETextBased(contentType) {
		return true
	}
	// UTF-16 text carries a null byte per ASCII character.
	if strings.Contains(contentType, "charset=utf-16") {
		return false
	}

	// 2. Null byte check
	checkLimit := min(contentLen, checkLen)
	nullCount := bytes.Count(content[:checkLimit], []byte{0x00})
	return float64(nullCount)/float64(checkLimit) > nullThreshold
}
