package extraction

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// StripDataURIPrefix removes a leading "data:<mime>;base64," header from a
// browser-style data URI. It returns the payload and the mime type named in the
// header ("" when there is no header).
func StripDataURIPrefix(s string) (payload, mimeType string) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return s, ""
	}
	comma := strings.Index(s, ",")
	if comma == -1 {
		return s, ""
	}
	header := strings.TrimPrefix(s[:comma], "data:")
	if semi := strings.Index(header, ";"); semi != -1 {
		header = header[:semi]
	}
	return s[comma+1:], header
}

// DecodePayload decodes a base64 payload, with or without a data URI header.
func DecodePayload(s string) ([]byte, string, error) {
	payload, mimeType := StripDataURIPrefix(s)
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return nil, mimeType, fmt.Errorf("DecodePayload: empty payload")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, mimeType, fmt.Errorf("DecodePayload: invalid base64: %w", err)
		}
	}
	return data, mimeType, nil
}

// IsSupportedMIMEType reports whether mt is an image or a PDF, the only
// document formats the model is given.
func IsSupportedMIMEType(mt string) bool {
	media, _, err := mime.ParseMediaType(mt)
	if err != nil {
		return false
	}
	return strings.HasPrefix(media, "image/") || media == "application/pdf"
}

// DetectMIMEType guesses the mime type of a file from its extension, falling
// back to content sniffing.
func DetectMIMEType(filename string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if mt := mime.TypeByExtension(ext); mt != "" {
			if media, _, err := mime.ParseMediaType(mt); err == nil {
				return media
			}
		}
	}
	media, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return media
}
