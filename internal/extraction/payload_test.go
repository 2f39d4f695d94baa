package extraction

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripDataURIPrefix(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPayload string
		wantMIME    string
	}{
		{"data uri", "data:application/pdf;base64,JVBERi0=", "JVBERi0=", "application/pdf"},
		{"image data uri", "data:image/png;base64,iVBORw==", "iVBORw==", "image/png"},
		{"bare payload", "JVBERi0=", "JVBERi0=", ""},
		{"no comma", "data:application/pdf", "data:application/pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, mt := StripDataURIPrefix(tt.input)
			assert.Equal(t, tt.wantPayload, payload)
			assert.Equal(t, tt.wantMIME, mt)
		})
	}
}

func TestDecodePayload(t *testing.T) {
	raw := []byte("%PDF-1.4 payslip")
	enc := base64.StdEncoding.EncodeToString(raw)

	data, mt, err := DecodePayload("data:application/pdf;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, data)
	assert.Equal(t, "application/pdf", mt)

	data, _, err = DecodePayload(base64.RawStdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	_, _, err = DecodePayload("data:application/pdf;base64,")
	assert.Error(t, err)

	_, _, err = DecodePayload("not*base64!")
	assert.Error(t, err)
}

func TestIsSupportedMIMEType(t *testing.T) {
	assert.True(t, IsSupportedMIMEType("application/pdf"))
	assert.True(t, IsSupportedMIMEType("image/jpeg"))
	assert.True(t, IsSupportedMIMEType("image/png; charset=binary"))
	assert.False(t, IsSupportedMIMEType("text/plain"))
	assert.False(t, IsSupportedMIMEType(""))
}

func TestDetectMIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", DetectMIMEType("march.pdf", nil))
	assert.Equal(t, "image/png", DetectMIMEType("", []byte("\x89PNG\r\n\x1a\n0000")))
	assert.Equal(t, "application/pdf", DetectMIMEType("upload", []byte("%PDF-1.7\n")))
}

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding text", "Here you go: {\"a\":1} thanks", `{"a":1}`},
		{"no object", "sorry", "sorry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanModelJSON(tt.input))
		})
	}
}
