package models

import "encoding/base64"

// ImageMIMEType is reported for every image regardless of its real format.
const ImageMIMEType = "image/png"

// ImageSource holds image content either as raw bytes or as an already
// base64-encoded string. Encode never double-encodes.
type ImageSource struct {
	raw     []byte
	encoded string
	isB64   bool
}

func NewRawImage(data []byte) ImageSource {
	return ImageSource{raw: data}
}

func NewBase64Image(data string) ImageSource {
	return ImageSource{encoded: data, isB64: true}
}

// Encode returns the base64 payload sent to the captioning model.
func (s ImageSource) Encode() string {
	if s.isB64 {
		return s.encoded
	}
	return base64.StdEncoding.EncodeToString(s.raw)
}

// Bytes returns the decoded image content.
func (s ImageSource) Bytes() ([]byte, error) {
	if !s.isB64 {
		return s.raw, nil
	}
	return base64.StdEncoding.DecodeString(s.encoded)
}

func (s ImageSource) MIMEType() string {
	return ImageMIMEType
}

// DataURL formats the image as an inline data URL.
func (s ImageSource) DataURL() string {
	return "data:" + ImageMIMEType + ";base64," + s.Encode()
}
