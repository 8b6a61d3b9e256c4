package observer

import (
	_ "embed"
)

// SourcePath is the import path the observer entry is registered under.
const SourcePath = "imgalttext/observer.js"

//go:embed observer.js
var script []byte

// Script returns the browser-side observer. The caller owns the returned slice.
func Script() []byte {
	out := make([]byte, len(script))
	copy(out, script)
	return out
}
