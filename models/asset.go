package models

import "strings"

// Asset is one emitted build output.
type Asset struct {
	Name   string
	Source []byte
}

func NewAsset(name string, source []byte) *Asset {
	return &Asset{Name: name, Source: source}
}

// Size always reflects the current content.
func (a *Asset) Size() int {
	return len(a.Source)
}

// Replace swaps the content of the asset.
func (a *Asset) Replace(source []byte) {
	a.Source = source
}

func (a *Asset) IsHTML() bool {
	return strings.HasSuffix(strings.ToLower(a.Name), ".html")
}

// AssetSet maps output file names (slash separated, relative to the output dir) to assets.
type AssetSet map[string]*Asset

func (s AssetSet) Add(asset *Asset) {
	s[asset.Name] = asset
}

// TotalSize is the build's accounting of output size.
func (s AssetSet) TotalSize() int {
	total := 0
	for _, asset := range s {
		total += asset.Size()
	}
	return total
}

type BuildReport struct {
	HTMLFiles int      `json:"html_files"`
	Captions  int      `json:"captions"`
	Emitted   []string `json:"emitted"`
	Written   []string `json:"written"`
}
