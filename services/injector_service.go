package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"ImgAltText/models"
	"ImgAltText/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// InjectorService writes generated alt text into the HTML outputs of a build.
type InjectorService struct {
	resolver   CaptionResolver
	prompt     string
	observerJS bool
	jsName     string
	logger     *zap.Logger
}

func NewInjectorService(resolver CaptionResolver, prompt string, observerJS bool, jsName string, logger *zap.Logger) *InjectorService {
	return &InjectorService{
		resolver:   resolver,
		prompt:     prompt,
		observerJS: observerJS,
		jsName:     jsName,
		logger:     logger,
	}
}

// ProcessAssets rewrites every .html asset in place and returns the number of
// captions generated. bundle is the observer output emitted by this build; when
// it is empty the observer is looked up by name among the assets. A failing
// file keeps its original content; all failures are returned together.
func (s *InjectorService) ProcessAssets(ctx context.Context, assets models.AssetSet, bundle string) (int, error) {
	switch {
	case !s.observerJS:
		bundle = ""
	case bundle == "":
		name, err := FindObserverBundle(assets, s.jsName)
		if err != nil {
			return 0, err
		}
		bundle = name
	}

	htmlFiles := lo.Filter(lo.Keys(assets), func(name string, _ int) bool {
		return assets[name].IsHTML()
	})
	sort.Strings(htmlFiles)

	var result *multierror.Error
	captions := 0
	for _, filename := range htmlFiles {
		asset := assets[filename]
		updated, n, err := s.ProcessContent(ctx, filename, asset.Source, assets, bundle)
		captions += n
		if err != nil {
			s.logger.Error("failed to inject alt text", zap.String("file", filename), zap.Error(err))
			result = multierror.Append(result, fmt.Errorf("%s: %w", filename, err))
			continue
		}
		asset.Replace(updated)
		s.logger.Info("processed html output",
			zap.String("file", filename),
			zap.Int("captions", n),
			zap.Int("size", asset.Size()),
		)
	}
	return captions, result.ErrorOrNil()
}

// ProcessContent parses one document, references the observer bundle when
// bundle is set, and fills every blank alt attribute.
func (s *InjectorService) ProcessContent(ctx context.Context, filename string, content []byte, assets models.AssetSet, bundle string) ([]byte, int, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, 0, fmt.Errorf("error parsing html: %w", err)
	}

	if bundle != "" {
		s.injectScript(doc.Find("body").First(), ScriptSrc(filename, bundle))
	}

	captions := 0
	images := doc.Find("img")
	for i := range images.Nodes {
		img := images.Eq(i)
		src, ok := img.Attr("src")
		if !ok || src == "" {
			continue
		}
		alt, _ := img.Attr("alt")
		if strings.TrimSpace(alt) != "" {
			continue
		}

		image, err := ResolveImage(assets, filename, src)
		if err != nil {
			return nil, captions, err
		}
		caption, err := s.resolver.Resolve(ctx, image, s.prompt)
		if err != nil {
			return nil, captions, fmt.Errorf("alt text for %s: %w", src, err)
		}
		img.SetAttr("alt", caption)
		captions++
	}

	out, err := RenderHTML(doc.Selection)
	if err != nil {
		return nil, captions, fmt.Errorf("error rendering html: %w", err)
	}
	return []byte(out), captions, nil
}

// injectScript appends the observer script tag to body once. Tags left by an
// earlier build that point at another observer output are removed.
func (s *InjectorService) injectScript(body *goquery.Selection, src string) {
	present := false
	body.Find("script[src]").Each(func(_ int, script *goquery.Selection) {
		current, _ := script.Attr("src")
		switch {
		case current == src && !present:
			present = true
		case current == src || isEmittedObserver(path.Base(current), s.jsName):
			script.Remove()
		}
	})
	if present {
		return
	}

	body.AppendNodes(&html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr: []html.Attribute{
			{Key: "src", Val: src},
			{Key: "type", Val: "text/javascript"},
		},
	})
}

// ScriptSrc is the path to bundle as seen from the page htmlName, so pages in
// subdirectories load the same output as pages at the root.
func ScriptSrc(htmlName, bundle string) string {
	dir := path.Dir(htmlName)
	if dir == "." {
		return bundle
	}
	rel, err := filepath.Rel(filepath.FromSlash(dir), filepath.FromSlash(bundle))
	if err != nil {
		return "/" + bundle
	}
	return filepath.ToSlash(rel)
}

// ResolveImage finds the content an <img src> points at. Base64 data URLs are
// passed through without a lookup.
func ResolveImage(assets models.AssetSet, htmlName, src string) (models.ImageSource, error) {
	if strings.HasPrefix(src, "data:") {
		if idx := strings.Index(src, ";base64,"); idx >= 0 {
			return models.NewBase64Image(src[idx+len(";base64,"):]), nil
		}
	}

	for _, key := range candidateKeys(htmlName, src) {
		if asset, ok := assets[key]; ok {
			return models.NewRawImage(asset.Source), nil
		}
	}
	return models.ImageSource{}, fmt.Errorf("%w: %s", utils.ErrAssetLookup, src)
}

func candidateKeys(htmlName, src string) []string {
	stripped := src
	if idx := strings.IndexAny(stripped, "?#"); idx >= 0 {
		stripped = stripped[:idx]
	}

	keys := []string{src, strings.TrimPrefix(path.Clean("/"+stripped), "/")}
	if !strings.HasPrefix(stripped, "/") {
		relative := path.Join(path.Dir(htmlName), stripped)
		if !strings.HasPrefix(relative, "../") {
			keys = append(keys, relative)
		}
	}
	return lo.Uniq(keys)
}

// FindObserverBundle returns the single .js output whose name contains jsName,
// compared case-insensitively.
func FindObserverBundle(assets models.AssetSet, jsName string) (string, error) {
	if jsName == "" {
		return "", fmt.Errorf("%w: empty observer name", utils.ErrObserverBundle)
	}

	matches := lo.Filter(lo.Keys(assets), func(name string, _ int) bool {
		return isObserverBundle(name, jsName)
	})
	sort.Strings(matches)

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("%w: no output matches %q", utils.ErrObserverBundle, jsName)
	default:
		return "", fmt.Errorf("%w: %q matches %s", utils.ErrObserverBundle, jsName, strings.Join(matches, ", "))
	}
}

// isEmittedObserver reports whether name has the shape of an observer output
// written by the pipeline: "<jsName>.js" or "<jsName>.<hash>.js".
func isEmittedObserver(name, jsName string) bool {
	if jsName == "" {
		return false
	}
	lower := strings.ToLower(name)
	prefix := strings.ToLower(jsName) + "."
	if lower == prefix+"js" {
		return true
	}
	if !strings.HasPrefix(lower, prefix) || !strings.HasSuffix(lower, ".js") {
		return false
	}
	hash := strings.TrimSuffix(strings.TrimPrefix(lower, prefix), ".js")
	return len(hash) == 16 && strings.Trim(hash, "0123456789abcdef") == ""
}

func isObserverBundle(name, jsName string) bool {
	if jsName == "" {
		return false
	}
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".js") && strings.Contains(lower, strings.ToLower(jsName))
}
