package services

import (
	"context"
	"fmt"
	"sort"

	"ImgAltText/models"
	"ImgAltText/observer"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Plugin hooks into a build pass. EntryOption runs before entries are compiled,
// ProcessAssets runs over the full output set before it is written. bundles maps
// each entry compiled in this pass to the output file it was emitted as.
type Plugin interface {
	Name() string
	EntryOption(entries models.EntryConfig) (models.EntryConfig, error)
	ProcessAssets(ctx context.Context, assets models.AssetSet, bundles map[string]string) error
}

// Pipeline runs plugins in registration order.
type Pipeline struct {
	plugins    []Plugin
	production bool
	logger     *zap.Logger
}

func NewPipeline(production bool, logger *zap.Logger, plugins ...Plugin) *Pipeline {
	return &Pipeline{plugins: plugins, production: production, logger: logger}
}

// Run performs one build pass over assets and returns the names of emitted bundles.
func (p *Pipeline) Run(ctx context.Context, entry any, assets models.AssetSet) ([]string, error) {
	entries, err := NormalizeEntry(entry)
	if err != nil {
		return nil, err
	}
	for _, plugin := range p.plugins {
		entries, err = plugin.EntryOption(entries)
		if err != nil {
			return nil, fmt.Errorf("%s: entry option: %w", plugin.Name(), err)
		}
	}

	bundles := p.compile(entries, assets)
	emitted := lo.Values(bundles)
	sort.Strings(emitted)

	for _, plugin := range p.plugins {
		if err := plugin.ProcessAssets(ctx, assets, bundles); err != nil {
			return emitted, fmt.Errorf("%s: process assets: %w", plugin.Name(), err)
		}
	}
	return emitted, nil
}

// compile emits bundles for entries this binary can build; other entries are
// expected to already be present in the output directory.
func (p *Pipeline) compile(entries models.EntryConfig, assets models.AssetSet) map[string]string {
	names := lo.Keys(entries)
	sort.Strings(names)

	bundles := make(map[string]string)
	for _, name := range names {
		if !lo.Contains(entries[name].Import, observer.SourcePath) {
			p.logger.Debug("entry bundled externally", zap.String("entry", name))
			continue
		}
		content := observer.Script()
		filename := p.OutputName(name, content)
		assets.Add(models.NewAsset(filename, content))
		bundles[name] = filename
		p.logger.Info("emitted observer bundle", zap.String("entry", name), zap.String("file", filename))
	}
	return bundles
}

// OutputName is "[name].[hash].js" in production and "[name].js" otherwise.
func (p *Pipeline) OutputName(name string, content []byte) string {
	if !p.production {
		return name + ".js"
	}
	return fmt.Sprintf("%s.%016x.js", name, xxhash.Sum64(content))
}

// AltTextPlugin registers the observer entry and injects alt text into HTML outputs.
type AltTextPlugin struct {
	injector   *InjectorService
	observerJS bool
	jsName     string

	captions int
}

func NewAltTextPlugin(injector *InjectorService, observerJS bool, jsName string) *AltTextPlugin {
	return &AltTextPlugin{injector: injector, observerJS: observerJS, jsName: jsName}
}

func (p *AltTextPlugin) Name() string {
	return "ImgAltTextPlugin"
}

func (p *AltTextPlugin) EntryOption(entries models.EntryConfig) (models.EntryConfig, error) {
	if !p.observerJS {
		return entries, nil
	}
	return MergeEntry(entries, p.jsName, observer.SourcePath)
}

// ProcessAssets binds the script tag to the observer output emitted in this
// pass. Without one, the injector falls back to matching jsName.
func (p *AltTextPlugin) ProcessAssets(ctx context.Context, assets models.AssetSet, bundles map[string]string) error {
	n, err := p.injector.ProcessAssets(ctx, assets, bundles[p.jsName])
	p.captions += n
	return err
}

// Captions is the number of captions generated so far.
func (p *AltTextPlugin) Captions() int {
	return p.captions
}
