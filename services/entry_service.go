package services

import (
	"fmt"

	"ImgAltText/models"
	"ImgAltText/utils"
)

// NormalizeEntry turns a string, list or map entry setting into an EntryConfig.
// A nil or empty setting yields an empty config. The input is never modified.
func NormalizeEntry(existing any) (models.EntryConfig, error) {
	entries := models.EntryConfig{}

	switch entry := existing.(type) {
	case nil:
	case string:
		if entry != "" {
			entries[models.DefaultEntryName] = models.EntryDescription{Import: []string{entry}}
		}
	case []string, []any:
		imports, err := importList(entry)
		if err != nil {
			return nil, err
		}
		if len(imports) > 0 {
			entries[models.DefaultEntryName] = models.EntryDescription{Import: imports}
		}
	case models.EntryConfig:
		for name, desc := range entry {
			entries[name] = models.EntryDescription{Import: append([]string(nil), desc.Import...)}
		}
	case map[string]any:
		for name, value := range entry {
			desc, err := entryDescription(value)
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", name, err)
			}
			entries[name] = desc
		}
	case map[string]string:
		for name, value := range entry {
			entries[name] = models.EntryDescription{Import: []string{value}}
		}
	default:
		return nil, fmt.Errorf("%w: %T", utils.ErrEntryConfig, existing)
	}
	return entries, nil
}

// MergeEntry adds an entry named name importing importPath on top of existing,
// whatever shape existing has. An entry already using that name is replaced.
func MergeEntry(existing any, name, importPath string) (models.EntryConfig, error) {
	entries, err := NormalizeEntry(existing)
	if err != nil {
		return nil, err
	}
	entries[name] = models.EntryDescription{Import: []string{importPath}}
	return entries, nil
}

func entryDescription(value any) (models.EntryDescription, error) {
	switch v := value.(type) {
	case string:
		return models.EntryDescription{Import: []string{v}}, nil
	case []string, []any:
		imports, err := importList(v)
		return models.EntryDescription{Import: imports}, err
	case models.EntryDescription:
		return models.EntryDescription{Import: append([]string(nil), v.Import...)}, nil
	case map[string]any:
		imp, ok := v["import"]
		if !ok {
			return models.EntryDescription{}, fmt.Errorf("%w: missing import", utils.ErrEntryConfig)
		}
		return entryDescription(imp)
	default:
		return models.EntryDescription{}, fmt.Errorf("%w: %T", utils.ErrEntryConfig, value)
	}
}

func importList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		imports := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: import of type %T", utils.ErrEntryConfig, item)
			}
			imports = append(imports, s)
		}
		return imports, nil
	}
	return nil, fmt.Errorf("%w: %T", utils.ErrEntryConfig, value)
}
