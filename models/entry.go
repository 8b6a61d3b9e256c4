package models

// EntryDescription is one named build entry.
type EntryDescription struct {
	Import []string `json:"import" mapstructure:"import"`
}

// EntryConfig is the normalized multi-entry configuration.
type EntryConfig map[string]EntryDescription

// DefaultEntryName names a single unnamed entry.
const DefaultEntryName = "main"
