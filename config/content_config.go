package config

import (
	"fmt"
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

// ContentConfig associates a Contentful entry with the Publishing API
// content item it produces, plus the attributes used to build its payload.
// Instances are immutable once loaded.
type ContentConfig struct {
	ContentfulSpaceID       string                 `yaml:"contentful_space_id"`
	ContentfulEntryID       string                 `yaml:"contentful_entry_id"`
	ContentID               string                 `yaml:"content_id"`
	DraftOnly               bool                   `yaml:"draft_only"`
	PublishingAPIAttributes map[string]interface{} `yaml:"publishing_api_attributes"`
}

// Locale defaults to "en" unless the publishing API attributes override it.
func (cc *ContentConfig) Locale() string {
	if locale, ok := cc.PublishingAPIAttributes["locale"].(string); ok {
		return locale
	}
	return "en"
}

func (cc *ContentConfig) BasePath() string {
	basePath, _ := cc.PublishingAPIAttributes["base_path"].(string)
	return basePath
}

// EntityID is the Contentful reference for the entry this config tracks.
func (cc *ContentConfig) EntityID() string {
	return fmt.Sprintf("%s:Entry:%s", cc.ContentfulSpaceID, cc.ContentfulEntryID)
}

// ContentConfigs is the static mapping table of every content item this
// service maintains. It is read-only after construction.
type ContentConfigs struct {
	items []*ContentConfig
}

func NewContentConfigs(items []*ContentConfig) *ContentConfigs {
	return &ContentConfigs{items: items}
}

// LoadContentConfigs reads the mapping table from a YAML file.
func LoadContentConfigs(path string) (*ContentConfigs, error) {
	contents, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read content config %s: %v", path, err)
	}

	var items []*ContentConfig
	if err := yaml.Unmarshal(contents, &items); err != nil {
		return nil, fmt.Errorf("could not parse content config %s: %v", path, err)
	}

	for _, item := range items {
		item.PublishingAPIAttributes = normaliseAttributes(item.PublishingAPIAttributes)
	}

	return NewContentConfigs(items), nil
}

// Find returns the config for a content id and locale pairing, or nil when
// the pairing isn't configured.
func (ccs *ContentConfigs) Find(contentID string, locale string) *ContentConfig {
	for _, item := range ccs.items {
		if item.ContentID == contentID && item.Locale() == locale {
			return item
		}
	}
	return nil
}

// FindByEntityID returns the config whose Contentful entry matches the given
// entity reference, or nil if no config tracks that entry.
func (ccs *ContentConfigs) FindByEntityID(entityID string) *ContentConfig {
	for _, item := range ccs.items {
		if item.EntityID() == entityID {
			return item
		}
	}
	return nil
}

func (ccs *ContentConfigs) All() []*ContentConfig {
	return ccs.items
}

// yaml.v2 decodes nested mappings as map[interface{}]interface{}, which
// can't be JSON encoded. Normalise everything to string keys up front.
func normaliseAttributes(attributes map[string]interface{}) map[string]interface{} {
	if attributes == nil {
		return map[string]interface{}{}
	}
	normalised := make(map[string]interface{}, len(attributes))
	for key, value := range attributes {
		normalised[key] = normaliseValue(value)
	}
	return normalised
}

func normaliseValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprintf("%v", key)] = normaliseValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = normaliseValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normaliseValue(item)
		}
		return out
	default:
		return v
	}
}
