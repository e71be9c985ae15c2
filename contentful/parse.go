package contentful

import (
	"fmt"
	"time"
)

// parseResource decodes a raw CDA resource (an item or an include) into an
// *Entry or *Asset based on its sys type.
func parseResource(raw map[string]interface{}) (interface{}, error) {
	sys, _ := raw["sys"].(map[string]interface{})
	if sys == nil {
		return nil, fmt.Errorf("contentful resource is missing sys metadata")
	}

	resourceType, _ := sys["type"].(string)
	id, _ := sys["id"].(string)
	space := resourceSpace(sys)
	fields, _ := raw["fields"].(map[string]interface{})

	switch resourceType {
	case "Entry":
		return &Entry{Space: space, ID: id, Fields: parseFields(fields)}, nil
	case "Asset":
		return parseAsset(space, id, fields), nil
	default:
		return nil, fmt.Errorf("unexpected contentful resource type: %q", resourceType)
	}
}

func parseAsset(space string, id string, fields map[string]interface{}) *Asset {
	asset := &Asset{Space: space, ID: id, Fields: map[string]interface{}{}}

	for name, value := range fields {
		if name == "file" {
			asset.File = parseFile(value)
			continue
		}
		asset.Fields[name] = parseFieldValue(value)
	}

	return asset
}

func parseFile(value interface{}) *File {
	raw, _ := value.(map[string]interface{})
	if raw == nil {
		return nil
	}

	file := &File{}
	file.URL, _ = raw["url"].(string)
	file.ContentType, _ = raw["contentType"].(string)
	file.Details, _ = raw["details"].(map[string]interface{})
	return file
}

func parseFields(fields map[string]interface{}) map[string]interface{} {
	parsed := make(map[string]interface{}, len(fields))
	for name, value := range fields {
		parsed[name] = parseFieldValue(value)
	}
	return parsed
}

// parseFieldValue maps a decoded JSON field value onto the node model. Maps
// carrying link metadata become Links, RFC3339 strings become times (the
// CDA serves date fields as strings) and containers are decoded elementwise.
func parseFieldValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		if link := parseLink(v); link != nil {
			return link
		}
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[key] = parseFieldValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = parseFieldValue(item)
		}
		return out
	case string:
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
		return v
	default:
		return v
	}
}

func parseLink(raw map[string]interface{}) *Link {
	sys, _ := raw["sys"].(map[string]interface{})
	if sys == nil {
		return nil
	}

	if sysType, _ := sys["type"].(string); sysType != "Link" {
		return nil
	}

	linkType, _ := sys["linkType"].(string)
	if linkType != "Entry" && linkType != "Asset" {
		return nil
	}

	id, _ := sys["id"].(string)
	return &Link{LinkType: linkType, ID: id}
}

func resourceSpace(sys map[string]interface{}) string {
	space, _ := sys["space"].(map[string]interface{})
	if space == nil {
		return ""
	}
	spaceSys, _ := space["sys"].(map[string]interface{})
	if spaceSys == nil {
		return ""
	}
	id, _ := spaceSys["id"].(string)
	return id
}
