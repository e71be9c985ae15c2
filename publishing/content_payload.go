package publishing

import (
	"fmt"
	"time"

	"github.com/Financial-Times/contentful-listener-api/contentful"
)

// BuildContentPayload walks a Contentful entry's content graph and produces
// the payload to write to the Publishing API: the configured attributes over
// a set of defaults, plus a details tree mirroring the entry's fields and
// the flat list of Contentful entities the tree references.
func BuildContentPayload(client contentful.Client, entry *contentful.Entry, attributes map[string]interface{}) (Payload, error) {
	details, err := buildDetails(client, entry, nil)
	if err != nil {
		return nil, err
	}

	payload := Payload{}
	for key, value := range attributes {
		payload[key] = value
	}

	setDefault(payload, "locale", "en")
	setDefault(payload, "schema_name", "special_route")
	setDefault(payload, "document_type", "special_route")
	setDefault(payload, "update_type", "major")
	setDefault(payload, "title", nil)
	setDefault(payload, "description", nil)
	payload["publishing_app"] = PublishingApp

	if _, ok := payload["routes"]; !ok {
		basePath, _ := attributes["base_path"].(string)
		payload["routes"] = []interface{}{
			map[string]interface{}{"path": basePath, "type": "exact"},
		}
	}

	payload["details"] = details
	payload["cms_entity_ids"] = collectEntityIDs(details)

	return payload, nil
}

// buildDetails transforms one node of the content graph. visited carries the
// entry ids already expanded on the path from the root to this node; it is
// copied, not shared, so an entry reached on two separate branches is
// expanded on both.
func buildDetails(client contentful.Client, item interface{}, visited []string) (interface{}, error) {
	switch v := item.(type) {
	case string, bool, int, int64, float64:
		return v, nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case []interface{}:
		items := make([]interface{}, len(v))
		for i, element := range v {
			built, err := buildDetails(client, element, visited)
			if err != nil {
				return nil, err
			}
			items[i] = built
		}
		return items, nil
	case map[string]interface{}:
		items := make(map[string]interface{}, len(v))
		for key, element := range v {
			built, err := buildDetails(client, element, visited)
			if err != nil {
				return nil, err
			}
			items[key] = built
		}
		return items, nil
	case *contentful.Entry:
		return entryDetails(client, v, visited)
	case *contentful.Link:
		resolved, err := client.Resolve(v)
		if err != nil {
			return nil, err
		}
		return buildDetails(client, resolved, visited)
	case *contentful.Asset:
		return assetDetails(client, v, visited)
	default:
		return nil, fmt.Errorf("%T is not configured to be represented as JSON for Publishing API", item)
	}
}

// entryDetails embeds an entry as its reference token plus its transformed
// fields. An entry already on the current path is a cycle and embeds as the
// token alone, which is what terminates the recursion.
func entryDetails(client contentful.Client, entry *contentful.Entry, visited []string) (interface{}, error) {
	details := map[string]interface{}{"cms_id": entry.EntityID()}

	for _, id := range visited {
		if id == entry.ID {
			return details, nil
		}
	}

	path := append(append([]string{}, visited...), entry.ID)

	for name, value := range entry.Fields {
		if name == "cms_id" {
			continue
		}
		built, err := buildDetails(client, value, path)
		if err != nil {
			return nil, err
		}
		details[name] = built
	}

	return details, nil
}

func assetDetails(client contentful.Client, asset *contentful.Asset, visited []string) (interface{}, error) {
	details := map[string]interface{}{"cms_id": asset.EntityID()}

	for name, value := range asset.Fields {
		if name == "cms_id" {
			continue
		}
		built, err := buildDetails(client, value, visited)
		if err != nil {
			return nil, err
		}
		details[name] = built
	}

	file := map[string]interface{}{}
	if asset.File != nil {
		file["url"] = asset.File.URL
		file["content_type"] = asset.File.ContentType
		file["details"] = asset.File.Details
	}
	details["file"] = file

	return details, nil
}

// collectEntityIDs gathers every reference token in a finished details tree,
// deduplicated, however deeply or repeatedly an entity was embedded.
func collectEntityIDs(details interface{}) []string {
	var ids []string
	seen := map[string]bool{}

	var walk func(interface{})
	walk = func(item interface{}) {
		switch v := item.(type) {
		case map[string]interface{}:
			if id, ok := v["cms_id"].(string); ok && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
			for _, element := range v {
				walk(element)
			}
		case []interface{}:
			for _, element := range v {
				walk(element)
			}
		}
	}
	walk(details)

	return ids
}

func setDefault(payload Payload, key string, value interface{}) {
	if _, ok := payload[key]; !ok {
		payload[key] = value
	}
}
