package webhook

import (
	"errors"
	"strings"
)

var eventsOfInterest = []string{"create", "save", "auto_save", "archive", "unarchive", "publish", "unpublish", "delete"}

// liveChangeEvents are the actions that affect published content; everything
// else is a pure draft edit.
var liveChangeEvents = []string{"archive", "unarchive", "publish", "unpublish", "delete"}

// Webhook answers the questions we want to ask of a Contentful webhook
// notification: its topic header and decoded JSON payload.
type Webhook struct {
	Topic   string
	Payload map[string]interface{}
}

func New(topic string, payload map[string]interface{}) *Webhook {
	return &Webhook{Topic: topic, Payload: payload}
}

// EventOfInterest reports whether the topic describes a content management
// change to an entry or asset that this service tracks.
func (w *Webhook) EventOfInterest() bool {
	return contains(eventsOfInterest, w.cmsEvent())
}

// LiveChange reports whether the change affects the live version rather than
// only the draft.
func (w *Webhook) LiveChange() bool {
	return contains(liveChangeEvents, w.cmsEvent())
}

// EntityID builds the space:type:id reference for the changed entity from
// the payload's system metadata.
func (w *Webhook) EntityID() (string, error) {
	spaceID, _ := dig(w.Payload, "sys", "space", "sys", "id").(string)
	entityType, _ := dig(w.Payload, "sys", "type").(string)
	entityID, _ := dig(w.Payload, "sys", "id").(string)

	if spaceID == "" || entityType == "" || entityID == "" {
		return "", errors.New("unable to identify entity id")
	}

	return spaceID + ":" + entityType + ":" + entityID, nil
}

// Environment is the Contentful environment the notification was emitted
// from.
func (w *Webhook) Environment() string {
	environment, _ := dig(w.Payload, "sys", "environment", "sys", "id").(string)
	return environment
}

func (w *Webhook) cmsEvent() string {
	parts := strings.Split(w.Topic, ".")
	if len(parts) != 3 {
		return ""
	}
	if parts[0] != "ContentManagement" {
		return ""
	}
	if parts[1] != "Entry" && parts[1] != "Asset" {
		return ""
	}
	return parts[2]
}

func dig(payload map[string]interface{}, keys ...string) interface{} {
	var current interface{} = payload
	for _, key := range keys {
		asMap, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		current = asMap[key]
	}
	return current
}

func contains(list []string, value string) bool {
	if value == "" {
		return false
	}
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
