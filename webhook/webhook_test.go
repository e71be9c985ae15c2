package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func webhookPayload(spaceID string, entityType string, entityID string, environment string) map[string]interface{} {
	return map[string]interface{}{
		"sys": map[string]interface{}{
			"type": entityType,
			"id":   entityID,
			"space": map[string]interface{}{
				"sys": map[string]interface{}{"type": "Link", "linkType": "Space", "id": spaceID},
			},
			"environment": map[string]interface{}{
				"sys": map[string]interface{}{"type": "Link", "linkType": "Environment", "id": environment},
			},
		},
	}
}

func TestEventOfInterest(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		topic      string
		ofInterest bool
	}{
		{"ContentManagement.Entry.publish", true},
		{"ContentManagement.Entry.auto_save", true},
		{"ContentManagement.Entry.create", true},
		{"ContentManagement.Entry.save", true},
		{"ContentManagement.Entry.archive", true},
		{"ContentManagement.Entry.unarchive", true},
		{"ContentManagement.Entry.unpublish", true},
		{"ContentManagement.Entry.delete", true},
		{"ContentManagement.Asset.publish", true},
		{"ContentManagement.ContentType.publish", false},
		{"ContentManagement.Entry.snapshot", false},
		{"SomethingElse.Entry.publish", false},
		{"ContentManagement.Entry", false},
		{"", false},
	}

	for _, c := range cases {
		hook := New(c.topic, map[string]interface{}{})
		assert.Equal(c.ofInterest, hook.EventOfInterest(), "topic %q", c.topic)
	}
}

func TestLiveChange(t *testing.T) {
	assert := assert.New(t)

	liveChanges := []string{"archive", "unarchive", "publish", "unpublish", "delete"}
	for _, action := range liveChanges {
		hook := New("ContentManagement.Entry."+action, map[string]interface{}{})
		assert.True(hook.LiveChange(), "action %q should be a live change", action)
	}

	draftChanges := []string{"create", "save", "auto_save"}
	for _, action := range draftChanges {
		hook := New("ContentManagement.Entry."+action, map[string]interface{}{})
		assert.False(hook.LiveChange(), "action %q should not be a live change", action)
	}
}

func TestEntityID(t *testing.T) {
	assert := assert.New(t)

	hook := New("ContentManagement.Entry.publish", webhookPayload("space-1", "Entry", "entry-1", "master"))

	entityID, err := hook.EntityID()

	assert.NoError(err)
	assert.Equal("space-1:Entry:entry-1", entityID)
}

func TestEntityIDMissingFields(t *testing.T) {
	assert := assert.New(t)

	payloads := []map[string]interface{}{
		{},
		{"sys": map[string]interface{}{"type": "Entry", "id": "entry-1"}},
		{"sys": map[string]interface{}{"id": "entry-1"}},
	}

	for _, payload := range payloads {
		hook := New("ContentManagement.Entry.publish", payload)
		_, err := hook.EntityID()
		assert.EqualError(err, "unable to identify entity id")
	}
}

func TestEnvironment(t *testing.T) {
	assert := assert.New(t)

	hook := New("ContentManagement.Entry.publish", webhookPayload("space-1", "Entry", "entry-1", "staging"))
	assert.Equal("staging", hook.Environment())

	hook = New("ContentManagement.Entry.publish", map[string]interface{}{})
	assert.Equal("", hook.Environment())
}
