package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const doc = `{
	"enabled": true,
	"disabled": false,
	"name": "GMPack",
	"count": 3,
	"links": {"zeta": "z", "alpha": "a"}
}`

func TestBoolValue(t *testing.T) {
	assert.True(t, BoolValue([]byte(doc), "enabled"))
	assert.False(t, BoolValue([]byte(doc), "disabled"))
	assert.False(t, BoolValue([]byte(doc), "missing"))
	assert.False(t, BoolValue([]byte(doc), "name"), "non-bool values default to false")
	assert.False(t, BoolValue([]byte(`[true]`), "enabled"))
	assert.False(t, BoolValue([]byte(`{"enabled": tru`), "enabled"))
}

func TestStringValue(t *testing.T) {
	v, ok := StringValue([]byte(doc), "name")
	assert.True(t, ok)
	assert.Equal(t, "GMPack", v)

	_, ok = StringValue([]byte(doc), "count")
	assert.False(t, ok)
}

func TestValueFromKey(t *testing.T) {
	links := ValueFromKey([]byte(doc), "links")
	assert.Equal(t, `{"zeta": "z", "alpha": "a"}`, links.String(), "key order must be preserved")
	v, ok := StringValue(links, "alpha")
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	assert.Equal(t, "{}", ValueFromKey([]byte(doc), "missing").String())
	assert.Equal(t, "{}", ValueFromKey([]byte("null"), "links").String())
}
