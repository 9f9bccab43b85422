// Package jsonutil implements forgiving lookups of top-level keys in JSON
// documents fetched from the network or read from the SD card. Lookups never
// fail: missing keys and mistyped values yield a documented default.
package jsonutil

import (
	"bytes"

	"github.com/go-faster/jx"
)

// emptyObject is returned by ValueFromKey when the key is absent.
var emptyObject = jx.Raw("{}")

// lookup finds the raw value for key in the top-level object of doc. Key
// order in doc is preserved in the returned value.
func lookup(doc []byte, key string) (jx.Raw, bool) {
	d := jx.DecodeBytes(doc)
	if d.Next() != jx.Object {
		return nil, false
	}
	var (
		found jx.Raw
		ok    bool
	)
	err := d.ObjBytes(func(d *jx.Decoder, k []byte) error {
		if ok || string(k) != key {
			return d.Skip()
		}
		raw, err := d.Raw()
		if err != nil {
			return err
		}
		// Raw aliases the decoder buffer and may carry the whitespace that
		// followed the colon.
		found = append(jx.Raw(nil), bytes.TrimSpace(raw)...)
		ok = true
		return nil
	})
	if err != nil {
		return nil, false
	}
	return found, ok
}

// BoolValue returns the boolean stored under key, or false if the key is
// missing or not a boolean.
func BoolValue(doc []byte, key string) bool {
	raw, ok := lookup(doc, key)
	if !ok || raw.Type() != jx.Bool {
		return false
	}
	v, err := jx.DecodeBytes(raw).Bool()
	if err != nil {
		return false
	}
	return v
}

// StringValue returns the string stored under key.
func StringValue(doc []byte, key string) (string, bool) {
	raw, ok := lookup(doc, key)
	if !ok || raw.Type() != jx.String {
		return "", false
	}
	v, err := jx.DecodeBytes(raw).Str()
	if err != nil {
		return "", false
	}
	return v, true
}

// ValueFromKey returns the raw value stored under key, or an empty object if
// the key is missing.
func ValueFromKey(doc []byte, key string) jx.Raw {
	raw, ok := lookup(doc, key)
	if !ok {
		return emptyObject
	}
	return raw
}
