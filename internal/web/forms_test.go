package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCheckbox(t *testing.T) {
	cases := map[string]bool{
		"on":      true,
		"true":    true,
		"1":       true,
		"":        false, // unchecked boxes are simply absent
		"off":     false,
		"false":   false,
		"checked": false,
		"yes":     false,
	}

	for value, want := range cases {
		assert.Equal(t, want, ParseCheckbox(value), "value %q", value)
	}
}
