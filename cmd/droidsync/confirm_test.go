package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAskYesNo(t *testing.T) {
	cases := []struct {
		answer string
		want   bool
	}{
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{"  yes  ", true},
		{"n", false},
		{"no", false},
		{"yeah", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.answer, func(t *testing.T) {
			var out bytes.Buffer
			got := askYesNo(strings.NewReader(tc.answer+"\n"), &out, "Delete faulty files?")
			assert.Equal(t, tc.want, got)
			assert.Contains(t, out.String(), "Delete faulty files?")
		})
	}
}

func TestAskYesNoEOF(t *testing.T) {
	var out bytes.Buffer
	assert.False(t, askYesNo(strings.NewReader(""), &out, "Confirm overriding."))
}
