package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunMain(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"version", []string{"mxls", "version"}, 0},
		{"unknown command", []string{"mxls", "bogus"}, 1},
		{"missing arguments", []string{"mxls", "references", "A.as"}, 1},
	}
	saved := os.Args
	defer func() { os.Args = saved }()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.code, runMain())
		})
	}
}
