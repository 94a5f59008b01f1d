package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		allowed  []string
		expected []string
	}{
		{
			name:     "separate value form",
			args:     []string{"-a", "http://localhost:8080", "-x", "junk"},
			allowed:  []string{"-a"},
			expected: []string{"-a", "http://localhost:8080"},
		},
		{
			name:     "equals form",
			args:     []string{"--config=conf.json", "-a=srv"},
			allowed:  []string{"--config"},
			expected: []string{"--config=conf.json"},
		},
		{
			name:     "flag followed by another flag keeps no value",
			args:     []string{"-a", "-t", "5"},
			allowed:  []string{"-a"},
			expected: []string{"-a"},
		},
		{
			name:     "nothing allowed",
			args:     []string{"-a", "srv"},
			allowed:  nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestJSONConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "short flag", args: []string{"cmd", "-c", "conf.json"}, expected: "conf.json"},
		{name: "long flag", args: []string{"cmd", "-config", "other.json"}, expected: "other.json"},
		{name: "equals form", args: []string{"cmd", "--config=x.json"}, expected: "x.json"},
		{name: "absent", args: []string{"cmd", "-a", "srv"}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			assert.Equal(t, tt.expected, JSONConfigFlags())
		})
	}
}
