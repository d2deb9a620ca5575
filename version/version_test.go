package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	var tests = []struct {
		name     string
		info     debug.BuildInfo
		expected string
	}{
		{
			name:     "installed module",
			info:     debug.BuildInfo{Main: debug.Module{Version: "v1.2.0"}},
			expected: "v1.2.0",
		},
		{
			name:     "no vcs information",
			info:     debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			expected: unavailable,
		},
		{
			name: "local build",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs", Value: "git"},
					{Key: "vcs.revision", Value: "0123456789abcdef0123"},
					{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			expected: "devel 0123456789ab-dirty (2025-01-02T03:04:05Z)",
		},
		{
			name: "revision without time",
			info: debug.BuildInfo{
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
			},
			expected: "devel abc123",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, describe(&test.info))
		})
	}
}
