package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", ":8080", "-d", "dsn"},
			allowed: []string{"-a"},
			want:    []string{"-a", ":8080"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-x", "1"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "flag followed by another flag keeps no value",
			args:    []string{"-v", "-a", ":8080"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", ":8080"},
			allowed: []string{"-z"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterArgs(tc.args, tc.allowed)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"test", "-c", "conf.json", "-a", ":8080"}
	assert.Equal(t, "conf.json", ConfigFileFlag())

	os.Args = []string{"test", "--config=other.json"}
	assert.Equal(t, "other.json", ConfigFileFlag())

	os.Args = []string{"test", "-a", ":8080"}
	assert.Equal(t, "", ConfigFileFlag())
}
