package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCLIOpts(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    CLIOpts
		wantErr error
	}{
		{
			name: "one image",
			args: []string{"a.png", "xterm"},
			want: CLIOpts{images: []string{"a.png"}, command: "xterm"},
		},
		{
			name: "three images and flags",
			args: []string{"-log", "-shell", "bash", "-config", "c.toml", "a.png", "b.png", "c.png", "xterm -e top"},
			want: CLIOpts{
				doLog:      true,
				shell:      "bash",
				configPath: "c.toml",
				images:     []string{"a.png", "b.png", "c.png"},
				command:    "xterm -e top",
			},
		},
		{
			name: "image starting with a dash",
			args: []string{"-log", "--", "-button.png", "xterm"},
			want: CLIOpts{doLog: true, images: []string{"-button.png"}, command: "xterm"},
		},
		{name: "dash image without separator", args: []string{"-button.png", "xterm"}, wantErr: errUsage},
		{name: "no command", args: []string{"a.png"}, wantErr: errUsage},
		{name: "too many images", args: []string{"a", "b", "c", "d", "cmd"}, wantErr: errUsage},
		{name: "unknown flag", args: []string{"-x", "a.png", "cmd"}, wantErr: errUsage},
		{name: "empty command", args: []string{"a.png", ""}, wantErr: errEmptyArgument},
		{name: "empty image", args: []string{"", "b.png", "cmd"}, wantErr: errEmptyArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCLIOpts(tt.args, io.Discard)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsageMentionsSeparator(t *testing.T) {
	assert.Contains(t, errUsage.Error(), "[--] image")
}
