package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		wantJSON  bool
		wantDebug bool
	}{
		{name: "local", env: EnvLocal, wantJSON: false, wantDebug: true},
		{name: "unknown falls back to local", env: "staging", wantJSON: false, wantDebug: true},
		{name: "dev", env: EnvDev, wantJSON: true, wantDebug: true},
		{name: "prod", env: EnvProd, wantJSON: true, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.env, &buf)

			log.Debug("debug message")
			assert.Equal(t, tt.wantDebug, strings.Contains(buf.String(), "debug message"))

			buf.Reset()
			log.Info("info message", "template_id", 7)
			line := strings.TrimSpace(buf.String())
			require.NotEmpty(t, line)

			var decoded map[string]any
			isJSON := json.Unmarshal([]byte(line), &decoded) == nil
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
