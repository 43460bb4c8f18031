package mdomml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLoadConfig_DefaultValues(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)

	assert.Equal(t, "宋体", config.Fonts.Body)
	assert.Equal(t, "黑体", config.Fonts.Heading)
	assert.Equal(t, "Cambria Math", config.Fonts.Math)
	assert.Equal(t, "Consolas", config.Fonts.Code)
	assert.Equal(t, 12.0, config.Fonts.BodySize)
	assert.Equal(t, 10.0, config.Fonts.TableSize)
	assert.Equal(t, 2.54, config.Page.MarginTop)
	assert.Equal(t, 3.17, config.Page.MarginLeft)
	assert.Equal(t, ".docx", config.Output.Suffix)
	assert.True(t, config.Math.IsDetectionEnabled())
}

func TestLoadConfig_PartialFileGetsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mdomml.yaml")

	configContent := `
fonts:
  body: "Times New Roman"
math:
  detect_implicit: false
  operator_names: ["Loss", "KL"]
`

	err := os.WriteFile(configPath, []byte(configContent), 0644)
	assert.NoError(t, err)

	config, err := LoadConfig(configPath)
	assert.NoError(t, err)

	assert.Equal(t, "Times New Roman", config.Fonts.Body)
	assert.Equal(t, "黑体", config.Fonts.Heading)
	assert.Equal(t, 12.0, config.Fonts.BodySize)
	assert.Equal(t, 2.54, config.Page.MarginBottom)
	assert.False(t, config.Math.IsDetectionEnabled())
	assert.Equal(t, []string{"Loss", "KL"}, config.Math.OperatorNames)
}

func TestLoadConfig_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("MDOMML_TEST_OUT", "/tmp/converted")
	t.Setenv("MDOMML_TEST_FONT", "Noto Serif CJK SC")

	config, err := ParseConfig([]byte(`
fonts:
  body: "${MDOMML_TEST_FONT}"
output:
  dir: "$MDOMML_TEST_OUT/docs"
`))
	assert.NoError(t, err)

	assert.Equal(t, "Noto Serif CJK SC", config.Fonts.Body)
	assert.Equal(t, "/tmp/converted/docs", config.Output.Dir)
}

func TestMathConfig_IsDetectionEnabled(t *testing.T) {
	enabled := true
	disabled := false

	tests := []struct {
		name     string
		value    *bool
		expected bool
	}{
		{"unset", nil, true},
		{"explicit true", &enabled, true},
		{"explicit false", &disabled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := MathConfig{DetectImplicit: tt.value}
			assert.Equal(t, tt.expected, config.IsDetectionEnabled())
		})
	}
}

func TestStats(t *testing.T) {
	var stats Stats

	stats.AddBlock()
	stats.AddInline()
	stats.AddInline()

	assert.Equal(t, Stats{Block: 1, Inline: 2}, stats)
	assert.Equal(t, 3, stats.Total())

	stats.Merge(Stats{Block: 2, Inline: 1})
	assert.Equal(t, Stats{Block: 3, Inline: 3}, stats)

	var missing *Stats
	missing.AddInline() // must not panic
}
