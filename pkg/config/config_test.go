package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
verbose: true
output: sizes.csv
categories:
  - .isr_vector
  - .text
jobs: 2
`)))

	c, err := Load(v)
	require.NoError(t, err)
	assert.True(t, c.Verbose)
	assert.Equal(t, "sizes.csv", c.Output)
	assert.Equal(t, []string{".isr_vector", ".text"}, c.Categories)
	assert.Equal(t, 2, c.Jobs)
	assert.True(t, c.Demangle)
}

func TestLoadInvalid(t *testing.T) {
	type arg struct {
		name string
		key  string
		val  interface{}
	}

	args := []arg{
		{"no jobs", KeyJobs, 0},
		{"negative jobs", KeyJobs, -3},
		{"empty output", KeyOutput, ""},
	}

	for _, arg := range args {
		v := viper.New()
		v.Set(arg.key, arg.val)
		_, err := Load(v)
		assert.Error(t, err, arg.name)
	}
}
