package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/mapview/pkg/config"
	"github.com/hitzhangjie/mapview/pkg/export"
)

var testMaps = []string{
	"../pkg/mapfile/testdata/firmware_dh_01.map",
	"../pkg/mapfile/testdata/host_dh_02.map",
}

func TestLoadReportsKeepsOrder(t *testing.T) {
	for _, jobs := range []int{1, 2, 8} {
		reports, err := loadReports(context.Background(), testMaps, jobs, true)
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, "firmware", reports[0].Map.System)
		assert.Equal(t, "host", reports[1].Map.System)
	}
}

func TestLoadReportsError(t *testing.T) {
	_, err := loadReports(context.Background(), append(testMaps, "testdata/missing.map"), 2, false)
	assert.Error(t, err)
}

func TestCollect(t *testing.T) {
	reports, err := loadReports(context.Background(), testMaps, 2, false)
	require.NoError(t, err)

	maps, names := collect(reports, config.Default().Categories)
	require.Len(t, maps, 2)
	assert.Equal(t, []string{
		".isr_vector", ".text", ".rodata.pin_B6", ".data", ".rodata", ".heap", ".stack", ".bss",
		"/DISCARD/", ".ARM.attributes", ".comment",
	}, names)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, maps, names))
	assert.Equal(t,
		"system,.isr_vector,.text,.rodata.pin_B6,.data,.rodata,.heap,.stack,.bss,/DISCARD/,.ARM.attributes,.comment\n"+
			"firmware,192,416,16,16,0,0,1024,824,0,46,110\n"+
			"host,0,512,0,0,0,0,0,128,0,0,0\n",
		buf.String())
}
