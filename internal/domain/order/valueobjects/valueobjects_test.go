package valueobjects

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBillingPeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    BillingPeriod
		wantErr bool
	}{
		{"monthly", BillingMonthly, false},
		{" Mensual ", BillingMonthly, false},
		{"annual", BillingAnnual, false},
		{"anual", BillingAnnual, false},
		{"ANUAL", BillingAnnual, false},
		{"", "", true},
		{"weekly", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBillingPeriod(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBillingPeriod_Months(t *testing.T) {
	assert.Equal(t, 1, BillingMonthly.Months())
	assert.Equal(t, 12, BillingAnnual.Months())
	assert.True(t, BillingAnnual.IsAnnual())
	assert.False(t, BillingPeriod("mensual").IsValid())
}

func TestParseLocationAndOS(t *testing.T) {
	loc, err := ParseLocation("Miami")
	require.NoError(t, err)
	assert.Equal(t, LocationMiami, loc)
	assert.Equal(t, "Miami, USA", loc.DisplayName())

	_, err = ParseLocation("tokyo")
	assert.Error(t, err)

	os, err := ParseOperatingSystem("debian-12")
	require.NoError(t, err)
	assert.Equal(t, OSDebian12, os)
	assert.Equal(t, "freebsd", OperatingSystem("freebsd").DisplayName())

	_, err = ParseOperatingSystem("")
	assert.Error(t, err)
}

func TestParse_ConfiguratorLabels(t *testing.T) {
	locations := map[string]Location{
		"Miami":   LocationMiami,
		"Francia": LocationFrance,
		"france":  LocationFrance,
	}
	for in, want := range locations {
		got, err := ParseLocation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	systems := map[string]OperatingSystem{
		"Ubuntu 22.04 LTS":    OSUbuntu2204,
		"Debian 12":           OSDebian12,
		"Windows Server 2022": OSWindowsServer2022,
		"windows-server-2022": OSWindowsServer2022,
	}
	for in, want := range systems {
		got, err := ParseOperatingSystem(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	c, err := NewResourceConfiguration("Miami", "Ubuntu 22.04 LTS", 4, 8, 200, "mensual")
	require.NoError(t, err)
	assert.Equal(t, LocationMiami, c.Location)
	assert.Equal(t, OSUbuntu2204, c.OperatingSystem)
	assert.Equal(t, BillingMonthly, c.BillingPeriod)

	c, err = NewResourceConfiguration("Francia", "debian-12", 4, 8, 200, "anual")
	require.NoError(t, err)
	assert.Equal(t, LocationFrance, c.Location)
	assert.Equal(t, BillingAnnual, c.BillingPeriod)
}

func TestNewResourceConfiguration(t *testing.T) {
	c, err := NewResourceConfiguration("france", "ubuntu-22.04", 4, 8, 200, "mensual")
	require.NoError(t, err)
	assert.Equal(t, ResourceConfiguration{
		Location:        LocationFrance,
		OperatingSystem: OSUbuntu2204,
		Cores:           4,
		RAMGb:           8,
		StorageGb:       200,
		BillingPeriod:   BillingMonthly,
	}, c)
	assert.Equal(t, "VPS 4 vCPU / 8GB RAM", c.Summary())

	same, err := NewResourceConfiguration("FRANCE", "ubuntu-22.04", 4, 8, 200, "monthly")
	require.NoError(t, err)
	assert.True(t, c == same)

	_, err = NewResourceConfiguration("france", "ubuntu-22.04", 0, 8, 200, "monthly")
	assert.True(t, errors.Is(err, ErrIncompleteConfiguration))
}

func TestCheckComplete_ListsMissingFields(t *testing.T) {
	err := ResourceConfiguration{Cores: 2}.CheckComplete()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "location")
	assert.Contains(t, err.Error(), "ramGb")
	assert.NotContains(t, err.Error(), "cores")
}
