package collector

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfiguredPlatformsNoOverrides(t *testing.T) {
	platforms, err := ConfiguredPlatforms(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultPlatforms(), platforms)
}

func TestConfiguredPlatformsOverride(t *testing.T) {
	platforms, err := ConfiguredPlatforms(map[string]PlatformOverride{
		PlatformUda: {
			Login: LoginSelectors{Landing: ".dashboard-card"},
			Scrape: ScrapeSelectors{
				Assignments: SelectorChain{".modtype_assign"},
			},
		},
	})
	require.NoError(t, err)

	var uda Platform
	for _, platform := range platforms {
		if platform.Name == PlatformUda {
			uda = platform
		}
	}
	require.Equal(t, SelectorChain{".modtype_assign"}, uda.Scrape.Assignments)
	// unspecified fields keep the defaults.
	require.Equal(t, SelectorChain{".activitydates", ".dates"}, uda.Scrape.DueDates)

	// the login state machine is rebuilt from the merged selectors, not
	// the defaults.
	login, ok := uda.Auth.(ConsumerLogin)
	require.True(t, ok)
	require.Equal(t, ".dashboard-card", login.Selectors.Landing)
	require.Equal(t, "#identifierId", login.Selectors.Identifier)
}

func TestConfiguredPlatformsUnknownName(t *testing.T) {
	_, err := ConfiguredPlatforms(map[string]PlatformOverride{
		"catoo": {PortalURL: "https://elsewhere.test/"},
	})
	require.Error(t, err)
}
