package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := Now()
	require.Equal(t, "America/Guayaquil", now.Location().String())
}

func TestToday(t *testing.T) {
	today := Today()
	parsed, err := time.Parse(time.DateOnly, today)
	require.NoError(t, err)
	require.Equal(t, today, parsed.Format(time.DateOnly))
}
