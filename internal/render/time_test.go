package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRelTime(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cases := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{48 * time.Hour, "2d ago"},
		{40 * 24 * time.Hour, "1mo ago"},
		{400 * 24 * time.Hour, "1y ago"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, relTime(now.Add(-tc.ago), now), "ago=%s", tc.ago)
	}
}

func TestRelTime_ZeroTimestamp(t *testing.T) {
	require.Equal(t, "", TimeAgo(0))
}
