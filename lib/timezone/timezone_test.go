package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNow(t *testing.T) {
	now := Now()
	require.Equal(t, "Asia/Tokyo", now.Location().String())

	_, offset := now.Zone()
	require.Equal(t, 9*60*60, offset, "JST has no daylight saving")

	require.WithinDuration(t, time.Now(), now, time.Second)
}
