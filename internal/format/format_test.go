package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVND(t *testing.T) {
	t.Parallel()

	price := 250000.0
	require.Equal(t, "250.000\u00a0₫", VND(&price))
	require.Equal(t, "0\u00a0₫", VND(nil))

	rounded := 1234567.6
	require.Equal(t, "1.234.568\u00a0₫", VND(&rounded))

	small := 990.0
	require.Equal(t, "990\u00a0₫", VND(&small))
}

func TestDate(t *testing.T) {
	t.Parallel()

	d := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "09/03/2025", Date(d, "vi"))
	require.Equal(t, "Mar 9, 2025", Date(d, "en"))
}
