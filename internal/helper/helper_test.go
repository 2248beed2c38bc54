package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormTF(t *testing.T) {
	assert.Equal(t, "1h", NormTF("60m"))
	assert.Equal(t, "1h", NormTF("candle1H"))
	assert.Equal(t, "1d", NormTF("24h"))
	assert.Equal(t, "5m", NormTF(" 5m "))
}

func TestTFDuration(t *testing.T) {
	d, err := TFDuration("1h")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	d, err = TFDuration("60m")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, d)

	_, err = TFDuration("7w")
	assert.Error(t, err)
}

func TestVenueSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", VenueSymbol("BTC/USDT"))
	assert.Equal(t, "ETHUSDT", VenueSymbol("ethusdt"))
}
