package clips

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	c, err := New("/videos/holiday.mp4", 6*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "holiday.mp4", c.ID)
	assert.Equal(t, int64(6000), c.DurationMs())

	_, err = New("", time.Second)
	assert.Error(t, err)
	_, err = New("a.mp4", -time.Second)
	assert.Error(t, err)
}

func TestAtClampsAndRounds(t *testing.T) {
	c := Clip{Source: "a.mp4", Duration: 6 * time.Second}

	assert.Equal(t, time.Duration(0), c.At(-0.5))
	assert.Equal(t, 3*time.Second, c.At(0.5))
	assert.Equal(t, 6*time.Second, c.At(1.7))
	assert.Equal(t, 1*time.Millisecond, c.At(0.0001))
}
