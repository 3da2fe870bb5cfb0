package profiling

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for i := 0; i < 3; i++ {
		stop := Track("render.DrawModel")
		time.Sleep(time.Millisecond)
		stop()
	}
	Track("render.Draw")()

	entries := Snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, "render.DrawModel", entries[0].Name)
	assert.Equal(t, 3, entries[0].Calls)
	assert.GreaterOrEqual(t, entries[0].Total, 3*time.Millisecond)
	assert.Equal(t, 1, entries[1].Calls)

	assert.Equal(t, entries[0].Total+entries[1].Total, SumWithPrefix("render."))
	assert.Zero(t, SumWithPrefix("glfw."))
}

func TestResetFrame(t *testing.T) {
	Track("a")()
	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, "", TopN(3))
}

func TestTopN(t *testing.T) {
	ResetFrame()
	stop := Track("slow")
	time.Sleep(2 * time.Millisecond)
	stop()
	Track("fast")()

	top := TopN(1)
	assert.True(t, strings.HasPrefix(top, "slow:"), top)
	assert.True(t, strings.HasSuffix(top, "(1)"), top)
	assert.Len(t, strings.Split(TopN(5), ", "), 2)
}
