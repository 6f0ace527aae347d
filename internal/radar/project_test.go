package radar

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadelab/radar/pkg/core"
)

func TestProject_MirageFixture(t *testing.T) {
	got := Project(100, 200, mirageCal)

	assert.Equal(t, 100*0.02+50, got.X)
	assert.Equal(t, 200*0.02+40, got.Y)
	assert.InDelta(t, 52.0, got.X, 1e-12)
	assert.InDelta(t, 44.0, got.Y, 1e-12)
}

func TestProject_InvertY(t *testing.T) {
	cal := mirageCal
	cal.InvertY = true

	got := Project(100, 200, cal)
	assert.InDelta(t, 52.0, got.X, 1e-12)
	assert.InDelta(t, 36.0, got.Y, 1e-12)
}

func TestProject_OutOfBoundsIsNotClamped(t *testing.T) {
	got := Project(10000, -10000, mirageCal)

	assert.Greater(t, got.X, 100.0)
	assert.Less(t, got.Y, 0.0)
}

func TestProject_DeterministicAndLinear(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		ax, ay := rng.Float64()*8000-4000, rng.Float64()*8000-4000
		bx, by := rng.Float64()*8000-4000, rng.Float64()*8000-4000

		pa := Project(ax, ay, mirageCal)
		pb := Project(bx, by, mirageCal)
		mid := Project((ax+bx)/2, (ay+by)/2, mirageCal)

		assert.Equal(t, pa, Project(ax, ay, mirageCal))
		assert.InDelta(t, (pa.X+pb.X)/2, mid.X, 1e-9)
		assert.InDelta(t, (pa.Y+pb.Y)/2, mid.Y, 1e-9)
	}
}

func TestBelongsToLayer(t *testing.T) {
	tests := []struct {
		name      string
		cal       core.MapCalibration
		z         float64
		wantLower bool
		want      bool
	}{
		{"single level upper", mirageCal, -1000, false, true},
		{"single level lower", mirageCal, -1000, true, false},
		{"upper position on upper", nukeCal, -400, false, true},
		{"upper position on lower", nukeCal, -400, true, false},
		{"lower position on lower", nukeCal, -600, true, true},
		{"lower position on upper", nukeCal, -600, false, false},
		{"split height is upper", nukeCal, -495, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BelongsToLayer(tt.z, tt.cal, tt.wantLower))
		})
	}
}

func TestProjectLineups_FiltersByLayer(t *testing.T) {
	upper := lineup("up", 0, 0, 100, 100)
	upper.ThrowPos.Z = -300
	lower := lineup("low", 0, 0, 100, 100)
	lower.ThrowPos.Z = -700

	markers := ProjectLineups([]core.Lineup{upper, lower}, nukeCal, core.LayerUpper)
	require.Len(t, markers, 1)
	assert.Equal(t, "up", markers[0].Lineup.ID)

	markers = ProjectLineups([]core.Lineup{upper, lower}, nukeCal, core.LayerLower)
	require.Len(t, markers, 1)
	assert.Equal(t, "low", markers[0].Lineup.ID)
}

func TestProjectLineups_ProjectsThrowAndLanding(t *testing.T) {
	markers := ProjectLineups([]core.Lineup{lineup("a", 100, 200, -100, 50)}, mirageCal, core.LayerUpper)

	require.Len(t, markers, 1)
	assert.InDelta(t, 52, markers[0].ThrowRadar.X, 1e-12)
	assert.InDelta(t, 44, markers[0].ThrowRadar.Y, 1e-12)
	assert.InDelta(t, 48, markers[0].LandingRadar.X, 1e-12)
	assert.InDelta(t, 41, markers[0].LandingRadar.Y, 1e-12)
}
