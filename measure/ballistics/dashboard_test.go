package ballistics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/cwbudde/algo-meter/dsp/spectrum"
	"github.com/cwbudde/algo-meter/internal/testutil"
	"github.com/cwbudde/algo-meter/measure/meter"
)

// fakeSource serves fixed metrics and scripted frames.
type fakeSource struct {
	m        meter.Metrics
	spectrum [2][][]float64
	stereo   [2][][]float64
}

func (f *fakeSource) PeakL() float64       { return f.m.PeakL }
func (f *fakeSource) PeakR() float64       { return f.m.PeakR }
func (f *fakeSource) RMSL() float64        { return f.m.RMSL }
func (f *fakeSource) RMSR() float64        { return f.m.RMSR }
func (f *fakeSource) Loudness() float64    { return f.m.Loudness }
func (f *fakeSource) Correlation() float64 { return f.m.Correlation }
func (f *fakeSource) MidRMS() float64      { return f.m.MidRMS }
func (f *fakeSource) SideRMS() float64     { return f.m.SideRMS }
func (f *fakeSource) LowRMS() float64      { return f.m.LowRMS }
func (f *fakeSource) MidBandRMS() float64  { return f.m.MidBandRMS }
func (f *fakeSource) HighRMS() float64     { return f.m.HighRMS }

func popFrame(q *[][]float64, dst []float64) ([]float64, bool) {
	if len(*q) == 0 {
		return dst[:0], false
	}
	frame := (*q)[0]
	*q = (*q)[1:]

	return append(dst[:0], frame...), true
}

func (f *fakeSource) TryPopSpectrum(ch meter.Channel, dst []float64) ([]float64, bool) {
	return popFrame(&f.spectrum[ch], dst)
}

func (f *fakeSource) TryPopStereo(ch meter.Channel, dst []float64) ([]float64, bool) {
	return popFrame(&f.stereo[ch], dst)
}

func sentinelMetrics() meter.Metrics {
	return meter.NewStore().Load()
}

func TestDashboard_InitialTick(t *testing.T) {
	src := &fakeSource{m: sentinelMetrics()}
	d := NewDashboard(src, 4)

	disp := d.Tick(time.Unix(0, 0))
	if disp.Levels.PeakL != meter.FloorDB || disp.Levels.Loudness != meter.LoudnessFloor {
		t.Fatalf("levels = %+v", disp.Levels)
	}
	if disp.Levels.HoldL != DefaultHoldFloorDB {
		t.Fatalf("hold = %v, want %v", disp.Levels.HoldL, DefaultHoldFloorDB)
	}
	if disp.VU != 0 || disp.Correlation != 0 {
		t.Fatalf("vu = %v correlation = %v", disp.VU, disp.Correlation)
	}
	if disp.Bands != (Bands{}) {
		t.Fatalf("bands = %+v", disp.Bands)
	}
	if disp.Spectrum.DB != nil || disp.Spectrum.PeakBin != -1 || disp.Spectrogram != nil {
		t.Fatalf("spectrum = %+v spectrogram = %v", disp.Spectrum, disp.Spectrogram)
	}
	if len(disp.Stereo.Gonio.L) != 0 {
		t.Fatalf("gonio = %+v", disp.Stereo.Gonio)
	}
	if d.Ticks() != 1 {
		t.Fatalf("Ticks = %d", d.Ticks())
	}
}

func TestDashboard_Smoothing(t *testing.T) {
	m := sentinelMetrics()
	m.PeakL, m.PeakR = -10, -20
	m.Loudness = -14
	m.Correlation = 1
	m.RMSL, m.RMSR = -13.5, -40
	m.LowRMS, m.MidBandRMS, m.HighRMS = -30, 0, -90
	m.MidRMS, m.SideRMS = -12, -90

	d := NewDashboard(&fakeSource{m: m}, 4)
	disp := d.Tick(time.Unix(0, 0))

	testutil.RequireNear(t, "PeakL", disp.Levels.PeakL, -90+80*DefaultLevelsFactor, 1e-9)
	testutil.RequireNear(t, "Loudness", disp.Levels.Loudness, -70+56*DefaultLevelsFactor, 1e-9)
	testutil.RequireNear(t, "HoldL", disp.Levels.HoldL, -10, 0)
	testutil.RequireNear(t, "HoldR", disp.Levels.HoldR, -20, 0)
	testutil.RequireNear(t, "VU", disp.VU, 0.5*DefaultVUFactor, 1e-12)
	testutil.RequireNear(t, "Correlation", disp.Correlation, DefaultCorrelationFactor, 1e-12)
	testutil.RequireNear(t, "Low", disp.Bands.Low, 0.5*DefaultBandsFactor, 1e-12)
	testutil.RequireNear(t, "Mid", disp.Bands.Mid, DefaultBandsFactor, 1e-12)
	testutil.RequireNear(t, "High", disp.Bands.High, 0, 0)
	testutil.RequireNear(t, "M", disp.Stereo.M, -90+78*DefaultStereoFactor, 1e-9)
	testutil.RequireNear(t, "S", disp.Stereo.S, -90, 0)
}

func TestDashboard_SpectrumFrames(t *testing.T) {
	src := &fakeSource{m: sentinelMetrics()}
	src.spectrum[0] = [][]float64{{0, 8, 0, 0}, {0, 0, 0, 8}}
	src.spectrum[1] = [][]float64{{0, 0, 8, 0}}

	d := NewDashboard(src, 4, WithSampleRate(8000), WithSpectrumFactor(1))

	// Both channels pending: the views see their mean.
	disp := d.Tick(time.Unix(0, 0))
	if disp.Spectrogram == nil {
		t.Fatal("no spectrogram column")
	}
	wantDB := spectrum.MagnitudeToDB([]float64{0, 4, 4, 0}, 8, DefaultSpectrumFloorDB)
	testutil.RequireSliceNearlyEqual(t, disp.Spectrum.DB, wantDB, 1e-12)
	testutil.RequireSliceNearlyEqual(t, disp.Spectrogram, wantDB, 1e-12)
	if disp.Spectrum.PeakBin != 1 || disp.Spectrum.PeakHz != 1000 {
		t.Fatalf("peak bin %d at %v Hz", disp.Spectrum.PeakBin, disp.Spectrum.PeakHz)
	}
	if disp.Spectrum.Features == nil {
		t.Fatal("missing features with known sample rate")
	}

	// Left only.
	disp = d.Tick(time.Unix(1, 0))
	if disp.Spectrum.PeakBin != 3 {
		t.Fatalf("peak bin %d, want 3", disp.Spectrum.PeakBin)
	}

	// Nothing pending: spectrum holds, spectrogram emits no column.
	disp = d.Tick(time.Unix(2, 0))
	if disp.Spectrum.PeakBin != 3 || disp.Spectrogram != nil {
		t.Fatalf("underflow changed display: %+v %v", disp.Spectrum, disp.Spectrogram)
	}
}

func TestDashboard_Goniometer(t *testing.T) {
	src := &fakeSource{m: sentinelMetrics()}
	src.stereo[0] = [][]float64{{1, 2, 3}}
	src.stereo[1] = [][]float64{{-1, -2, -3}}

	d := NewDashboard(src, 4)
	disp := d.Tick(time.Unix(0, 0))
	testutil.RequireSliceNearlyEqual(t, disp.Stereo.Gonio.L, []float64{1, 2, 3}, 0)
	testutil.RequireSliceNearlyEqual(t, disp.Stereo.Gonio.R, []float64{-1, -2, -3}, 0)

	disp = d.Tick(time.Unix(1, 0))
	if len(disp.Stereo.Gonio.L) != 0 {
		t.Fatalf("empty queue produced %v", disp.Stereo.Gonio.L)
	}
}

func TestDashboard_GoniometerWaitsForLeftHalf(t *testing.T) {
	src := &fakeSource{m: sentinelMetrics()}
	src.stereo[1] = [][]float64{{-1, -2}}

	d := NewDashboard(src, 4)
	disp := d.Tick(time.Unix(0, 0))
	if len(disp.Stereo.Gonio.L) != 0 || len(disp.Stereo.Gonio.R) != 0 {
		t.Fatalf("gonio without left half: %+v", disp.Stereo.Gonio)
	}
	if len(src.stereo[1]) != 1 {
		t.Fatal("right half consumed before its left half arrived")
	}

	src.stereo[0] = [][]float64{{1, 2}}
	disp = d.Tick(time.Unix(1, 0))
	testutil.RequireSliceNearlyEqual(t, disp.Stereo.Gonio.L, []float64{1, 2}, 0)
	testutil.RequireSliceNearlyEqual(t, disp.Stereo.Gonio.R, []float64{-1, -2}, 0)
}

func TestDashboard_Reset(t *testing.T) {
	m := sentinelMetrics()
	m.PeakL = 0
	src := &fakeSource{m: m}
	d := NewDashboard(src, 4)
	d.Tick(time.Unix(0, 0))

	d.Reset()
	src.m = sentinelMetrics()
	disp := d.Tick(time.Unix(10, 0))
	if disp.Levels.PeakL != meter.FloorDB || disp.Levels.HoldL != DefaultHoldFloorDB {
		t.Fatalf("after Reset: %+v", disp.Levels)
	}
	if d.Ticks() != 1 {
		t.Fatalf("Ticks = %d", d.Ticks())
	}
}

func TestDashboard_JSON(t *testing.T) {
	d := NewDashboard(&fakeSource{m: sentinelMetrics()}, 4)
	data, err := json.Marshal(d.Tick(time.Unix(0, 0).UTC()))
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"time", "levels", "vu", "correlation", "bands", "stereo", "spectrum"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing %q in %s", key, data)
		}
	}
	if _, ok := got["spectrogram"]; ok {
		t.Errorf("empty spectrogram should be omitted: %s", data)
	}
}

func TestDashboard_WithEngine(t *testing.T) {
	e := meter.New(meter.WithFFTSize(1024))
	if err := e.Prepare(48000, 512); err != nil {
		t.Fatal(err)
	}
	d := NewDashboard(e, e.SpectrumBins(), WithSampleRate(48000))

	sine := testutil.DeterministicSine(3000, 48000, 0.5, 1024)
	if err := e.ProcessBlock(sine, sine, 48000); err != nil {
		t.Fatal(err)
	}

	disp := d.Tick(time.Now())
	if len(disp.Spectrum.DB) != e.SpectrumBins() {
		t.Fatalf("spectrum has %d bins, want %d", len(disp.Spectrum.DB), e.SpectrumBins())
	}
	if want := spectrum.FrequencyBin(3000, 1024, 48000); disp.Spectrum.PeakBin != want {
		t.Fatalf("peak bin %d, want %d", disp.Spectrum.PeakBin, want)
	}
	testutil.RequireNear(t, "Correlation", disp.Correlation, DefaultCorrelationFactor, 1e-9)
	testutil.RequireFinite(t, disp.Spectrum.DB)
}
