package geo

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/wals/pkg/wals/internalerr"
)

func TestTreeClassifierSamples(t *testing.T) {
	cases := []struct {
		name     string
		lat, lon float64
		want     Province
	}{
		{"London", 51.5, -0.1, Europe},
		{"Tbilisi", 41.7, 45.8, Caucasus},
		{"Cairo", 30.0, 31.2, NorthAfrica},
		{"Baghdad", 33.3, 44.4, SouthwestAsia},
		{"Lagos", 6.5, 3.4, SubsaharanAfrica},
		{"Delhi", 28.6, 77.2, India},
		{"Almaty", 43.2, 76.9, CentralAsia},
		{"Yakutsk", 62.0, 129.7, Siberia},
		{"Beijing", 39.9, 116.4, EastAsia},
		{"Bangkok", 13.7, 100.5, Indochina},
		{"Jakarta", -6.2, 106.8, Indonesia},
		{"Sydney", -33.9, 151.2, Oceania},
		{"Lima", -12.0, -77.0, SouthAmerica},
		{"Havana", 23.1, -82.4, CentralAmerica}, // west of -80 and south of 30
		{"Santo Domingo", 18.5, -69.9, Caribbean},
		{"Mexico City", 19.4, -99.1, CentralAmerica},
		{"Chicago", 41.9, -87.6, NorthAmerica},
		{"Honolulu", 21.3, -157.8, Oceania},
		{"Galapagos far west", 0, -90, Oceania},
	}

	var c TreeClassifier
	for _, tc := range cases {
		if got := c.Classify(tc.lat, tc.lon); got != tc.want {
			t.Errorf("%s (%v, %v): got %v, want %v", tc.name, tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestTreeClassifierIsTotal(t *testing.T) {
	var c TreeClassifier
	for lat := -90.0; lat <= 90.0; lat += 0.5 {
		for lon := -180.0; lon <= 180.0; lon += 0.5 {
			p := c.Classify(lat, lon)
			if !p.Known() {
				t.Fatalf("(%v, %v) classified as %v", lat, lon, p)
			}
		}
	}
}

func TestTreeClassifierBoundariesFollowBranchOrder(t *testing.T) {
	var c TreeClassifier
	cases := []struct {
		lat, lon float64
		want     Province
	}{
		// lon == -26 is not "< -26": falls to the Europe/Africa band.
		{50, -26, Europe},
		// lat == 12 is not "< 12": North Africa rather than sub-Saharan.
		{12, 10, NorthAfrica},
		// lat == 37 at lon 30: Europe band.
		{37, 30, Europe},
		// lon == 65 belongs to the India band.
		{30, 65, India},
		// lat == 51 east of 93 is not "> 51".
		{51, 100, EastAsia},
		// lat == 14.4 in the west is not "< 14.4".
		{14.4, -70, Caribbean},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.lat, tc.lon); got != tc.want {
			t.Errorf("(%v, %v): got %v, want %v", tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestClassifiersRejectInvalidCoordinates(t *testing.T) {
	raster := NewRasterClassifier(solid(4, 2, uint32(Europe)))
	for _, c := range []Classifier{TreeClassifier{}, raster} {
		for _, pt := range [][2]float64{{math.NaN(), 0}, {0, math.NaN()}, {91, 0}, {0, -181}, {math.Inf(1), 0}} {
			if got := c.Classify(pt[0], pt[1]); got != Uninhabited {
				t.Errorf("%T.Classify(%v, %v) = %v, want Uninhabited", c, pt[0], pt[1], got)
			}
		}
	}
}

func TestPixelAt(t *testing.T) {
	const w, h = 360, 180
	cases := []struct {
		lat, lon float64
		x, y     int
	}{
		{90, -180, 0, 0},
		{0, 0, 180, 90},
		{-90, 180, w - 1, h - 1}, // clamped onto the last row and column
		{89.999, 179.999, w - 1, 0},
		{-89.5, -179.5, 0, 179},
		{45.5, 10.5, 190, 44},
	}
	for _, tc := range cases {
		x, y := PixelAt(tc.lat, tc.lon, w, h)
		if x != tc.x || y != tc.y {
			t.Errorf("PixelAt(%v, %v) = (%d, %d), want (%d, %d)", tc.lat, tc.lon, x, y, tc.x, tc.y)
		}
	}
}

// gridPixels is a synthetic raster: one color per pixel.
type gridPixels struct {
	w, h int
	px   []uint32
}

func (g *gridPixels) Size() (int, int)     { return g.w, g.h }
func (g *gridPixels) ARGB(x, y int) uint32 { return g.px[y*g.w+x] }

func solid(w, h int, argb uint32) *gridPixels {
	g := &gridPixels{w: w, h: h, px: make([]uint32, w*h)}
	for i := range g.px {
		g.px[i] = argb
	}
	return g
}

func TestRasterClassifierQuadrants(t *testing.T) {
	// 2x2 raster: NW, NE / SW, SE.
	g := &gridPixels{w: 2, h: 2, px: []uint32{
		uint32(NorthAmerica), uint32(Europe),
		uint32(SouthAmerica), 0xFF123456,
	}}
	c := NewRasterClassifier(g)

	cases := []struct {
		lat, lon float64
		want     Province
	}{
		{45, -90, NorthAmerica},
		{45, 90, Europe},
		{-45, -90, SouthAmerica},
		{-45, 90, Uninhabited}, // unknown color
		{-90, 180, Uninhabited},
		{90, -180, NorthAmerica},
		{0, 0, Uninhabited}, // equator and prime meridian round down into the SE pixel
	}
	for _, tc := range cases {
		if got := c.Classify(tc.lat, tc.lon); got != tc.want {
			t.Errorf("(%v, %v): got %v, want %v", tc.lat, tc.lon, got, tc.want)
		}
	}
}

func TestFromARGB(t *testing.T) {
	for _, p := range Provinces() {
		if FromARGB(uint32(p)) != p {
			t.Errorf("FromARGB(%#x) != %v", uint32(p), p)
		}
	}
	if FromARGB(0) != Uninhabited {
		t.Error("transparent black should be uninhabited")
	}
	if FromARGB(uint32(Uninhabited)) != Uninhabited {
		t.Error("sentinel should decode to itself")
	}
}

func TestProvinceColorsAreDistinct(t *testing.T) {
	seen := make(map[Province]bool)
	for _, p := range Provinces() {
		if seen[p] {
			t.Errorf("duplicate color %#x", uint32(p))
		}
		seen[p] = true
		if p == Uninhabited {
			t.Error("Provinces() must not contain the sentinel")
		}
	}
	if len(seen) != 16 {
		t.Errorf("expected 16 provinces, got %d", len(seen))
	}
}

func TestParseProvince(t *testing.T) {
	if p, ok := ParseProvince("asia_east"); !ok || p != EastAsia {
		t.Errorf("ParseProvince(asia_east) = %v, %v", p, ok)
	}
	if _, ok := ParseProvince("atlantis"); ok {
		t.Error("unknown province should not parse")
	}
	for _, p := range Provinces() {
		back, ok := ParseProvince(p.String())
		if !ok || back != p {
			t.Errorf("round trip of %v failed", p)
		}
	}
}

func writeRasterPNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func argbColor(p Province) color.NRGBA {
	v := uint32(p)
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: uint8(v >> 24)}
}

func TestLoadRasterPNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, argbColor(Oceania))
		}
	}
	img.SetNRGBA(2, 0, argbColor(Europe))

	c, err := LoadRaster(writeRasterPNG(t, img))
	if err != nil {
		t.Fatalf("LoadRaster: %v", err)
	}
	if got := c.Classify(45, 10); got != Europe {
		t.Errorf("got %v, want Europe", got)
	}
	if got := c.Classify(-45, 10); got != Oceania {
		t.Errorf("got %v, want Oceania", got)
	}
}

func TestLoadRasterMissingFile(t *testing.T) {
	_, err := LoadRaster(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, internalerr.ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", err)
	}
}

func TestLoadRasterGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRaster(path); !errors.Is(err, internalerr.ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset, got %v", err)
	}
}

type countingClassifier struct {
	calls int
}

func (c *countingClassifier) Classify(lat, lon float64) Province {
	c.calls++
	return TreeClassifier{}.Classify(lat, lon)
}

func TestCachedClassifier(t *testing.T) {
	inner := &countingClassifier{}
	c, err := NewCached(inner, 8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		if got := c.Classify(51.5, -0.1); got != Europe {
			t.Fatalf("got %v", got)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls)
	}
	c.Classify(39.9, 116.4)
	if c.Len() != 2 {
		t.Errorf("cache len = %d, want 2", c.Len())
	}
}

func TestNewStrategies(t *testing.T) {
	c, err := New(Options{Strategy: "tree"})
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if _, ok := c.(TreeClassifier); !ok {
		t.Errorf("expected TreeClassifier, got %T", c)
	}

	c, err = New(Options{})
	if err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if _, ok := c.(TreeClassifier); !ok {
		t.Errorf("zero options: expected TreeClassifier, got %T", c)
	}

	c, err = New(Options{Strategy: "TREE", CacheSize: 16})
	if err != nil {
		t.Fatalf("cached tree: %v", err)
	}
	if _, ok := c.(*CachedClassifier); !ok {
		t.Errorf("expected CachedClassifier, got %T", c)
	}

	if _, err := New(Options{Strategy: "raster"}); !errors.Is(err, internalerr.ErrMissingAsset) {
		t.Errorf("raster without image: got %v", err)
	}
	if _, err := New(Options{Strategy: "voronoi"}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("unknown strategy: got %v", err)
	}
}
