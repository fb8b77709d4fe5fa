// Package sequence pixelates a span of video frames stored as numbered
// still-image files, interpolating the pixelation region linearly between a
// start and an end keyframe.
//
// The driver is synchronous and single-threaded: each frame is loaded,
// pixelated through the cropped-region strategy, written to the target
// directory, and reported to the progress callback before the next frame is
// touched. There is no rollback; an aborted run leaves the target directory
// populated with a prefix of the completed frames.
package sequence

import (
	"errors"
	"fmt"
	"image"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/menta2k/pixelator/internal/utils"
	"github.com/menta2k/pixelator/pkg/frameio"
	"github.com/menta2k/pixelator/pkg/pixelation"
	"github.com/menta2k/pixelator/pkg/shapes"
)

const (
	// DefaultPattern is the frame file naming pattern produced by the
	// external frame extractor.
	DefaultPattern = "frame%04d.jpg"
	// MaxFrames caps the number of frames a single run may span.
	MaxFrames = 9999
)

var (
	// ErrInvalidRange is returned when the end keyframe does not come
	// after the start keyframe.
	ErrInvalidRange = errors.New("end frame must be after the start frame")
	// ErrShapeMismatch is returned when the two keyframes disagree on the
	// shape kind; only size and position may vary across a span.
	ErrShapeMismatch = errors.New("keyframes use different shape kinds")
)

// Keyframe pins the full set of region parameters to a frame index; two of
// them bound an interpolation span.
type Keyframe struct {
	Frame   int    `yaml:"frame"`
	Shape   string `yaml:"shape"`
	CenterX int    `yaml:"center_x"`
	CenterY int    `yaml:"center_y"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
}

// ProgressFunc receives one percentage per completed frame, in frame order,
// synchronously with the corresponding write. Returning a non-nil error
// aborts the run; already written frames are kept.
type ProgressFunc func(percent int) error

// Config describes where a Runner reads and writes frames.
type Config struct {
	Source       string // directory holding the input frames
	Target       string // directory receiving the pixelated frames
	Pattern      string // frame file pattern, e.g. "frame%04d.jpg"
	Quality      int    // JPEG/WebP save quality; 0 means frameio.DefaultQuality
	SkipExisting bool   // leave frames alone that already exist in Target
}

// Runner pixelates frame spans between two directories.
type Runner struct {
	cfg   Config
	cache *shapes.Cache
}

// New validates the configuration and returns a Runner. Source and target
// must be distinct existing directories and the pattern must contain
// exactly one integer verb.
func New(cfg Config, cache *shapes.Cache) (*Runner, error) {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if err := validatePattern(cfg.Pattern); err != nil {
		return nil, err
	}
	for _, dir := range []string{cfg.Source, cfg.Target} {
		if !utils.DirExists(dir) {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
	}
	if filepath.Clean(cfg.Source) == filepath.Clean(cfg.Target) {
		return nil, fmt.Errorf("source and target must be different directories")
	}
	if cache == nil {
		cache = shapes.NewCache(shapes.DefaultCacheLimit)
	}
	return &Runner{cfg: cfg, cache: cache}, nil
}

// validatePattern checks that the pattern renders distinct, well-formed
// names for distinct frame numbers.
func validatePattern(pattern string) error {
	first := fmt.Sprintf(pattern, 1)
	second := fmt.Sprintf(pattern, 2)
	if first == second || strings.Contains(first, "%!") {
		return fmt.Errorf("invalid frame pattern %q", pattern)
	}
	return nil
}

// gradient holds the exact per-frame increments of the region parameters.
// Exact rational arithmetic avoids the drift of repeated float addition, so
// the last frame's values equal the end keyframe's values exactly.
type gradient struct {
	centerX *big.Rat
	centerY *big.Rat
	width   *big.Rat
	height  *big.Rat
}

func newGradient(start, end Keyframe, frames int) gradient {
	step := func(from, to int) *big.Rat {
		return big.NewRat(int64(to-from), int64(frames))
	}
	return gradient{
		centerX: step(start.CenterX, end.CenterX),
		centerY: step(start.CenterY, end.CenterY),
		width:   step(start.Width, end.Width),
		height:  step(start.Height, end.Height),
	}
}

// at returns the interpolated keyframe at offset k from the start.
func (g gradient) at(start Keyframe, k int) Keyframe {
	value := func(from int, grad *big.Rat) int {
		step := new(big.Rat).Mul(grad, big.NewRat(int64(k), 1))
		return from + roundRat(step)
	}
	return Keyframe{
		Frame:   start.Frame + k,
		Shape:   start.Shape,
		CenterX: value(start.CenterX, g.centerX),
		CenterY: value(start.CenterY, g.centerY),
		Width:   value(start.Width, g.width),
		Height:  value(start.Height, g.height),
	}
}

// roundRat rounds an exact rational to the nearest integer, halves away
// from zero.
func roundRat(r *big.Rat) int {
	num := new(big.Int).Abs(r.Num())
	rem := new(big.Int)
	quo, _ := new(big.Int).QuoRem(num, r.Denom(), rem)
	if rem.Lsh(rem, 1).Cmp(r.Denom()) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}
	v := int(quo.Int64())
	if r.Sign() < 0 {
		return -v
	}
	return v
}

// Run pixelates every frame in [start.Frame, end.Frame] inclusive, with the
// region interpolated linearly between the keyframes, and writes one output
// frame per input frame. One progress percentage per completed frame is
// delivered through progress (may be nil). Any load or save error aborts
// the whole run.
func (r *Runner) Run(tilesize int, start, end Keyframe, progress ProgressFunc) error {
	frames := end.Frame - start.Frame
	if frames < 1 {
		return ErrInvalidRange
	}
	total := frames + 1
	if total > MaxFrames {
		return fmt.Errorf("span of %d frames exceeds the limit of %d", total, MaxFrames)
	}

	startKind, err := shapes.ParseKind(start.Shape)
	if err != nil {
		return err
	}
	endKind, err := shapes.ParseKind(end.Shape)
	if err != nil {
		return err
	}
	if startKind != endKind {
		return fmt.Errorf("%w: %q vs %q", ErrShapeMismatch, startKind, endKind)
	}

	grad := newGradient(start, end, frames)
	for k := 0; k < total; k++ {
		name := fmt.Sprintf(r.cfg.Pattern, start.Frame+k)
		targetPath := filepath.Join(r.cfg.Target, name)

		if !r.cfg.SkipExisting || !utils.FileExists(targetPath) {
			if err := r.pixelateFrame(name, targetPath, tilesize, startKind, grad.at(start, k)); err != nil {
				return err
			}
		}
		if progress != nil {
			pct := roundRat(big.NewRat(int64(100*(k+1)), int64(total)))
			if err := progress(pct); err != nil {
				return err
			}
		}
	}
	return nil
}

// pixelateFrame processes one frame through a fresh cropped-region state;
// no pixel data is kept across frames, only the shared mask cache.
func (r *Runner) pixelateFrame(name, targetPath string, tilesize int, kind shapes.Kind, kf Keyframe) error {
	img, err := frameio.Load(filepath.Join(r.cfg.Source, name))
	if err != nil {
		return fmt.Errorf("load frame %s: %w", name, err)
	}
	frame := pixelation.NewFrameState(img, r.cache)
	frame.SetTilesize(tilesize)
	if err := frame.SetShape(image.Pt(kf.CenterX, kf.CenterY), kind, image.Pt(kf.Width, kf.Height)); err != nil {
		return fmt.Errorf("frame %s: %w", name, err)
	}
	result, err := frame.Result()
	if err != nil {
		return fmt.Errorf("frame %s: %w", name, err)
	}
	if err := frameio.Save(result, targetPath, frameio.Options{Quality: r.cfg.Quality}); err != nil {
		return fmt.Errorf("save frame %s: %w", name, err)
	}
	return nil
}

// Route pixelates a chain of spans through the given stations: each
// consecutive keyframe pair is run as one span, progress restarting at the
// beginning of every span. At least two stations are required.
func (r *Runner) Route(tilesize int, stations []Keyframe, progress ProgressFunc) error {
	if len(stations) < 2 {
		return fmt.Errorf("a route needs at least two keyframes")
	}
	for i := 0; i+1 < len(stations); i++ {
		if err := r.Run(tilesize, stations[i], stations[i+1], progress); err != nil {
			return err
		}
	}
	return nil
}
