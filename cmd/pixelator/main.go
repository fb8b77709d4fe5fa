package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/menta2k/pixelator"
	"github.com/menta2k/pixelator/internal/config"
	"github.com/menta2k/pixelator/internal/utils"
	"github.com/menta2k/pixelator/pkg/sequence"
)

func main() {
	var in, out string
	var jobPath, writeJobPath string
	var configPath string
	var tilesize int
	var shape string
	var centerX, centerY int
	var width, height int
	var quality int

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp)")
	flag.StringVar(&out, "out", "", "output image path")
	flag.StringVar(&jobPath, "job", "", "frame sequence job file (YAML)")
	flag.StringVar(&writeJobPath, "write-job", "", "write a job file template and exit")
	flag.StringVar(&configPath, "config", "", "configuration file (JSON)")

	flag.IntVar(&tilesize, "tilesize", 0, "pixelation block edge length")
	flag.StringVar(&shape, "shape", "", "region shape: rectangle|square|ellipse|circle")
	flag.IntVar(&centerX, "center-x", 0, "region center x (image pixels)")
	flag.IntVar(&centerY, "center-y", 0, "region center y (image pixels)")
	flag.IntVar(&width, "width", 0, "region width (image pixels)")
	flag.IntVar(&height, "height", 0, "region height (image pixels)")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP output quality (1-100)")

	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := loaded.Validate(); err != nil {
			log.Fatalf("invalid configuration: %v", err)
		}
		cfg = loaded
	}
	if tilesize == 0 {
		tilesize = cfg.Pixelation.Tilesize
	}
	if shape == "" {
		shape = cfg.Pixelation.Shape
	}
	if quality == 0 {
		quality = cfg.Output.Quality
	}

	switch {
	case writeJobPath != "":
		writeJobTemplate(writeJobPath, cfg, tilesize, shape)
	case jobPath != "":
		runJob(jobPath, cfg, quality)
	case in != "":
		pixelateImage(in, out, tilesize, shape, centerX, centerY, width, height, quality, cfg)
	default:
		log.Fatalf("usage: %s -in input.jpg -out output.jpg -shape ellipse -center-x X -center-y Y -width W -height H | -job job.yaml | -write-job job.yaml",
			filepath.Base(os.Args[0]))
	}
}

func pixelateImage(in, out string, tilesize int, shape string, centerX, centerY, width, height, quality int, cfg *config.Config) {
	if out == "" || width < 1 || height < 1 {
		log.Fatal("single image mode needs -out, -width and -height")
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			log.Fatal(err)
		}
	}

	px := pixelator.NewWithOptions(pixelator.Options{
		CacheLimit: cfg.Pixelation.CacheLimit,
		Quality:    quality,
	})
	err := px.PixelateFile(in, out, pixelator.Params{
		Tilesize: tilesize,
		Shape:    shape,
		CenterX:  centerX,
		CenterY:  centerY,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Saved %s\n", out)
}

func runJob(jobPath string, cfg *config.Config, quality int) {
	job, err := sequence.ReadJob(jobPath)
	if err != nil {
		log.Fatal(err)
	}
	if job.Pattern == "" {
		job.Pattern = cfg.Sequence.Pattern
	}
	if job.Quality == 0 {
		job.Quality = quality
	}

	// Reject oversized frame sets before any frame is touched.
	frames, err := utils.ListFrameFiles(job.Source)
	if err != nil {
		log.Fatal(err)
	}
	if len(frames) > cfg.Sequence.MaxFrames {
		log.Fatalf("%s holds %d frames, more than the supported %d",
			job.Source, len(frames), cfg.Sequence.MaxFrames)
	}
	if err := utils.EnsureDir(job.Target); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Pixelating frames %d-%d of %s (%d source frames)\n",
		job.Start.Frame, job.End.Frame, job.Source, len(frames))

	px := pixelator.NewWithOptions(pixelator.Options{CacheLimit: cfg.Pixelation.CacheLimit})
	err = px.RunJob(job, func(percent int) error {
		fmt.Printf("\r[%3d%%]", percent)
		return nil
	})
	fmt.Println()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Done: %s\n", job.Target)
}

func writeJobTemplate(path string, cfg *config.Config, tilesize int, shape string) {
	job := &sequence.Job{
		Source:       "frames/source",
		Target:       "frames/pixelated",
		Pattern:      cfg.Sequence.Pattern,
		Tilesize:     tilesize,
		Quality:      cfg.Output.Quality,
		SkipExisting: cfg.Sequence.SkipExisting,
		Start: sequence.Keyframe{
			Frame: 1, Shape: shape,
			CenterX: 100, CenterY: 100, Width: 64, Height: 64,
		},
		End: sequence.Keyframe{
			Frame: 25, Shape: shape,
			CenterX: 200, CenterY: 120, Width: 96, Height: 96,
		},
	}
	if err := sequence.WriteJob(job, path); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote job template: %s\n", path)
}
