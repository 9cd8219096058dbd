package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"loadimg/internal/dos"
	"loadimg/internal/img"
)

type batchConfig struct {
	in          string
	out         string
	payloadFile string
	dosMode     bool
	procs       int
	crc         img.CRCMode
	dos         dos.Options
}

// source is one usable input image: its parsed container plus the file stem
// that output names are derived from.
type source struct {
	stem string
	im   *img.Image
}

type runStats struct {
	images  int
	skipped int

	units     uint64
	artifacts uint64
	failures  uint64

	elapsed time.Duration
}

func (s *runStats) String() string {
	return fmt.Sprintf("images: %v (%v skipped), units: %v, artifacts: %v, failures: %v, elapsed: %v",
		s.images, s.skipped,
		atomic.LoadUint64(&s.units),
		atomic.LoadUint64(&s.artifacts),
		atomic.LoadUint64(&s.failures),
		s.elapsed.Round(time.Millisecond))
}

// run executes one batch. Per-file and per-unit failures are logged and
// skipped; the returned error is reserved for batch-fatal conditions (no
// usable input, unreadable payload file, output dir cannot be prepared).
func run(cfg batchConfig) (*runStats, error) {
	start := time.Now()

	paths, extSkipped, err := discover(cfg.in)
	if err != nil {
		return nil, err
	}

	var payloads [][]byte
	if !cfg.dosMode {
		payloads, err = loadPayloads(cfg.payloadFile)
		if err != nil {
			return nil, err
		}
		if len(payloads) == 0 {
			return nil, fmt.Errorf("no payloads found in %v", cfg.payloadFile)
		}
	}

	stats := &runStats{skipped: extSkipped}
	var sources []source
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("skipping %v: %v", path, err)
			stats.skipped++
			continue
		}
		im, err := img.Parse(data)
		if err != nil {
			log.Printf("skipping %v: %v", path, err)
			stats.skipped++
			continue
		}
		base := filepath.Base(path)
		sources = append(sources, source{stem: strings.TrimSuffix(base, filepath.Ext(base)), im: im})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no usable input images at %v", cfg.in)
	}
	stats.images = len(sources)

	// The output dir is fully prepared before any unit starts, so units never
	// race against the clear.
	if err := os.RemoveAll(cfg.out); err != nil {
		return nil, fmt.Errorf("failed to clear output dir: %w", err)
	}
	if err := os.MkdirAll(cfg.out, 0770); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	procs := cfg.procs
	if procs < 1 {
		procs = 1
	}
	var g errgroup.Group
	g.SetLimit(procs)
	for _, src := range sources {
		src := src
		if cfg.dosMode {
			for _, gen := range dos.Generators() {
				gen := gen
				g.Go(func() error {
					stats.unit(src.stem+"/"+gen.Tag, func() (int, error) {
						return dosUnit(cfg, src, gen)
					})
					return nil
				})
			}
			continue
		}
		for i, p := range payloads {
			i, p := i, p
			g.Go(func() error {
				stats.unit(fmt.Sprintf("%v/p%v", src.stem, i+1), func() (int, error) {
					return injectUnit(cfg, src, i, p)
				})
				return nil
			})
		}
	}
	g.Wait()

	stats.elapsed = time.Since(start)
	return stats, nil
}

// unit runs one unit of work, isolating failures and panics from siblings.
func (s *runStats) unit(name string, fn func() (int, error)) {
	atomic.AddUint64(&s.units, 1)
	defer func() {
		if p := recover(); p != nil {
			atomic.AddUint64(&s.failures, 1)
			log.Printf("unit %v panicked: %v", name, p)
		}
	}()
	n, err := fn()
	atomic.AddUint64(&s.artifacts, uint64(n))
	if err != nil {
		atomic.AddUint64(&s.failures, 1)
		log.Printf("unit %v failed: %v", name, err)
		return
	}
	if *flagV >= 1 {
		log.Printf("unit %v: %v artifacts", name, n)
	}
}

// injectUnit writes the three artifacts for one (image, payload) pair.
func injectUnit(cfg batchConfig, src source, idx int, payload []byte) (int, error) {
	wrote := 0
	for _, pt := range img.Points() {
		ins := img.Resolve(src.im, pt)
		out := img.Splice(src.im, ins, payload, cfg.crc)
		name := fmt.Sprintf("%v_p%v_%v%v", src.stem, idx+1, pt, src.im.Format.Ext())
		if err := os.WriteFile(filepath.Join(cfg.out, name), out, 0660); err != nil {
			return wrote, err
		}
		wrote++
		if *flagV >= 2 {
			log.Printf("wrote %v (%v bytes)", name, len(out))
		}
	}
	return wrote, nil
}

// dosUnit writes the artifact for one (image, generator) pair.
func dosUnit(cfg batchConfig, src source, gen dos.Generator) (int, error) {
	out, err := gen.Gen(src.im, cfg.dos)
	if err != nil {
		return 0, err
	}
	name := fmt.Sprintf("%v_dos_%v%v", src.stem, gen.Tag, gen.Ext)
	if err := os.WriteFile(filepath.Join(cfg.out, name), out, 0660); err != nil {
		return 0, err
	}
	if *flagV >= 2 {
		log.Printf("wrote %v (%v bytes)", name, len(out))
	}
	return 1, nil
}

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// discover lists the input files: the path itself, or a non-recursive listing
// filtered by supported extensions. Files dropped by the filter are logged
// and counted as skips.
func discover(path string) (paths []string, skipped int, err error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read input path: %w", err)
	}
	if !fi.IsDir() {
		return []string{path}, 0, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read input dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			log.Printf("skipping %v: unsupported extension", e.Name())
			skipped++
			continue
		}
		paths = append(paths, filepath.Join(path, e.Name()))
	}
	return paths, skipped, nil
}

// loadPayloads reads one opaque payload per non-empty line.
func loadPayloads(path string) ([][]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read payload file: %w", err)
	}
	var payloads [][]byte
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		payloads = append(payloads, []byte(line))
	}
	return payloads, nil
}
