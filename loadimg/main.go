// loadimg generates corpora of malicious and malformed images for security
// testing. Given payloads it splices each one into every input image at the
// header, body and trailer injection points; with -dos it instead emits a
// fixed catalog of denial-of-service variants per input image.
package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/stephens2424/writerset"
	"gopkg.in/yaml.v3"

	"loadimg/internal/dos"
	"loadimg/internal/img"
)

var (
	flagIn       = flag.String("in", "", "input image file or directory")
	flagPayloads = flag.String("payloads", "", "newline-delimited payload file (ignored with -dos)")
	flagOut      = flag.String("out", "loaded", "output directory, destructively cleared on start")
	flagDOS      = flag.Bool("dos", false, "generate DoS variants instead of payload injections")
	flagProcs    = flag.Int("procs", runtime.NumCPU(), "parallelism level")
	flagTune     = flag.String("tune", "", "yaml file with generator tuning")
	flagLogFile  = flag.String("logfile", "", "also write the run log to this file")
	flagV        = flag.Int("v", 0, "verbosity level")
)

// tuning is the -tune file. The crc key selects whether patched PNG chunks
// get their CRC recomputed ("recompute", default) or left stale ("stale").
type tuning struct {
	CRC string      `yaml:"crc"`
	DOS dos.Options `yaml:",inline"`
}

func main() {
	flag.Parse()
	if *flagIn == "" {
		log.Fatalf("-in is not set")
	}
	if !*flagDOS && *flagPayloads == "" {
		log.Fatalf("-payloads is not set (required without -dos)")
	}

	ws := writerset.New()
	ws.Add(os.Stderr)
	if *flagLogFile != "" {
		f, err := os.Create(*flagLogFile)
		if err != nil {
			log.Fatalf("failed to create log file: %v", err)
		}
		defer f.Close()
		ws.Add(f)
	}
	log.SetOutput(ws)

	tune := tuning{DOS: dos.Defaults()}
	if *flagTune != "" {
		data, err := os.ReadFile(*flagTune)
		if err != nil {
			log.Fatalf("failed to read tuning file: %v", err)
		}
		if err := yaml.Unmarshal(data, &tune); err != nil {
			log.Fatalf("failed to parse tuning file: %v", err)
		}
	}
	crcMode, err := img.ParseCRCMode(tune.CRC)
	if err != nil {
		log.Fatalf("bad tuning file: %v", err)
	}

	stats, err := run(batchConfig{
		in:          *flagIn,
		out:         *flagOut,
		payloadFile: *flagPayloads,
		dosMode:     *flagDOS,
		procs:       *flagProcs,
		crc:         crcMode,
		dos:         tune.DOS,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("%v", stats)
}
