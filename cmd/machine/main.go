// Command machine loads a program image and runs it against an input file.
package main

import (
	"errors"
	"log"
	"os"

	"github.com/grimdork/climate"
	"github.com/sirupsen/logrus"

	"forthvm/internal/control"
	"forthvm/internal/datapath"
	"forthvm/internal/listing"
	"forthvm/isa"
)

// Options are the flags machine accepts.
type Options struct {
	Limit int  `name:"limit" short:"n" help:"stop after this many instructions (0 = unbounded)"`
	Trace bool `name:"trace" short:"t" help:"log one structured entry per executed instruction"`
	List  bool `name:"list" short:"l" help:"print a mnemonic listing of the loaded image before running"`
}

func main() {
	log.SetFlags(0)

	var opts Options
	args, err := climate.Parse(&opts)
	if err != nil {
		log.Fatalf("machine: %v", err)
	}
	if len(args) != 2 {
		log.Fatalf("usage: machine [-trace] [-list] [-limit N] <image> <input>")
	}
	imagePath, inputPath := args[0], args[1]

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		log.Fatalf("machine: %v", err)
	}
	img, err := isa.Decode(raw)
	if err != nil {
		log.Fatalf("machine: %v", err)
	}

	if opts.List {
		os.Stderr.WriteString(listing.Format(img))
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("machine: %v", err)
	}

	dp := datapath.New(len(img.Data), string(input))
	cu := control.New(img, dp)
	if opts.Trace {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		cu.Trace = logger
	}

	output, err := cu.Run(opts.Limit)
	os.Stdout.WriteString(output)

	switch {
	case errors.Is(err, control.ErrHalt):
		log.Printf("instr_counter: %d ticks: %d", cu.InstrCnt, cu.Ticks)
	case errors.Is(err, control.ErrLimitExceeded):
		log.Printf("instruction limit exceeded after %d instructions (%d ticks)", cu.InstrCnt, cu.Ticks)
	default:
		log.Fatalf("machine: %v", err)
	}
}
