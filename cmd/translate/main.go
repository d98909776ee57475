// Command translate reads stack-machine source and writes a program image.
package main

import (
	"log"
	"os"

	"github.com/grimdork/climate"

	"forthvm/internal/translator"
)

// Options are the flags translate accepts; climate fills this struct
// from os.Args and hands back the leftover positional arguments.
type Options struct {
	List bool `name:"list" short:"l" help:"print a mnemonic listing of the generated image to stderr"`
}

func main() {
	log.SetFlags(0)

	var opts Options
	args, err := climate.Parse(&opts)
	if err != nil {
		log.Fatalf("translate: %v", err)
	}
	if len(args) != 2 {
		log.Fatalf("usage: translate [-list] <source> <target>")
	}
	sourcePath, targetPath := args[0], args[1]

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		log.Fatalf("translate: %v", err)
	}

	img, err := translator.Translate(string(src))
	if err != nil {
		log.Fatalf("translate: %v", err)
	}

	encoded, err := img.Encode()
	if err != nil {
		log.Fatalf("translate: %v", err)
	}
	if err := os.WriteFile(targetPath, encoded, 0o644); err != nil {
		log.Fatalf("translate: %v", err)
	}

	if opts.List {
		printListing(img)
	}
}
