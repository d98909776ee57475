// Command listing prints a program image's code segment as mnemonic text.
package main

import (
	"fmt"
	"log"
	"os"

	"forthvm/internal/listing"
	"forthvm/isa"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) != 2 {
		log.Fatalf("usage: listing <image>")
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("listing: %v", err)
	}
	img, err := isa.Decode(raw)
	if err != nil {
		log.Fatalf("listing: %v", err)
	}
	fmt.Print(listing.Format(img))
}
