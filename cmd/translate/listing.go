package main

import (
	"fmt"
	"os"

	"forthvm/internal/listing"
	"forthvm/isa"
)

func printListing(img *isa.Image) {
	fmt.Fprint(os.Stderr, listing.Format(img))
}
