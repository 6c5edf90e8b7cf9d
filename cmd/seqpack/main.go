package main

import (
	"os"

	"github.com/seqpack/seqpack/internal/seqpack"
)

func main() {
	os.Exit(seqpack.Main())
}
