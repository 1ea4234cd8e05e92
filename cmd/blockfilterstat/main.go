// Command blockfilterstat estimates the size and false positive rate of
// a blocked Bloom filter for a given capacity, adapting
// greatroar/blobloom's bloomstat to this package's block-based sizing.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"

	blockfilter "github.com/shaia/blockfilter"
)

const usage = `usage: blockfilterstat capacity false-positive-rate [word-width] [words-per-block]

	word-width defaults to 64, words-per-block defaults to 8.
`

func main() {
	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	capacity := parseUint("capacity", os.Args[1])
	fpr := parseFloat("false positive rate", os.Args[2])

	wordWidth := 64
	if len(os.Args) > 3 {
		wordWidth = int(parseUint("word width", os.Args[3]))
	}
	wordsPerBlock := 8
	if len(os.Args) > 4 {
		wordsPerBlock = int(parseUint("words per block", os.Args[4]))
	}

	blockCnt, k, err := blockfilter.BitsRequired(capacity, fpr, wordWidth, wordsPerBlock)
	if err != nil {
		log.Fatalf("sizing: %v", err)
	}

	totalBits := uint64(blockCnt) * uint64(wordWidth) * uint64(wordsPerBlock)
	totalBytes := totalBits / 8
	bitsPerKey := float64(totalBits) / float64(capacity)
	expectedFPR := blockfilter.EstimateFPRate(capacity, blockCnt, wordWidth, wordsPerBlock, k)

	fmt.Printf("%d blocks, %d bits (%s)\n", blockCnt, totalBits, humanize.Bytes(totalBytes))
	fmt.Printf("%.02f bits/key, %d hash functions\n", bitsPerKey, k)
	fmt.Printf("%.06f expected false positive rate at capacity\n", expectedFPR)
}

func parseUint(name, s string) uint64 {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		log.Fatalf("%s %q: %v", name, s, err)
	}
	return v
}

func parseFloat(name, s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("%s %q: %v", name, s, err)
	}
	if v <= 0 || v > 1 {
		log.Fatalf("%s must be in (0,1]", name)
	}
	return v
}
