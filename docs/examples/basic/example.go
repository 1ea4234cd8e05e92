package main

import (
	"fmt"
	"runtime"
	"time"

	blockfilter "github.com/shaia/blockfilter"
	"github.com/shaia/blockfilter/internal/cpufeature"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
	BuildUser = "unknown"
)

type wallClock struct{ start time.Time }

func (c wallClock) Now() int64 { return int64(time.Since(c.start)) }

func main() {
	fmt.Println("Blocked Bloom / Cuckoo Filter")
	fmt.Println("=============================")

	fmt.Printf("Version: %s\n", Version)
	fmt.Printf("Commit: %s\n", Commit)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Build User: %s\n", BuildUser)

	fmt.Printf("System: GOMAXPROCS=%d, NumCPU=%d\n", runtime.GOMAXPROCS(0), runtime.NumCPU())
	fmt.Printf("\nSIMD capabilities:\n")
	fmt.Printf("AVX2: %t\n", cpufeature.HasAVX2())
	fmt.Printf("NEON: %t\n", cpufeature.HasNEON())
	fmt.Printf("Suggested unroll factor: %d\n\n", cpufeature.SuggestedUnroll())

	fmt.Println("Example 1: Basic blocked Bloom filter usage")
	fmt.Println("--------------------------------------------")

	blockCnt, k, err := blockfilter.BitsRequired(10000, 0.001, 64, 8)
	if err != nil {
		panic(err)
	}
	filter, err := blockfilter.Construct(blockfilter.Config{
		Kind:          blockfilter.KindBloom,
		BlockCnt:      blockCnt,
		AddrMode:      blockfilter.Magic,
		WordWidth:     64,
		WordsPerBlock: 8,
		SectorCnt:     4,
		K:             k,
	})
	if err != nil {
		panic(err)
	}

	filter.Insert(42)
	filter.Insert(1337)

	fmt.Printf("Contains 42: %t\n", filter.Contains(42))
	fmt.Printf("Contains 99: %t\n", filter.Contains(99))

	fmt.Printf("Estimated FP rate at 10k keys: %.6f\n",
		blockfilter.EstimateFPRate(10000, blockCnt, 64, 8, k))

	fmt.Println("\nExample 2: Batch probing")
	fmt.Println("------------------------")

	userIDs := make([]uint32, 5000)
	for i := range userIDs {
		userIDs[i] = uint32(i)
	}
	filter.BatchInsert(userIDs)

	probe := []uint32{10, 4999, 9999999, 20}
	hits := filter.BatchContains(probe)
	fmt.Printf("Probed %d keys, %d reported present: %v\n", len(probe), len(hits), hits)

	fmt.Println("\nExample 3: Tuning the batch-probe unroll factor")
	fmt.Println("------------------------------------------------")

	keystream := make([]uint32, 4096)
	for i := range keystream {
		keystream[i] = uint32(i)
	}
	if err := filter.Tune(keystream, wallClock{start: time.Now()}); err != nil {
		fmt.Printf("tuning failed, staying at unroll factor %d: %v\n", filter.UnrollFactor(), err)
	} else {
		fmt.Printf("tuned unroll factor: %d\n", filter.UnrollFactor())
	}

	fmt.Println("\nExample 4: Cuckoo filter with deletion")
	fmt.Println("---------------------------------------")

	cuckoo, err := blockfilter.Construct(blockfilter.Config{
		Kind:          blockfilter.KindCuckoo,
		NKeys:         10000,
		AddrMode:      blockfilter.Pow2,
		WordsPerBlock: 4,
		TagsPerBucket: 4,
		BitsPerTag:    8,
	})
	if err != nil {
		panic(err)
	}

	for i := uint32(0); i < 1000; i++ {
		if err := cuckoo.InsertChecked(i); err != nil {
			fmt.Printf("insert %d failed: %v\n", i, err)
			break
		}
	}
	fmt.Printf("Contains 500: %t\n", cuckoo.Contains(500))
	cuckoo.Delete(500)
	fmt.Printf("Contains 500 after delete: %t\n", cuckoo.Contains(500))

	loadFactor, _ := cuckoo.LoadFactor()
	fmt.Printf("Load factor: %.2f%%\n", loadFactor*100)
}
