package main

import (
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/BRI-EES-House/home_energy_model_go/home_energy_model"
	flag "github.com/spf13/pflag"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	input := flag.StringP("input", "i", "", "project JSON file or URL")
	output := flag.StringP("output", "o", "./out", "output directory")
	seed := flag.Int64("seed", 0, "seed of the hot water event generator, 0 for the reference seed")
	heating_control_type := flag.String("heating-control-type", "", "SeparateTimeAndTempControl or SeparateTempControl, overrides the project")
	cpuprofile := flag.String("cpuprofile", "", "write a CPU profile to this file")
	flag.Parse()

	if *input == "" {
		log.Fatal("--input is required")
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Fatal(err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	if _, err := home_energy_model.Run(*input, *output, *seed, *heating_control_type); err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}

	log.Printf("elapsed_time: %v [sec]", time.Since(start).Seconds())
}
