// Command tmsim runs scripted frames through a headless tone-map pipeline and prints the pool
// statistics as JSON.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/vkngwrapper/tonemap/display"
	"github.com/vkngwrapper/tonemap/fence/soft"
	"github.com/vkngwrapper/tonemap/gralloc/heap"
	"github.com/vkngwrapper/tonemap/tmpool"
	"github.com/vkngwrapper/tonemap/tonemap/noop"
	"golang.org/x/exp/slog"
)

func main() {
	var (
		frames    = flag.Int("frames", 120, "number of frames to present")
		layers    = flag.Int("layers", 1, "number of HDR video layers")
		width     = flag.Int("width", 1920, "layer width")
		height    = flag.Int("height", 1080, "layer height")
		ring      = flag.Int("ring", tmpool.DefaultRingSize, "intermediate buffers per session")
		target    = flag.Bool("framebuffer", true, "tone map the framebuffer target")
		idleEvery = flag.Int("idle-every", 4, "every n-th frame redraws nothing on the GPU (0 disables)")
		dropEvery = flag.Int("drop-every", 30, "every n-th frame drops the last video layer (0 disables)")
		heapLimit = flag.Int("heap-limit", 0, "maximum bytes of intermediate buffers (0 is unlimited)")
		worker    = flag.Bool("worker", false, "run compute commands on a locked OS thread")
		dump      = flag.Int("dump", 0, "number of blits to dump")
		dumpDir   = flag.String("dump-dir", ".", "directory for frame dumps")
		detailed  = flag.Bool("detailed", false, "list every session in the statistics")
		verbose   = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	timeline := soft.New(logger, soft.Options{WaitTimeout: time.Second})
	allocator, err := heap.New(logger, heap.CreateOptions{
		HeapSizeLimit: *heapLimit,
		Fences:        timeline,
	})
	if err != nil {
		log.Fatalf("Failed to create allocator: %v", err)
	}
	factory := noop.New(noop.Options{Timeline: timeline})

	var poolFlags tmpool.CreateFlags
	if *worker {
		poolFlags |= tmpool.CreateWorkerThread
	}

	sim := newSimulator(timeline, scenario{
		Layers:      *layers,
		Width:       *width,
		Height:      *height,
		Framebuffer: *target,
		IdleEvery:   *idleEvery,
		DropEvery:   *dropEvery,
	})

	pipeline, err := display.New(logger, allocator, factory, timeline, display.Options{
		Name:   "primary",
		Commit: sim.commit,
		Pool: tmpool.CreateOptions{
			Flags:    poolFlags,
			RingSize: *ring,
			DumpDir:  *dumpDir,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create pipeline: %v", err)
	}
	pipeline.SetFrameDumpConfig(*dump)

	failed := 0
	for frame := 0; frame < *frames; frame++ {
		_, err := pipeline.Present(sim.stack(frame))
		if err != nil {
			logger.Error("frame failed", slog.Int("Frame", frame), slog.Any("error", err))
			failed++
		}
	}

	fmt.Println(pipeline.Pool().BuildStatsString(*detailed))
	fmt.Println(allocator.BuildStatsString(*detailed))

	pipeline.Close()
	sim.flush()

	if failed > 0 {
		log.Printf("%d of %d frames failed\n", failed, *frames)
		os.Exit(1)
	}
}
