package main

import (
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/tonemap/fence/soft"
	"github.com/vkngwrapper/tonemap/gralloc"
	"github.com/vkngwrapper/tonemap/layer"
	"github.com/vkngwrapper/tonemap/tonemap"
)

type scenario struct {
	// Layers is the number of HDR video layers composed by the display hardware
	Layers int
	Width  int
	Height int
	// Framebuffer adds a GPU-composed UI layer and a tone-mapped framebuffer target
	Framebuffer bool
	// IdleEvery makes every n-th frame leave the framebuffer untouched
	IdleEvery int
	// DropEvery removes the last video layer from every n-th frame
	DropEvery int
}

const lutDim = 17

// simulator produces layer stacks and plays the part of the display
type simulator struct {
	timeline *soft.Timeline
	scenario scenario
	lut      tonemap.Lut3D

	// onScreen are the release points of the frame being scanned out
	onScreen []int
}

func newSimulator(timeline *soft.Timeline, s scenario) *simulator {
	return &simulator{
		timeline: timeline,
		scenario: s,
		lut: tonemap.Lut3D{
			Entries: make([]tonemap.Color10Bit, lutDim*lutDim*lutDim),
			Dim:     lutDim,
		},
	}
}

func (s *simulator) stack(frame int) *layer.Stack {
	stack := &layer.Stack{
		BlendCS: layer.PrimariesTransfer{Primaries: layer.PrimariesBT709, Transfer: layer.TransferSRGB},
	}

	videoCount := s.scenario.Layers
	if s.scenario.DropEvery > 0 && frame%s.scenario.DropEvery == s.scenario.DropEvery-1 && videoCount > 0 {
		videoCount--
	}

	for i := 0; i < videoCount; i++ {
		producer := s.timeline.NewPoint()
		_ = s.timeline.Signal(producer)

		stack.Layers = append(stack.Layers, &layer.Layer{
			Composition: layer.CompositionDevice,
			InputBuffer: layer.Buffer{
				Handle:        gralloc.Handle(1000 + i),
				Flags:         layer.BufferHDR | layer.BufferVideo,
				ColorMetadata: layer.ColorMetadata{Primaries: layer.PrimariesBT2020, Transfer: layer.TransferSMPTE2084},
				AcquireFence:  s.timeline.Create(producer, "video"),
			},
			Request: layer.Request{
				Width:  s.scenario.Width,
				Height: s.scenario.Height,
				Format: core1_0.FormatA8B8G8R8UnsignedIntPacked,
				Flags:  layer.RequestToneMap,
			},
			Lut3D: s.lut,
		})
	}

	if !s.scenario.Framebuffer {
		return stack
	}

	idle := s.scenario.IdleEvery > 0 && frame%s.scenario.IdleEvery == s.scenario.IdleEvery-1
	ui := &layer.Layer{Composition: layer.CompositionGPU}
	if idle {
		ui.Composition = layer.CompositionDevice
	}
	stack.Layers = append(stack.Layers, ui, &layer.Layer{
		Composition: layer.CompositionGPUTarget,
		InputBuffer: layer.Buffer{
			Handle:        gralloc.Handle(2000),
			ColorMetadata: layer.ColorMetadata{Primaries: layer.PrimariesBT709, Transfer: layer.TransferSRGB},
		},
		Request: layer.Request{
			Width:  s.scenario.Width,
			Height: s.scenario.Height,
			Format: core1_0.FormatA8B8G8R8UnsignedIntPacked,
			Flags:  layer.RequestToneMap,
		},
		Lut3D: s.lut,
	})

	return stack
}

// commit shows stack: the previous frame is released and every layer of stack gets a release fence
// that signals when the next frame replaces it
func (s *simulator) commit(stack *layer.Stack) error {
	for _, l := range stack.Layers {
		err := s.timeline.Wait(l.InputBuffer.AcquireFence)
		if err != nil {
			return err
		}
	}

	s.flush()

	for _, l := range stack.Layers {
		fd := s.timeline.NewPoint()
		s.onScreen = append(s.onScreen, fd)
		l.InputBuffer.ReleaseFence = s.timeline.Create(fd, "release")
	}
	return nil
}

// flush releases everything on screen
func (s *simulator) flush() {
	for _, fd := range s.onScreen {
		_ = s.timeline.Signal(fd)
	}
	s.onScreen = s.onScreen[:0]
}
