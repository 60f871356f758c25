package tmpool

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vkngwrapper/tonemap/fence"
	"golang.org/x/exp/slog"
)

const frameDumpSubdir = "frame_dump_primary"

// SetFrameDumpConfig requests that the output of the next count blits be written to disk as raw
// pixel data under <DumpDir>/frame_dump_primary. Frame numbering restarts at zero.
func (p *Pool) SetFrameDumpConfig(count int) {
	p.logger().Info("frame dump configured", slog.Int("Count", count))

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.dumpFrameCount = count
	p.dumpFrameIndex = 0
}

// dumpOutput waits for the blit to finish and writes the session's current buffer. Failures are
// logged and never fail the frame.
func (p *Pool) dumpOutput(session *Session, blitFence fence.Fence) {
	if p.dumpFrameCount <= 0 {
		return
	}

	handle := session.ring.current().buffer.Handle
	err := p.deps.fences.Wait(blitFence)
	if err != nil {
		p.logger().Error("failed to wait for tone map output", slog.Any("error", err))
	}

	data, err := p.deps.allocator.Map(handle, blitFence)
	if err != nil {
		p.logger().Error("failed to map tone map output", slog.Any("error", err))
		return
	}

	width, err := p.deps.allocator.Width(handle)
	if err != nil {
		p.logger().Error("failed to query tone map output width", slog.Any("error", err))
		return
	}
	height, err := p.deps.allocator.Height(handle)
	if err != nil {
		p.logger().Error("failed to query tone map output height", slog.Any("error", err))
		return
	}
	size, err := p.deps.allocator.AllocationSize(handle)
	if err != nil {
		p.logger().Error("failed to query tone map output size", slog.Any("error", err))
		return
	}
	if size > len(data) {
		size = len(data)
	}

	dir := filepath.Join(p.options.DumpDir, frameDumpSubdir)
	path := filepath.Join(dir, fmt.Sprintf("tonemap_%dx%d_frame%d.raw", width, height, p.dumpFrameIndex))

	err = os.MkdirAll(dir, 0o755)
	if err == nil {
		err = os.WriteFile(path, data[:size], 0o644)
	}
	if err != nil {
		p.logger().Error("failed to write frame dump", slog.String("Path", path), slog.Any("error", err))
	} else {
		p.logger().Info("frame dump written", slog.String("Path", path))
	}

	p.dumpFrameCount--
	p.dumpFrameIndex++
}
