package tmpool

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/vkngwrapper/tonemap/fence"
)

// BuildStatsString returns a JSON document describing the pool. If detailed is true, every live
// session and its buffers are listed.
func (p *Pool) BuildStatsString(detailed bool) string {
	p.logger().Debug("Pool::BuildStatsString")

	p.mutex.Lock()
	defer p.mutex.Unlock()

	stats := p.statsAfterLock()

	writer := jwriter.NewWriter()
	obj := writer.Object()

	total := obj.Name("Total").Object()
	total.Name("Sessions").Int(stats.Sessions)
	total.Name("ClaimedSessions").Int(stats.ClaimedSessions)
	total.Name("BufferCount").Int(stats.Buffers.BufferCount)
	total.Name("BufferBytes").Int(stats.Buffers.BufferBytes)
	total.Name("Frames").Int(stats.Frames)
	total.Name("FastPathHits").Int(stats.FastPathHits)
	total.Name("Blits").Int(stats.Blits)
	total.Name("SessionsCreated").Int(stats.SessionsCreated)
	total.Name("SessionsDestroyed").Int(stats.SessionsDestroyed)
	total.Name("Terminations").Int(stats.Terminations)
	total.End()

	obj.Name("RingSize").Int(p.options.RingSize)
	obj.Name("Flags").String(p.options.Flags.String())
	if _, ok := p.sessions.get(p.framebuffer); ok {
		obj.Name("FramebufferSession").String(p.framebuffer.String())
	}

	if detailed {
		sessions := obj.Name("Sessions").Array()
		p.sessions.each(func(handle SessionHandle, session *Session) bool {
			entry := sessions.Object()
			entry.Name("Handle").String(handle.String())
			entry.Name("Claimed").Bool(session.claimed)
			entry.Name("LayerIndex").Int(session.layerIndex)
			entry.Name("Cursor").Int(session.ring.cursor)

			config := entry.Name("Config").Object()
			config.Name("Direction").String(session.config.Direction.String())
			config.Name("BlendCS").String(session.config.BlendCS.String())
			config.Name("Transfer").String(session.config.Transfer.String())
			config.Name("Secure").Bool(session.config.Secure)
			config.Name("Format").Int(int(session.config.Format))
			config.Name("Width").Int(session.config.Width)
			config.Name("Height").Int(session.config.Height)
			config.End()

			buffers := entry.Name("Buffers").Array()
			for _, ringEntry := range session.ring.entries {
				buffer := buffers.Object()
				buffer.Name("Handle").Int(int(ringEntry.buffer.Handle))
				buffer.Name("ID").Int(int(ringEntry.buffer.ID))
				buffer.Name("FD").Int(ringEntry.buffer.FD)
				buffer.Name("Size").Int(ringEntry.buffer.Size)
				buffer.Name("ReleaseFence").Int(fence.FD(ringEntry.releaseFence))
				buffer.End()
			}
			buffers.End()

			entry.End()
			return false
		})
		sessions.End()
	}

	obj.End()

	return string(writer.Bytes())
}
