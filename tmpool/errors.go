package tmpool

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

var (
	// ErrParameter marks a layer whose 3D lookup table cannot be used
	ErrParameter = errors.New("invalid tone map parameters")
	// ErrAllocation marks a failure to allocate a session or its intermediate buffers
	ErrAllocation = errors.New("tone map allocation failed")
	// ErrUnsupported marks a configuration that the compute backend refused
	ErrUnsupported = errors.New("tone map configuration not supported")
)

// Result maps an error returned by the pool to the result code reported for the frame
func Result(err error) common.VkResult {
	switch {
	case err == nil:
		return core1_0.VKSuccess
	case errors.Is(err, ErrParameter):
		return core1_0.VKErrorInitializationFailed
	case errors.Is(err, ErrAllocation):
		return core1_0.VKErrorOutOfDeviceMemory
	case errors.Is(err, ErrUnsupported):
		return core1_0.VKErrorFeatureNotPresent
	default:
		return core1_0.VKErrorUnknown
	}
}
