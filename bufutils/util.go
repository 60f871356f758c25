package bufutils

import (
	cerrors "github.com/cockroachdb/errors"
)

type Number interface {
	~int | ~uint
}

func CheckPow2[T Number](number T, name string) error {
	if number == 0 || number&(number-1) != 0 {
		return cerrors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

// CheckExtent verifies that width and height describe a non-empty buffer
func CheckExtent(width, height int) error {
	if width <= 0 || height <= 0 {
		return cerrors.Wrapf(ZeroDimensionError, "extent is %dx%d", width, height)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}
