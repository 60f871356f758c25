package bufutils

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// ZeroDimensionError is the error returned from CheckExtent if either side of a buffer extent is not positive
var ZeroDimensionError error = errors.New("buffer dimensions must be positive")
