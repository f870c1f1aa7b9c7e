package codec

import "fmt"

func errInvalidf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
