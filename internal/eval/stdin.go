package eval

import (
	"io"
	"os"
)

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}
