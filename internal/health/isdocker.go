package health

import "os"

// IsDocker returns true if the program runs in the project Docker image,
// which ships an isdocker marker file, or in any other Docker container.
func IsDocker() (ok bool) {
	for _, path := range []string{"isdocker", "/.dockerenv"} {
		_, err := os.Stat(path)
		if err == nil {
			return true
		}
	}
	return false
}
