package file

import "os"

// Exists returns a bool indicating if the specified file exists or not.
func Exists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}
