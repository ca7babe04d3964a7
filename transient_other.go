//go:build !unix && !windows

package sender

func isTransient(error) bool {
	return false
}
