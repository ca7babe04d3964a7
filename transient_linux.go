package sender

import "golang.org/x/sys/unix"

func init() {
	transientErrnos[unix.EREMOTEIO] = struct{}{}
}
