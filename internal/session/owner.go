package session

import (
	"fmt"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// OwnerOf resolves the username owning a terminal device file.
// Uids without a passwd entry come back as the numeric uid string.
func OwnerOf(dev string) (string, error) {
	var st unix.Stat_t
	if err := unix.Stat(dev, &st); err != nil {
		return "", fmt.Errorf("stat %s: %w", dev, err)
	}
	uid := strconv.FormatUint(uint64(st.Uid), 10)
	u, err := user.LookupId(uid)
	if err != nil {
		return uid, nil
	}
	return u.Username, nil
}
