// Package procfs takes one-shot snapshots of the local process table by
// reading /proc directly.
package procfs

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ProcessInfo is one process row captured by Scan.
type ProcessInfo struct {
	PID  int `json:"pid"`
	PPID int `json:"ppid"`
	// Comm is the executable name from the stat record, without the
	// surrounding parentheses.
	Comm string `json:"comm"`
	// Pgrp is the process group id.
	Pgrp int `json:"pgrp"`
	// Tpgid is the foreground process group of the controlling terminal,
	// -1 for processes without one.
	Tpgid int `json:"tpgid"`
	// Cmdline is the argv joined with shell quoting, empty for kernel
	// threads.
	Cmdline string `json:"cmdline"`
}

// Snapshot maps pid to the process row read for it. Snapshots are built
// fresh per call and never updated in place.
type Snapshot map[int]ProcessInfo

// Scan reads every process currently listed in /proc. Processes that exit
// between the directory listing and the record reads are skipped, as are
// entries that are not processes at all.
func Scan() Snapshot {
	return scanDir("/proc")
}

func scanDir(root string) Snapshot {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Snapshot{}
	}
	snap := make(Snapshot, len(entries))
	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		info, ok := readProcess(root, pid)
		if !ok {
			continue
		}
		snap[pid] = info
	}
	return snap
}

// Group returns the snapshot's members of the given process group,
// ordered by pid.
func (s Snapshot) Group(pgid int) []ProcessInfo {
	var out []ProcessInfo
	for _, p := range s {
		if p.Pgrp == pgid {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out
}

func readProcess(root string, pid int) (ProcessInfo, bool) {
	data, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), "stat"))
	if err != nil {
		return ProcessInfo{}, false
	}
	info, ok := parseStat(strings.TrimSpace(string(data)))
	if !ok {
		return ProcessInfo{}, false
	}
	info.PID = pid
	info.Cmdline = readCmdline(root, pid)
	return info, true
}

// parseStat pulls the fields muxpick needs out of a /proc/<pid>/stat
// record. The comm field is parenthesis-delimited and may itself contain
// spaces or parentheses, so the record is split at the last ')'.
func parseStat(line string) (ProcessInfo, bool) {
	l := strings.IndexByte(line, '(')
	r := strings.LastIndexByte(line, ')')
	if l < 0 || r < l {
		return ProcessInfo{}, false
	}
	var info ProcessInfo
	info.Comm = line[l+1 : r]
	fields := strings.Fields(line[r+1:])
	if len(fields) < 6 {
		return ProcessInfo{}, false
	}
	// Field numbering as in proc(5); state is field 3, the first after
	// the comm.
	field := func(i int) string { return fields[i-3] }
	var err error
	if info.PPID, err = strconv.Atoi(field(4)); err != nil {
		return ProcessInfo{}, false
	}
	if info.Pgrp, err = strconv.Atoi(field(5)); err != nil {
		return ProcessInfo{}, false
	}
	if info.Tpgid, err = strconv.Atoi(field(8)); err != nil {
		return ProcessInfo{}, false
	}
	return info, true
}

// readCmdline renders /proc/<pid>/cmdline for display: NUL-separated
// argv, trailing empty element dropped, every argument requoted so the
// result pastes back into a shell.
func readCmdline(root string, pid int) string {
	data, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), "cmdline"))
	if err != nil || len(data) == 0 {
		return ""
	}
	argv := strings.Split(string(data), "\x00")
	if n := len(argv); n > 0 && argv[n-1] == "" {
		argv = argv[:n-1]
	}
	return shellquote.Join(argv...)
}
