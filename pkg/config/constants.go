package config

// Kernel report paths.
const (
	ProcStat    = "/proc/stat"
	ProcMeminfo = "/proc/meminfo"
	ProcNetTCP  = "/proc/net/tcp"
	ProcNetUDP  = "/proc/net/udp"
	ProcNetTCP6 = "/proc/net/tcp6"
	ProcNetUDP6 = "/proc/net/udp6"
)

// Socket table names.
const (
	TableTCP  = "tcp"
	TableUDP  = "udp"
	TableTCP6 = "tcp6"
	TableUDP6 = "udp6"
)

var tablePaths = map[string]string{
	TableTCP:  ProcNetTCP,
	TableUDP:  ProcNetUDP,
	TableTCP6: ProcNetTCP6,
	TableUDP6: ProcNetUDP6,
}

// TablePath returns the report path of a socket table name.
func TablePath(table string) (string, bool) {
	p, ok := tablePaths[table]
	return p, ok
}
