package model

// CommandResult is the outcome of a local command. Failures of every kind are
// reported here rather than as errors.
type CommandResult struct {
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error"`
	Code    int    `json:"code"`
}

// CommandCategory groups allowed literal commands under a display name.
type CommandCategory struct {
	Name     string
	Commands []string
}

// Command categories, in match order.
const (
	CategorySystemInfo  = "system_info"
	CategoryIPInfo      = "ip_info"
	CategoryMemoryInfo  = "memory_info"
	CategoryDiskInfo    = "disk_info"
	CategoryProcessList = "process_list"
	CategoryNetworkTest = "network_test"
	CategoryCustom      = "custom"
)
