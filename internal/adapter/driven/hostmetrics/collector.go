// Package hostmetrics reads the panel host's CPU, memory, battery and
// identity for the system status view.
package hostmetrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/ericfisherdev/homepanel/internal/domain/model"
	"github.com/ericfisherdev/homepanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.SystemMetrics = (*Collector)(nil)

const defaultSampleInterval = 500 * time.Millisecond

// Collector implements driven.SystemMetrics with gopsutil. Battery and
// temperature come from sysfs, which gopsutil does not cover for batteries.
type Collector struct {
	sampleInterval time.Duration
	sysfsRoot      string
}

// NewCollector creates a Collector reading the live host.
func NewCollector() *Collector {
	return &Collector{sampleInterval: defaultSampleInterval, sysfsRoot: "/sys"}
}

// Collect reads each section independently. A failed section is reported in
// the joined error and left zero in the result.
func (c *Collector) Collect(ctx context.Context) (model.SystemStatus, error) {
	status := model.SystemStatus{CollectedAt: time.Now().UTC()}
	var errs []error

	if pct, err := cpu.PercentWithContext(ctx, c.sampleInterval, false); err != nil {
		errs = append(errs, fmt.Errorf("cpu percent: %w", err))
	} else if len(pct) > 0 {
		status.CPU.Percent = pct[0]
	}

	if n, err := cpu.CountsWithContext(ctx, true); err != nil {
		errs = append(errs, fmt.Errorf("cpu count: %w", err))
	} else {
		status.CPU.Cores = n
	}

	if infos, err := cpu.InfoWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("cpu info: %w", err))
	} else if len(infos) > 0 {
		status.Info.Processor = strings.TrimSpace(infos[0].ModelName)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		status.Memory = model.MemoryStatus{
			Percent: vm.UsedPercent,
			UsedMB:  bytesToMB(vm.Used),
			TotalMB: bytesToMB(vm.Total),
		}
	}

	if hi, err := host.InfoWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("host info: %w", err))
	} else {
		status.Info.OS = hi.OS
		status.Info.OSVersion = hi.KernelVersion
		status.Info.Platform = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
		status.Info.Hostname = hi.Hostname
		status.Info.Uptime = time.Duration(hi.Uptime) * time.Second
	}

	status.CPU.Temperature = readTemperature(c.sysfsRoot)

	battery, err := readBattery(c.sysfsRoot)
	if err != nil {
		errs = append(errs, fmt.Errorf("battery: %w", err))
	}
	status.Battery = battery

	return status, errors.Join(errs...)
}

func bytesToMB(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
