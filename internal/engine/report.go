package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/chart2video/internal/config"
)

const mb = 1 << 20

func (p *Project) report(cfg *config.Config) {
	s := p.stats
	fps := float64(s.Frames) / s.Total.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Run: %s\n"+
			"Total Time: %.2fs\n"+
			"Frames: %d (%.2fs @ %d FPS)\n"+
			"Beats: %d\n"+
			"Workers: %d (CPU %d logical / %d physical)\n"+
			"Memory: RSS %d MB | host %.1f%% used\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		cfg.BuildVersion, p.RunID, s.Total.Seconds(),
		s.Frames, s.Duration, cfg.FPS,
		s.Beats,
		s.Workers, s.Host.LogicalCPUs, s.Host.PhysicalCPUs,
		s.Host.ProcessRSS/mb, s.Host.MemoryPercent,
		fps,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Run: %s | Output: %s | Frames: %d | Total: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		cfg.BuildVersion,
		p.RunID,
		filepath.Base(cfg.OutputPath),
		s.Frames,
		s.Total.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Cannot write benchmark.log: %v\n", err)
	}
}
