package system

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/ivlev/svga2svg/internal/source"
)

// InitResourceLimits raises the open file limit for batch conversions.
func InitResourceLimits(log zerolog.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("[!] cannot read open file limit")
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn().Err(err).Msg("[!] cannot raise open file limit")
		return
	}
	log.Debug().Uint64("limit", uint64(rLimit.Cur)).Msg("[*] open file limit raised")
}

// FindMovies lists the movie files directly inside dir, sorted by name.
func FindMovies(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var movies []string
	for _, e := range entries {
		if !e.IsDir() && source.IsMovie(e.Name()) {
			movies = append(movies, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(movies)
	return movies, nil
}

// FindLatestMovie returns the most recently modified movie in dir.
func FindLatestMovie(dir string) (string, error) {
	movies, err := FindMovies(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time
	for _, m := range movies {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = m
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no movie files found in %s", dir)
	}
	return latestFile, nil
}

// OutputPath names the document generated for input: the input's base name
// with spaces replaced, a timestamp and the .svg extension, inside dir.
func OutputPath(input, dir string, now time.Time) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.svg", name, now.Format("2006-01-02_15-04-05")))
}

// DefaultWorkers returns the number of logical CPUs.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Stats is a snapshot of the running process.
type Stats struct {
	RSS        uint64
	CPUPercent float64
	Goroutines int
}

// ProcessStats samples the current process.
func ProcessStats() (Stats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return Stats{}, err
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return Stats{}, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		RSS:        mem.RSS,
		CPUPercent: cpuPercent,
		Goroutines: runtime.NumGoroutine(),
	}, nil
}
