package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// Entry records an order submission outcome.
type Entry struct {
	Time, Symbol, Side, OrderID string
	Qty                         int
	Price                       float64
	Status                      string
	Tag                         string
	Extra                       map[string]any `json:"extra,omitempty"`
}

// SignalEntry records a fired classification.
type SignalEntry struct {
	Time, Symbol, Direction string
	Token                   uint32
	LTP                     float64
	Baseline                float64
	StopLine                float64
	RSI                     float64
}

// RiskEntry records a risk-controller event (denial, panic).
type RiskEntry struct {
	Time, Symbol, Event, Reason string
	Extra                       map[string]any `json:"extra,omitempty"`
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func ist() *time.Location { return time.FixedZone("IST", 19800) }

func dailyFilepath(t time.Time) string {
	d := t.In(ist()).Format("2006-01-02")
	return filepath.Join(logDir(), d+".txt")
}

func signalsFilepath(t time.Time) string {
	d := t.In(ist()).Format("2006-01-02")
	return filepath.Join(logDir(), "signals", d+".txt")
}

func riskFilepath(t time.Time) string {
	d := t.In(ist()).Format("2006-01-02")
	return filepath.Join(logDir(), "risk", d+".txt")
}

func appendLine(path string, v any) error {
	mu.Lock()
	defer mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

func Append(e Entry) error {
	now := time.Now().In(ist())
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(dailyFilepath(now), e)
}

func AppendSignal(e SignalEntry) error {
	now := time.Now().In(ist())
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(signalsFilepath(now), e)
}

func AppendRisk(e RiskEntry) error {
	now := time.Now().In(ist())
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(riskFilepath(now), e)
}

// CompressOlder gzips journal files older than retentionDays.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil {
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 != nil {
			_ = gw.Close()
			_ = out.Close()
			return nil
		}
		_ = gw.Close()
		_ = out.Close()
		_ = os.Remove(p)
		return nil
	})
}
