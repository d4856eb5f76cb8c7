// Package eod turns the day's order journal into an end-of-day CSV summary,
// aggregated per symbol with matched-quantity realized PnL.
package eod

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"titan-trader/internal/tradelog"
	"titan-trader/internal/types"
)

type symbolDay struct {
	Symbol     string
	EntryQty   int
	EntryValue float64
	ExitQty    int
	ExitValue  float64
	Failed     int
	AutoExits  int
	PanicExits int
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func istNow() time.Time { return time.Now().In(time.FixedZone("IST", 19800)) }

func journalPath(t time.Time) string {
	return filepath.Join(logDir(), t.Format("2006-01-02")+".txt")
}

func summaryPath(t time.Time) string {
	return filepath.Join(logDir(), "eod", t.Format("2006-01-02")+".csv")
}

func marketClose(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 15, 40, 0, 0, t.Location())
}

// SummarizeDay aggregates one day's journal into a per-symbol CSV. A missing
// or empty journal is not an error; it returns "" and writes nothing.
func SummarizeDay(t time.Time) (string, error) {
	inPath := journalPath(t)
	f, err := os.Open(inPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open journal %s: %w", inPath, err)
	}
	defer f.Close()

	days := map[string]*symbolDay{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e tradelog.Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil || e.Symbol == "" {
			continue
		}
		row := days[e.Symbol]
		if row == nil {
			row = &symbolDay{Symbol: e.Symbol}
			days[e.Symbol] = row
		}
		if e.Status != string(types.OrderSuccess) {
			row.Failed++
			continue
		}
		switch e.Tag {
		case types.TagAutoExit:
			row.AutoExits++
		case types.TagPanic:
			row.PanicExits++
		}
		if types.Side(e.Side).IsLong() {
			row.EntryQty += e.Qty
			row.EntryValue += float64(e.Qty) * e.Price
		} else {
			row.ExitQty += e.Qty
			row.ExitValue += float64(e.Qty) * e.Price
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("failed to read journal %s: %w", inPath, err)
	}
	if len(days) == 0 {
		return "", nil
	}

	symbols := make([]string, 0, len(days))
	for s := range days {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	outPath := summaryPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	header := []string{
		"symbol", "entry_qty", "entry_avg", "exit_qty", "exit_avg",
		"realized_pnl", "auto_exits", "panic_exits", "failed_orders",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	var totalPnL float64
	var totalFailed int
	for _, s := range symbols {
		r := days[s]
		var entryAvg, exitAvg float64
		if r.EntryQty > 0 {
			entryAvg = r.EntryValue / float64(r.EntryQty)
		}
		if r.ExitQty > 0 {
			exitAvg = r.ExitValue / float64(r.ExitQty)
		}
		// Realized PnL only over matched quantity; an unmatched book must
		// print 0.00, not IEEE -0.
		var pnl float64
		if matched := min(r.EntryQty, r.ExitQty); matched > 0 {
			pnl = float64(matched) * (exitAvg - entryAvg)
		}
		totalPnL += pnl
		totalFailed += r.Failed

		rec := []string{
			r.Symbol,
			strconv.Itoa(r.EntryQty), fmt.Sprintf("%.4f", entryAvg),
			strconv.Itoa(r.ExitQty), fmt.Sprintf("%.4f", exitAvg),
			fmt.Sprintf("%.2f", pnl),
			strconv.Itoa(r.AutoExits), strconv.Itoa(r.PanicExits), strconv.Itoa(r.Failed),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	_ = w.Write([]string{"TOTAL", "", "", "", "", fmt.Sprintf("%.2f", totalPnL), "", "", strconv.Itoa(totalFailed)})

	return outPath, nil
}

// SummarizeToday summarizes the current IST trading day.
func SummarizeToday() (string, error) { return SummarizeDay(istNow()) }

// ShouldRunNow reports whether the market has closed (15:40 IST) and today's
// summary has not been written yet.
func ShouldRunNow() (bool, string) {
	now := istNow()
	outPath := summaryPath(now)
	if now.After(marketClose(now)) {
		if _, err := os.Stat(outPath); errors.Is(err, os.ErrNotExist) {
			return true, outPath
		}
	}
	return false, outPath
}
