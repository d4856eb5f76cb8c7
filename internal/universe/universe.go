package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"titan-trader/internal/logger"
)

// Instrument is one scannable row of the scrip master.
type Instrument struct {
	Token  uint32
	Symbol string
	Name   string
}

// Universe is the immutable set of instruments the scanner subscribes to.
// Built once at startup from the scrip-master CSV; lookups are read-only so
// no locking is needed.
type Universe struct {
	instruments []Instrument
	byToken     map[uint32]Instrument
}

// Load reads the scrip-master CSV and keeps at most maxTokens rows, in file
// order. The feed rejects oversized subscriptions, so the cap is enforced
// here rather than at subscribe time.
func Load(ctx context.Context, path string, maxTokens int) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scrip master: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse scrip master: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("scrip master %s has no instrument rows", path)
	}

	cols := columnIndex(records[0])
	tokenCol, ok := cols["token"]
	if !ok {
		return nil, fmt.Errorf("scrip master %s missing token column", path)
	}

	u := &Universe{byToken: make(map[uint32]Instrument)}
	skipped := 0
	for _, rec := range records[1:] {
		if len(u.instruments) >= maxTokens {
			break
		}
		inst, err := parseRow(rec, cols, tokenCol)
		if err != nil {
			skipped++
			continue
		}
		if _, dup := u.byToken[inst.Token]; dup {
			skipped++
			continue
		}
		u.instruments = append(u.instruments, inst)
		u.byToken[inst.Token] = inst
	}

	if len(u.instruments) == 0 {
		return nil, fmt.Errorf("scrip master %s yielded no usable instruments", path)
	}

	logger.Info(ctx, "Universe loaded",
		"path", path,
		"instruments", len(u.instruments),
		"skipped", skipped,
	)
	return u, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func parseRow(rec []string, cols map[string]int, tokenCol int) (Instrument, error) {
	if tokenCol >= len(rec) {
		return Instrument{}, fmt.Errorf("row too short")
	}
	token, err := strconv.ParseUint(strings.TrimSpace(rec[tokenCol]), 10, 32)
	if err != nil || token == 0 {
		return Instrument{}, fmt.Errorf("bad token %q", rec[tokenCol])
	}

	inst := Instrument{Token: uint32(token)}
	if i, ok := cols["symbol"]; ok && i < len(rec) {
		inst.Symbol = strings.TrimSpace(rec[i])
	}
	if i, ok := cols["name"]; ok && i < len(rec) {
		inst.Name = strings.TrimSpace(rec[i])
	}
	if inst.Symbol == "" {
		inst.Symbol = inst.Name
	}
	if inst.Symbol == "" {
		return Instrument{}, fmt.Errorf("row %d has no symbol", token)
	}
	return inst, nil
}

// Tokens returns the subscription list in scrip-master order.
func (u *Universe) Tokens() []uint32 {
	tokens := make([]uint32, len(u.instruments))
	for i, inst := range u.instruments {
		tokens[i] = inst.Token
	}
	return tokens
}

// Symbol resolves a feed token to its trading symbol. Unknown tokens map to
// the empty string.
func (u *Universe) Symbol(token uint32) string {
	return u.byToken[token].Symbol
}

// Instruments returns a copy of the loaded rows.
func (u *Universe) Instruments() []Instrument {
	out := make([]Instrument, len(u.instruments))
	copy(out, u.instruments)
	return out
}

func (u *Universe) Len() int { return len(u.instruments) }

// ATMStrike rounds a spot price to the nearest strike. Bank index options
// trade on a 100-point grid, everything else on 50.
func ATMStrike(spot float64, name string) int {
	interval := 50.0
	if strings.Contains(strings.ToUpper(name), "BANK") {
		interval = 100.0
	}
	return int(math.Round(spot/interval) * interval)
}
