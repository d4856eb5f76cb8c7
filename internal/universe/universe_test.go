package universe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScripCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrip_master.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeScripCSV(t, "token,symbol,name\n3045,SBIN-EQ,SBIN\n1594,INFY-EQ,INFY\n")

	u, err := Load(context.Background(), path, 190)
	require.NoError(t, err)

	assert.Equal(t, 2, u.Len())
	assert.Equal(t, []uint32{3045, 1594}, u.Tokens())
	assert.Equal(t, "SBIN-EQ", u.Symbol(3045))
	assert.Equal(t, "", u.Symbol(99))
}

func TestLoadEnforcesTokenCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("token,name\n")
	for i := 1; i <= 250; i++ {
		fmt.Fprintf(&b, "%d,STOCK%d\n", i, i)
	}
	path := writeScripCSV(t, b.String())

	u, err := Load(context.Background(), path, 190)
	require.NoError(t, err)
	assert.Equal(t, 190, u.Len())
	assert.Equal(t, uint32(1), u.Tokens()[0])
	assert.Equal(t, uint32(190), u.Tokens()[189])
}

func TestLoadSkipsBadRows(t *testing.T) {
	path := writeScripCSV(t, "token,symbol\nabc,BAD\n0,ZERO\n3045,SBIN-EQ\n3045,DUP\n")

	u, err := Load(context.Background(), path, 190)
	require.NoError(t, err)

	assert.Equal(t, 1, u.Len())
	assert.Equal(t, "SBIN-EQ", u.Symbol(3045))
}

func TestLoadFailures(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), 190)
	assert.Error(t, err)

	_, err = Load(context.Background(), writeScripCSV(t, "token,symbol\n"), 190)
	assert.Error(t, err)

	_, err = Load(context.Background(), writeScripCSV(t, "code,symbol\n1,A\n"), 190)
	assert.Error(t, err)
}

func TestATMStrike(t *testing.T) {
	tests := []struct {
		name     string
		spot     float64
		scrip    string
		expected int
	}{
		{"index rounds down to 50", 19862.0, "NIFTY", 19850},
		{"index rounds up to 50", 19880.0, "NIFTY", 19900},
		{"bank index uses 100 grid", 44563.0, "BANKNIFTY", 44600},
		{"bank match is case insensitive", 44530.0, "BankNifty", 44500},
		{"exact strike unchanged", 19850.0, "NIFTY", 19850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ATMStrike(tt.spot, tt.scrip))
		})
	}
}

func TestValidateScripCSV(t *testing.T) {
	assert.NoError(t, validateScripCSV([]byte("token,symbol,name\n1,A,A\n")))
	assert.Error(t, validateScripCSV(nil))
	assert.Error(t, validateScripCSV([]byte("<html>blocked</html>")))
}
