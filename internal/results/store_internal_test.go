package results

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewOpenError(t *testing.T) { //nolint:paralleltest // swaps openDB
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("boom")
	}

	_, err := New(filepath.Join(t.TempDir(), "results.db"))
	require.ErrorContains(t, err, "results: open database")
}
