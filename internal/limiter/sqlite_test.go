package limiter_test

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/cybertec-postgresql/sqllimit/internal/limiter"
	_ "modernc.org/sqlite"
)

// openSQLite returns an in-memory database with table t holding ids 1..n.
func openSQLite(t *testing.T, n int) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY, tag TEXT)"); err != nil {
		t.Fatal(err)
	}
	tx, err := db.Begin()
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= n; i++ {
		if _, err := tx.Exec("INSERT INTO t (id, tag) VALUES (?, ?)", i, fmt.Sprintf("limit %d", i)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	return db
}

// TestRewrittenQueriesOnSQLite checks the LIMIT strategy against an engine
// that has no FETCH clause but accepts LIMIT n OFFSET m and LIMIT m, n.
func TestRewrittenQueriesOnSQLite(t *testing.T) {
	db := openSQLite(t, 30)

	tests := []struct {
		name      string
		sql       string
		limit     int
		offset    *int
		wantCount int
		wantFirst int
	}{
		{"limit added", "SELECT id FROM t ORDER BY id", 10, nil, 10, 1},
		{"limit and offset added", "SELECT id FROM t ORDER BY id;", 5, intPtr(12), 5, 13},
		{"comma form lowered", "SELECT id FROM t ORDER BY id LIMIT 2, 20", 3, intPtr(9), 3, 3},
		{"sub-query untouched", "SELECT id FROM (SELECT id FROM t ORDER BY id LIMIT 25) ORDER BY id", 30, intPtr(20), 5, 21},
		{"literal looks like a clause", "SELECT id FROM t WHERE tag <> 'limit 1' ORDER BY id", 4, nil, 4, 2},
		{"quoted identifier", `SELECT "id" FROM "t" ORDER BY "id" DESC`, 2, nil, 2, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rewritten, err := limiter.Limit(tt.sql, []limiter.Strategy{limiter.StrategyLimit}, tt.limit, tt.offset)
			if err != nil {
				t.Fatalf("Limit() error = %v", err)
			}

			rows, err := db.Query(rewritten)
			if err != nil {
				t.Fatalf("%q failed: %v", rewritten, err)
			}
			defer rows.Close()

			var ids []int
			for rows.Next() {
				var id int
				if err := rows.Scan(&id); err != nil {
					t.Fatal(err)
				}
				ids = append(ids, id)
			}
			if err := rows.Err(); err != nil {
				t.Fatal(err)
			}

			if len(ids) != tt.wantCount {
				t.Fatalf("%q returned %d rows, want %d", rewritten, len(ids), tt.wantCount)
			}
			if ids[0] != tt.wantFirst {
				t.Errorf("%q: first id = %d, want %d", rewritten, ids[0], tt.wantFirst)
			}
		})
	}
}
