package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"raidrelay/pkg/database"
)

func main() {
	var (
		bossesIn = flag.String("bosses", "data/boss_names.csv", "input CSV path for boss name mappings")
		groupsIn = flag.String("groups", "", "optional input CSV path for group seed rows")
		codesIn  = flag.String("codes", "", "optional input CSV path for legacy raid code backfill")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db, dbCfg.SchemaPath); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importBossNames(ctx, db, *bossesIn); err != nil {
		log.Fatalf("import boss names failed: %v", err)
	}
	if *groupsIn != "" {
		if err := importGroups(ctx, db, *groupsIn); err != nil {
			log.Fatalf("import groups failed: %v", err)
		}
	}
	if *codesIn != "" {
		if err := importLegacyCodes(ctx, db, *codesIn); err != nil {
			log.Fatalf("import legacy codes failed: %v", err)
		}
	}

	log.Printf("import finished")
}

func importBossNames(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO boss_names (raw_label, canonical_label, series)
		VALUES (?, ?, ?)
		ON CONFLICT(raw_label) DO UPDATE SET
		  canonical_label = excluded.canonical_label,
		  series = excluded.series
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	count := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		raw := valueAt(header, row, "raw_label")
		label := valueAt(header, row, "canonical_label")
		if raw == "" || label == "" {
			continue
		}

		if _, err := stmt.ExecContext(ctx, raw, label, nullString(valueAt(header, row, "series"))); err != nil {
			return err
		}
		count++
	}

	log.Printf("imported %d boss name mappings from %s", count, path)
	return nil
}

func importGroups(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO groups (id, name, slug, legacy_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  slug = excluded.slug,
		  legacy_name = excluded.legacy_name
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	count := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		name := valueAt(header, row, "name")
		if name == "" {
			continue
		}
		id := valueAt(header, row, "id")
		if id == "" {
			id = uuid.NewString()
		}

		if _, err := stmt.ExecContext(
			ctx,
			id,
			name,
			nullString(valueAt(header, row, "slug")),
			nullString(valueAt(header, row, "legacy_name")),
		); err != nil {
			return err
		}
		count++
	}

	log.Printf("imported %d groups from %s", count, path)
	return nil
}

// importLegacyCodes backfills raid codes exported from the old relay. The
// rows predate accounts, so user_id is always NULL and only poster_name
// identifies who posted; rankings keep each such row a separate identity.
func importLegacyCodes(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO raid_codes (id, group_id, user_id, poster_name, boss_name, battle_name, code, created_at)
		VALUES (?, ?, NULL, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	count, skipped := 0, 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		groupID := valueAt(header, row, "group_id")
		code := valueAt(header, row, "code")
		created := parseLegacyTime(valueAt(header, row, "created_at"))
		if groupID == "" || code == "" || created.IsZero() {
			skipped++
			continue
		}

		if _, err := stmt.ExecContext(
			ctx,
			uuid.NewString(),
			groupID,
			nullString(valueAt(header, row, "poster_name")),
			nullString(valueAt(header, row, "boss_name")),
			nullString(valueAt(header, row, "battle_name")),
			code,
			created,
		); err != nil {
			return err
		}
		count++
	}

	log.Printf("imported %d legacy raid codes from %s (%d rows skipped)", count, path, skipped)
	return nil
}

var legacyTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseLegacyTime(raw string) time.Time {
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
