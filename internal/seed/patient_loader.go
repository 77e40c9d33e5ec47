package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadPatients ingests a patient roster CSV into the patients table,
// ignoring duplicates. Expected columns: hospital_id, patient_code, name,
// phone. The roster backs external-code resolution for payment entry.
func LoadPatients(db *sqlx.DB, csvPath string) {
	if csvPath == "" {
		return
	}
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load patient roster %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read roster header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start roster transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO patients (hospital_id, patient_code, name, phone) VALUES ($1, $2, $3, $4) ON CONFLICT (hospital_id, patient_code) DO NOTHING`)
	if err != nil {
		log.Printf("unable to prepare roster insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read roster row: %v", err)
			continue
		}
		if len(record) < 3 {
			continue
		}
		hospitalID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			continue
		}
		code := strings.TrimSpace(record[1])
		name := strings.TrimSpace(record[2])
		phone := ""
		if len(record) > 3 {
			phone = strings.TrimSpace(record[3])
		}
		if code == "" || name == "" {
			continue
		}

		var phoneVal *string
		if phone != "" {
			phoneVal = &phone
		}
		if _, err := stmt.Exec(hospitalID, code, name, phoneVal); err != nil {
			log.Printf("unable to insert patient %s: %v", code, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit roster seed: %v", err)
	} else {
		log.Printf("seeded patient roster with %d rows", rows)
	}
}
