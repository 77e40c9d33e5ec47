package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the billing backend.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL,
			hospital_id INTEGER,
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS hospitals (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT,
			location TEXT,
			owner_id INTEGER REFERENCES users(id),
			created_at TIMESTAMPTZ DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS patients (
			id SERIAL PRIMARY KEY,
			hospital_id INTEGER NOT NULL REFERENCES hospitals(id),
			patient_code TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(hospital_id, patient_code)
		);`,
		`CREATE TABLE IF NOT EXISTS sales (
			id SERIAL PRIMARY KEY,
			hospital_id INTEGER NOT NULL REFERENCES hospitals(id),
			visit_id TEXT,
			patient_code TEXT,
			patient_name TEXT NOT NULL,
			total_amount NUMERIC(12,2) NOT NULL,
			discount NUMERIC(12,2) NOT NULL DEFAULT 0,
			payment_method TEXT NOT NULL,
			sale_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sales_hospital_method ON sales (hospital_id, payment_method);`,
		`CREATE INDEX IF NOT EXISTS idx_sales_visit ON sales (visit_id);`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			id SERIAL PRIMARY KEY,
			sale_id INTEGER NOT NULL REFERENCES sales(id),
			item_name TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price NUMERIC(12,2) NOT NULL,
			subtotal NUMERIC(12,2) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS credit_payments (
			id SERIAL PRIMARY KEY,
			hospital_id INTEGER NOT NULL REFERENCES hospitals(id),
			patient_code TEXT NOT NULL,
			visit_id TEXT,
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			payment_method TEXT NOT NULL,
			payment_reference TEXT,
			payment_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			received_by TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sales_returns (
			id SERIAL PRIMARY KEY,
			hospital_id INTEGER NOT NULL REFERENCES hospitals(id),
			original_sale_id INTEGER NOT NULL REFERENCES sales(id),
			net_refund NUMERIC(12,2) NOT NULL DEFAULT 0,
			return_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
