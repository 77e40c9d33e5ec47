package domain

type Hospital struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Address   string `db:"address" json:"address"`
	Location  string `db:"location" json:"location"`
	OwnerID   *int64 `db:"owner_id" json:"owner_id,omitempty"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Patient is the roster row that maps the external patient code printed on
// paper records to the internal patient key.
type Patient struct {
	ID          int64   `db:"id" json:"id"`
	HospitalID  int64   `db:"hospital_id" json:"hospital_id"`
	PatientCode string  `db:"patient_code" json:"patient_code"`
	Name        string  `db:"name" json:"name"`
	Phone       *string `db:"phone" json:"phone,omitempty"`
	CreatedAt   string  `db:"created_at" json:"created_at"`
}
