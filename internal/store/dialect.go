package store

import "io/fs"

// Dialect describes the SQL flavour of a backing database. Queries in this
// module use $N placeholders, which both supported drivers accept, so a
// dialect only carries what actually differs.
type Dialect struct {
	// Name is the configured driver name ("postgres" or "sqlite").
	Name string

	// DriverName is the database/sql driver registered for Name.
	DriverName string

	// LockClause is appended to SELECTs that must lock the rows they read.
	// Empty when the engine serializes writers at BEGIN instead.
	LockClause string

	// UpdatedAt is the SQL expression assigned to updated_at on every write.
	// It may read the row's current updated_at and must yield a later time.
	UpdatedAt string

	// Migrations holds the goose migration files at its root.
	Migrations fs.FS

	// MapError translates driver errors into the store error taxonomy.
	// It returns nil for nil and leaves unknown errors untouched.
	MapError func(err error) error
}

// Map applies d.MapError when set.
func (d Dialect) Map(err error) error {
	if err == nil || d.MapError == nil {
		return err
	}
	return d.MapError(err)
}

// Touch returns the updated_at expression, defaulting to CURRENT_TIMESTAMP.
func (d Dialect) Touch() string {
	if d.UpdatedAt == "" {
		return "CURRENT_TIMESTAMP"
	}
	return d.UpdatedAt
}
