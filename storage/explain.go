package storage

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// planCatalog is the fixed set of queries whose execution plans can be
// inspected. Plans are only meaningful for the exact shapes the API issues,
// so arbitrary SQL is not accepted.
var planCatalog = map[string]struct {
	SQL  string
	Args []interface{}
}{
	"properties_by_location": {
		SQL:  "SELECT * FROM properties WHERE location = ?",
		Args: []interface{}{"Nouakchott"},
	},
	"properties_by_location_price": {
		SQL:  "SELECT * FROM properties WHERE location = ? AND price_per_night <= ?",
		Args: []interface{}{"Nouakchott", 200.0},
	},
	"bookings_by_property_status": {
		SQL:  "SELECT * FROM bookings WHERE property_id = ? AND status = ?",
		Args: []interface{}{1, "confirmed"},
	},
	"bookings_by_guest": {
		SQL:  "SELECT * FROM bookings WHERE guest_id = ?",
		Args: []interface{}{1},
	},
	"reviews_avg_by_property": {
		SQL:  "SELECT property_id, AVG(rating) FROM reviews GROUP BY property_id",
		Args: nil,
	},
	"messages_conversation": {
		SQL:  "SELECT * FROM messages WHERE sender_id = ? AND recipient_id = ? ORDER BY created_at DESC",
		Args: []interface{}{1, 2},
	},
}

// PlanNames lists the catalog keys, for discovery by the admin endpoint.
func PlanNames() []string {
	names := make([]string, 0, len(planCatalog))
	for name := range planCatalog {
		names = append(names, name)
	}
	return names
}

// ExplainQuery runs the engine's EXPLAIN over a named catalog query and
// returns the plan rows as text, one line per row.
func ExplainQuery(db *gorm.DB, name string) ([]string, error) {
	entry, ok := planCatalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown plan name %q", name)
	}

	prefix := "EXPLAIN "
	if db.Dialector.Name() == "sqlite" {
		prefix = "EXPLAIN QUERY PLAN "
	}

	rows, err := db.Raw(prefix+entry.SQL, entry.Args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var plan []string
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		fields := make([]string, 0, len(values))
		for _, v := range values {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			fields = append(fields, fmt.Sprint(v))
		}
		plan = append(plan, strings.Join(fields, " "))
	}
	return plan, rows.Err()
}
