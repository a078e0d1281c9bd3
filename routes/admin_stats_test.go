package routes

import (
	"net/http"
	"testing"
)

func TestAdminHostRevenueRanking(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	admin := mustCreateUser(t, db, "admin@example.com", "admin")
	hostA := mustCreateUser(t, db, "hosta@example.com", "host")
	hostB := mustCreateUser(t, db, "hostb@example.com", "host")
	guest := mustCreateUser(t, db, "guest@example.com", "guest")

	propA := mustCreateProperty(t, db, hostA.ID, 100)
	propB := mustCreateProperty(t, db, hostB.ID, 200)

	mustCreateBooking(t, db, propA.ID, guest.ID, "confirmed", 300)
	mustCreateBooking(t, db, propB.ID, guest.ID, "confirmed", 600)
	// Pending revenue does not count
	mustCreateBooking(t, db, propA.ID, guest.ID, "pending", 1000)

	token := signTestToken(admin.ID, "admin")
	resp := doJSON(app, http.MethodGet, "/api/admin/host-revenue", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 hosts, got %d", len(data))
	}

	first := data[0].(map[string]interface{})
	if first["hostID"].(float64) != float64(hostB.ID) {
		t.Fatalf("expected host B ranked first, got %v", first)
	}
	if first["revenue"].(float64) != 600 {
		t.Fatalf("expected revenue 600, got %v", first["revenue"])
	}
	if first["revenueRank"].(float64) != 1 {
		t.Fatalf("expected rank 1, got %v", first["revenueRank"])
	}

	second := data[1].(map[string]interface{})
	if second["revenueRank"].(float64) != 2 {
		t.Fatalf("expected rank 2, got %v", second["revenueRank"])
	}
}

func TestAdminBookingsPerGuest(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	admin := mustCreateUser(t, db, "admin@example.com", "admin")
	host := mustCreateUser(t, db, "host@example.com", "host")
	guest := mustCreateUser(t, db, "guest@example.com", "guest")
	prop := mustCreateProperty(t, db, host.ID, 100)

	mustCreateBooking(t, db, prop.ID, guest.ID, "confirmed", 300)
	mustCreateBooking(t, db, prop.ID, guest.ID, "canceled", 300)

	token := signTestToken(admin.ID, "admin")
	resp := doJSON(app, http.MethodGet, "/api/admin/bookings-per-guest", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 guest row, got %d", len(data))
	}
	row := data[0].(map[string]interface{})
	if row["bookingCount"].(float64) != 2 {
		t.Fatalf("expected 2 bookings for guest, got %v", row["bookingCount"])
	}
}

func TestAdminQueryPlans(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	admin := mustCreateUser(t, db, "admin@example.com", "admin")
	token := signTestToken(admin.ID, "admin")

	resp := doJSON(app, http.MethodGet, "/api/admin/plans", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 listing plans, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	if len(body["data"].([]interface{})) == 0 {
		t.Fatalf("expected at least one plan name")
	}

	resp2 := doJSON(app, http.MethodGet, "/api/admin/plans/properties_by_location", token, nil)
	if resp2.Code != http.StatusOK {
		t.Fatalf("expected 200 for known plan, got %d: %s", resp2.Code, resp2.Body.String())
	}
	body2 := decodeBody(t, resp2)
	plan := body2["data"].(map[string]interface{})["plan"].([]interface{})
	if len(plan) == 0 {
		t.Fatalf("expected non-empty plan output")
	}

	resp3 := doJSON(app, http.MethodGet, "/api/admin/plans/drop_all_tables", token, nil)
	if resp3.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown plan, got %d", resp3.Code)
	}
}
