package routes

import (
	"homestays-server/models"
	"net/http"
	"testing"
)

func TestCreateReviewRequiresConfirmedStay(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	host := mustCreateUser(t, db, "host@example.com", "host")
	guest := mustCreateUser(t, db, "guest@example.com", "guest")
	mustCreateProperty(t, db, host.ID, 120)

	token := signTestToken(guest.ID, "guest")
	resp := doJSON(app, http.MethodPost, "/api/property/1/reviews", token,
		map[string]interface{}{"rating": 5, "comment": "great"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without confirmed stay, got %d", resp.Code)
	}
}

func TestCreateReviewRatingBounds(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	host := mustCreateUser(t, db, "host@example.com", "host")
	guest := mustCreateUser(t, db, "guest@example.com", "guest")
	property := mustCreateProperty(t, db, host.ID, 120)
	mustCreateBooking(t, db, property.ID, guest.ID, "confirmed", 360)

	token := signTestToken(guest.ID, "guest")

	for _, rating := range []int{0, 6, -1} {
		resp := doJSON(app, http.MethodPost, "/api/property/1/reviews", token,
			map[string]interface{}{"rating": rating})
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for rating %d, got %d", rating, resp.Code)
		}
	}

	resp := doJSON(app, http.MethodPost, "/api/property/1/reviews", token,
		map[string]interface{}{"rating": 4, "comment": "solid stay"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for rating 4, got %d: %s", resp.Code, resp.Body.String())
	}

	// One review per guest per property
	resp2 := doJSON(app, http.MethodPost, "/api/property/1/reviews", token,
		map[string]interface{}{"rating": 5})
	if resp2.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second review, got %d", resp2.Code)
	}
}

func TestListReviewsAverage(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	host := mustCreateUser(t, db, "host@example.com", "host")
	guestA := mustCreateUser(t, db, "a@example.com", "guest")
	guestB := mustCreateUser(t, db, "b@example.com", "guest")
	property := mustCreateProperty(t, db, host.ID, 120)

	reviews := []models.Review{
		{PropertyID: property.ID, UserID: guestA.ID, Rating: 4},
		{PropertyID: property.ID, UserID: guestB.ID, Rating: 5},
	}
	if err := db.Create(&reviews).Error; err != nil {
		t.Fatalf("create reviews: %v", err)
	}

	resp := doJSON(app, http.MethodGet, "/api/property/1/reviews", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := decodeBody(t, resp)
	meta := body["meta"].(map[string]interface{})
	if avg := meta["averageRating"].(float64); avg != 4.5 {
		t.Fatalf("expected average 4.5, got %v", avg)
	}
	if count := meta["reviewCount"].(float64); count != 2 {
		t.Fatalf("expected 2 reviews, got %v", count)
	}
}

func TestReviewWriteUpdatesPropertyRating(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	host := mustCreateUser(t, db, "host@example.com", "host")
	guest := mustCreateUser(t, db, "guest@example.com", "guest")
	property := mustCreateProperty(t, db, host.ID, 120)
	mustCreateBooking(t, db, property.ID, guest.ID, "confirmed", 360)

	token := signTestToken(guest.ID, "guest")
	resp := doJSON(app, http.MethodPost, "/api/property/1/reviews", token,
		map[string]interface{}{"rating": 3, "comment": "ok"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	db.First(&property, property.ID)
	if property.Rating != 3 {
		t.Fatalf("expected denormalized rating 3, got %v", property.Rating)
	}
}

func TestReviewWriteInvalidatesCachedProperty(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	host := mustCreateUser(t, db, "host@example.com", "host")
	guest := mustCreateUser(t, db, "guest@example.com", "guest")
	property := mustCreateProperty(t, db, host.ID, 120)
	mustCreateBooking(t, db, property.ID, guest.ID, "confirmed", 360)

	// Prime the cache before any reviews exist
	resp := doJSON(app, http.MethodGet, "/api/property/1", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if rating := decodeBody(t, resp)["rating"].(float64); rating != 0 {
		t.Fatalf("expected rating 0 before reviews, got %v", rating)
	}

	token := signTestToken(guest.ID, "guest")
	resp2 := doJSON(app, http.MethodPost, "/api/property/1/reviews", token,
		map[string]interface{}{"rating": 5, "comment": "great"})
	if resp2.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp2.Code, resp2.Body.String())
	}

	resp3 := doJSON(app, http.MethodGet, "/api/property/1", "", nil)
	if rating := decodeBody(t, resp3)["rating"].(float64); rating != 5 {
		t.Fatalf("expected rating 5 after review, got %v", rating)
	}
}
