package integration_test

import (
	"net/http"
	"strings"
	"testing"
)

// createProvider registers, logs in and opens a provider profile; it returns the provider id
// and a fresh token carrying the promoted role.
func createProvider(t *testing.T, router http.Handler, email, name, body string) (string, string) {
	t.Helper()
	register(t, router, email, name)
	tok := login(t, router, email, "password123")

	w, _ := doRequest(router, request{method: http.MethodPost, path: "/providers", body: body, token: tok.AccessToken})
	mustStatus(t, w, http.StatusCreated)

	var p idResponse
	mustReadJSON(t, w, &p)

	// the role lives in the token, so pick up PROVIDER by logging in again
	promoted := login(t, router, email, "password123")
	if promoted.User.Role != "PROVIDER" {
		t.Fatalf("role after provider creation = %s, want PROVIDER", promoted.User.Role)
	}
	return p.ID, promoted.AccessToken
}

func TestProviderIntegration_VerifyRequiresAdmin(t *testing.T) {
	router := setupRouter(t)

	providerID, _ := createProvider(t, router, "a@example.com", "Provider A", `{"bio":"Plumber","location":{"city":"Kathmandu"}}`)

	register(t, router, "b@example.com", "Customer B")
	b := login(t, router, "b@example.com", "password123")

	w, _ := doRequest(router, request{method: http.MethodPost, path: "/providers/" + providerID + "/verify", token: b.AccessToken})
	mustStatus(t, w, http.StatusForbidden)

	admin := login(t, router, adminEmail, adminPassword)
	w2, _ := doRequest(router, request{method: http.MethodPost, path: "/providers/" + providerID + "/verify", token: admin.AccessToken})
	mustStatus(t, w2, http.StatusOK)

	var p idResponse
	mustReadJSON(t, w2, &p)
	if !p.IsVerified {
		t.Fatalf("expected provider to be verified")
	}

	// verified filter sees it
	w3, _ := doRequest(router, request{method: http.MethodGet, path: "/providers?verified=true&city=KATHMANDU"})
	mustStatus(t, w3, http.StatusOK)

	var list struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, w3, &list)
	if list.Count != 1 {
		t.Fatalf("verified providers = %d, want 1", list.Count)
	}
}

func TestProviderIntegration_OneProfilePerUser(t *testing.T) {
	router := setupRouter(t)

	_, tok := createProvider(t, router, "a@example.com", "Provider A", `{"bio":"first"}`)

	w, _ := doRequest(router, request{method: http.MethodPost, path: "/providers", body: `{"bio":"second"}`, token: tok})
	mustStatus(t, w, http.StatusConflict)

	var e apiErrorResponse
	mustReadJSON(t, w, &e)
	if len(e.Error.Details.Fields) != 1 || e.Error.Details.Fields[0].Field != "userId" {
		t.Fatalf("conflict fields = %+v, want userId", e.Error.Details.Fields)
	}
}

func TestProviderIntegration_UnknownCategoryLeavesNoPartialState(t *testing.T) {
	router := setupRouter(t)
	register(t, router, "c@example.com", "Customer C")
	tok := login(t, router, "c@example.com", "password123")

	w, _ := doRequest(router, request{
		method: http.MethodPost,
		path:   "/providers",
		body:   `{"bio":"x","categoryIds":["00000000-0000-0000-0000-000000000000"]}`,
		token:  tok.AccessToken,
	})
	mustStatus(t, w, http.StatusNotFound)

	// role unchanged
	again := login(t, router, "c@example.com", "password123")
	if again.User.Role != "CUSTOMER" {
		t.Fatalf("role = %s, want CUSTOMER", again.User.Role)
	}

	w2, _ := doRequest(router, request{method: http.MethodGet, path: "/providers"})
	var list struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, w2, &list)
	if list.Count != 0 {
		t.Fatalf("providers = %d, want 0", list.Count)
	}
}

func TestProviderIntegration_OwnershipAndServices(t *testing.T) {
	router := setupRouter(t)

	providerID, ownerTok := createProvider(t, router, "a@example.com", "Provider A", `{"bio":"Electrician"}`)

	register(t, router, "b@example.com", "Customer B")
	other := login(t, router, "b@example.com", "password123")

	// someone else cannot edit the profile
	w, _ := doRequest(router, request{method: http.MethodPatch, path: "/providers/" + providerID, body: `{"bio":"hijacked"}`, token: other.AccessToken})
	mustStatus(t, w, http.StatusForbidden)

	// customers cannot create services
	w2, _ := doRequest(router, request{method: http.MethodPost, path: "/services", body: `{"title":"Wiring","price":1500,"durationMin":60}`, token: other.AccessToken})
	mustStatus(t, w2, http.StatusForbidden)

	electrician := categoryID(t, router, "electrician")

	w3, _ := doRequest(router, request{
		method: http.MethodPost,
		path:   "/services",
		body:   `{"title":"Wiring","price":1500,"durationMin":60,"categoryId":"` + electrician + `"}`,
		token:  ownerTok,
	})
	mustStatus(t, w3, http.StatusCreated)

	var svc idResponse
	mustReadJSON(t, w3, &svc)

	// listing by provider sees it
	w4, _ := doRequest(router, request{method: http.MethodGet, path: "/services?providerId=" + providerID})
	mustStatus(t, w4, http.StatusOK)
	if !strings.Contains(w4.Body.String(), svc.ID) {
		t.Fatalf("service missing from listing: %s", w4.Body.String())
	}

	// non-owner delete is forbidden, owner delete returns the removed service
	w5, _ := doRequest(router, request{method: http.MethodDelete, path: "/services/" + svc.ID, token: other.AccessToken})
	mustStatus(t, w5, http.StatusForbidden)

	w6, _ := doRequest(router, request{method: http.MethodDelete, path: "/services/" + svc.ID, token: ownerTok})
	mustStatus(t, w6, http.StatusOK)

	// listing is invalidated after the delete
	w7, _ := doRequest(router, request{method: http.MethodGet, path: "/services?providerId=" + providerID})
	if strings.Contains(w7.Body.String(), svc.ID) {
		t.Fatalf("deleted service still listed: %s", w7.Body.String())
	}

	w8, _ := doRequest(router, request{method: http.MethodGet, path: "/services/" + svc.ID})
	mustStatus(t, w8, http.StatusNotFound)
}

func TestProviderIntegration_Availabilities(t *testing.T) {
	router := setupRouter(t)
	providerID, ownerTok := createProvider(t, router, "a@example.com", "Provider A", `{"bio":"Cleaner"}`)
	base := "/providers/" + providerID + "/availabilities"

	w, _ := doRequest(router, request{method: http.MethodPost, path: base, body: `{"dayOfWeek":1,"startTime":"09:00","endTime":"17:00"}`, token: ownerTok})
	mustStatus(t, w, http.StatusCreated)

	var a idResponse
	mustReadJSON(t, w, &a)

	// end before start
	w2, _ := doRequest(router, request{method: http.MethodPost, path: base, body: `{"dayOfWeek":2,"startTime":"17:00","endTime":"09:00"}`, token: ownerTok})
	mustStatus(t, w2, http.StatusBadRequest)

	// malformed clock
	w3, _ := doRequest(router, request{method: http.MethodPost, path: base, body: `{"dayOfWeek":2,"startTime":"9am","endTime":"17:00"}`, token: ownerTok})
	mustStatus(t, w3, http.StatusBadRequest)

	w4, _ := doRequest(router, request{method: http.MethodGet, path: base})
	mustStatus(t, w4, http.StatusOK)

	var list struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, w4, &list)
	if list.Count != 1 {
		t.Fatalf("availabilities = %d, want 1", list.Count)
	}

	w5, _ := doRequest(router, request{method: http.MethodPatch, path: base + "/" + a.ID, body: `{"endTime":"18:30"}`, token: ownerTok})
	mustStatus(t, w5, http.StatusOK)

	w6, _ := doRequest(router, request{method: http.MethodDelete, path: base + "/" + a.ID, token: ownerTok})
	mustStatus(t, w6, http.StatusOK)

	w7, _ := doRequest(router, request{method: http.MethodGet, path: base + "/" + a.ID})
	mustStatus(t, w7, http.StatusNotFound)
}

func TestCategoryIntegration_AssignRemove(t *testing.T) {
	router := setupRouter(t)
	providerID, ownerTok := createProvider(t, router, "a@example.com", "Provider A", `{"bio":"Painter"}`)
	painting := categoryID(t, router, "painting")

	path := "/categories/" + painting + "/providers/" + providerID

	// assign twice is idempotent
	for i := 0; i < 2; i++ {
		w, _ := doRequest(router, request{method: http.MethodPost, path: path, token: ownerTok})
		mustStatus(t, w, http.StatusOK)
	}

	w, _ := doRequest(router, request{method: http.MethodGet, path: "/categories/PAINTING/providers"})
	mustStatus(t, w, http.StatusOK)

	var list struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, w, &list)
	if list.Count != 1 {
		t.Fatalf("providers in painting = %d, want 1", list.Count)
	}

	// strangers cannot touch the link
	register(t, router, "b@example.com", "Customer B")
	other := login(t, router, "b@example.com", "password123")
	w2, _ := doRequest(router, request{method: http.MethodDelete, path: path, token: other.AccessToken})
	mustStatus(t, w2, http.StatusForbidden)

	// remove via the POST alias, then again via DELETE
	w3, _ := doRequest(router, request{method: http.MethodPost, path: path + "/remove", token: ownerTok})
	mustStatus(t, w3, http.StatusOK)
	w4, _ := doRequest(router, request{method: http.MethodDelete, path: path, token: ownerTok})
	mustStatus(t, w4, http.StatusOK)

	w5, _ := doRequest(router, request{method: http.MethodGet, path: "/categories/painting/providers"})
	mustReadJSON(t, w5, &list)
	if list.Count != 0 {
		t.Fatalf("providers in painting = %d, want 0", list.Count)
	}

	// unknown category
	w6, _ := doRequest(router, request{method: http.MethodPost, path: "/categories/00000000-0000-0000-0000-000000000000/providers/" + providerID, token: ownerTok})
	mustStatus(t, w6, http.StatusNotFound)
}

func TestCategoryIntegration_AdminCreate(t *testing.T) {
	router := setupRouter(t)

	register(t, router, "b@example.com", "Customer B")
	customer := login(t, router, "b@example.com", "password123")
	admin := login(t, router, adminEmail, adminPassword)

	w, _ := doRequest(router, request{method: http.MethodPost, path: "/categories", body: `{"name":"Gardening","slug":"gardening"}`, token: customer.AccessToken})
	mustStatus(t, w, http.StatusForbidden)

	w2, _ := doRequest(router, request{method: http.MethodPost, path: "/categories", body: `{"name":"Gardening","slug":"gardening"}`, token: admin.AccessToken})
	mustStatus(t, w2, http.StatusCreated)

	// duplicate name and slug
	w3, _ := doRequest(router, request{method: http.MethodPost, path: "/categories", body: `{"name":"Gardening","slug":"Gardening"}`, token: admin.AccessToken})
	mustStatus(t, w3, http.StatusConflict)

	// new category appears in the cached listing
	w4, _ := doRequest(router, request{method: http.MethodGet, path: "/categories"})
	mustStatus(t, w4, http.StatusOK)
	if !strings.Contains(w4.Body.String(), "gardening") {
		t.Fatalf("listing missing new category: %s", w4.Body.String())
	}
}

func TestOpsIntegration_HealthAndMetrics(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/healthz", "/readyz", "/docs", "/docs/openapi.yaml"} {
		w, _ := doRequest(router, request{method: http.MethodGet, path: path})
		mustStatus(t, w, http.StatusOK)
	}

	// generate a request so the counter has a sample
	login(t, router, adminEmail, adminPassword)

	w, _ := doRequest(router, request{method: http.MethodGet, path: "/metrics"})
	mustStatus(t, w, http.StatusOK)
	if !strings.Contains(w.Body.String(), "sewasanjal_http_requests_total") {
		t.Fatalf("metrics missing request counter")
	}
	if !strings.Contains(w.Body.String(), "sewasanjal_auth_login_attempts_total") {
		t.Fatalf("metrics missing login counter")
	}
}

func TestServiceIntegration_BlankTitleRejected(t *testing.T) {
	router := setupRouter(t)

	providerID, tok := createProvider(t, router, "a@example.com", "Provider A", `{"bio":"Cleaner"}`)

	w, _ := doRequest(router, request{method: http.MethodPost, path: "/services", body: `{"title":"    ","price":10,"durationMin":30}`, token: tok})
	mustStatus(t, w, http.StatusBadRequest)

	w2, _ := doRequest(router, request{method: http.MethodGet, path: "/services?providerId=" + providerID})
	mustStatus(t, w2, http.StatusOK)

	var list struct {
		Count int `json:"count"`
	}
	mustReadJSON(t, w2, &list)
	if list.Count != 0 {
		t.Fatalf("services = %d, want 0", list.Count)
	}

	w3, _ := doRequest(router, request{method: http.MethodPost, path: "/auth/register", body: `{"email":"c@example.com","password":"password123","name":"   "}`})
	mustStatus(t, w3, http.StatusBadRequest)
}

func TestServiceIntegration_AdminCannotEditOthersService(t *testing.T) {
	router := setupRouter(t)

	_, tok := createProvider(t, router, "a@example.com", "Provider A", `{"bio":"Cleaner"}`)

	w, _ := doRequest(router, request{method: http.MethodPost, path: "/services", body: `{"title":"Deep clean","price":2000,"durationMin":120}`, token: tok})
	mustStatus(t, w, http.StatusCreated)

	var svc idResponse
	mustReadJSON(t, w, &svc)

	admin := login(t, router, adminEmail, adminPassword)
	w2, _ := doRequest(router, request{method: http.MethodPatch, path: "/services/" + svc.ID, body: `{"price":1}`, token: admin.AccessToken})
	mustStatus(t, w2, http.StatusForbidden)
}
