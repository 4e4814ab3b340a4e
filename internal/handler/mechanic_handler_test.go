package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/takumi/carte/internal/model"
)

type mockMechanicService struct {
	listFn func(ctx context.Context) ([]*model.Mechanic, error)
}

func (m *mockMechanicService) List(ctx context.Context) ([]*model.Mechanic, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func TestListMechanics_ReturnsDirectory(t *testing.T) {
	svc := &mockMechanicService{
		listFn: func(ctx context.Context) ([]*model.Mechanic, error) {
			return []*model.Mechanic{
				{ID: "m-1", Name: "Jane Smith", Location: "City Center", Specialty: "Transmission Repairs"},
				{ID: "m-2", Name: "John Doe", Location: "Downtown", Specialty: "Engine Repairs"},
			}, nil
		},
	}
	h := NewMechanicHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/mechanics", nil)
	w := httptest.NewRecorder()

	h.ListMechanics(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body []mechanicResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("got %d mechanics, want 2", len(body))
	}
	if body[0].Name != "Jane Smith" || body[0].Specialty != "Transmission Repairs" {
		t.Errorf("unexpected first entry: %+v", body[0])
	}
}

func TestListMechanics_EmptyDirectory_ReturnsEmptyArray(t *testing.T) {
	h := NewMechanicHandler(&mockMechanicService{})

	req := httptest.NewRequest(http.MethodGet, "/mechanics", nil)
	w := httptest.NewRecorder()

	h.ListMechanics(w, req)

	// nilスライスではなく空配列としてシリアライズされること
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want %q", got, "[]\n")
	}
}

func TestListMechanics_ServiceFailure_Returns500(t *testing.T) {
	svc := &mockMechanicService{
		listFn: func(ctx context.Context) ([]*model.Mechanic, error) {
			return nil, errors.New("query failed")
		},
	}
	h := NewMechanicHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/mechanics", nil)
	w := httptest.NewRecorder()

	h.ListMechanics(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}
