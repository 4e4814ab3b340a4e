package handler

import (
	"context"
	"net/http"

	"github.com/takumi/carte/internal/model"
)

// MechanicServiceInterface は整備士ディレクトリハンドラーが必要とするサービスインターフェース。
type MechanicServiceInterface interface {
	// List は登録済み整備士の一覧を返す。
	List(ctx context.Context) ([]*model.Mechanic, error)
}

// MechanicHandler は整備士ディレクトリのHTTPハンドラー。
type MechanicHandler struct {
	service MechanicServiceInterface
}

// NewMechanicHandler はMechanicHandlerを生成する。
func NewMechanicHandler(service MechanicServiceInterface) *MechanicHandler {
	return &MechanicHandler{service: service}
}

// mechanicResponse は整備士情報のAPIレスポンス。
type mechanicResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Specialty string `json:"specialty"`
}

// ListMechanics は整備士一覧を返す。認証不要。
// GET /mechanics
func (h *MechanicHandler) ListMechanics(w http.ResponseWriter, r *http.Request) {
	mechanics, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]mechanicResponse, 0, len(mechanics))
	for _, m := range mechanics {
		resp = append(resp, mechanicResponse{
			ID:        m.ID,
			Name:      m.Name,
			Location:  m.Location,
			Specialty: m.Specialty,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}
