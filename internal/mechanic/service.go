// Package mechanic は整備士ディレクトリの照会を提供する。
package mechanic

import (
	"context"
	"fmt"

	"github.com/takumi/carte/internal/model"
	"github.com/takumi/carte/internal/repository"
)

// Service は整備士ディレクトリのサービス層。
// ディレクトリは静的なシードデータで、認証なしで公開される。
type Service struct {
	mechanicRepo repository.MechanicRepository
}

// NewService はServiceを生成する。
func NewService(mechanicRepo repository.MechanicRepository) *Service {
	return &Service{mechanicRepo: mechanicRepo}
}

// List は全整備士を名前順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Mechanic, error) {
	mechanics, err := s.mechanicRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mechanics: %w", err)
	}
	return mechanics, nil
}
