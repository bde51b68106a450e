package productservice

import (
	"context"
	"errors"

	"gocatalog/internal/domain"
	apperror "gocatalog/internal/errors"
)

// Seed cria os produtos informados. IDs já existentes são ignorados, o que
// permite executar a carga inicial mais de uma vez. Retorna quantos foram criados.
func (s *Service) Seed(ctx context.Context, inputs []domain.ProductInput) (int, error) {
	created := 0
	for _, in := range inputs {
		_, err := s.CreateProduct(ctx, in)
		var conflict *apperror.ConflictError
		switch {
		case err == nil:
			created++
		case errors.As(err, &conflict):
			s.logger.Info("Produto já existe; ignorado.", map[string]interface{}{"product_id": in.ID})
		default:
			return created, err
		}
	}
	return created, nil
}
