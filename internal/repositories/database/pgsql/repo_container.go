package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/taxfolio/self_assessment_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	sagaRepo := newPgxSubmissionSagaRepository(dbPool)

	return portsrepo.RepositoryProvider{
		SubmissionSagaRepo: sagaRepo,
	}
}
