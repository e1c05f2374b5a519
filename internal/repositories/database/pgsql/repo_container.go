package pgsql

import (
	portsrepo "github.com/SscSPs/job_closing_service/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		JobClosingRepo: newPgxJobClosingRepository(dbPool),
		ReportingRepo:  newReportingRepository(dbPool),
	}
}
