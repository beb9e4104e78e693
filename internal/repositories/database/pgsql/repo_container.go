package pgsql

import (
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	organizationRepo := newPgxOrganizationRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	recordRepo := newPgxRecordRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)
	apiTokenRepo := newPgxAPITokenRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         userRepo,
		OrganizationRepo: organizationRepo,
		CategoryRepo:     categoryRepo,
		RecordRepo:       recordRepo,
		ReportingRepo:    reportingRepo,
		APITokenRepo:     apiTokenRepo,
	}
}
