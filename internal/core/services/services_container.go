package services

import (
	portsrepo "github.com/vbfontes/fin_crm_app/internal/core/ports/repositories"
	portssvc "github.com/vbfontes/fin_crm_app/internal/core/ports/services"
	"github.com/vbfontes/fin_crm_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Organization service first since other services depend on its authorizer
	container.Organization = NewOrganizationService(repos.OrganizationRepo)
	organizationAuthorizer := container.Organization.(portssvc.OrganizationAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)
	container.Category = NewCategoryService(repos.CategoryRepo,
		WithCategoryOrganizationAuthorizer(organizationAuthorizer))
	container.Record = NewRecordService(repos.RecordRepo, repos.CategoryRepo,
		WithRecordOrganizationAuthorizer(organizationAuthorizer))
	container.Reporting = NewReportingService(repos.ReportingRepo,
		WithReportingOrganizationAuthorizer(organizationAuthorizer))

	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)
	container.APIToken = NewAPITokenService(repos.APITokenRepo, container.User)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.OrganizationSvcFacade = (*organizationService)(nil)
	_ portssvc.CategorySvcFacade     = (*categoryService)(nil)
	_ portssvc.RecordSvcFacade       = (*recordService)(nil)
)
