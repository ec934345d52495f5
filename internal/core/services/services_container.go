package services

import (
	portsrepo "github.com/taxfolio/self_assessment_app/internal/core/ports/repositories"
	portssvc "github.com/taxfolio/self_assessment_app/internal/core/ports/services"
	"github.com/taxfolio/self_assessment_app/internal/core/tax"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(rates *tax.RateProvider, repos portsrepo.RepositoryProvider, authority portssvc.TaxAuthorityClient, analytics portssvc.AnalyticsSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Liability = NewLiabilityService(rates)

	submissionOpts := []SubmissionOption{}
	if analytics != nil {
		submissionOpts = append(submissionOpts, WithAnalytics(analytics))
	}
	container.Submission = NewSubmissionService(repos.SubmissionSagaRepo, authority, submissionOpts...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LiabilitySvcFacade  = (*liabilityService)(nil)
	_ portssvc.SubmissionSvcFacade = (*submissionService)(nil)
)
