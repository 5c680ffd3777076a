package service

import (
	"context"

	"github.com/casetrack/casetrack/internal/model"
	"github.com/casetrack/casetrack/internal/repository"
)

// CatalogService lists the reference data users and cases point at.
type CatalogService struct {
	roles        repository.LookupRepository
	caseTypes    repository.LookupRepository
	caseStatuses repository.LookupRepository
}

func NewCatalogService(roles, caseTypes, caseStatuses repository.LookupRepository) *CatalogService {
	return &CatalogService{roles: roles, caseTypes: caseTypes, caseStatuses: caseStatuses}
}

func (s *CatalogService) Roles(ctx context.Context) ([]model.Role, error) {
	return s.roles.List(ctx)
}

func (s *CatalogService) CaseTypes(ctx context.Context) ([]model.CaseType, error) {
	return s.caseTypes.List(ctx)
}

func (s *CatalogService) CaseStatuses(ctx context.Context) ([]model.CaseStatus, error) {
	return s.caseStatuses.List(ctx)
}
