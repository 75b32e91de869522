package services

import (
	"context"

	"github.com/google/uuid"

	"backoffice/internal/models/db_models"
	"backoffice/internal/models/request_models"
	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

type EmailTemplateServiceInterface interface {
	ListTemplates(ctx context.Context) ([]db_models.EmailTemplate, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*db_models.EmailTemplate, error)
	CreateTemplate(ctx context.Context, req request_models.EmailTemplateRequest) (*db_models.EmailTemplate, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, req request_models.EmailTemplateRequest) (*db_models.EmailTemplate, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}

type EmailTemplateService struct {
	templateRepo repositories.EmailTemplateRepository
}

func NewEmailTemplateService(templateRepo repositories.EmailTemplateRepository) EmailTemplateServiceInterface {
	return &EmailTemplateService{templateRepo: templateRepo}
}

func (s *EmailTemplateService) ListTemplates(ctx context.Context) ([]db_models.EmailTemplate, error) {
	templates, err := s.templateRepo.List(ctx)
	if err != nil {
		return nil, dbError(err)
	}
	return templates, nil
}

func (s *EmailTemplateService) GetTemplate(ctx context.Context, id uuid.UUID) (*db_models.EmailTemplate, error) {
	tpl, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err)
	}
	if tpl == nil {
		return nil, utils.ErrTemplateNotFound
	}
	return tpl, nil
}

func (s *EmailTemplateService) CreateTemplate(ctx context.Context, req request_models.EmailTemplateRequest) (*db_models.EmailTemplate, error) {
	tpl := &db_models.EmailTemplate{Name: req.Name, Subject: req.Subject, Content: req.Content}
	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrTemplateExists
		}
		return nil, dbError(err)
	}
	return tpl, nil
}

func (s *EmailTemplateService) UpdateTemplate(ctx context.Context, id uuid.UUID, req request_models.EmailTemplateRequest) (*db_models.EmailTemplate, error) {
	tpl, err := s.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	tpl.Name = req.Name
	tpl.Subject = req.Subject
	tpl.Content = req.Content
	if err := s.templateRepo.Save(ctx, tpl); err != nil {
		if isDuplicate(err) {
			return nil, utils.ErrTemplateExists
		}
		return nil, dbError(err)
	}
	return tpl, nil
}

func (s *EmailTemplateService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTemplate(ctx, id); err != nil {
		return err
	}
	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return dbError(err)
	}
	return nil
}
