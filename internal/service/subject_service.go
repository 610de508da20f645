package service

import (
	"smart_edu_backend/internal/model"
	"smart_edu_backend/internal/repository"
)

type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Credits     int    `json:"credits"`
	Description string `json:"description"`
}

type SubjectService struct {
	subjectRepo *repository.SubjectRepository
}

func NewSubjectService(subjectRepo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo}
}

func (s *SubjectService) Create(req CreateSubjectRequest, teacherID uint) (*model.Subject, error) {
	subject := &model.Subject{
		Name:        req.Name,
		Code:        req.Code,
		TeacherID:   teacherID,
		Credits:     req.Credits,
		Description: req.Description,
	}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, err
	}
	return subject, nil
}

func (s *SubjectService) GetByID(id uint) (*model.Subject, error) {
	return s.subjectRepo.GetByID(id)
}

func (s *SubjectService) List() ([]model.Subject, error) {
	return s.subjectRepo.List()
}

func (s *SubjectService) Delete(id uint) error {
	return s.subjectRepo.Delete(id)
}
