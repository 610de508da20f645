package repository

import (
	"database/sql"

	"smart_edu_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionFilter 题库查询条件，零值字段不参与过滤
type QuestionFilter struct {
	SubjectID    uint
	QuestionType model.QuestionType
	Difficulty   model.Difficulty
	Source       model.QuestionSource
	Chapter      string
}

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) GetByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) applyFilter(filter QuestionFilter) *gorm.DB {
	query := r.DB.Model(&model.Question{})
	if filter.SubjectID != 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.QuestionType != "" {
		query = query.Where("question_type = ?", filter.QuestionType)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Chapter != "" {
		query = query.Where("chapter = ?", filter.Chapter)
	}
	return query
}

func (r *QuestionRepository) List(filter QuestionFilter, page, pageSize int) ([]model.Question, int64, error) {
	var total int64
	query := r.applyFilter(filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []model.Question
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) Count(filter QuestionFilter) (int64, error) {
	var total int64
	err := r.applyFilter(filter).Count(&total).Error
	return total, err
}

// Sample 随机抽取至多 limit 道满足条件的题目
func (r *QuestionRepository) Sample(filter QuestionFilter, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.applyFilter(filter).Order("RAND()").Limit(limit).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// QuestionCursor 按创建时间倒序逐行遍历题库，不可重置
type QuestionCursor struct {
	rows    *sql.Rows
	db      *gorm.DB
	current model.Question
	err     error
}

// Fetch 打开一个惰性游标，调用方必须 Close
func (r *QuestionRepository) Fetch(filter QuestionFilter) (*QuestionCursor, error) {
	query := r.applyFilter(filter).Order("created_at DESC")
	rows, err := query.Rows()
	if err != nil {
		return nil, err
	}
	return &QuestionCursor{rows: rows, db: r.DB}, nil
}

func (c *QuestionCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}
	var question model.Question
	if err := c.db.ScanRows(c.rows, &question); err != nil {
		c.err = err
		return false
	}
	c.current = question
	return true
}

func (c *QuestionCursor) Question() model.Question {
	return c.current
}

func (c *QuestionCursor) Err() error {
	return c.err
}

func (c *QuestionCursor) Close() error {
	return c.rows.Close()
}
