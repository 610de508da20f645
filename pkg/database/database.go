package database

import (
	"encoding/json"
	"fmt"
	"log"

	"smart_edu_backend/internal/config"
	"smart_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Subject{},
		&model.Question{},
		&model.AIInteraction{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDefaults(db)

	return db, nil
}

// seedDefaults 首次启动时插入示例科目和少量人工题目，方便本地联调
func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.Subject{}).Count(&count)
	if count == 0 {
		defaultSubjects := []model.Subject{
			{Name: "Theory of Computation", Code: "BCD503", Credits: 4, Description: "Automata, grammars and computability"},
			{Name: "Computer Networks", Code: "BCD502", Credits: 3, Description: "Protocol stacks, routing and transport"},
			{Name: "Data Structures", Code: "BESK508", Credits: 4, Description: "Arrays, linked lists, trees and algorithms"},
		}
		for _, s := range defaultSubjects {
			db.Create(&s)
		}
	}

	var qCount int64
	db.Model(&model.Question{}).Count(&qCount)
	if qCount == 0 {
		opts, _ := json.Marshal([]string{"x² + x + C", "2x² + x + C", "x² + 2x + C", "2x² + 2x + C"})
		tfOpts, _ := json.Marshal([]string{"True", "False"})
		defaultQuestions := []model.Question{
			{
				SubjectID:     1,
				Content:       "What is the integral of ∫(2x + 1)dx?",
				QuestionType:  model.MCQ,
				Options:       opts,
				CorrectAnswer: "x² + x + C",
				Difficulty:    model.Easy,
				Chapter:       "Calculus",
				Topic:         "Integration",
				BloomLevel:    model.BloomRemember,
				EstimatedTime: 5,
				Source:        model.SourceHuman,
			},
			{
				SubjectID:     3,
				Content:       "Binary search requires the input slice to be sorted.",
				QuestionType:  model.TrueFalse,
				Options:       tfOpts,
				CorrectAnswer: "True",
				Difficulty:    model.Easy,
				Chapter:       "Searching",
				Topic:         "Binary Search",
				BloomLevel:    model.BloomUnderstand,
				EstimatedTime: 2,
				Source:        model.SourceHuman,
			},
			{
				SubjectID:     3,
				Content:       "Describe how a binary search algorithm works and analyse its complexity.",
				QuestionType:  model.Long,
				CorrectAnswer: "Binary search divides the array in half repeatedly; O(log n) comparisons.",
				Difficulty:    model.Hard,
				Chapter:       "Searching",
				Topic:         "Binary Search",
				BloomLevel:    model.BloomCreate,
				EstimatedTime: 25,
				Source:        model.SourceHuman,
			},
		}
		for _, q := range defaultQuestions {
			db.Create(&q)
		}
	}
}
