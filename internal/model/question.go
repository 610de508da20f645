package model

import "encoding/json"

type QuestionType string

const (
	MCQ       QuestionType = "mcq"
	Short     QuestionType = "short"
	Long      QuestionType = "long"
	TrueFalse QuestionType = "true_false"
	// MixedType 仅作为生成请求的通配，题库记录不会持久化该值
	MixedType QuestionType = "mixed"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	// MixedDifficulty 仅作为生成请求的通配
	MixedDifficulty Difficulty = "mixed"
)

type QuestionSource string

const (
	SourceHuman QuestionSource = "human"
	SourceAI    QuestionSource = "ai"
)

type BloomLevel string

const (
	BloomRemember   BloomLevel = "remember"
	BloomUnderstand BloomLevel = "understand"
	BloomApply      BloomLevel = "apply"
	BloomAnalyze    BloomLevel = "analyze"
	BloomEvaluate   BloomLevel = "evaluate"
	BloomCreate     BloomLevel = "create"
)

// Question 题库记录，创建后不再修改；订正以新记录落库，保留来源历史
// swagger:model Question
type Question struct {
	BaseModel
	SubjectID     uint            `gorm:"index;not null" json:"subjectId"`
	Content       string          `gorm:"type:text;not null" json:"content"`
	QuestionType  QuestionType    `gorm:"type:enum('mcq','short','long','true_false');not null" json:"questionType"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"` // 仅 mcq/true_false 存在
	CorrectAnswer string          `gorm:"type:text;not null" json:"correctAnswer"`
	Explanation   string          `gorm:"type:text" json:"explanation"`
	Difficulty    Difficulty      `gorm:"type:enum('easy','medium','hard');default:'medium'" json:"difficulty"`
	Chapter       string          `gorm:"size:150" json:"chapter"`
	Topic         string          `gorm:"size:150" json:"topic"`
	BloomLevel    BloomLevel      `gorm:"type:enum('remember','understand','apply','analyze','evaluate','create');default:'understand'" json:"bloomLevel"`
	EstimatedTime int             `gorm:"default:5" json:"estimatedTime"` // 分钟
	Source        QuestionSource  `gorm:"type:enum('human','ai');default:'human';index" json:"source"`
	CreatedBy     uint            `gorm:"index" json:"createdBy"`
}

func (Question) TableName() string {
	return "question_bank"
}

// OptionList 解析 Options 列
func (q *Question) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}
