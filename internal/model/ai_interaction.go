package model

// AIInteraction 记录每一次外部模型调用，用于用量统计和排查
type AIInteraction struct {
	BaseModel
	UserID          uint    `gorm:"index" json:"userId"`
	InteractionType string  `gorm:"size:50" json:"interactionType"` // question_generation 等
	InputText       string  `gorm:"type:text" json:"inputText"`
	OutputText      string  `gorm:"type:mediumtext" json:"outputText"`
	TokensUsed      int     `gorm:"default:0" json:"tokensUsed"`
	ResponseTime    float64 `gorm:"default:0" json:"responseTime"` // 秒
}

func (AIInteraction) TableName() string {
	return "ai_interactions"
}
