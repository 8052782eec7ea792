package model

// ScoreSheet 维度 -> 得分，未提取到的维度不出现
type ScoreSheet map[string]int

func (s ScoreSheet) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// Round 一轮批改的快照
type Round struct {
	Round           int        `json:"round"`
	Essay           string     `json:"essay"`
	Feedback        string     `json:"feedback"`
	Scores          ScoreSheet `json:"scores"`
	Total           int        `json:"total"`
	ScoresExtracted bool       `json:"scoresExtracted"`
}

type ReviewOutcome string

const (
	OutcomeReached   ReviewOutcome = "reached"
	OutcomeExhausted ReviewOutcome = "exhausted"
)

// EssayReview 一次作文批改的完整记录
// swagger:model EssayReview
type EssayReview struct {
	BaseModel
	SessionID   string        `gorm:"size:64;index" json:"sessionId"`
	Original    string        `gorm:"type:text;not null" json:"original"`
	TargetScore int           `json:"targetScore"`
	MaxRounds   int           `json:"maxRounds"`
	FinalTotal  int           `json:"finalTotal"`
	Outcome     ReviewOutcome `gorm:"size:16" json:"outcome"`
	Rounds      []Round       `gorm:"serializer:json;type:text" json:"rounds"`
}

func (EssayReview) TableName() string {
	return "essay_reviews"
}
