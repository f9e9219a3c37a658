package trail

import (
	"strings"

	"gorm.io/gorm"
)

// Form is a graded questionnaire attached to a FORM trail item
type Form struct {
	gorm.Model
	TrailItemID    uint    `json:"trail_item_id" gorm:"uniqueIndex;not null"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	MinScoreToPass float64 `json:"min_score_to_pass" gorm:"default:0"`
	// Legacy boolean/S-N duality, resolved by Randomize()
	RandomizeQuestions   *bool          `json:"randomize_questions"`
	RandomizeQuestionsYN *string        `json:"-" gorm:"column:randomize_questions_yn;size:1"`
	Questions            []FormQuestion `json:"questions" gorm:"foreignKey:FormID"`
}

// Randomize resolves the randomize flag duality; nil means unspecified.
func (f *Form) Randomize() *bool {
	if f.RandomizeQuestions != nil {
		return f.RandomizeQuestions
	}
	if f.RandomizeQuestionsYN != nil {
		v := strings.ToUpper(*f.RandomizeQuestionsYN) == "S"
		return &v
	}
	return nil
}

// FormQuestion is a single question of a form
type FormQuestion struct {
	gorm.Model
	FormID     uint                 `json:"form_id" gorm:"index;not null"`
	Prompt     string               `json:"prompt"`
	Kind       QuestionKind         `json:"kind"` // ESSAY, TRUE_OR_FALSE, SINGLE_CHOICE
	OrderIndex int                  `json:"order_index" gorm:"default:0"`
	Points     float64              `json:"points" gorm:"default:0"`
	Required   *bool                `json:"required"`
	RequiredYN *string              `json:"-" gorm:"column:required_yn;size:1"`
	Options    []FormQuestionOption `json:"options" gorm:"foreignKey:QuestionID"`
}

// IsRequired resolves the required flag duality at the data boundary
func (q *FormQuestion) IsRequired() bool {
	if q.Required != nil {
		return *q.Required
	}
	if q.RequiredYN != nil {
		return strings.ToUpper(*q.RequiredYN) == "Y"
	}
	return false
}

// FormQuestionOption is a selectable option of an objective question
type FormQuestionOption struct {
	gorm.Model
	QuestionID  uint    `json:"question_id" gorm:"index;not null"`
	OptionText  string  `json:"option_text"`
	OrderIndex  int     `json:"order_index" gorm:"default:0"`
	IsCorrect   *bool   `json:"-"`
	IsCorrectYN *string `json:"-" gorm:"column:is_correct_yn;size:1"`
}

// MarkedCorrect resolves the correctness duality; nil columns mean unknown,
// which grades as incorrect.
func (o *FormQuestionOption) MarkedCorrect() bool {
	if o.IsCorrect != nil {
		return *o.IsCorrect
	}
	if o.IsCorrectYN != nil {
		return strings.ToUpper(*o.IsCorrectYN) == "Y"
	}
	return false
}
