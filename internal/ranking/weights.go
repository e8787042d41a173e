package ranking

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Weights are the tunable constants of the scoring formulas. Point values are added per
// counted item and each component is capped separately.
type Weights struct {
	BaseScore        int `mapstructure:"base_score" json:"base_score" validate:"gte=0,lte=100"`
	SkillPoints      int `mapstructure:"skill_points" json:"skill_points" validate:"gte=0"`
	SkillCap         int `mapstructure:"skill_cap" json:"skill_cap" validate:"gte=0"`
	ExperiencePoints int `mapstructure:"experience_points" json:"experience_points" validate:"gte=0"`
	ExperienceCap    int `mapstructure:"experience_cap" json:"experience_cap" validate:"gte=0"`
	EducationPoints  int `mapstructure:"education_points" json:"education_points" validate:"gte=0"`
	EducationCap     int `mapstructure:"education_cap" json:"education_cap" validate:"gte=0"`
	ProjectPoints    int `mapstructure:"project_points" json:"project_points" validate:"gte=0"`
	ProjectCap       int `mapstructure:"project_cap" json:"project_cap" validate:"gte=0"`
	FitJitter        int `mapstructure:"fit_jitter" json:"fit_jitter" validate:"gte=0"`

	MomentumBase          int `mapstructure:"momentum_base" json:"momentum_base" validate:"gte=0"`
	MomentumSkillDivisor  int `mapstructure:"momentum_skill_divisor" json:"momentum_skill_divisor" validate:"gte=1"`
	MomentumProjectPoints int `mapstructure:"momentum_project_points" json:"momentum_project_points" validate:"gte=0"`
	MomentumJitter        int `mapstructure:"momentum_jitter" json:"momentum_jitter" validate:"gte=0"`
	MomentumMax           int `mapstructure:"momentum_max" json:"momentum_max" validate:"gte=0"`

	RequiredSkillPoints  int `mapstructure:"required_skill_points" json:"required_skill_points" validate:"gte=0"`
	PreferredSkillPoints int `mapstructure:"preferred_skill_points" json:"preferred_skill_points" validate:"gte=0"`
	RoleJitter           int `mapstructure:"role_jitter" json:"role_jitter" validate:"gte=0"`
	RoleMatchCap         int `mapstructure:"role_match_cap" json:"role_match_cap" validate:"gte=0,lte=100"`
	MaxRoleMatches       int `mapstructure:"max_role_matches" json:"max_role_matches" validate:"gte=1"`

	HighAlignment   int `mapstructure:"high_alignment" json:"high_alignment" validate:"gte=0,lte=100"`
	MediumAlignment int `mapstructure:"medium_alignment" json:"medium_alignment" validate:"gte=0,ltefield=HighAlignment"`
}

// DefaultWeights returns the published scoring constants.
func DefaultWeights() Weights {
	return Weights{
		BaseScore:        50,
		SkillPoints:      2,
		SkillCap:         30,
		ExperiencePoints: 3,
		ExperienceCap:    15,
		EducationPoints:  5,
		EducationCap:     10,
		ProjectPoints:    2,
		ProjectCap:       10,
		FitJitter:        5,

		MomentumBase:          5,
		MomentumSkillDivisor:  3,
		MomentumProjectPoints: 2,
		MomentumJitter:        3,
		MomentumMax:           25,

		RequiredSkillPoints:  5,
		PreferredSkillPoints: 2,
		RoleJitter:           3,
		RoleMatchCap:         95,
		MaxRoleMatches:       3,

		HighAlignment:   80,
		MediumAlignment: 60,
	}
}

// Validate checks the weights for values that would break the scoring bounds.
func (w Weights) Validate() error {
	if err := validator.New().Struct(w); err != nil {
		return fmt.Errorf("invalid scoring weights: %w", err)
	}
	return nil
}
