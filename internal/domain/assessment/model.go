package assessment

import (
	"time"

	"github.com/google/uuid"

	"github.com/healthd/healthd/internal/domain/engine"
)

// DatetimeLayout is the wire and storage form of a record timestamp.
const DatetimeLayout = "2006-01-02 15:04"

// Record is one completed assessment as it is persisted: the raw inputs,
// the derived BMI and the classification outcome. Immutable after creation.
type Record struct {
	ID       uuid.UUID     `json:"id"`
	UserID   uuid.UUID     `json:"user_id"`
	Datetime string        `json:"datetime"`
	Gender   engine.Gender `json:"gender"`
	Age      int           `json:"age"`
	Height   float64       `json:"height"`
	Weight   float64       `json:"weight"`
	BMI      float64       `json:"bmi"`
	Status   string        `json:"status"`
	Color    string        `json:"color"`
	BGColor  string        `json:"bg_color"`
	Advice   string        `json:"advice"`

	// CreatedAt orders records within a user's history. It is not part
	// of the record serialization; Datetime is the display form.
	CreatedAt time.Time `json:"-"`
}

// Assessment is the full API response for one run: the persisted record
// plus the derived outputs that are returned but not stored.
type Assessment struct {
	Record         *Record                   `json:"record"`
	StandardWeight float64                   `json:"standard_weight"`
	Warnings       []string                  `json:"warnings,omitempty"`
	Risks          engine.RiskProfile        `json:"risks"`
	RiskLevels     map[engine.Disease]string `json:"risk_levels"`
	Advice         engine.AdviceSet          `json:"advice"`
}
