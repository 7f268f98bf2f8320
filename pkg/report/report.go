package report

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the three-level assessment used by every report section.
type Status string

const (
	StatusGood    Status = "良好"
	StatusNormal  Status = "普通"
	StatusCaution Status = "要注意"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusGood, StatusNormal, StatusCaution:
		return true
	default:
		return false
	}
}

// Section is a single assessed aspect of the cat.
type Section struct {
	Status      Status `json:"status"`
	Description string `json:"description"`
}

// HealthReport is the fixed-shape assessment returned to clients.
type HealthReport struct {
	Coat            Section `json:"coat"`
	Body            Section `json:"body"`
	Overall         Section `json:"overall"`
	Recommendations string  `json:"recommendations"`
}

// ErrInvalidReport is returned when decoded data does not match the report shape.
var ErrInvalidReport = errors.New("invalid health report")

// fields is a decoded JSON object. Lookups are exact, unlike struct
// decoding which folds key case.
type fields map[string]json.RawMessage

func (f fields) decode(key, path string, v any) error {
	raw, ok := f[key]
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrInvalidReport, path)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidReport, path, err)
	}
	return nil
}

// Parse decodes data into a HealthReport and validates it. Keys must match
// the lowercase names exactly.
func Parse(data []byte) (*HealthReport, error) {
	var top fields
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	coat, err := top.section("coat")
	if err != nil {
		return nil, err
	}
	body, err := top.section("body")
	if err != nil {
		return nil, err
	}
	overall, err := top.section("overall")
	if err != nil {
		return nil, err
	}
	var recommendations string
	if err := top.decode("recommendations", "recommendations", &recommendations); err != nil {
		return nil, err
	}

	r := &HealthReport{
		Coat:            coat,
		Body:            body,
		Overall:         overall,
		Recommendations: recommendations,
	}
	return r, nil
}

func (f fields) section(name string) (Section, error) {
	var sf fields
	if err := f.decode(name, name, &sf); err != nil {
		return Section{}, err
	}
	if sf == nil {
		return Section{}, fmt.Errorf("%w: missing %s", ErrInvalidReport, name)
	}

	var s Section
	if err := sf.decode("status", name+".status", &s.Status); err != nil {
		return Section{}, err
	}
	if !s.Status.Valid() {
		return Section{}, fmt.Errorf("%w: %s.status %q is not one of 良好/普通/要注意", ErrInvalidReport, name, s.Status)
	}
	if err := sf.decode("description", name+".description", &s.Description); err != nil {
		return Section{}, err
	}
	return s, nil
}

// Validate checks that every status is enumerated.
func (r *HealthReport) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil report", ErrInvalidReport)
	}
	for name, s := range map[string]Section{"coat": r.Coat, "body": r.Body, "overall": r.Overall} {
		if !s.Status.Valid() {
			return fmt.Errorf("%w: %s.status %q is not one of 良好/普通/要注意", ErrInvalidReport, name, s.Status)
		}
	}
	return nil
}

// Fallback returns the default report substituted when model output cannot be parsed.
func Fallback() *HealthReport {
	return &HealthReport{
		Coat: Section{
			Status:      StatusNormal,
			Description: "画像から毛並みの状態を判断しました",
		},
		Body: Section{
			Status:      StatusNormal,
			Description: "画像から体型を判断しました",
		},
		Overall: Section{
			Status:      StatusNormal,
			Description: "全体的に健康そうに見えます",
		},
		Recommendations: "定期的な健康チェックをお勧めします",
	}
}
