package question

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/victornm/quizboard/internal/domain"
)

// Bank is a validated, ordered question dataset.
type Bank struct {
	questions []domain.Question
}

type fileQuestion struct {
	ID      string       `yaml:"id"`
	Text    string       `yaml:"text"`
	Options []fileOption `yaml:"options"`
	Correct string       `yaml:"correct"`
}

type fileOption struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

type file struct {
	Questions []fileQuestion `yaml:"questions"`
}

// Load reads a YAML question file.
func Load(path string) (*Bank, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("question: read %s: %w", path, err)
	}

	return Parse(b)
}

// Parse decodes and validates a YAML question document.
func Parse(b []byte) (*Bank, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("question: decode: %w", err)
	}

	qs := make([]domain.Question, 0, len(f.Questions))
	for _, fq := range f.Questions {
		q := domain.Question{
			QuestionID:      fq.ID,
			QuestionText:    fq.Text,
			CorrectOptionID: fq.Correct,
			Options:         make([]domain.Option, 0, len(fq.Options)),
		}
		for _, o := range fq.Options {
			q.Options = append(q.Options, domain.Option{OptionID: o.ID, OptionText: o.Text})
		}
		qs = append(qs, q)
	}

	return New(qs)
}

// New validates questions and returns a bank holding a copy of them.
func New(qs []domain.Question) (*Bank, error) {
	if len(qs) == 0 {
		return nil, fmt.Errorf("question: bank is empty")
	}

	seen := make(map[string]struct{}, len(qs))
	for i, q := range qs {
		if err := validate(q); err != nil {
			return nil, fmt.Errorf("question: #%d: %w", i+1, err)
		}
		if _, ok := seen[q.QuestionID]; ok {
			return nil, fmt.Errorf("question: duplicate id %q", q.QuestionID)
		}
		seen[q.QuestionID] = struct{}{}
	}

	out := make([]domain.Question, len(qs))
	copy(out, qs)
	return &Bank{questions: out}, nil
}

func validate(q domain.Question) error {
	if q.QuestionID == "" {
		return fmt.Errorf("id is required")
	}
	if q.QuestionText == "" {
		return fmt.Errorf("%s: text is required", q.QuestionID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("%s: at least 2 options are required", q.QuestionID)
	}

	ids := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if o.OptionID == "" {
			return fmt.Errorf("%s: option id is required", q.QuestionID)
		}
		if _, ok := ids[o.OptionID]; ok {
			return fmt.Errorf("%s: duplicate option id %q", q.QuestionID, o.OptionID)
		}
		ids[o.OptionID] = struct{}{}
	}

	if _, ok := ids[q.CorrectOptionID]; !ok {
		return fmt.Errorf("%s: correct option %q is not one of the options", q.QuestionID, q.CorrectOptionID)
	}

	return nil
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int { return len(b.questions) }

// Order returns the questions for one session. A zero seed keeps bank order,
// any other seed shuffles deterministically. limit <= 0 means all questions.
func (b *Bank) Order(seed int64, limit int) []domain.Question {
	out := make([]domain.Question, len(b.questions))
	copy(out, b.questions)

	if seed != 0 {
		r := rand.New(rand.NewSource(seed))
		for i := len(out) - 1; i > 0; i-- {
			j := r.Intn(i + 1)
			out[i], out[j] = out[j], out[i]
		}
	}

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}

	return out
}
