package question

import "github.com/victornm/quizboard/internal/domain"

// Default returns the built-in React quiz, used when no question file is configured.
func Default() *Bank {
	b, err := New([]domain.Question{
		{
			QuestionID:   "q1",
			QuestionText: "Which hook adds local state to a function component?",
			Options: []domain.Option{
				{OptionID: "a", OptionText: "useEffect"},
				{OptionID: "b", OptionText: "useState"},
				{OptionID: "c", OptionText: "useContext"},
				{OptionID: "d", OptionText: "useRef"},
			},
			CorrectOptionID: "b",
		},
		{
			QuestionID:   "q2",
			QuestionText: "What does JSX compile to?",
			Options: []domain.Option{
				{OptionID: "a", OptionText: "HTML strings"},
				{OptionID: "b", OptionText: "Template literals"},
				{OptionID: "c", OptionText: "React.createElement calls"},
				{OptionID: "d", OptionText: "Web components"},
			},
			CorrectOptionID: "c",
		},
		{
			QuestionID:   "q3",
			QuestionText: "Which prop helps React identify list items between renders?",
			Options: []domain.Option{
				{OptionID: "a", OptionText: "id"},
				{OptionID: "b", OptionText: "ref"},
				{OptionID: "c", OptionText: "key"},
				{OptionID: "d", OptionText: "index"},
			},
			CorrectOptionID: "c",
		},
		{
			QuestionID:   "q4",
			QuestionText: "Which hook runs side effects after render?",
			Options: []domain.Option{
				{OptionID: "a", OptionText: "useEffect"},
				{OptionID: "b", OptionText: "useMemo"},
				{OptionID: "c", OptionText: "useReducer"},
				{OptionID: "d", OptionText: "useId"},
			},
			CorrectOptionID: "a",
		},
		{
			QuestionID:   "q5",
			QuestionText: "Which API shares a value with deeply nested components without prop drilling?",
			Options: []domain.Option{
				{OptionID: "a", OptionText: "Portals"},
				{OptionID: "b", OptionText: "Context"},
				{OptionID: "c", OptionText: "Suspense"},
				{OptionID: "d", OptionText: "Fragments"},
			},
			CorrectOptionID: "b",
		},
	})
	if err != nil {
		panic(err)
	}

	return b
}
