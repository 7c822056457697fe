package dto

// QuestionImportDocument is the bulk import format. encoding/json matches the
// field names case-insensitively, which is part of the import contract.
type QuestionImportDocument struct {
	Questions []QuestionImport `json:"questions"`
}

type QuestionImport struct {
	QuestionText string         `json:"questionText"`
	ImageBase64  *string        `json:"imageBase64"`
	ImageURL     *string        `json:"imageUrl"`
	Explanation  *string        `json:"explanation"`
	Answers      []AnswerImport `json:"answers"`
}

type AnswerImport struct {
	AnswerText  string  `json:"answerText"`
	IsCorrect   bool    `json:"isCorrect"`
	Explanation *string `json:"explanation"`
}
