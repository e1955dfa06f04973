package quiz

// Grade scores answers (question ID -> chosen label) against set and returns
// the result record for userID. Unanswered questions count as wrong.
func Grade(set QuestionSet, userID string, answers map[string]string) QuizResult {
	correct := 0
	for _, q := range set.Questions {
		if a, ok := answers[q.ID]; ok && a != "" && a == q.CorrectOption {
			correct++
		}
	}
	return QuizResult{
		ID:             NewID(),
		UserID:         userID,
		ExamID:         set.ID,
		ExamTitle:      set.Title,
		TotalQuestions: len(set.Questions),
		CorrectAnswers: correct,
		Timestamp:      Now().UnixMilli(),
	}
}
