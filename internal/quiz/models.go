package quiz

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ProtectedUsername is the account that can never be removed.
const ProtectedUsername = "admin"

type User struct {
	ID       string `json:"id"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"` // plaintext, compared as-is
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role"` // admin|user
	Position string `json:"position,omitempty"`
	Language string `json:"language,omitempty"`
}

type Question struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correctOption"` // A..F, positional
}

type QuestionSet struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	Category    string     `json:"category" validate:"required"`
	TimeLimit   int        `json:"timeLimit" validate:"required"` // minutes
	IsLive      bool       `json:"isLive"`
	Questions   []Question `json:"questions"`

	CreatedAt int64 `json:"createdAt,omitempty"`
}

type QuizResult struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	ExamID         string `json:"examId"`
	ExamTitle      string `json:"examTitle"`
	TotalQuestions int    `json:"totalQuestions"`
	CorrectAnswers int    `json:"correctAnswers"`
	Timestamp      int64  `json:"timestamp"` // epoch ms
}
