package quiz

import "github.com/abhisek/studymate/internal/grading"

// aiGradeMsg carries a grading result back to the UI loop.
type aiGradeMsg grading.Result
